package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-orders/internal/user"
)

// @Summary      Register a customer account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body user.CredentialsRequest true "credentials"
// @Success      201 {object} map[string]interface{}
// @Failure      409 {object} map[string]interface{}
// @Router       /register [post]
func registerHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.CredentialsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid credentials payload"})
			return
		}
		_, err := svc.Register(c.Request.Context(), req.Username, req.Password)
		switch err {
		case nil:
			c.JSON(http.StatusCreated, gin.H{"message": "user registered"})
		case user.ErrInvalidInput:
			c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		case user.ErrAlreadyExist:
			c.JSON(http.StatusConflict, gin.H{"message": "username already taken"})
		default:
			log.Printf("[users] register failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		}
	}
}

// @Summary      Log in and receive a bearer token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body user.CredentialsRequest true "credentials"
// @Success      200 {object} user.LoginResponse
// @Failure      401 {object} map[string]interface{}
// @Router       /login [post]
func loginHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.CredentialsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid credentials payload"})
			return
		}
		resp, err := svc.Login(c.Request.Context(), req.Username, req.Password)
		switch err {
		case nil:
			c.JSON(http.StatusOK, resp)
		case user.ErrInvalidInput:
			c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		case user.ErrNotFound:
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		case user.ErrBadCredentials:
			c.JSON(http.StatusUnauthorized, gin.H{"message": "wrong password"})
		default:
			log.Printf("[users] login failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		}
	}
}
