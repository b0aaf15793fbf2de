package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-orders/internal/dish"
	"restaurant-orders/internal/money"
)

// @Summary      List the dish catalog, most expensive first
// @Tags         dishes
// @Produce      json
// @Success      200 {array} dish.Dish
// @Router       /dishes [get]
func listDishesHandler(repo dish.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		dishes, err := repo.List(c.Request.Context())
		if err != nil {
			log.Printf("[dishes] list failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		if dishes == nil {
			dishes = []dish.Dish{}
		}
		c.JSON(http.StatusOK, dishes)
	}
}

// @Summary      Add a dish
// @Tags         dishes
// @Accept       json
// @Produce      json
// @Param        request body dish.CreateDishRequest true "dish payload"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Router       /dishes [post]
func createDishHandler(repo dish.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dish.CreateDishRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid dish data"})
			return
		}
		price, err := money.Parse(req.Price)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid price"})
			return
		}

		d := &dish.Dish{Name: req.Name, Price: money.Format(price), Stock: req.Stock}
		if err := repo.Create(c.Request.Context(), d); err != nil {
			log.Printf("[dishes] create failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "dish added", "id": d.ID})
	}
}

// @Summary      Update a dish
// @Tags         dishes
// @Accept       json
// @Produce      json
// @Param        dishId path int true "dish id"
// @Param        request body dish.UpdateDishRequest true "fields to update"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /dishes/{dishId} [put]
func updateDishHandler(repo dish.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c.Param("dishId"))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid dish id"})
			return
		}
		var req dish.UpdateDishRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid dish data"})
			return
		}
		if req.Price != "" {
			price, err := money.Parse(req.Price)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid price"})
				return
			}
			req.Price = money.Format(price)
		}
		d := &dish.Dish{ID: id, Name: req.Name, Price: req.Price}
		updateStock := req.Stock != nil
		if updateStock {
			if *req.Stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid stock"})
				return
			}
			d.Stock = *req.Stock
		}

		switch err := repo.Update(c.Request.Context(), d, updateStock); err {
		case nil:
			c.JSON(http.StatusOK, gin.H{"message": "dish updated"})
		case dish.ErrNotFound:
			c.JSON(http.StatusNotFound, gin.H{"message": "dish not found"})
		default:
			log.Printf("[dishes] update failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		}
	}
}

// @Summary      Delete a dish
// @Tags         dishes
// @Produce      json
// @Param        dishId path int true "dish id"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /dishes/{dishId} [delete]
func deleteDishHandler(repo dish.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c.Param("dishId"))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid dish id"})
			return
		}
		deleted, err := repo.Delete(c.Request.Context(), id)
		if err != nil {
			log.Printf("[dishes] delete failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		if !deleted {
			c.JSON(http.StatusNotFound, gin.H{"message": "dish not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "dish deleted"})
	}
}

// recordSaleHandler is the standalone stock/sales adjustment. A request for
// more than the available stock is rejected and leaves the row untouched.
//
// @Summary      Record a sale against a dish
// @Tags         dishes
// @Accept       json
// @Produce      json
// @Param        dishId path int true "dish id"
// @Param        request body dish.RecordSaleRequest true "quantity"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Failure      409 {object} map[string]interface{}
// @Router       /dishes/{dishId}/sales [put]
func recordSaleHandler(repo dish.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c.Param("dishId"))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid dish id"})
			return
		}
		var req dish.RecordSaleRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid quantity"})
			return
		}

		switch err := repo.RecordSale(c.Request.Context(), id, req.Quantity); err {
		case nil:
			c.JSON(http.StatusOK, gin.H{"message": "sale recorded"})
		case dish.ErrNotFound:
			c.JSON(http.StatusNotFound, gin.H{"message": "dish not found"})
		case dish.ErrInsufficientStock:
			c.JSON(http.StatusConflict, gin.H{"message": "insufficient stock"})
		default:
			log.Printf("[dishes] record sale failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		}
	}
}
