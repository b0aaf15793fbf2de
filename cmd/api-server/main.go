package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "restaurant-orders/docs"
	"restaurant-orders/internal/auth"
	"restaurant-orders/internal/config"
	"restaurant-orders/internal/database"
	"restaurant-orders/internal/dish"
	"restaurant-orders/internal/httpx"
	"restaurant-orders/internal/order"
	"restaurant-orders/internal/user"
)

// @title           Restaurant Orders API
// @version         1.0
// @description     Dish catalog, order lifecycle and QR payment confirmation.
// @BasePath        /api
func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping postgres: %v", err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	orderRepo := order.NewPGRepo(pool)
	dishRepo := dish.NewPGRepo(pool)
	userSvc := user.NewService(user.NewPGRepo(pool), []byte(cfg.JWTSecret))

	r := newRouter(cfg, orderRepo, dishRepo, userSvc)

	log.Printf("api-server listening on %s", cfg.APIAddr)
	log.Fatal(r.Run(cfg.APIAddr))
}

func newRouter(cfg config.Config, orderRepo order.Repository, dishRepo dish.Repository, userSvc *user.Service) *gin.Engine {
	secret := []byte(cfg.JWTSecret)

	r := gin.New()
	r.Use(httpx.RequestID(), httpx.Logger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.POST("/register", registerHandler(userSvc))
	api.POST("/login", loginHandler(userSvc))

	api.GET("/dishes", listDishesHandler(dishRepo))
	api.POST("/dishes", httpx.Auth(secret, auth.RoleAdmin), createDishHandler(dishRepo))
	api.PUT("/dishes/:dishId", httpx.Auth(secret, auth.RoleAdmin), updateDishHandler(dishRepo))
	api.DELETE("/dishes/:dishId", httpx.Auth(secret, auth.RoleAdmin), deleteDishHandler(dishRepo))
	api.PUT("/dishes/:dishId/sales", httpx.Auth(secret, auth.RoleCustomer), recordSaleHandler(dishRepo))

	api.POST("/orders", httpx.Auth(secret, auth.RoleCustomer), placeOrderHandler(orderRepo))
	api.GET("/orders", httpx.Auth(secret, auth.RoleCustomer, auth.RoleAdmin), listOrdersHandler(orderRepo))
	api.GET("/orders/summary", httpx.Auth(secret, auth.RoleCustomer, auth.RoleAdmin), orderSummaryHandler(orderRepo))
	api.GET("/orders/:orderId", httpx.Auth(secret), getOrderHandler(orderRepo))
	api.DELETE("/orders/:orderId", httpx.Auth(secret, auth.RoleCustomer, auth.RoleAdmin), deleteOrderHandler(orderRepo))
	api.PUT("/orders/confirm-payment", httpx.Auth(secret, auth.RoleAdmin), confirmPaymentHandler(orderRepo))
	api.PUT("/orders/confirm-payment/batch", httpx.Auth(secret, auth.RoleAdmin), confirmPaymentBatchHandler(orderRepo))
	api.POST("/orders/:orderId/payment-link", httpx.Auth(secret), paymentLinkHandler(orderRepo, cfg.PayURL))

	return r
}
