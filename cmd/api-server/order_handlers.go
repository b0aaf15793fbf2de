package main

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"restaurant-orders/internal/auth"
	"restaurant-orders/internal/httpx"
	"restaurant-orders/internal/money"
	ord "restaurant-orders/internal/order"
)

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil && id > 0
}

// placeOrderHandler creates the order, its detail rows and the stock
// decrement in one repository transaction.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body order.PlaceOrderRequest true "order payload"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Router       /orders [post]
func placeOrderHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := httpx.Principal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
			return
		}

		var req ord.PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil || len(req.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order data"})
			return
		}
		items := make([]ord.Line, 0, len(req.Items))
		for _, it := range req.Items {
			if it.DishID <= 0 || it.Quantity <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order data"})
				return
			}
			items = append(items, ord.Line{DishID: it.DishID, Quantity: it.Quantity})
		}
		declared, err := money.Parse(req.TotalAmount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid total amount"})
			return
		}

		orderID, err := repo.Create(c.Request.Context(), p.UserID, items, declared)
		switch {
		case err == nil:
			c.JSON(http.StatusCreated, gin.H{"message": "order placed", "order_id": orderID})
		case err == ord.ErrDishNotFound:
			c.JSON(http.StatusNotFound, gin.H{"message": "dish not found"})
		case err == ord.ErrInsufficientStock:
			c.JSON(http.StatusConflict, gin.H{"message": "insufficient stock"})
		case err == ord.ErrTotalMismatch:
			c.JSON(http.StatusBadRequest, gin.H{"message": "total amount does not match dish prices"})
		default:
			log.Printf("[orders] create failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "order processing failed, transaction rolled back"})
		}
	}
}

// @Summary      List orders (admins see all, customers their own)
// @Tags         orders
// @Produce      json
// @Success      200 {array} order.Order
// @Router       /orders [get]
func listOrdersHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := httpx.Principal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
			return
		}

		var (
			orders []ord.Order
			err    error
		)
		if p.Role == auth.RoleAdmin {
			orders, err = repo.List(c.Request.Context())
		} else {
			orders, err = repo.ListByUser(c.Request.Context(), p.UserID)
		}
		if err != nil {
			log.Printf("[orders] list failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		// an empty result is a valid response, not a 404
		c.JSON(http.StatusOK, orders)
	}
}

// @Summary      Get one order with its detail rows
// @Tags         orders
// @Produce      json
// @Param        orderId path int true "order id"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /orders/{orderId} [get]
func getOrderHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c.Param("orderId"))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order id"})
			return
		}
		o, details, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
			return
		}
		if details == nil {
			details = []ord.Detail{}
		}
		c.JSON(http.StatusOK, gin.H{
			"id":           o.ID,
			"user_id":      o.UserID,
			"status":       o.Status,
			"total_amount": o.TotalAmount,
			"created_at":   o.CreatedAt,
			"paid_at":      o.PaidAt,
			"details":      details,
		})
	}
}

// deleteOrderHandler cancels an order. Customers may only delete their own;
// admins may delete any.
//
// @Summary      Delete an order and its details
// @Tags         orders
// @Produce      json
// @Param        orderId path int true "order id"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /orders/{orderId} [delete]
func deleteOrderHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := httpx.Principal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
			return
		}
		id, ok := parseID(c.Param("orderId"))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order id"})
			return
		}

		o, _, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
			return
		}
		if p.Role != auth.RoleAdmin && o.UserID != p.UserID {
			c.JSON(http.StatusForbidden, gin.H{"message": "insufficient permissions"})
			return
		}

		switch err := repo.Delete(c.Request.Context(), id); err {
		case nil:
			c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
		case ord.ErrNotFound:
			c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		default:
			log.Printf("[orders] delete failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		}
	}
}

// @Summary      Confirm payment of one order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body order.ConfirmPaymentRequest true "order id"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /orders/confirm-payment [put]
func confirmPaymentHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ord.ConfirmPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.OrderID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order id"})
			return
		}
		switch err := repo.ConfirmPayment(c.Request.Context(), req.OrderID); err {
		case nil:
			c.JSON(http.StatusOK, gin.H{"message": "order marked as paid"})
		case ord.ErrNotFound:
			c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		default:
			log.Printf("[orders] confirm failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		}
	}
}

// @Summary      Confirm payment of several orders, reporting each outcome
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body order.ConfirmPaymentBatchRequest true "order ids"
// @Success      200 {object} map[string]interface{}
// @Router       /orders/confirm-payment/batch [put]
func confirmPaymentBatchHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ord.ConfirmPaymentBatchRequest
		if err := c.ShouldBindJSON(&req); err != nil || len(req.OrderIDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order ids"})
			return
		}
		results, err := repo.ConfirmPaymentBatch(c.Request.Context(), req.OrderIDs)
		if err != nil {
			log.Printf("[orders] batch confirm failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": results})
	}
}

// paymentLinkHandler returns the static QR payment link plus the amount due;
// the customer confirms out of band and an admin stamps the order paid.
//
// @Summary      Get the QR payment link for an order
// @Tags         orders
// @Produce      json
// @Param        orderId path int true "order id"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /orders/{orderId}/payment-link [post]
func paymentLinkHandler(repo ord.Repository, payURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c.Param("orderId"))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order id"})
			return
		}
		o, _, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"pay_url":     payURL,
			"amount":      o.TotalAmount,
			"instruction": "Scan the QR code with Alipay, then return to the page to confirm the payment.",
		})
	}
}

// @Summary      Per-user order summary, computed live
// @Tags         orders
// @Produce      json
// @Success      200 {array} order.Summary
// @Router       /orders/summary [get]
func orderSummaryHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := httpx.Principal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
			return
		}

		var (
			rows []ord.Summary
			err  error
		)
		if p.Role == auth.RoleAdmin {
			rows, err = repo.Summary(c.Request.Context())
		} else {
			rows, err = repo.SummaryByUser(c.Request.Context(), p.UserID)
		}
		if err != nil {
			log.Printf("[orders] summary failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}
