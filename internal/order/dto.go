package order

// PlaceOrderItem is one line of a new order.
// swagger:model PlaceOrderItem
type PlaceOrderItem struct {
	DishID   int64 `json:"dish_id"  example:"1"`
	Quantity int   `json:"quantity" example:"2"`
}

// PlaceOrderRequest payload for order creation. The acting user is taken
// from the bearer token, never from the body.
// swagger:model PlaceOrderRequest
type PlaceOrderRequest struct {
	Items []PlaceOrderItem `json:"order_items"`
	// Declared by the client and re-validated against current dish prices.
	TotalAmount string `json:"total_amount" example:"20.00"`
}

// ConfirmPaymentRequest payload for a single payment confirmation.
// swagger:model ConfirmPaymentRequest
type ConfirmPaymentRequest struct {
	OrderID int64 `json:"order_id" example:"7"`
}

// ConfirmPaymentBatchRequest payload for batch confirmation.
// swagger:model ConfirmPaymentBatchRequest
type ConfirmPaymentBatchRequest struct {
	OrderIDs []int64 `json:"order_ids"`
}
