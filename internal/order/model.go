package order

import "time"

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

type Order struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
	// pending | paid
	Status string `json:"status"`
	// NUMERIC -> string
	TotalAmount string     `json:"total_amount"`
	CreatedAt   time.Time  `json:"created_at"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

type Detail struct {
	ID       int64 `json:"id"`
	OrderID  int64 `json:"order_id"`
	DishID   int64 `json:"dish_id"`
	Quantity int   `json:"quantity"`
}

// Summary is one row of the per-user order aggregate, always computed live
// from the orders table so deletions are reflected immediately.
type Summary struct {
	UserID     int64  `json:"user_id"`
	Username   string `json:"username"`
	OrderCount int    `json:"order_count"`
	TotalSpent string `json:"total_spent"`
}

// ConfirmResult reports the outcome of one id in a batch confirmation.
type ConfirmResult struct {
	OrderID   int64 `json:"order_id"`
	Confirmed bool  `json:"confirmed"`
}
