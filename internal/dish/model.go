package dish

import "time"

type Dish struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	// We store price as a string to avoid rounding errors (NUMERIC in Postgres)
	Price     string    `json:"price"`
	Stock     int       `json:"stock"`
	Sales     int       `json:"sales"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateDishRequest payload of creation.
// swagger:model CreateDishRequest
type CreateDishRequest struct {
	Name  string `json:"name"  example:"Mapo Tofu"`
	Price string `json:"price" example:"18.50"`
	Stock int    `json:"stock" example:"30"`
}

// UpdateDishRequest payload of partial update.
// swagger:model UpdateDishRequest
type UpdateDishRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock *int   `json:"stock"`
}

// RecordSaleRequest payload for the standalone stock/sales adjustment.
// swagger:model RecordSaleRequest
type RecordSaleRequest struct {
	Quantity int `json:"quantity" example:"2"`
}
