package user

import (
	"time"

	"restaurant-orders/internal/auth"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         auth.Role `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CredentialsRequest payload shared by login and registration.
// swagger:model CredentialsRequest
type CredentialsRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"s3cret"`
}

// LoginResponse carries the session token and the role the UI switches on.
// swagger:model LoginResponse
type LoginResponse struct {
	Token string    `json:"token"`
	Role  auth.Role `json:"role"`
}
