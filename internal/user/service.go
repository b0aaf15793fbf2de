package user

import (
	"context"
	"errors"

	"restaurant-orders/internal/auth"
)

var (
	ErrInvalidInput   = errors.New("username and password are required")
	ErrBadCredentials = errors.New("wrong password")
)

// Service handles registration and login. Passwords are only ever stored as
// bcrypt hashes and compared through bcrypt's constant-time check.
type Service struct {
	repo   Repository
	secret []byte
}

func NewService(repo Repository, secret []byte) *Service {
	return &Service{repo: repo, secret: secret}
}

// Register creates a customer account. New accounts are always customers;
// admins are provisioned out of band.
func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &User{
		Username:     username,
		PasswordHash: hash,
		Role:         auth.RoleCustomer,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies the credentials and issues a session token carrying the
// user's id and role.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrBadCredentials
	}
	token, err := auth.GenerateToken(s.secret, u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, Role: u.Role}, nil
}
