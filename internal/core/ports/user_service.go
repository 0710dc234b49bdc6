package ports

import (
	"context"

	"github.com/mykare/user-registration/internal/core/domain"
)

// RegisterInput carries the fields submitted on registration.
type RegisterInput struct {
	Name     string
	Email    string
	Gender   string
	Password string
}

// ValidationResult is returned after a successful credential check.
type ValidationResult struct {
	Message         string
	Token           string
	ExpirationAfter string
}

// DeleteResult confirms a deleted account.
type DeleteResult struct {
	Email   string
	Message string
}

type UserService interface {
	RegisterUser(ctx context.Context, in RegisterInput) (*domain.User, error)
	ValidateUser(ctx context.Context, email, password string) (*ValidationResult, error)
	ListUsers(ctx context.Context, page, size int) ([]*domain.User, error)
	DeleteUser(ctx context.Context, email string) (*DeleteResult, error)
}
