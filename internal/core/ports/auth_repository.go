package ports

import (
	"context"

	"github.com/vbforge/product-catalog/internal/core/domain"
)

// UserRepository defines the persistence interface for user accounts.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Count(ctx context.Context) (int64, error)
}

// LoginThrottle limits repeated failed login attempts per username.
type LoginThrottle interface {
	// Allowed reports whether another attempt may proceed for username.
	Allowed(ctx context.Context, username string) (bool, error)
	// RecordFailure notes a failed attempt for username.
	RecordFailure(ctx context.Context, username string) error
	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, username string) error
}
