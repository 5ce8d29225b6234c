package ports

import (
	"context"
	"time"

	"github.com/vbforge/product-catalog/internal/core/domain"
)

// LoginResult carries everything the transport layer needs to answer a
// successful login.
type LoginResult struct {
	Token     string
	Username  string
	Roles     []string
	ExpiresIn time.Duration
}

type AuthService interface {
	// Authenticate verifies a username/password pair and returns the
	// resulting identity. Unknown usernames and wrong passwords fail with
	// the same domain.ErrInvalidCredentials.
	Authenticate(ctx context.Context, username, password string) (domain.Identity, error)
	// Login authenticates and issues a bearer token for the identity.
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// Register creates a new user account with a bcrypt-hashed password.
	Register(ctx context.Context, username, password, email string, roles []string) (*domain.User, error)
}
