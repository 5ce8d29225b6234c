package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/vbforge/product-catalog/internal/auth/token"
	"github.com/vbforge/product-catalog/internal/core/domain"
	"github.com/vbforge/product-catalog/internal/core/ports"
)

// AuthService verifies credentials against the user repository and issues
// bearer tokens through the codec. It composes the two deliberately: token
// issuance happens only at login, never during per-request validation.
type AuthService struct {
	repo     ports.UserRepository
	codec    *token.Codec
	throttle ports.LoginThrottle
	logger   zerolog.Logger
}

// NewAuthService wires the service. throttle may be nil, in which case
// failed logins are not rate limited.
func NewAuthService(repo ports.UserRepository, codec *token.Codec, throttle ports.LoginThrottle, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, codec: codec, throttle: throttle, logger: logger}
}

// Authenticate checks the username/password pair. A missing user and a
// wrong password both return domain.ErrInvalidCredentials so the response
// never reveals whether the username exists.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (domain.Identity, error) {
	if username == "" || password == "" {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Identity{}, domain.ErrInvalidCredentials
		}
		return domain.Identity{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	return domain.Identity{Username: user.Username, Roles: user.Roles}, nil
}

// Login authenticates and issues a token for the resulting identity.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if s.throttle != nil && username != "" {
		ok, err := s.throttle.Allowed(ctx, username)
		if err != nil {
			// Redis being down must not lock everyone out.
			s.logger.Warn().Err(err).Msg("login throttle unavailable")
		} else if !ok {
			return nil, domain.ErrTooManyAttempts
		}
	}

	identity, err := s.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) && s.throttle != nil && username != "" {
			if terr := s.throttle.RecordFailure(ctx, username); terr != nil {
				s.logger.Warn().Err(terr).Msg("recording failed login attempt")
			}
		}
		return nil, err
	}

	signed, err := s.codec.Issue(identity)
	if err != nil {
		return nil, err
	}

	if s.throttle != nil {
		if terr := s.throttle.Reset(ctx, username); terr != nil {
			s.logger.Warn().Err(terr).Msg("resetting login throttle")
		}
	}

	s.logger.Info().Str("username", identity.Username).Msg("login successful")

	return &ports.LoginResult{
		Token:     signed,
		Username:  identity.Username,
		Roles:     identity.Roles,
		ExpiresIn: s.codec.TTL(),
	}, nil
}

// Register creates a new account. Roles default to USER when absent; every
// stored user has at least one role.
func (s *AuthService) Register(ctx context.Context, username, password, email string, roles []string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if len(roles) == 0 {
		roles = []string{domain.RoleUser}
	}
	for _, r := range roles {
		if !domain.ValidRole(r) {
			return nil, domain.ErrInvalidCredentials
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", created.Username).Strs("roles", created.Roles).Msg("user registered")
	return created, nil
}
