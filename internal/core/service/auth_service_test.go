package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/vbforge/product-catalog/internal/auth/token"
	"github.com/vbforge/product-catalog/internal/core/domain"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = user.Username
	}
	r.users[copy.Username] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

// stubThrottle denies once lockedOut is set and records calls.
type stubThrottle struct {
	lockedOut bool
	failures  int
	resets    int
}

func (t *stubThrottle) Allowed(_ context.Context, _ string) (bool, error) {
	return !t.lockedOut, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, _ string) error {
	t.failures++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, _ string) error {
	t.resets++
	return nil
}

func newTestService(t *testing.T) (*AuthService, *stubUserRepo, *token.Codec) {
	t.Helper()
	repo := newStubUserRepo()
	codec := token.NewCodec(testSecret, time.Hour, nil)
	svc := NewAuthService(repo, codec, nil, zerolog.Nop())
	return svc, repo, codec
}

func seedUser(t *testing.T, repo *stubUserRepo, username, password string, roles ...string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if _, err := repo.Create(context.Background(), &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Roles:        roles,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestAuthService_Authenticate_Success(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedUser(t, repo, "alice", "s3cret", domain.RoleUser)

	identity, err := svc.Authenticate(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if identity.Username != "alice" {
		t.Fatalf("unexpected username: %q", identity.Username)
	}
	if len(identity.Roles) != 1 || identity.Roles[0] != domain.RoleUser {
		t.Fatalf("unexpected roles: %v", identity.Roles)
	}
}

func TestAuthService_Authenticate_NoCredentialLeak(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedUser(t, repo, "alice", "s3cret", domain.RoleUser)

	_, unknownErr := svc.Authenticate(context.Background(), "ghost", "whatever")
	_, wrongErr := svc.Authenticate(context.Background(), "alice", "wrong")

	// Unknown username and wrong password must be indistinguishable.
	if unknownErr != domain.ErrInvalidCredentials {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if wrongErr != domain.ErrInvalidCredentials {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongErr)
	}
	if unknownErr != wrongErr {
		t.Fatalf("error values differ: %v vs %v", unknownErr, wrongErr)
	}
}

func TestAuthService_Login_IssuesValidToken(t *testing.T) {
	svc, repo, codec := newTestService(t)
	seedUser(t, repo, "user", "password", domain.RoleUser)

	result, err := svc.Login(context.Background(), "user", "password")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if result.Username != "user" {
		t.Fatalf("unexpected username: %q", result.Username)
	}
	if result.ExpiresIn != time.Hour {
		t.Fatalf("unexpected expiry: %v", result.ExpiresIn)
	}

	identity, err := codec.Validate(result.Token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if identity.Username != "user" || len(identity.Roles) != 1 || identity.Roles[0] != domain.RoleUser {
		t.Fatalf("token round trip mismatch: %+v", identity)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedUser(t, repo, "alice", "s3cret", domain.RoleUser)

	if _, err := svc.Login(context.Background(), "alice", "bad"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty input, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "alice", "s3cret", domain.RoleUser)
	throttle := &stubThrottle{}
	svc := NewAuthService(repo, token.NewCodec(testSecret, time.Hour, nil), throttle, zerolog.Nop())

	// A failed attempt is recorded.
	if _, err := svc.Login(context.Background(), "alice", "bad"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if throttle.failures != 1 {
		t.Fatalf("expected 1 recorded failure, got %d", throttle.failures)
	}

	// Once locked out, even the right password is refused.
	throttle.lockedOut = true
	if _, err := svc.Login(context.Background(), "alice", "s3cret"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}

	// After the lockout clears, success resets the counter.
	throttle.lockedOut = false
	if _, err := svc.Login(context.Background(), "alice", "s3cret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if throttle.resets != 1 {
		t.Fatalf("expected 1 reset, got %d", throttle.resets)
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, _, _ := newTestService(t)

	user, err := svc.Register(context.Background(), "bob", "pass123", "bob@example.com", nil)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	// Roles default to USER; a stored user always has at least one role.
	if len(user.Roles) != 1 || user.Roles[0] != domain.RoleUser {
		t.Fatalf("unexpected roles: %v", user.Roles)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Register(context.Background(), "", "pass", "", nil); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty username, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "pass", "", []string{"SUPERUSER"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown role, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Register(context.Background(), "bob", "pass123", "", nil); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "other", "", nil); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}
