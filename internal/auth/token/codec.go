// Package token issues and validates the HS256 bearer tokens that
// authenticate every API request.
//
// A token is a compact JWS: header.payload.signature, base64url without
// padding, signed with HMAC-SHA256 over header "." payload using a shared
// secret. The payload carries {sub, roles, iat, exp}. Validation is a pure
// computation against the secret and the clock. No user lookup happens per
// request; the roles inside a valid token are authoritative.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vbforge/product-catalog/internal/core/domain"
)

const DefaultTTL = 24 * time.Hour

var (
	// ErrMalformed marks input that is not a three-segment JWS or whose
	// segments fail to decode.
	ErrMalformed = errors.New("malformed token")
	// ErrInvalidSignature marks a token whose recomputed HMAC does not
	// match the presented signature.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrExpired marks a structurally valid, correctly signed token whose
	// expiry has passed. A token observed exactly at exp is expired.
	ErrExpired = errors.New("token expired")
	// ErrNoSubject is returned by Issue for an identity without a username.
	ErrNoSubject = errors.New("identity has no subject")
)

// Claims is the payload encoded into every issued token.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Codec converts between an Identity and a signed token string. The secret
// and clock are fixed at construction; a Codec is immutable and safe for
// concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewCodec builds a Codec signing with secret and issuing tokens valid for
// ttl (DefaultTTL when non-positive). now supplies the clock; pass nil for
// time.Now. Tests inject a fixed clock to pin the expiry boundary.
func NewCodec(secret []byte, ttl time.Duration, now func() time.Time) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Codec{
		secret: secret,
		ttl:    ttl,
		now:    now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithTimeFunc(func() time.Time { return now() }),
		),
	}
}

// TTL reports the validity duration applied to issued tokens.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue encodes the identity into a signed token valid from now until
// now+ttl. Timestamps are whole seconds since epoch. The identity must have
// a subject and at least one role.
func (c *Codec) Issue(identity domain.Identity) (string, error) {
	if identity.Username == "" {
		return "", ErrNoSubject
	}
	if len(identity.Roles) == 0 {
		return "", fmt.Errorf("%w: identity %q has no roles", ErrNoSubject, identity.Username)
	}

	now := c.now().Truncate(time.Second)
	claims := Claims{
		Roles: identity.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate checks the token's structure, signature, and validity window and
// reconstructs the Identity it was issued for. Failures are reported as one
// of ErrMalformed, ErrInvalidSignature, or ErrExpired.
func (c *Codec) Validate(tokenString string) (domain.Identity, error) {
	claims := &Claims{}
	parsed, err := c.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return domain.Identity{}, classify(err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return domain.Identity{}, ErrMalformed
	}

	return domain.Identity{
		Username: claims.Subject,
		Roles:    claims.Roles,
	}, nil
}

// classify collapses the parser's error chain into this package's taxonomy.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrSignatureInvalid):
		return ErrInvalidSignature
	default:
		return ErrMalformed
	}
}
