package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vbforge/product-catalog/internal/core/domain"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// fixedClock returns a codec whose clock always reads at, letting tests pin
// the validity window exactly.
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestCodec_RoundTrip(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	codec := NewCodec(testSecret, time.Hour, fixedClock(issued))

	identity := domain.Identity{Username: "alice", Roles: []string{domain.RoleUser, domain.RoleAdmin}}
	signed, err := codec.Issue(identity)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if strings.Count(signed, ".") != 2 {
		t.Fatalf("expected three-segment token, got %q", signed)
	}

	got, err := codec.Validate(signed)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if got.Username != "alice" {
		t.Fatalf("unexpected username: %q", got.Username)
	}
	if len(got.Roles) != 2 || got.Roles[0] != domain.RoleUser || got.Roles[1] != domain.RoleAdmin {
		t.Fatalf("roles not preserved: %v", got.Roles)
	}
}

func TestCodec_ExpiryBoundary(t *testing.T) {
	const ttl = 24 * time.Hour
	issued := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	signed, err := NewCodec(testSecret, ttl, fixedClock(issued)).Issue(
		domain.Identity{Username: "alice", Roles: []string{domain.RoleUser}})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// One second before expiry the token is still valid.
	early := NewCodec(testSecret, ttl, fixedClock(issued.Add(ttl-time.Second)))
	if _, err := early.Validate(signed); err != nil {
		t.Fatalf("token should be valid one second before expiry, got %v", err)
	}

	// Exactly at expiry it is already expired.
	atExp := NewCodec(testSecret, ttl, fixedClock(issued.Add(ttl)))
	if _, err := atExp.Validate(signed); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired at exp, got %v", err)
	}

	// Well past expiry the signature is intact but the token is dead.
	late := NewCodec(testSecret, ttl, fixedClock(issued.Add(ttl+time.Second)))
	if _, err := late.Validate(signed); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired past exp, got %v", err)
	}
}

func TestCodec_TamperedSignature(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	codec := NewCodec(testSecret, time.Hour, fixedClock(issued))

	signed, err := codec.Issue(domain.Identity{Username: "alice", Roles: []string{domain.RoleUser}})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	parts := strings.Split(signed, ".")
	sig := []byte(parts[2])
	// Flip a character in the middle of the signature segment, keeping it
	// inside the base64url alphabet so the failure is a MAC mismatch rather
	// than a decode error.
	for i := 1; i < len(sig)-1; i++ {
		orig := sig[i]
		if orig == 'A' {
			sig[i] = 'B'
		} else {
			sig[i] = 'A'
		}
		tampered := parts[0] + "." + parts[1] + "." + string(sig)
		if _, err := codec.Validate(tampered); !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("flip at %d: expected ErrInvalidSignature, got %v", i, err)
		}
		sig[i] = orig
	}
}

func TestCodec_TamperedPayload(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	codec := NewCodec(testSecret, time.Hour, fixedClock(issued))

	signed, err := codec.Issue(domain.Identity{Username: "alice", Roles: []string{domain.RoleUser}})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// Swap in the payload of a token for a different user; the original
	// signature no longer matches.
	other, err := codec.Issue(domain.Identity{Username: "admin", Roles: []string{domain.RoleAdmin}})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	parts, otherParts := strings.Split(signed, "."), strings.Split(other, ".")
	spliced := parts[0] + "." + otherParts[1] + "." + parts[2]

	if _, err := codec.Validate(spliced); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature for spliced payload, got %v", err)
	}
}

func TestCodec_WrongSecret(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	signer := NewCodec(testSecret, time.Hour, fixedClock(issued))
	verifier := NewCodec([]byte("another-secret-another-secret-00"), time.Hour, fixedClock(issued))

	signed, err := signer.Issue(domain.Identity{Username: "alice", Roles: []string{domain.RoleUser}})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := verifier.Validate(signed); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature across secrets, got %v", err)
	}
}

func TestCodec_MalformedInput(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour, nil)

	inputs := []string{
		"",
		"justonesegment",
		"two.segments",
		"four.whole.segments.here",
		"!!!.%%%.???",
		"Bearer abc.def.ghi",
	}
	for _, in := range inputs {
		if _, err := codec.Validate(in); !errors.Is(err, ErrMalformed) {
			t.Fatalf("input %q: expected ErrMalformed, got %v", in, err)
		}
	}
}

func TestCodec_RejectsForeignAlgorithm(t *testing.T) {
	// A token declaring alg=none must never verify, whatever its payload.
	unsigned := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0." +
		"eyJzdWIiOiJhbGljZSIsInJvbGVzIjpbIkFETUlOIl19."
	codec := NewCodec(testSecret, time.Hour, nil)
	if _, err := codec.Validate(unsigned); err == nil {
		t.Fatalf("alg=none token must not validate")
	}
}

func TestCodec_IssueRequiresSubjectAndRoles(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour, nil)

	if _, err := codec.Issue(domain.Identity{Roles: []string{domain.RoleUser}}); !errors.Is(err, ErrNoSubject) {
		t.Fatalf("expected ErrNoSubject for empty username, got %v", err)
	}
	if _, err := codec.Issue(domain.Identity{Username: "alice"}); !errors.Is(err, ErrNoSubject) {
		t.Fatalf("expected ErrNoSubject for empty roles, got %v", err)
	}
}

func TestCodec_DefaultTTL(t *testing.T) {
	codec := NewCodec(testSecret, 0, nil)
	if codec.TTL() != DefaultTTL {
		t.Fatalf("expected default TTL %v, got %v", DefaultTTL, codec.TTL())
	}
}
