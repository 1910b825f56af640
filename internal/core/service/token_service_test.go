package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nexacorp/accounts-api/internal/core/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenService_IssueVerify_RoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService("secret", time.Hour).WithClock(fixedClock(now))

	accountID := uuid.New()
	token, err := svc.Issue(accountID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.AccountID != accountID {
		t.Fatalf("account id mismatch: %s", claims.AccountID)
	}
	if claims.Role != domain.RoleAdmin {
		t.Fatalf("role mismatch: %s", claims.Role)
	}
	if !claims.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry: %s", claims.ExpiresAt)
	}
}

func TestTokenService_Verify_TTLBoundary(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ttl := 60 * time.Second

	svc := NewTokenService("secret", ttl).WithClock(fixedClock(issuedAt))
	token, err := svc.Issue(uuid.New(), domain.RoleCommon)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Just before expiry the token still verifies.
	svc.WithClock(fixedClock(issuedAt.Add(ttl - time.Second)))
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	// At and after expiry it fails with Expired.
	for _, offset := range []time.Duration{ttl, ttl + time.Second, 24 * time.Hour} {
		svc.WithClock(fixedClock(issuedAt.Add(offset)))
		if _, err := svc.Verify(token); !errors.Is(err, domain.ErrTokenExpired) {
			t.Fatalf("offset %s: expected ErrTokenExpired, got %v", offset, err)
		}
	}
}

func TestTokenService_Verify_WrongKey(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenService("key-one", time.Hour).WithClock(fixedClock(now))
	verifier := NewTokenService("key-two", time.Hour).WithClock(fixedClock(now))

	token, err := issuer.Issue(uuid.New(), domain.RoleCommon)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, domain.ErrTokenSignature) {
		t.Fatalf("expected ErrTokenSignature, got %v", err)
	}
}

func TestTokenService_Verify_Malformed(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.Verify(token); !errors.Is(err, domain.ErrTokenMalformed) {
			t.Fatalf("token %q: expected ErrTokenMalformed, got %v", token, err)
		}
	}
}

func TestTokenService_Verify_BadClaims(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService("secret", time.Hour).WithClock(fixedClock(now))

	// A token with an unknown role claim is malformed even with a good
	// signature; the role enumeration is closed.
	other := NewTokenService("secret", time.Hour).WithClock(fixedClock(now))
	token, err := other.Issue(uuid.New(), domain.RoleName("superuser"))
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for unknown role, got %v", err)
	}
}

func TestTokenService_Issue_MissingSecret(t *testing.T) {
	svc := NewTokenService("", time.Hour)
	if _, err := svc.Issue(uuid.New(), domain.RoleCommon); err == nil {
		t.Fatalf("expected error for empty signing secret")
	}
}
