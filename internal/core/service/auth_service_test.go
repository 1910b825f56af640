package service

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nexacorp/accounts-api/internal/core/domain"
)

func seedLoginAccount(t *testing.T, repo *stubAccountRepo, email, password string) *domain.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	a := seedAccount(repo, email, "0.00", adminRole.ID)
	repo.accounts[a.ID].PasswordHash = string(hash)
	return a
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubAccountRepo()
	tokens := NewTokenService("secret", time.Hour)
	svc := NewAuthService(repo, tokens)

	seeded := seedLoginAccount(t, repo, "carol@example.com", "s3cret")

	token, account, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if account == nil || account.ID != seeded.ID {
		t.Fatalf("unexpected account: %+v", account)
	}

	claims, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.AccountID != seeded.ID || claims.Role != domain.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAuthService(repo, NewTokenService("secret", time.Hour))
	seedLoginAccount(t, repo, "dave@example.com", "goodpass")

	_, _, err := svc.Login(context.Background(), "dave@example.com", "badpass")
	if domain.KindOf(err) != domain.KindUnauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := NewAuthService(newStubAccountRepo(), NewTokenService("secret", time.Hour))

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "pass")
	if domain.KindOf(err) != domain.KindUnauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
}

func TestAuthService_Login_NoPasswordSet(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAuthService(repo, NewTokenService("secret", time.Hour))
	seedAccount(repo, "sso-only@example.com", "0.00", commonRole.ID)

	_, _, err := svc.Login(context.Background(), "sso-only@example.com", "anything")
	if domain.KindOf(err) != domain.KindUnauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
}
