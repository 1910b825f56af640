package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/nexacorp/accounts-api/internal/core/domain"
	"github.com/nexacorp/accounts-api/internal/core/ports"
)

// AuthService authenticates email/password credentials and mints session
// tokens. Whether a lookup failed or a password mismatched is not
// distinguishable from the outside.
type AuthService struct {
	repo   ports.AccountRepository
	tokens ports.TokenService
}

func NewAuthService(repo ports.AccountRepository, tokens ports.TokenService) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	if email == "" || password == "" {
		return "", nil, domain.Unauthenticated("invalid credentials")
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return "", nil, domain.Unauthenticated("invalid credentials")
		}
		return "", nil, err
	}

	if account.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.Unauthenticated("invalid credentials")
	}

	if account.Role == nil {
		return "", nil, domain.Internal("account missing role", nil)
	}

	token, err := s.tokens.Issue(account.ID, account.Role.Name)
	if err != nil {
		return "", nil, domain.Internal("issue token", err)
	}

	return token, account, nil
}
