package ports

import (
	"github.com/google/uuid"

	"github.com/nexacorp/accounts-api/internal/core/domain"
)

// TokenService issues and verifies signed session tokens.
type TokenService interface {
	// Issue mints a token embedding the account id, its role and an absolute
	// expiry. It fails only on signing-key misconfiguration.
	Issue(accountID uuid.UUID, role domain.RoleName) (string, error)
	// Verify validates signature and expiry and returns the claims. Failures
	// are domain.ErrTokenMalformed, domain.ErrTokenSignature or
	// domain.ErrTokenExpired.
	Verify(token string) (*domain.TokenClaims, error)
}
