package domain

import (
	"time"

	"github.com/google/uuid"
)

// TokenClaims is the verified content of a session token. Tokens are not
// persisted; a claims value lives only for the request that presented it.
type TokenClaims struct {
	AccountID uuid.UUID
	Role      RoleName
	ExpiresAt time.Time
}
