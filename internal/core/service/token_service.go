package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nexacorp/accounts-api/internal/core/domain"
)

// TokenService issues and verifies HS256 session tokens. The clock is
// injectable so expiry behaviour is testable without sleeping.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source. Intended for tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue mints a signed token carrying the account id, role and expiry.
func (s *TokenService) Issue(accountID uuid.UUID, role domain.RoleName) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("token service: signing secret not configured")
	}

	claims := jwt.MapClaims{
		"uuid": accountID.String(),
		"role": string(role),
		"exp":  s.now().Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify validates signature and expiry and parses the claims. Expiry is
// re-checked here against our own clock even though the jwt library also
// checks it, so TTL enforcement does not depend on library behaviour.
func (s *TokenService) Verify(token string) (*domain.TokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, domain.ErrTokenSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		default:
			return nil, domain.ErrTokenMalformed
		}
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenSignature
	}

	rawID, _ := claims["uuid"].(string)
	accountID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, domain.ErrTokenMalformed
	}

	rawRole, _ := claims["role"].(string)
	role, err := domain.ParseRoleName(rawRole)
	if err != nil {
		return nil, domain.ErrTokenMalformed
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, domain.ErrTokenMalformed
	}
	if !exp.Time.After(s.now()) {
		return nil, domain.ErrTokenExpired
	}

	return &domain.TokenClaims{
		AccountID: accountID,
		Role:      role,
		ExpiresAt: exp.Time,
	}, nil
}
