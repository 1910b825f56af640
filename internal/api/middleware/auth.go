package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nexacorp/accounts-api/internal/api/metrics"
	"github.com/nexacorp/accounts-api/internal/core/domain"
	"github.com/nexacorp/accounts-api/internal/core/ports"
)

// Tier is the resolved authorization level of a request.
type Tier string

const (
	TierPublic        Tier = "public"
	TierAuthenticated Tier = "authenticated"
	TierAdmin         Tier = "admin"
)

// Context keys set by the gate stages and read by handlers.
const (
	CtxAccountID = "account_id"
	CtxRole      = "role"
	CtxTier      = "tier"
)

// Public assigns the public tier with an empty identity. Always passes.
func Public() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(CtxTier, TierPublic)
			return next(c)
		}
	}
}

// Authenticate extracts the bearer token, verifies it and attaches the
// resolved identity to the request scope. Any verification failure is an
// authentication failure; no handler code runs after one.
func Authenticate(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing_header").Inc()
				return domain.Unauthenticated("missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.AuthFailuresTotal.WithLabelValues("bad_scheme").Inc()
				return domain.Unauthenticated("invalid authorization header")
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues(failureReason(err)).Inc()
				return domain.Unauthenticated(verifyMessage(err))
			}

			c.Set(CtxAccountID, claims.AccountID)
			c.Set(CtxRole, claims.Role)
			c.Set(CtxTier, TierAuthenticated)

			return next(c)
		}
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignature):
		return "signature"
	default:
		return "malformed"
	}
}

func verifyMessage(err error) string {
	if errors.Is(err, domain.ErrTokenExpired) {
		return "token expired"
	}
	return "invalid token"
}
