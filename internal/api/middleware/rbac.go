package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/nexacorp/accounts-api/internal/api/metrics"
	"github.com/nexacorp/accounts-api/internal/core/domain"
)

// RequireRole passes only requests whose attached identity carries the given
// role. Must run after Authenticate: a request without an identity is an
// authentication failure, a wrong role is a permission failure. There is no
// implicit promotion between tiers.
func RequireRole(required domain.RoleName) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(domain.RoleName)
			if !ok {
				return domain.Unauthenticated("not authenticated")
			}
			if role != required {
				metrics.AccessDeniedTotal.WithLabelValues(string(required)).Inc()
				return domain.Forbidden("'" + string(required) + "' role required")
			}
			if required == domain.RoleAdmin {
				c.Set(CtxTier, TierAdmin)
			}
			return next(c)
		}
	}
}

// RequireAdmin is RequireRole for the admin role.
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAdmin)
}
