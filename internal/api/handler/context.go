package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nexacorp/accounts-api/internal/api/middleware"
	"github.com/nexacorp/accounts-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Authenticate stage.
// Presence of both values proves the stage ran; their absence on a protected
// route means the pipeline was miswired, which reads as unauthenticated.
func ctxIdentity(c echo.Context) (uuid.UUID, domain.RoleName, error) {
	accountID, ok := c.Get(middleware.CtxAccountID).(uuid.UUID)
	if !ok {
		return uuid.Nil, "", domain.Unauthenticated("missing authentication claims")
	}
	role, ok := c.Get(middleware.CtxRole).(domain.RoleName)
	if !ok {
		return uuid.Nil, "", domain.Unauthenticated("missing authentication claims")
	}
	return accountID, role, nil
}

// pathID parses the :id path parameter as a UUID.
func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domain.BadRequest("invalid account id")
	}
	return id, nil
}
