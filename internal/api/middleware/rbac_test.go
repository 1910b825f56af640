package middleware

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nexacorp/accounts-api/internal/core/domain"
)

func TestRequireAdmin_NoIdentity(t *testing.T) {
	c, _ := newContext(t, "")

	handler := RequireAdmin()(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); domain.KindOf(err) != domain.KindUnauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
}

func TestRequireAdmin_CommonRole(t *testing.T) {
	c, _ := newContext(t, "")
	c.Set(CtxAccountID, uuid.New())
	c.Set(CtxRole, domain.RoleCommon)
	c.Set(CtxTier, TierAuthenticated)

	handler := RequireAdmin()(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); domain.KindOf(err) != domain.KindForbidden {
		t.Fatalf("expected Forbidden, got %v", err)
	}
}

func TestRequireAdmin_AdminRole(t *testing.T) {
	c, rec := newContext(t, "")
	c.Set(CtxAccountID, uuid.New())
	c.Set(CtxRole, domain.RoleAdmin)
	c.Set(CtxTier, TierAuthenticated)

	called := false
	handler := RequireAdmin()(func(c echo.Context) error {
		called = true
		if got, _ := c.Get(CtxTier).(Tier); got != TierAdmin {
			t.Fatalf("expected admin tier after check, got %v", c.Get(CtxTier))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

// An authenticated identity is never promoted: the common role stays common
// for any other required role too.
func TestRequireRole_NoImplicitPromotion(t *testing.T) {
	c, _ := newContext(t, "")
	c.Set(CtxAccountID, uuid.New())
	c.Set(CtxRole, domain.RoleCommon)
	c.Set(CtxTier, TierAuthenticated)

	handler := RequireRole(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); domain.KindOf(err) != domain.KindForbidden {
		t.Fatalf("expected Forbidden, got %v", err)
	}
	if got, _ := c.Get(CtxTier).(Tier); got != TierAuthenticated {
		t.Fatalf("tier must be unchanged after a failed check, got %v", got)
	}
}

func TestRequireRole_MatchingRole(t *testing.T) {
	c, rec := newContext(t, "")
	c.Set(CtxAccountID, uuid.New())
	c.Set(CtxRole, domain.RoleCommon)
	c.Set(CtxTier, TierAuthenticated)

	handler := RequireRole(domain.RoleCommon)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
