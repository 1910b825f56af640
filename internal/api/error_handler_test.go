package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/nexacorp/accounts-api/internal/core/domain"
)

func render(t *testing.T, err error) (*httptest.ResponseRecorder, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return rec, resp
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"not found", domain.NotFound("account not found"), http.StatusNotFound, "NOT_FOUND", "account not found"},
		{"unauthenticated", domain.Unauthenticated("invalid credentials"), http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials"},
		{"forbidden", domain.Forbidden("admin role required"), http.StatusForbidden, "FORBIDDEN", "admin role required"},
		{"conflict", domain.Conflict("email already in use"), http.StatusConflict, "CONFLICT", "email already in use"},
		{"insufficient credit", domain.InsufficientCredit("insufficient credit"), http.StatusUnprocessableEntity, "INSUFFICIENT_CREDIT", "insufficient credit"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, resp := render(t, tc.err)
			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rec.Code)
			}
			if resp.Code != tc.code || resp.Message != tc.message || resp.Status != tc.status {
				t.Fatalf("unexpected envelope: %+v", resp)
			}
		})
	}
}

func TestErrorHandler_ValidationDetails(t *testing.T) {
	rec, resp := render(t, domain.Validation("validation failed", []string{"email must be a valid email"}))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	details, ok := resp.Details.([]any)
	if !ok || len(details) != 1 {
		t.Fatalf("expected one detail entry, got %v", resp.Details)
	}
}

func TestErrorHandler_InternalHidesCause(t *testing.T) {
	rec, resp := render(t, domain.Internal("query failed", errors.New("pq: connection refused")))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if resp.Message != "internal server error" {
		t.Fatalf("internal cause leaked: %q", resp.Message)
	}
}

func TestErrorHandler_UnknownError(t *testing.T) {
	rec, resp := render(t, errors.New("boom"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if resp.Message != "internal server error" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	rec, resp := render(t, echo.NewHTTPError(http.StatusNotFound, "Not Found"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if resp.Status != http.StatusNotFound {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}
