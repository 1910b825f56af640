package api

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/nexacorp/accounts-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	Status  int    `json:"status"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps typed domain errors to their taxonomy status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {code, message, details?, status}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := resolveError(err, log, c)
		_ = c.JSON(resp.Status, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) errorResponse {
	// Typed business errors → deterministic codes.
	var de *domain.Error
	if errors.As(err, &de) {
		if de.Kind == domain.KindInternal {
			logUnhandled(log, err, c)
			return errorResponse{
				Code:    string(domain.KindInternal),
				Message: "internal server error",
				Status:  domain.KindInternal.HTTPStatus(),
			}
		}
		return errorResponse{
			Code:    string(de.Kind),
			Message: de.Message,
			Details: de.Details,
			Status:  de.Kind.HTTPStatus(),
		}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return errorResponse{
			Code:    string(domain.KindBadRequest),
			Message: fmt.Sprintf("%v", he.Message),
			Status:  he.Code,
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	logUnhandled(log, err, c)
	return errorResponse{
		Code:    string(domain.KindInternal),
		Message: "internal server error",
		Status:  domain.KindInternal.HTTPStatus(),
	}
}

func logUnhandled(log zerolog.Logger, err error, c echo.Context) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")
}
