package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/chirpnet/social-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Details
// is only present for field validation failures.
type errorResponse struct {
	Error   string              `json:"error"`
	Details []domain.FieldError `json:"details,omitempty"`
}

// publicErrors are the sentinel errors whose text is safe to show clients.
var publicErrors = []error{
	domain.ErrWeakPassword,
	domain.ErrInvalidCredentials,
	domain.ErrUserNotFound,
	domain.ErrUsernameTaken,
	domain.ErrEmailTaken,
	domain.ErrSelfFollow,
	domain.ErrFollowConflict,
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to HTTP status codes through domain.KindOf.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{Error: "Invalid data", Details: ve.Fields}
	}

	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest, errorResponse{Error: publicMessage(err, "Invalid data")}
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized, errorResponse{Error: publicMessage(err, "Unauthorized")}
	case domain.KindNotFound:
		return http.StatusNotFound, errorResponse{Error: publicMessage(err, "not found")}
	case domain.KindConflict:
		return http.StatusConflict, errorResponse{Error: publicMessage(err, "conflict")}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

// publicMessage returns the text of the first known sentinel wrapped in err,
// dropping any internal context added while it travelled up the stack.
func publicMessage(err error, fallback string) string {
	for _, target := range publicErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return fallback
}
