package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/travelguard/backoffice/internal/api/handler"
	"github.com/travelguard/backoffice/internal/core/domain"
)

var kindStatus = map[domain.Kind]int{
	domain.KindValidation:         http.StatusBadRequest,
	domain.KindInvalidCredentials: http.StatusUnauthorized,
	domain.KindInvalidToken:       http.StatusUnauthorized,
	domain.KindUnauthorized:       http.StatusUnauthorized,
	domain.KindForbidden:          http.StatusForbidden,
	domain.KindNotFound:           http.StatusNotFound,
	domain.KindConflict:           http.StatusConflict,
	domain.KindInvalidState:       http.StatusUnprocessableEntity,
	domain.KindTooManyAttempts:    http.StatusTooManyRequests,
}

var statusKind = map[int]domain.Kind{
	http.StatusBadRequest:          domain.KindValidation,
	http.StatusUnauthorized:        domain.KindUnauthorized,
	http.StatusForbidden:           domain.KindForbidden,
	http.StatusNotFound:            domain.KindNotFound,
	http.StatusMethodNotAllowed:    domain.KindNotFound,
	http.StatusConflict:            domain.KindConflict,
	http.StatusUnprocessableEntity: domain.KindInvalidState,
	http.StatusTooManyRequests:     domain.KindTooManyAttempts,
}

// htmlPrefix marks routes rendered as pages rather than JSON.
const htmlPrefix = "/dashboard"

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the JSON envelope with {"error": {"code", "message", "details"}},
//     or the error page for dashboard routes.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, apiErr := resolveError(err, log, c)

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		if strings.HasPrefix(c.Request().URL.Path, htmlPrefix) && c.Echo().Renderer != nil {
			if rerr := c.Render(status, "error.html", apiErr); rerr == nil {
				return
			}
		}
		_ = handler.RenderError(c, status, apiErr)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.APIError) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		kind, ok := statusKind[he.Code]
		if !ok {
			kind = domain.KindInternal
		}
		return he.Code, handler.APIError{Code: kind.Code(), Message: fmt.Sprintf("%v", he.Message)}
	}

	var de *domain.Error
	if errors.As(err, &de) {
		if status, ok := kindStatus[de.Kind]; ok {
			return status, handler.APIError{Code: de.Kind.Code(), Message: message(de), Details: de.Details}
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, handler.APIError{
		Code:    domain.KindInternal.Code(),
		Message: "internal server error",
	}
}

func message(e *domain.Error) string {
	if e.Message != "" {
		return e.Message
	}
	return strings.ToLower(strings.ReplaceAll(e.Kind.Code(), "_", " "))
}
