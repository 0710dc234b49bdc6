package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mykare/user-registration/internal/core/domain"
)

// Error categories reported in the "error" field.
const (
	categoryBadRequest       = "BAD_REQUEST"
	categoryUnauthorized     = "UNAUTHORIZED"
	categoryForbidden        = "FORBIDDEN"
	categoryNotFound         = "NOT_FOUND"
	categoryTooManyRequests  = "TOO_MANY_REQUESTS"
	categoryMethodNotAllowed = "METHOD_NOT_ALLOWED"
	categoryInternal         = "INTERNAL_SERVER_ERROR"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders {"message": "<text>", "error": "<CATEGORY>"}.
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
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{Message: ve.Error(), Error: categoryBadRequest}
	}

	switch {
	case errors.Is(err, domain.ErrDuplicateUser):
		return http.StatusBadRequest, errorResponse{Message: detail(err, domain.ErrDuplicateUser), Error: categoryBadRequest}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Message: "Invalid email or password", Error: categoryUnauthorized}
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, errorResponse{Message: "Invalid token", Error: categoryUnauthorized}
	case errors.Is(err, domain.ErrAuthenticationRequired):
		return http.StatusUnauthorized, errorResponse{Message: "Authentication required", Error: categoryUnauthorized}
	case errors.Is(err, domain.ErrAccessDenied):
		return http.StatusForbidden, errorResponse{Message: detail(err, domain.ErrAccessDenied), Error: categoryForbidden}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Message: "User not found", Error: categoryNotFound}
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, errorResponse{Message: "Too many failed attempts, try again later", Error: categoryTooManyRequests}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Message: fmt.Sprintf("%v", he.Message), Error: categoryFor(he.Code)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Message: "internal server error", Error: categoryInternal}
}

// detail returns the context wrapped around sentinel, or the sentinel text
// when err carries none.
func detail(err, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()+": "); i >= 0 {
		return msg[i+len(sentinel.Error())+2:]
	}
	return sentinel.Error()
}

func categoryFor(code int) string {
	switch code {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
		return categoryBadRequest
	case http.StatusUnauthorized:
		return categoryUnauthorized
	case http.StatusForbidden:
		return categoryForbidden
	case http.StatusNotFound:
		return categoryNotFound
	case http.StatusMethodNotAllowed:
		return categoryMethodNotAllowed
	case http.StatusTooManyRequests:
		return categoryTooManyRequests
	}
	if code >= 400 && code < 500 {
		return categoryBadRequest
	}
	return categoryInternal
}
