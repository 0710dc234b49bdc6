package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/mykare/user-registration/internal/core/domain"
)

// bindAndValidate decodes the request body into req and runs the registered
// validator. A body that cannot be decoded is reported as a validation error
// so the client sees a 400 in the usual envelope.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("Malformed request body")
	}
	return c.Validate(req)
}
