package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/mykare/user-registration/internal/core/domain"
)

// RequireRole admits only callers whose identity holds role.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := domain.IdentityFromContext(c.Request().Context())
			if err := domain.RequireRole(id, role); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// RequireIdentity admits any authenticated caller.
func RequireIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if domain.IdentityFromContext(c.Request().Context()) == nil {
				return domain.ErrAuthenticationRequired
			}
			return next(c)
		}
	}
}
