package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mykare/user-registration/internal/core/domain"
)

func contextWithIdentity(e *echo.Echo, id *domain.Identity) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id != nil {
		req = req.WithContext(domain.WithIdentity(req.Context(), *id))
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestRequireRole_Allows(t *testing.T) {
	c := contextWithIdentity(echo.New(), &domain.Identity{Subject: "admin@x.com", Role: domain.RoleAdmin})

	called := false
	handler := RequireRole(domain.RoleAdmin)(func(c echo.Context) error {
		called = true
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestRequireRole_Forbids(t *testing.T) {
	tests := []struct {
		name string
		id   *domain.Identity
	}{
		{"wrong role", &domain.Identity{Subject: "bob@x.com", Role: domain.RoleUser}},
		{"anonymous", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := contextWithIdentity(echo.New(), tt.id)
			handler := RequireRole(domain.RoleAdmin)(func(c echo.Context) error {
				t.Fatalf("should not reach next handler")
				return nil
			})

			if err := handler(c); !errors.Is(err, domain.ErrAccessDenied) {
				t.Fatalf("expected ErrAccessDenied, got %v", err)
			}
		})
	}
}

func TestRequireIdentity(t *testing.T) {
	handler := RequireIdentity()(func(c echo.Context) error { return nil })

	if err := handler(contextWithIdentity(echo.New(), nil)); !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("anonymous: expected ErrAuthenticationRequired, got %v", err)
	}

	id := &domain.Identity{Subject: "bob@x.com", Role: domain.RoleUser}
	if err := handler(contextWithIdentity(echo.New(), id)); err != nil {
		t.Fatalf("authenticated: unexpected error %v", err)
	}
}
