package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	_ "github.com/mykare/user-registration/docs"
	"github.com/mykare/user-registration/internal/api/handler"
	"github.com/mykare/user-registration/internal/api/middleware"
	"github.com/mykare/user-registration/internal/core/domain"
	"github.com/mykare/user-registration/internal/core/ports"
)

// Dependencies are the collaborators the HTTP surface is built on. Pingers
// are the readiness checks, keyed by dependency name.
type Dependencies struct {
	ServiceName string
	Users       ports.UserService
	Tokens      middleware.TokenVerifier
	Pingers     map[string]handler.Pinger
	Logger      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(otelecho.Middleware(deps.ServiceName, otelecho.WithSkipper(skipTracing)))
	e.Use(middleware.Metrics())
	e.Use(middleware.RequestLogger(deps.Logger))

	// --- User routes ---
	users := handler.NewUserHandler(deps.Users)

	v1 := e.Group("/api/v1", middleware.Authenticate(deps.Tokens, deps.Logger))
	v1.POST("/register", users.Register)
	v1.POST("/validate", users.Validate)
	v1.GET("/users", users.List, middleware.RequireIdentity())
	v1.DELETE("/users/:email", users.Delete, middleware.RequireRole(domain.RoleAdmin))

	// --- Health checks (no auth required) ---
	health := handler.NewHealthHandler(deps.Pingers)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)

	// --- Operations ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// skipTracing keeps health check and scrape traffic out of traces.
func skipTracing(c echo.Context) bool {
	path := c.Request().URL.Path
	return path == "/metrics" || strings.HasPrefix(path, "/health")
}
