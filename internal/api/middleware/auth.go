package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mykare/user-registration/internal/api/metrics"
	"github.com/mykare/user-registration/internal/core/domain"
)

const bearerPrefix = "Bearer "

// TokenVerifier is the subset of the token service the gate needs.
type TokenVerifier interface {
	Verify(token string) bool
	ExtractSubject(token string) (string, error)
	ExtractRole(token string) (string, error)
}

// Authenticate verifies the bearer token, when one is sent, and attaches the
// caller identity to the request context. Requests without a bearer token pass
// through anonymously; routes that need a caller compose RequireIdentity or
// RequireRole after it.
func Authenticate(verifier TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return next(c)
			}
			token := strings.TrimPrefix(header, bearerPrefix)

			if !verifier.Verify(token) {
				return reject(c, log)
			}

			subject, err := verifier.ExtractSubject(token)
			if err != nil {
				return reject(c, log)
			}
			role, err := verifier.ExtractRole(token)
			if err != nil {
				return reject(c, log)
			}

			req := c.Request()
			ctx := domain.WithIdentity(req.Context(), domain.Identity{
				Subject: subject,
				Role:    domain.Role(role),
			})
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}

func reject(c echo.Context, log zerolog.Logger) error {
	metrics.TokenRejectionsTotal.Inc()
	log.Warn().
		Str("path", c.Request().URL.Path).
		Str("remote_ip", c.RealIP()).
		Msg("invalid token")
	return domain.ErrInvalidToken
}
