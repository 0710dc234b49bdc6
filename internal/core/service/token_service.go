package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mykare/user-registration/internal/core/domain"
)

// MinSigningKeyLength is the shortest HMAC-SHA256 secret accepted, in bytes.
const MinSigningKeyLength = 32

// tokenClaims is the claim set carried by issued bearer tokens.
type tokenClaims struct {
	Role string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens. It is immutable after
// construction and safe for concurrent use.
type TokenService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the clock used to check expiry.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if len(secret) < MinSigningKeyLength {
		return nil, fmt.Errorf("%w: signing key must be at least %d bytes", domain.ErrConfiguration, MinSigningKeyLength)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: token ttl must be positive", domain.ErrConfiguration)
	}

	s := &TokenService{key: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token binding subject to role, valid from now until now+ttl.
func (s *TokenService) Issue(subject string, role domain.Role, now time.Time) (string, error) {
	claims := tokenClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify reports whether token carries a valid signature and has not expired.
// Malformed input, a bad signature and expiry are all reported as false.
func (s *TokenService) Verify(token string) bool {
	_, err := s.parse(token)
	return err == nil
}

// ExtractSubject returns the subject of a verified token.
func (s *TokenService) ExtractSubject(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", domain.ErrMalformedToken)
	}
	return claims.Subject, nil
}

// ExtractRole returns the role claim of a verified token.
func (s *TokenService) ExtractRole(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", err
	}
	if claims.Role == "" {
		return "", fmt.Errorf("%w: missing role", domain.ErrMalformedToken)
	}
	return claims.Role, nil
}

// ExpirySeconds returns the configured token lifetime.
func (s *TokenService) ExpirySeconds() int64 {
	return int64(s.ttl / time.Second)
}

func (s *TokenService) parse(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}
	if !parsed.Valid {
		return nil, domain.ErrMalformedToken
	}
	return claims, nil
}
