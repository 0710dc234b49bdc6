package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/mykare/user-registration/internal/core/domain"
)

const (
	StoreMongo  = "mongo"
	StoreSQLite = "sqlite"

	minSecretLength = 32
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT    JWTConfig
	Admin  AdminConfig
	Store  StoreConfig
	Mongo  MongoConfig
	SQLite SQLiteConfig
	Redis  RedisConfig
	Login  LoginConfig
	OTel   OTelConfig

	BcryptCost int `env:"BCRYPT_COST, default=10"`
}

type JWTConfig struct {
	Secret       string `env:"JWT_SECRET, required"`
	ExpirationMS int64  `env:"JWT_EXPIRATION_MS, default=3600000"`
}

// TTL returns the configured token lifetime.
func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpirationMS) * time.Millisecond
}

type AdminConfig struct {
	Name     string `env:"ADMIN_NAME,     default=Administrator"`
	Email    string `env:"ADMIN_EMAIL,    required"`
	Password string `env:"ADMIN_PASSWORD, required"`
}

type StoreConfig struct {
	Driver string `env:"STORE_DRIVER, default=sqlite"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_registration"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=users.db"`
}

type RedisConfig struct {
	Enabled bool   `env:"REDIS_ENABLED, default=false"`
	Addr    string `env:"REDIS_ADDR,    default=localhost:6379"`
	DB      int    `env:"REDIS_DB,      default=0"`
}

// LoginConfig controls the lockout applied after failed validations. It only
// takes effect when Redis is enabled.
type LoginConfig struct {
	MaxFailures   int64         `env:"LOGIN_MAX_FAILURES,   default=5"`
	LockoutWindow time.Duration `env:"LOGIN_LOCKOUT_WINDOW, default=15m"`
}

type OTelConfig struct {
	Enabled     bool   `env:"OTEL_ENABLED,      default=false"`
	Endpoint    string `env:"OTEL_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME, default=user-registration"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values envconfig cannot express as tags.
func (c *Config) Validate() error {
	var problems []string

	if len(c.JWT.Secret) < minSecretLength {
		problems = append(problems, fmt.Sprintf("JWT_SECRET must be at least %d bytes", minSecretLength))
	}
	if c.JWT.ExpirationMS <= 0 {
		problems = append(problems, "JWT_EXPIRATION_MS must be positive")
	}
	if !strings.Contains(c.Admin.Email, "@") {
		problems = append(problems, "ADMIN_EMAIL must be an email address")
	}
	switch c.Store.Driver {
	case StoreMongo, StoreSQLite:
	default:
		problems = append(problems, fmt.Sprintf("STORE_DRIVER must be %q or %q", StoreMongo, StoreSQLite))
	}
	if c.Redis.Enabled && (c.Login.MaxFailures < 1 || c.Login.LockoutWindow <= 0) {
		problems = append(problems, "LOGIN_MAX_FAILURES and LOGIN_LOCKOUT_WINDOW must be positive")
	}
	if c.OTel.Enabled && c.OTel.Endpoint == "" {
		problems = append(problems, "OTEL_ENDPOINT is required when OTEL_ENABLED is true")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

// IsDevelopment reports whether the service runs in a development environment.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}
