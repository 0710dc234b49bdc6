package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/mykare/user-registration/internal/core/domain"
)

func baseEnv() map[string]string {
	return map[string]string{
		"JWT_SECRET":     "0123456789abcdef0123456789abcdef",
		"ADMIN_EMAIL":    "admin@x.com",
		"ADMIN_PASSWORD": "root",
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(baseEnv()))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.JWT.TTL() != time.Hour {
		t.Errorf("ttl = %s, want 1h", cfg.JWT.TTL())
	}
	if cfg.Store.Driver != StoreSQLite {
		t.Errorf("driver = %q", cfg.Store.Driver)
	}
	if cfg.Admin.Name != "Administrator" {
		t.Errorf("admin name = %q", cfg.Admin.Name)
	}
	if cfg.Login.LockoutWindow != 15*time.Minute || cfg.Login.MaxFailures != 5 {
		t.Errorf("login config = %+v", cfg.Login)
	}
	if cfg.Redis.Enabled || cfg.OTel.Enabled {
		t.Error("redis and otel must be disabled by default")
	}
}

func TestLoadFrom_MissingRequired(t *testing.T) {
	env := baseEnv()
	delete(env, "JWT_SECRET")

	if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(env)); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestLoadFrom_ShortSecret(t *testing.T) {
	env := baseEnv()
	env["JWT_SECRET"] = "too-short"

	if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(env)); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestLoadFrom_UnknownDriver(t *testing.T) {
	env := baseEnv()
	env["STORE_DRIVER"] = "postgres"

	if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(env)); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	env := baseEnv()
	env["JWT_EXPIRATION_MS"] = "7200000"
	env["STORE_DRIVER"] = "mongo"
	env["REDIS_ENABLED"] = "true"
	env["LOGIN_LOCKOUT_WINDOW"] = "5m"

	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(env))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.JWT.TTL() != 2*time.Hour {
		t.Errorf("ttl = %s", cfg.JWT.TTL())
	}
	if cfg.Store.Driver != StoreMongo || !cfg.Redis.Enabled || cfg.Login.LockoutWindow != 5*time.Minute {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}
