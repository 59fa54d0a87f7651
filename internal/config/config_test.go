package config

import (
	"os"
	"testing"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, "DATABASE_URL", "postgres://localhost/clinic")
	setEnv(t, "ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != "3001" {
		t.Errorf("expected default port 3001, got %s", cfg.Port)
	}
	if cfg.DBMaxConns != 20 || cfg.DBMinConns != 5 {
		t.Errorf("unexpected pool defaults: max=%d min=%d", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.JWTSecret == "" {
		t.Error("expected development JWT secret default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("development config should validate: %v", err)
	}
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	setEnv(t, "DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestValidate_ProductionNeedsSecret(t *testing.T) {
	cfg := &Config{Env: "production"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty production JWT secret")
	}

	cfg.JWTSecret = devJWTSecret
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for development JWT secret in production")
	}

	cfg.JWTSecret = "a-real-secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}
