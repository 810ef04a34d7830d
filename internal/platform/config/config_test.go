package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hrpay")

	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.Addr)
	}
	if !cfg.RunMigrations || !cfg.RunSeed {
		t.Fatalf("migrations and seed should default on")
	}
	if cfg.MaxBodyBytes != 1048576 {
		t.Fatalf("unexpected default body limit: %d", cfg.MaxBodyBytes)
	}
	if cfg.RateLimitPerMinute != 60 {
		t.Fatalf("unexpected default rate limit: %d", cfg.RateLimitPerMinute)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")

	cfg := Load()
	if cfg.Addr != ":9090" {
		t.Fatalf("expected overridden addr, got %q", cfg.Addr)
	}
	if cfg.RunMigrations {
		t.Fatalf("expected migrations disabled")
	}
	if cfg.RateLimitPerMinute != 120 {
		t.Fatalf("expected rate limit 120, got %d", cfg.RateLimitPerMinute)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		DatabaseURL:        "postgres://localhost/hrpay",
		Environment:        "development",
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 60,
	}

	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	noDB := base
	noDB.DatabaseURL = " "
	if err := noDB.Validate(); err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("expected DATABASE_URL error, got %v", err)
	}

	prod := base
	prod.Environment = "production"
	if err := prod.Validate(); err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET error in production, got %v", err)
	}

	prod.JWTSecret = "a-long-random-secret"
	prod.RunSeed = true
	if err := prod.Validate(); err == nil || !strings.Contains(err.Error(), "SEED_ADMIN_PASSWORD") {
		t.Fatalf("expected seed password error, got %v", err)
	}

	tinyBody := base
	tinyBody.MaxBodyBytes = 16
	if err := tinyBody.Validate(); err == nil {
		t.Fatalf("expected body size error")
	}
}
