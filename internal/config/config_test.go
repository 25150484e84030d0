package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SESSION_STORE", "")
	t.Setenv("PAYMENT_DELAY", "")
	t.Setenv("NOTIFY_TRANSPORT", "")
	t.Setenv("CONFIRMATION_BUCKET", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.SessionStore != "memory" {
		t.Fatalf("expected memory session store, got %s", cfg.SessionStore)
	}
	if cfg.PaymentDelay != 2*time.Second {
		t.Fatalf("expected 2s payment delay, got %s", cfg.PaymentDelay)
	}
	if cfg.NotifyTransport != "stub" {
		t.Fatalf("expected stub transport, got %s", cfg.NotifyTransport)
	}
	if cfg.SalonTimezone != "America/New_York" {
		t.Fatalf("expected New York timezone, got %s", cfg.SalonTimezone)
	}
	if cfg.UsesAWS() {
		t.Fatalf("expected no AWS usage by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_STORE", " Redis ")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("PAYMENT_DELAY", "250ms")
	t.Setenv("NOTIFY_TRANSPORT", "SQS")
	t.Setenv("NOTIFY_QUEUE_URL", "http://localhost:4566/000000000000/confirmations")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://luxesalon.com, ,http://localhost:5173")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "4")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.SessionStore != "redis" {
		t.Fatalf("expected normalized session store, got %q", cfg.SessionStore)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("expected session ttl override, got %s", cfg.SessionTTL)
	}
	if cfg.PaymentDelay != 250*time.Millisecond {
		t.Fatalf("expected payment delay override, got %s", cfg.PaymentDelay)
	}
	if cfg.NotifyTransport != "sqs" || !cfg.UsesAWS() {
		t.Fatalf("expected sqs transport to require AWS, got %q", cfg.NotifyTransport)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
		t.Fatalf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRPS != 2.5 || cfg.RateLimitBurst != 4 {
		t.Fatalf("unexpected rate limit %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("RATE_LIMIT_BURST", "many")
	cfg := Load()
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("expected default ttl, got %s", cfg.SessionTTL)
	}
	if cfg.RateLimitBurst != 20 {
		t.Fatalf("expected default burst, got %d", cfg.RateLimitBurst)
	}
}
