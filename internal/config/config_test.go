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
	t.Setenv("CATALOG_SOURCE", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
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
	if cfg.CatalogSource != "postgres" {
		t.Fatalf("expected postgres catalog, got %s", cfg.CatalogSource)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("expected default session ttl, got %s", cfg.SessionTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected default cors origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_STORE", " Redis ")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("HTTP_RETRY_MAX", "7")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("LEAD_NOTIFY_EMAILS", "ops@example.com, ,boss@example.com")
	t.Setenv("BOOKING_TZ", "Europe/Berlin")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.SessionStore != "redis" {
		t.Fatalf("expected normalized store, got %q", cfg.SessionStore)
	}
	if cfg.SessionTTL != 45*time.Minute {
		t.Fatalf("expected ttl override, got %s", cfg.SessionTTL)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected rps override, got %v", cfg.RateLimitRPS)
	}
	if cfg.HTTPRetryMax != 7 {
		t.Fatalf("expected retry override, got %d", cfg.HTTPRetryMax)
	}
	if !cfg.RedisTLS {
		t.Fatal("expected redis tls enabled")
	}
	if len(cfg.LeadNotifyEmails) != 2 || cfg.LeadNotifyEmails[1] != "boss@example.com" {
		t.Fatalf("unexpected notify list %v", cfg.LeadNotifyEmails)
	}
	if cfg.Location().String() != "Europe/Berlin" {
		t.Fatalf("expected Berlin location, got %s", cfg.Location())
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("HTTP_RETRY_MAX", "many")
	t.Setenv("BOOKING_TZ", "Mars/Olympus")
	cfg := Load()
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("expected fallback ttl, got %s", cfg.SessionTTL)
	}
	if cfg.HTTPRetryMax != 3 {
		t.Fatalf("expected fallback retries, got %d", cfg.HTTPRetryMax)
	}
	if cfg.Location() != time.UTC {
		t.Fatalf("expected UTC fallback, got %s", cfg.Location())
	}
}
