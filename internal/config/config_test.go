package config

import (
	"testing"
	"time"
)

// clearEnv unsets every variable the loader reads so defaults apply.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"PORT", "READ_TIMEOUT", "READ_HEADER_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT",
		"MAX_HEADER_BYTES", "GIN_MODE", "LOG_LEVEL", "LOG_PRETTY", "SWAGGER_ENABLED",
		"API_BASE_PATH", "DB_PATH", "MIN_QUERY_LEN", "MAX_SUGGESTIONS", "RECOMMEND_TTL",
		"IGDB_CLIENT_ID", "IGDB_CLIENT_SECRET", "IGDB_BASE_URL", "IGDB_TOKEN_URL",
		"IGDB_REQUEST_TIMEOUT", "IGDB_RPS", "INGEST_PAGE_SIZE", "INGEST_MAX_RETRIES",
		"INGEST_RETRY_BACKOFF", "INGEST_MAX_GAMES", "RATE_RPS", "RATE_BURST",
		"CORS_ALLOWED_ORIGINS", "ENABLE_HSTS", "HSTS_MAX_AGE",
		"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE",
		"OTEL_SERVICE_NAME", "OTEL_TRACES_SAMPLER_ARG",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with defaults: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port default = %q", cfg.Port)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Fatalf("APIBasePath default = %q", cfg.APIBasePath)
	}
	if cfg.DBPath != "catalog.db" {
		t.Fatalf("DBPath default = %q", cfg.DBPath)
	}
	if cfg.MinQueryLen != 2 {
		t.Fatalf("MinQueryLen default = %d", cfg.MinQueryLen)
	}
	if cfg.Ingest.PageSize != 500 || cfg.Ingest.MaxRetries != 5 {
		t.Fatalf("ingest defaults: %+v", cfg.Ingest)
	}
	if cfg.Ingest.RetryBackoff != 10*time.Second {
		t.Fatalf("RetryBackoff default = %v", cfg.Ingest.RetryBackoff)
	}
	if cfg.Provider.BaseURL != "https://api.igdb.com/v4" {
		t.Fatalf("provider base URL default = %q", cfg.Provider.BaseURL)
	}
	if cfg.Provider.RequestsPerSec != 4.0 {
		t.Fatalf("provider rps default = %v", cfg.Provider.RequestsPerSec)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9999")
	t.Setenv("DB_PATH", "/tmp/games.db")
	t.Setenv("INGEST_PAGE_SIZE", "100")
	t.Setenv("INGEST_RETRY_BACKOFF", "250ms")
	t.Setenv("IGDB_BASE_URL", "https://igdb.example/v4/")
	t.Setenv("LOG_LEVEL", "warning") // normalized to warn
	t.Setenv("API_BASE_PATH", "api/v2/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9999" || cfg.DBPath != "/tmp/games.db" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Ingest.PageSize != 100 || cfg.Ingest.RetryBackoff != 250*time.Millisecond {
		t.Fatalf("ingest overrides not applied: %+v", cfg.Ingest)
	}
	if cfg.Provider.BaseURL != "https://igdb.example/v4" {
		t.Fatalf("base URL not trimmed: %q", cfg.Provider.BaseURL)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("LOG_LEVEL not normalized: %q", cfg.LogLevel)
	}
	if cfg.APIBasePath != "/api/v2" {
		t.Fatalf("base path not normalized: %q", cfg.APIBasePath)
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := map[string]string{
		"LOG_LEVEL":            "verbose",
		"INGEST_PAGE_SIZE":     "501",
		"INGEST_MAX_RETRIES":   "-1",
		"IGDB_RPS":             "-2",
		"MIN_QUERY_LEN":        "0",
		"RATE_BURST":           "0",
		"OTEL_TRACES_SAMPLER_ARG": "1.5",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected validation error for %s=%s", key, val)
			}
		})
	}
}

func TestMustLoad_PanicsOnInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "bogus")
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	MustLoad()
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":         "/",
		"/":        "/",
		"api":      "/api",
		"/api/":    "/api",
		"/api/v1/": "/api/v1",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Fatalf("normalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
}
