// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes settings for the
// HTTP server, logging, the catalog database, the external metadata provider,
// ingestion retry behavior, rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// ProviderConfig holds credentials and tuning for the external game metadata
// source (IGDB-style API behind Twitch OAuth client credentials).
type ProviderConfig struct {
	ClientID       string        // IGDB_CLIENT_ID
	ClientSecret   string        // IGDB_CLIENT_SECRET
	BaseURL        string        // IGDB_BASE_URL, e.g. https://api.igdb.com/v4
	TokenURL       string        // IGDB_TOKEN_URL
	RequestTimeout time.Duration // per-request timeout
	RequestsPerSec float64       // outbound pacing toward the provider ceiling
}

// IngestConfig tunes the catalog refresh pipeline.
type IngestConfig struct {
	PageSize     int           // records requested per page
	MaxRetries   int           // bounded retries per page before a fatal abort
	RetryBackoff time.Duration // fallback pause when the provider gives no Retry-After
	MaxGames     int           // optional cap on fetched games (0 = unlimited)
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	GinMode           string // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool
	SwaggerEnabled bool
	APIBasePath    string

	// Storage
	DBPath string // SQLite path holding the catalog and search tables

	// Suggestions
	MinQueryLen    int           // queries shorter than this return empty without touching the index
	MaxSuggestions int           // hard cap on suggestion results per request
	RecommendTTL   time.Duration // recommendation response cache TTL

	// External provider + ingestion
	Provider ProviderConfig
	Ingest   IngestConfig

	// Inbound rate limiting
	RateRPS   float64
	RateBurst int

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables, applies defaults,
// normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		DBPath: getenv("DB_PATH", "catalog.db"),

		MinQueryLen:    getint("MIN_QUERY_LEN", 2),
		MaxSuggestions: getint("MAX_SUGGESTIONS", 25),
		RecommendTTL:   getdur("RECOMMEND_TTL", 5*time.Minute),

		Provider: ProviderConfig{
			ClientID:       getenv("IGDB_CLIENT_ID", ""),
			ClientSecret:   getenv("IGDB_CLIENT_SECRET", ""),
			BaseURL:        strings.TrimRight(getenv("IGDB_BASE_URL", "https://api.igdb.com/v4"), "/"),
			TokenURL:       getenv("IGDB_TOKEN_URL", "https://id.twitch.tv/oauth2/token"),
			RequestTimeout: getdur("IGDB_REQUEST_TIMEOUT", 30*time.Second),
			RequestsPerSec: getfloat("IGDB_RPS", 4.0),
		},
		Ingest: IngestConfig{
			PageSize:     getint("INGEST_PAGE_SIZE", 500),
			MaxRetries:   getint("INGEST_MAX_RETRIES", 5),
			RetryBackoff: getdur("INGEST_RETRY_BACKOFF", 10*time.Second),
			MaxGames:     getint("INGEST_MAX_GAMES", 0),
		},

		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-gamerec-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.MinQueryLen < 1 {
		return cfg, errors.New("MIN_QUERY_LEN must be >= 1")
	}
	if cfg.MaxSuggestions < 1 {
		return cfg, errors.New("MAX_SUGGESTIONS must be >= 1")
	}
	if cfg.RecommendTTL < 0 {
		return cfg, errors.New("RECOMMEND_TTL must be >= 0")
	}
	if cfg.Provider.RequestTimeout <= 0 {
		return cfg, errors.New("IGDB_REQUEST_TIMEOUT must be > 0")
	}
	if cfg.Provider.RequestsPerSec <= 0 {
		return cfg, errors.New("IGDB_RPS must be > 0")
	}
	if cfg.Ingest.PageSize < 1 || cfg.Ingest.PageSize > 500 {
		return cfg, errors.New("INGEST_PAGE_SIZE must be in [1,500]")
	}
	if cfg.Ingest.MaxRetries < 0 {
		return cfg, errors.New("INGEST_MAX_RETRIES must be >= 0")
	}
	if cfg.Ingest.RetryBackoff <= 0 {
		return cfg, errors.New("INGEST_RETRY_BACKOFF must be > 0")
	}
	if cfg.Ingest.MaxGames < 0 {
		return cfg, errors.New("INGEST_MAX_GAMES must be >= 0")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
