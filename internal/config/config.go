package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string
	Timezone  string

	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Wizard sessions
	SessionStore string // "memory" or "redis"
	SessionTTL   time.Duration

	// Catalog source
	CatalogSource   string // "postgres", "http" or "file"
	CatalogBaseURL  string
	CatalogAPIToken string
	CatalogSeedFile string
	CatalogCacheTTL time.Duration

	// Submission sink
	SinkMode     string // "local" or "http"
	SinkBaseURL  string
	SinkAPIToken string

	// Outbound HTTP (catalog + sink forwarding)
	HTTPClientTimeout time.Duration
	HTTPRetryMax      int

	// Public surface
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int

	AdminJWTSecret    string
	IdentityJWTSecret string

	// Operator notifications
	EmailProvider     string // "sendgrid", "ses" or "stub"
	LeadNotifyEmails  []string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first when present; real env vars win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		Timezone:  getEnv("BOOKING_TZ", "UTC"),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		SessionStore: strings.ToLower(strings.TrimSpace(getEnv("SESSION_STORE", "memory"))),
		SessionTTL:   getEnvAsDuration("SESSION_TTL", 2*time.Hour),

		CatalogSource:   strings.ToLower(strings.TrimSpace(getEnv("CATALOG_SOURCE", "postgres"))),
		CatalogBaseURL:  getEnv("CATALOG_BASE_URL", ""),
		CatalogAPIToken: getEnv("CATALOG_API_TOKEN", ""),
		CatalogSeedFile: getEnv("CATALOG_SEED_FILE", ""),
		CatalogCacheTTL: getEnvAsDuration("CATALOG_CACHE_TTL", 0),

		SinkMode:     strings.ToLower(strings.TrimSpace(getEnv("SINK_MODE", "local"))),
		SinkBaseURL:  getEnv("SINK_BASE_URL", ""),
		SinkAPIToken: getEnv("SINK_API_TOKEN", ""),

		HTTPClientTimeout: getEnvAsDuration("HTTP_CLIENT_TIMEOUT", 15*time.Second),
		HTTPRetryMax:      getEnvAsInt("HTTP_RETRY_MAX", 3),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),

		AdminJWTSecret:    getEnv("ADMIN_JWT_SECRET", ""),
		IdentityJWTSecret: getEnv("IDENTITY_JWT_SECRET", ""),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "stub"))),
		LeadNotifyEmails:  getEnvAsList("LEAD_NOTIFY_EMAILS", nil),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "deiw2.0"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),

		AWSRegion:           getEnv("AWS_REGION", "eu-central-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
	}
}

// Location resolves the booking timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
