package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"bookeasy/internal/domain/identity"
)

const (
	defaultPort           = "8080"
	defaultDatabaseURL    = "bookeasy.db"
	defaultAuthMode       = AuthModeLocal
	defaultJWTSecret      = "change-me-jwt-secret"
	defaultJWTAccessTTL   = "24h"
	defaultCORSOrigins    = "http://localhost:5173,http://localhost:3000"
	defaultRateLimitRPS   = "20"
	defaultRateLimitBurst = "40"
	defaultLogLevel       = "info"
)

// Auth modes select where bearer tokens come from.
const (
	// AuthModeLocal issues and verifies HS256 tokens and serves sign-up/sign-in.
	AuthModeLocal = "local"
	// AuthModeHS256 verifies HS256 tokens from an external provider sharing JWT_SECRET.
	AuthModeHS256 = "hs256"
	// AuthModeJWKS verifies tokens against the provider's published key set.
	AuthModeJWKS = "jwks"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	AuthMode     string
	JWTSecret    string
	JWTAccessTTL time.Duration
	JWKSURL      string

	RedisURL string

	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int

	PreventOverlap bool

	LogLevel  string
	LogFormat string
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.AuthMode = strings.ToLower(strings.TrimSpace(getEnv("AUTH_MODE", defaultAuthMode)))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.JWKSURL = strings.TrimSpace(os.Getenv("JWKS_URL"))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.CORSAllowedOrigins = parseListEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins)
	cfg.PreventOverlap = parseBoolEnv("BOOKING_PREVENT_OVERLAP", "false")
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT")))
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
		if isProdLike(cfg.AppEnv) {
			cfg.LogFormat = "json"
		}
	}

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitRPS, err = parseFloatEnv("RATE_LIMIT_RPS", defaultRateLimitRPS)
	if err != nil {
		return nil, err
	}
	burst, err := parseFloatEnv("RATE_LIMIT_BURST", defaultRateLimitBurst)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitBurst = int(burst)

	if admin := strings.TrimSpace(os.Getenv("ADMIN_EMAIL")); admin != "" && !strings.EqualFold(admin, identity.AdminEmail) {
		return nil, fmt.Errorf("ADMIN_EMAIL is fixed to %s and cannot be changed", identity.AdminEmail)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) IsProd() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 1 when rate limiting is on")
	}
	switch cfg.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be one of: console, json")
	}

	switch cfg.AuthMode {
	case AuthModeLocal, AuthModeHS256:
	case AuthModeJWKS:
		if cfg.JWKSURL == "" {
			return fmt.Errorf("JWKS_URL is required when AUTH_MODE=jwks")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be one of: local, hs256, jwks")
	}

	if isProdLike(cfg.AppEnv) {
		if cfg.AuthMode != AuthModeJWKS && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if !strings.HasPrefix(cfg.DatabaseURL, "postgres") && !strings.HasPrefix(cfg.DatabaseURL, "mysql://") {
			return fmt.Errorf("in prod/release DATABASE_URL must point at postgres or mysql")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseFloatEnv(name, fallback string) (float64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return f, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

// parseListEnv splits a comma separated value, dropping blanks.
func parseListEnv(name, fallback string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(name, fallback), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
