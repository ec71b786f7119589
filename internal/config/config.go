package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrMisconfigured is wrapped by every error returned from Load.
var ErrMisconfigured = errors.New("invalid configuration")

const minSecretLength = 32

type Config struct {
	Port      string
	Env       string
	LogLevel  slog.Level
	LogFormat string
	Database  DatabaseConfig
	Auth      AuthConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type DatabaseConfig struct {
	Driver  string
	DSN     string
	Migrate bool
}

type AuthConfig struct {
	JWTSecret  string
	JWTExpiry  time.Duration
	JWTIssuer  string
	BcryptCost int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Load reads configuration from the environment. The signing secret has no
// default and must be supplied by the operator.
func Load() (Config, error) {
	cfg := Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("ENV", "development"),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		Database: DatabaseConfig{
			Driver: strings.ToLower(getEnv("DATABASE_DRIVER", "mysql")),
			DSN:    getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/webgames?parseTime=true"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			JWTIssuer: getEnv("JWT_ISSUER", "web-games"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		},
	}

	var err error
	if cfg.LogLevel, err = parseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return Config{}, fmt.Errorf("%w: invalid LOG_LEVEL", ErrMisconfigured)
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return Config{}, fmt.Errorf("%w: LOG_FORMAT must be json or text", ErrMisconfigured)
	}

	switch cfg.Database.Driver {
	case "mysql", "postgres":
	default:
		return Config{}, fmt.Errorf("%w: unsupported DATABASE_DRIVER %q", ErrMisconfigured, cfg.Database.Driver)
	}
	if cfg.Database.Migrate, err = strconv.ParseBool(getEnv("DATABASE_MIGRATE", "true")); err != nil {
		return Config{}, fmt.Errorf("%w: invalid DATABASE_MIGRATE", ErrMisconfigured)
	}

	if cfg.Auth.JWTSecret == "" {
		return Config{}, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}
	if len(cfg.Auth.JWTSecret) < minSecretLength {
		return Config{}, fmt.Errorf("%w: JWT_SECRET must be at least %d bytes", ErrMisconfigured, minSecretLength)
	}
	if cfg.Auth.JWTExpiry, err = time.ParseDuration(getEnv("JWT_EXPIRY", "12h")); err != nil || cfg.Auth.JWTExpiry <= 0 {
		return Config{}, fmt.Errorf("%w: invalid JWT_EXPIRY", ErrMisconfigured)
	}

	cost, err := strconv.Atoi(getEnv("BCRYPT_COST", strconv.Itoa(bcrypt.DefaultCost)))
	if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("%w: BCRYPT_COST must be between %d and %d", ErrMisconfigured, bcrypt.MinCost, bcrypt.MaxCost)
	}
	cfg.Auth.BcryptCost = cost

	if cfg.RateLimit.RPS, err = strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64); err != nil || cfg.RateLimit.RPS <= 0 {
		return Config{}, fmt.Errorf("%w: invalid RATE_LIMIT_RPS", ErrMisconfigured)
	}
	if cfg.RateLimit.Burst, err = strconv.Atoi(getEnv("RATE_LIMIT_BURST", "10")); err != nil || cfg.RateLimit.Burst < 1 {
		return Config{}, fmt.Errorf("%w: invalid RATE_LIMIT_BURST", ErrMisconfigured)
	}

	return cfg, nil
}

// NewLogger builds the process logger described by the config.
func (c Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLevel(value string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(value))
	return level, err
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
