// Package config loads and validates the service configuration from the
// environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"dashboard/internal/session"
)

// Session store backends
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config is the full process configuration
type Config struct {
	Env  string
	Port string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	DatabaseURL string

	Session SessionConfig
	Redis   RedisConfig
	S3      S3Config

	CORSAllowedOrigins []string
	SignInPath         string
}

// SessionConfig holds cookie and lifetime settings
type SessionConfig struct {
	CookieName     string
	Lifetime       time.Duration
	RenewThreshold time.Duration
	SweepInterval  time.Duration
	Backend        string
}

// Policy returns the session lifetime policy
func (s SessionConfig) Policy() session.Policy {
	return session.Policy{Lifetime: s.Lifetime, RenewThreshold: s.RenewThreshold}
}

// RedisConfig is used when the session backend is redis
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// S3Config configures object storage. File routes are disabled when Bucket
// is empty.
type S3Config struct {
	Endpoint        string
	PublicEndpoint  string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// Enabled reports whether object storage is configured
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// Production reports whether the service runs in a production-like
// environment. Cookies are marked Secure there.
func (c *Config) Production() bool {
	return c.Env == "production" || c.Env == "staging"
}

// Load reads the configuration from the environment and validates it
func Load() (*Config, error) {
	if err := ValidateEnv([]string{"DATABASE_URL"}); err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:         GetEnvOrDefault("APP_ENV", "development"),
		Port:        GetEnvOrDefault("PORT", "8080"),
		DatabaseURL: GetEnvOrDefault("DATABASE_URL", ""),
		Session: SessionConfig{
			CookieName: GetEnvOrDefault("SESSION_COOKIE_NAME", session.DefaultCookieName),
			Backend:    GetEnvOrDefault("SESSION_BACKEND", BackendPostgres),
		},
		Redis: RedisConfig{
			Addr:     GetEnvOrDefault("REDIS_ADDR", ""),
			Password: GetEnvOrDefault("REDIS_PASSWORD", ""),
		},
		S3: S3Config{
			Endpoint:        GetEnvOrDefault("S3_ENDPOINT", ""),
			PublicEndpoint:  GetEnvOrDefault("S3_PUBLIC_ENDPOINT", ""),
			Region:          GetEnvOrDefault("S3_REGION", "us-east-1"),
			Bucket:          GetEnvOrDefault("S3_BUCKET", ""),
			AccessKeyID:     GetEnvOrDefault("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: GetEnvOrDefault("S3_SECRET_ACCESS_KEY", ""),
			UsePathStyle:    GetEnvOrDefault("S3_USE_PATH_STYLE", "true") == "true",
		},
		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		SignInPath:         GetEnvOrDefault("SIGN_IN_PATH", "/sign-in"),
	}

	var errs []error
	duration := func(dst *time.Duration, key string, def time.Duration) {
		d, err := getDuration(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		*dst = d
	}
	duration(&cfg.ReadTimeout, "SERVER_READ_TIMEOUT", 10*time.Second)
	duration(&cfg.WriteTimeout, "SERVER_WRITE_TIMEOUT", 30*time.Second)
	duration(&cfg.IdleTimeout, "SERVER_IDLE_TIMEOUT", time.Minute)
	duration(&cfg.ShutdownTimeout, "SERVER_SHUTDOWN_TIMEOUT", 10*time.Second)
	duration(&cfg.Session.Lifetime, "SESSION_LIFETIME", session.DefaultLifetime)
	duration(&cfg.Session.SweepInterval, "SESSION_SWEEP_INTERVAL", time.Hour)

	// The threshold defaults to half of whatever lifetime is configured.
	duration(&cfg.Session.RenewThreshold, "SESSION_RENEW_THRESHOLD", cfg.Session.Lifetime/2)

	db, err := getInt("REDIS_DB", 0)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.Redis.DB = db

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if err := c.Session.Policy().Validate(); err != nil {
		return fmt.Errorf("invalid session policy: %w", err)
	}
	if c.Session.SweepInterval <= 0 {
		return errors.New("SESSION_SWEEP_INTERVAL must be positive")
	}

	switch c.Session.Backend {
	case BackendPostgres:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("REDIS_ADDR is required when SESSION_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.Session.Backend)
	}
	return nil
}
