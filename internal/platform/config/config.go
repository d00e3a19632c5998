// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Both token signing secrets are mandatory. A missing, short, or shared secret
is a startup failure, never a per-request one.
*/
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/caarlos0/env/v11"
)

// MinSecretLength is the minimum byte length accepted for an HS256 signing secret.
const MinSecretLength = 32

// ErrInvalidConfiguration is wrapped by every validation failure returned from [Load].
var ErrInvalidConfiguration = errors.New("config: invalid configuration")

// # Configuration Schema

// Config holds all runtime configuration for the Bizdesk API server.
type Config struct {

	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	Server ServerConfig `envPrefix:"SERVER_"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	Database DatabaseConfig `envPrefix:"DATABASE_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Auth     AuthConfig     `envPrefix:"AUTH_"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// ServerConfig holds the HTTP listener timings and the per-IP rate limit.
type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`

	ReadTimeout       time.Duration `env:"READ_TIMEOUT"        envDefault:"5s"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"2s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT"       envDefault:"10s"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT"        envDefault:"120s"`

	// RequestTimeout cancels the context of a handler that runs too long.
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT"  envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"50"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"100"`

	// TrustedProxies lists the CIDRs whose X-Real-IP and X-Forwarded-For
	// headers are believed. Empty means the TCP peer is always the client.
	TrustedProxies []netip.Prefix `env:"TRUSTED_PROXIES" envSeparator:","`
}

// DatabaseConfig sizes the PostgreSQL pool.
type DatabaseConfig struct {
	URL string `env:"URL,required"`

	MaxConns int32 `env:"MAX_CONNS" envDefault:"25"`
	MinConns int32 `env:"MIN_CONNS" envDefault:"5"`

	// StatementTimeout is set on every pooled connection.
	StatementTimeout time.Duration `env:"STATEMENT_TIMEOUT" envDefault:"30s"`
}

// RedisConfig sizes the Redis client used by the login throttle.
type RedisConfig struct {
	URL      string `env:"URL,required"`
	PoolSize int    `env:"POOL_SIZE" envDefault:"10"`
}

// AuthConfig groups the settings of the authentication core.
type AuthConfig struct {
	// AccessTokenSecret signs access tokens. It must differ from RefreshTokenSecret.
	AccessTokenSecret string `env:"ACCESS_TOKEN_SECRET,required"`

	// RefreshTokenSecret signs refresh tokens.
	RefreshTokenSecret string `env:"REFRESH_TOKEN_SECRET,required"`

	Issuer string `env:"ISSUER" envDefault:"bizdesk.app"`

	// StoreTimeout bounds every token store round-trip.
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`

	// SweepInterval is how often expired tokens and sessions are flagged.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"10m"`

	// LoginMaxFailures is the number of failed attempts per identifier tolerated
	// within LoginFailureWindow before further attempts are throttled.
	LoginMaxFailures   int           `env:"LOGIN_MAX_FAILURES"   envDefault:"10"`
	LoginFailureWindow time.Duration `env:"LOGIN_FAILURE_WINDOW" envDefault:"15m"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	if len(c.Auth.AccessTokenSecret) < MinSecretLength {
		return fmt.Errorf("%w: AUTH_ACCESS_TOKEN_SECRET must be at least %d bytes", ErrInvalidConfiguration, MinSecretLength)
	}
	if len(c.Auth.RefreshTokenSecret) < MinSecretLength {
		return fmt.Errorf("%w: AUTH_REFRESH_TOKEN_SECRET must be at least %d bytes", ErrInvalidConfiguration, MinSecretLength)
	}
	if c.Auth.AccessTokenSecret == c.Auth.RefreshTokenSecret {
		return fmt.Errorf("%w: access and refresh token secrets must differ", ErrInvalidConfiguration)
	}
	if c.Server.RequestTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: SERVER_REQUEST_TIMEOUT and SERVER_SHUTDOWN_TIMEOUT must be positive", ErrInvalidConfiguration)
	}
	if c.Server.RateLimitRPS <= 0 || c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("%w: SERVER_RATE_LIMIT_RPS and SERVER_RATE_LIMIT_BURST must be positive", ErrInvalidConfiguration)
	}
	if c.Database.MaxConns < 1 || c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("%w: DATABASE_MIN_CONNS must be between 0 and DATABASE_MAX_CONNS", ErrInvalidConfiguration)
	}
	if c.Redis.PoolSize < 1 {
		return fmt.Errorf("%w: REDIS_POOL_SIZE must be at least 1", ErrInvalidConfiguration)
	}
	if c.Auth.StoreTimeout <= 0 {
		return fmt.Errorf("%w: AUTH_STORE_TIMEOUT must be positive", ErrInvalidConfiguration)
	}
	if c.Auth.SweepInterval <= 0 {
		return fmt.Errorf("%w: AUTH_SWEEP_INTERVAL must be positive", ErrInvalidConfiguration)
	}
	if c.Auth.LoginMaxFailures < 1 {
		return fmt.Errorf("%w: AUTH_LOGIN_MAX_FAILURES must be at least 1", ErrInvalidConfiguration)
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
