package api

import (
	"os"
	"time"

	"github.com/marmos91/cubby/internal/logger"
)

// EnvAPISecret is the environment variable holding the JWT signing secret.
// It takes precedence over the config file value.
const EnvAPISecret = "CUBBY_API_SECRET"

// Config configures the REST API HTTP server.
type Config struct {
	// Port is the HTTP port for the API endpoints.
	// Default: 8080
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. Zero or negative means no timeout.
	// Default: 30s (uploads arrive through this path)
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. Zero or negative means no timeout.
	// Default: 30s
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request on a
	// kept-alive connection.
	// Default: 60s
	IdleTimeout time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`

	// JWT configures token generation and validation.
	JWT JWTConfig `mapstructure:"jwt" yaml:"jwt"`
}

// JWTConfig configures JWT token generation and validation.
type JWTConfig struct {
	// Secret is the HMAC signing key. Must be at least 32 characters.
	// The CUBBY_API_SECRET environment variable takes precedence.
	Secret string `mapstructure:"secret" yaml:"secret"`

	// AccessTokenDuration is the lifetime of access tokens.
	// Default: 15m
	AccessTokenDuration time.Duration `mapstructure:"access_token_duration" yaml:"access_token_duration"`

	// RefreshTokenDuration is the lifetime of refresh tokens.
	// Default: 168h (7 days)
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration" yaml:"refresh_token_duration"`
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	defaultDuration(&c.ReadTimeout, 30*time.Second)
	defaultDuration(&c.WriteTimeout, 30*time.Second)
	defaultDuration(&c.IdleTimeout, 60*time.Second)
	defaultDuration(&c.JWT.AccessTokenDuration, 15*time.Minute)
	defaultDuration(&c.JWT.RefreshTokenDuration, 7*24*time.Hour)
}

func defaultDuration(d *time.Duration, def time.Duration) {
	if *d == 0 {
		*d = def
	}
}

// GetJWTSecret returns the JWT secret, preferring the environment variable.
// Returns the empty string when neither is set.
func (c *Config) GetJWTSecret() string {
	env := os.Getenv(EnvAPISecret)
	if env == "" {
		return c.JWT.Secret
	}
	if c.JWT.Secret != "" && c.JWT.Secret != env {
		logger.Warn("JWT secret from environment variable overrides config file value",
			"env_var", EnvAPISecret)
	}
	return env
}

// HasJWTSecret reports whether a JWT secret is configured at all.
func (c *Config) HasJWTSecret() bool {
	return c.GetJWTSecret() != ""
}
