package config

import (
	"fmt"
	"time"
)

// JWTConfig holds configuration for bearer token signing and validation.
type JWTConfig struct {
	Secret          string `mapstructure:"secret"`
	ExpirationHours int    `mapstructure:"expiration-hours"`
}

// Expiration returns the token lifetime.
func (c JWTConfig) Expiration() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

// Validate checks the secret and lifetime.
func (c JWTConfig) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("auth.secret is required (JOBTRACK_AUTH_SECRET)")
	}
	if len(c.Secret) < 16 {
		return fmt.Errorf("auth.secret must be at least 16 characters, got %d", len(c.Secret))
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("auth.expiration-hours must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
