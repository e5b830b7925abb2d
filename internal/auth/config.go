package auth

import (
	"time"

	"github.com/EternisAI/silo-auth/internal/encryption"
)

const (
	DefaultMaxFailedAttempts = 3
	DefaultTokenExpiry       = time.Hour
	DefaultIssuer            = "silo-auth"
)

type Config struct {
	MaxFailedAttempts int `mapstructure:"max_failed_attempts"`
	KeyBits           int `mapstructure:"key_bits"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

func (c Config) withDefaults() Config {
	if c.MaxFailedAttempts <= 0 {
		c.MaxFailedAttempts = DefaultMaxFailedAttempts
	}
	if c.KeyBits == 0 {
		c.KeyBits = encryption.DefaultKeyBits
	}
	return c
}
