// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr          string   `env:"ADDR" envDefault:":8080"`
	DatabaseURL   string   `env:"DATABASE_URL,required"`
	JWTSecret     string   `env:"JWT_HMAC_SECRET"`
	StaticTokens  []string `env:"STATIC_TOKENS" envSeparator:","`
	AllowedOrigin string   `env:"ALLOWED_ORIGIN" envDefault:"*"`
	HostName      string   `env:"HOST_NAME" envDefault:"Host"`
	HostTimezone  string   `env:"HOST_TIMEZONE" envDefault:"UTC"`

	// Public booking endpoints rate limit, per client IP.
	RateRPS   float64 `env:"RATE_RPS" envDefault:"5"`
	RateBurst int     `env:"RATE_BURST" envDefault:"10"`
}

// Load reads a .env file if present, then parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
