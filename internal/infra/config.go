package infra

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	// Backend endpoint and public API key. Required for every call; their
	// absence is reported by Validate but must not halt startup; the client
	// is still constructed and individual calls fail with their own errors.
	BackendURL string `env:"LIVESBOARD_BACKEND_URL"`
	AnonKey    string `env:"LIVESBOARD_ANON_KEY"`

	// Storage
	ImageBucket string `env:"LIVESBOARD_IMAGE_BUCKET" envDefault:"player-images"`

	// OAuth
	OAuthProvider    string `env:"LIVESBOARD_OAUTH_PROVIDER" envDefault:"google"`
	OAuthRedirectURL string `env:"LIVESBOARD_OAUTH_REDIRECT" envDefault:"http://localhost:5173/auth/callback"`

	// Session persistence between CLI invocations
	SessionFile string `env:"LIVESBOARD_SESSION_FILE"`

	// Desktop notifications
	NotificationIcon string `env:"LIVESBOARD_NOTIFICATION_ICON"`
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate reports missing backend configuration. Callers log the error and
// continue; requests against an unconfigured backend fail individually.
func (c *Config) Validate() error {
	if c.BackendURL == "" || c.AnonKey == "" {
		return fmt.Errorf("missing backend configuration: set LIVESBOARD_BACKEND_URL and LIVESBOARD_ANON_KEY")
	}
	return nil
}
