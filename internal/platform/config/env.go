// Package config loads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Config holds the settings shared by every chronicle command.
type Config struct {
	// DatabasePath is the SQLite database file holding the event log.
	DatabasePath string `env:"CHRONICLE_DB" envDefault:"chronicle.db"`
	// GenerationModel is the model used for fact extraction calls.
	GenerationModel string `env:"CHRONICLE_MODEL" envDefault:"gpt-4o-mini"`
	// GenerationAPIKey authenticates against the generation endpoint.
	GenerationAPIKey string `env:"CHRONICLE_API_KEY"`
	// GenerationBaseURL overrides the OpenAI-compatible endpoint.
	GenerationBaseURL string `env:"CHRONICLE_BASE_URL"`
	// MaxRequestsPerMinute caps generation calls; zero or less disables limiting.
	MaxRequestsPerMinute int `env:"CHRONICLE_MAX_RPM" envDefault:"8"`
}

// Load parses the chronicle configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
