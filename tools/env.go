package tools

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Defaults read from the environment, command line flags take precedence
type EnvConfig struct {
	Seed          int64   `env:"SHAPECLOUD_SEED" envDefault:"0"`
	RatioBoundMin float64 `env:"SHAPECLOUD_RATIO_BOUND_MIN" envDefault:"3"`
	RatioBoundMax float64 `env:"SHAPECLOUD_RATIO_BOUND_MAX" envDefault:"10"`
	Workers       int     `env:"SHAPECLOUD_WORKERS" envDefault:"0"`
	WorkDir       string  `env:"SHAPECLOUD_WORKDIR"`
}

// ParseEnv loads EnvConfig from environment variables
func ParseEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
