// Package config loads process level settings for the controlbox command.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the defaults the CLI and HTTP server start from. Flags
// override these values.
type Config struct {
	Addr         string        `env:"CONTROLBOX_ADDR"          envDefault:":8080"`
	Debug        bool          `env:"CONTROLBOX_DEBUG"`
	Output       string        `env:"CONTROLBOX_OUTPUT"        envDefault:"json"`
	Locale       string        `env:"CONTROLBOX_LOCALE"`
	TemplatesDir string        `env:"CONTROLBOX_TEMPLATES_DIR"`
	CSRFField    string        `env:"CONTROLBOX_CSRF_FIELD"    envDefault:"_csrf"`
	ReadTimeout  time.Duration `env:"CONTROLBOX_READ_TIMEOUT"  envDefault:"10s"`
	WriteTimeout time.Duration `env:"CONTROLBOX_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownWait time.Duration `env:"CONTROLBOX_SHUTDOWN_WAIT" envDefault:"5s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the configuration read from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
