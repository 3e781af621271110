package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the settings the command line reads from the environment.
// Flags take precedence over these.
type Env struct {
	// ConfigPath is the bank configuration used when --config is unset.
	ConfigPath string `env:"HEXBANK_CONFIG"`
	// DBPath is the default bank database.
	DBPath string `env:"HEXBANK_DB" envDefault:"banks.db"`
	// Verbose enables debug logging.
	Verbose bool `env:"HEXBANK_VERBOSE"`
}

// LoadEnv parses Env from the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}
