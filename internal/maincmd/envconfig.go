package maincmd

import "github.com/caarlos0/env/v6"

// envConfig holds the handful of settings exposed through environment
// variables rather than flags, following the struct-tag convention of
// caarlos0/env.
type envConfig struct {
	// MaxSteps bounds the number of instructions the interpreter will
	// execute before aborting; 0 (the default) means unlimited.
	MaxSteps int `env:"IPPCODE21_MAX_STEPS" envDefault:"0"`
}

func loadEnvConfig() (envConfig, error) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return envConfig{}, err
	}
	return cfg, nil
}
