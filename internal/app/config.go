package app

import (
	"errors"
	"fmt"

	"github.com/vk/equisolve/internal/solver"
	"github.com/vk/equisolve/internal/validate"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ModelPath string // hcl model files (file or directory)

	LogFormat string
	LogLevel  string

	Tol           float64 // residual tolerance
	Backend       string  // solver backend name
	DatasetID     string  // export dataset id; empty generates one
	Description   string  // export dataset description
	OutPath       string  // sqlite output file; empty disables persistence
	Level         string  // validation level
	SkipObjective bool    // leave a declared objective uncompiled
}

// NewConfig validates a Config and fills defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("ModelPath is a required configuration field and cannot be empty")
	}
	if cfg.Tol <= 0 {
		cfg.Tol = 1e-6
	}
	if cfg.Backend != "" && !solver.KnownBackend(cfg.Backend) {
		return nil, fmt.Errorf("unknown solver backend %q", cfg.Backend)
	}
	if _, err := validate.ParseLevel(cfg.Level); err != nil {
		return nil, err
	}
	return &cfg, nil
}
