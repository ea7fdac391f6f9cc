// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New returns a Config populated with defaults.
//   - Load layers a YAML file and environment variables over the defaults.
//   - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"

	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/partition"
	"github.com/okian/matchday/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DefaultGroupSize is used when a request omits group_size.
	DefaultGroupSize int `koanf:"default_group_size"`

	// WeightPreset names the default weight vector: reference or official.
	WeightPreset string `koanf:"weight_preset"`

	// Weights, when set, replaces the preset as the default weight vector.
	Weights map[string]float64 `koanf:"weights"`

	// MaxIterations caps the local-search rounds of each run.
	MaxIterations int `koanf:"max_iterations"`

	// ConvergenceThreshold ends the search once group strengths are this close.
	ConvergenceThreshold float64 `koanf:"convergence_threshold"`

	// MaxParticipants caps the pool size accepted by POST /balance.
	MaxParticipants int `koanf:"max_participants"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		DefaultGroupSize:     5,
		WeightPreset:         scoring.PresetReference,
		MaxIterations:        partition.DefaultMaxIterations,
		ConvergenceThreshold: partition.DefaultConvergenceThreshold,
		MaxParticipants:      500,
	}
}

// DefaultWeights resolves the weight vector the balancer should fall back to.
func (c *Config) DefaultWeights() (model.WeightVector, error) {
	if len(c.Weights) > 0 {
		w := make(model.WeightVector, len(c.Weights))
		for k, v := range c.Weights {
			w[model.Attribute(strings.ToLower(k))] = v
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("%w: weights: %w", ErrInvalidConfig, err)
		}
		return w, nil
	}
	w, err := scoring.Preset(c.WeightPreset)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return w, nil
}

// Validate checks the fields that would otherwise fail at request time.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DefaultGroupSize < 1:
		return fmt.Errorf("%w: default_group_size must be at least 1", ErrInvalidConfig)
	case c.MaxIterations < 0:
		return fmt.Errorf("%w: max_iterations must not be negative", ErrInvalidConfig)
	case c.ConvergenceThreshold < 0:
		return fmt.Errorf("%w: convergence_threshold must not be negative", ErrInvalidConfig)
	case c.MaxParticipants < 2:
		return fmt.Errorf("%w: max_participants must be at least 2", ErrInvalidConfig)
	}
	_, err := c.DefaultWeights()
	return err
}
