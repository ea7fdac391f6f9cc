package config

import "errors"

// Sentinel errors returned by Load and Validate.
var (
	// ErrInvalidConfig marks values that fail validation.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig marks file, parse and decode failures.
	ErrLoadConfig = errors.New("load config failed")
)
