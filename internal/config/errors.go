package config

import "errors"

// ErrInvalidConfig wraps validation failures; ErrLoadConfig wraps failures
// reading the .env file, the YAML file or the environment.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrLoadConfig    = errors.New("load configuration")
)
