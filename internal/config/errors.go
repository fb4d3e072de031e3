package config

import "errors"

// Errors returned by Load and LoadFile; match them with errors.Is.
var (
	ErrInvalidConfig = errors.New("futdash config: invalid value")
	ErrLoadConfig    = errors.New("futdash config: cannot load")
)
