package repository

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrNotFound       = errors.New("table not found")
	ErrSchemaMismatch = errors.New("table header does not match schema")
	ErrInvalidRow     = errors.New("invalid table row")
)
