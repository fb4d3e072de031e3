package model

import "errors"

var (
	ErrColumnCount     = errors.New("unexpected column count")
	ErrInvalidValue    = errors.New("invalid column value")
	ErrDuplicatePlayer = errors.New("duplicate player id")
)
