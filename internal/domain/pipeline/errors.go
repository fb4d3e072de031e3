package pipeline

import (
	"errors"
	"fmt"
)

// ErrSchemaViolation marks a value that cannot be coerced after cleaning.
var ErrSchemaViolation = errors.New("schema violation")

// SchemaViolationError names the offending cell.
type SchemaViolationError struct {
	PlayerID int
	Column   string
	Value    string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("%s: player %d column %s value %q", ErrSchemaViolation, e.PlayerID, e.Column, e.Value)
}

func (e *SchemaViolationError) Unwrap() error { return ErrSchemaViolation }
