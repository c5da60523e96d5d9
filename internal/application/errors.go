package application

import (
	"fmt"

	"icane/internal/errors"
)

// Sentinel errors for common conditions
var (
	ErrNotFound       = errors.ErrNotFound
	ErrInvalidRequest = errors.ErrInvalidRequest
	ErrUnsupported    = errors.ErrUnsupported
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// PayloadError is a payload that does not have the shape a command needs
type PayloadError struct {
	Path   string
	Reason string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("payload %s: %s", e.Path, e.Reason)
}

func (e *PayloadError) Is(target error) bool {
	return target == ErrUnsupported
}
