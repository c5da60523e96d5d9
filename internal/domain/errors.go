package domain

import (
	"fmt"

	"icane/internal/errors"
)

// Sentinel errors for the three failure kinds of decoding and flattening.
// The typed errors below match them with errors.Is.
var (
	ErrInvalidPayload = errors.New("invalid payload")
	ErrMissingField   = errors.New("missing field")
	ErrFlatten        = errors.New("flatten failed")
)

// InvalidPayloadError reports a value that had to be an object but was not.
type InvalidPayloadError struct {
	Path string // key path of the offending value, e.g. $.children[2]
	Got  string // JSON kind that was found instead
}

func (e *InvalidPayloadError) Error() string {
	return fmt.Sprintf("invalid payload at %s: expected object, got %s", e.Path, e.Got)
}

func (e *InvalidPayloadError) Is(target error) bool {
	return target == ErrInvalidPayload
}

// MissingFieldError reports a field absent from the decoded tree.
type MissingFieldError struct {
	Path  string // path of the node that was searched
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q at %s", e.Field, e.Path)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// FieldPath returns the full path of the missing field.
func (e *MissingFieldError) FieldPath() string {
	return childPath(e.Path, e.Field)
}

// FlattenError reports a value of unexpected shape met during traversal.
// Err holds the underlying error, if any, so its kind still matches.
type FlattenError struct {
	Path   string
	Reason string
	Err    error
}

func (e *FlattenError) Error() string {
	return fmt.Sprintf("cannot flatten %s: %s", e.Path, e.Reason)
}

func (e *FlattenError) Is(target error) bool {
	return target == ErrFlatten
}

func (e *FlattenError) Unwrap() error {
	return e.Err
}

// kindOf names the JSON kind of a decoded value for error messages.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case *Node, map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return "number"
	}
}
