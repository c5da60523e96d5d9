package logger

// Standard field names for structured logging.
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldPath      = "path"
	FieldFile      = "file"
	FieldQuery     = "query"
	FieldRunID     = "run_id"
	FieldKind      = "kind"
	FieldCount     = "count"
	FieldError     = "error"

	FieldDurationMS = "duration_ms"
)
