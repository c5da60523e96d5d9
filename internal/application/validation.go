package application

import (
	"fmt"
	"strings"

	"icane/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "uriTag" -> "URI tag")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"uriTag":     "URI tag",
		"entity":     "entity",
		"category":   "category",
		"section":    "section",
		"subsection": "subsection",
		"dataSet":    "data set",
		"nodeType":   "node type",
		"language":   "language",
		"path":       "payload path",
		"query":      "query",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateURITag checks that a uriTag is a single, non-empty path segment.
func ValidateURITag(fieldName, tag string) error {
	if err := ValidateRequired(fieldName, tag); err != nil {
		return err
	}
	if strings.ContainsAny(tag, "/?&# ") || tag == "." || tag == ".." {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("invalid %s: %q", formatFieldName(fieldName), tag),
		}
	}
	return nil
}

// ValidateEntity checks that s names a known entity, optionally one with a
// plain collection endpoint.
func ValidateEntity(s string, listable bool) (domain.Entity, error) {
	e := domain.ParseEntity(s)
	if e == domain.EntityUnknown {
		return e, &ValidationError{
			Field:   "entity",
			Message: fmt.Sprintf("unknown entity: %q", s),
		}
	}
	if listable && !e.Listable() {
		return e, &ValidationError{
			Field:   "entity",
			Message: fmt.Sprintf("%s has no collection endpoint", e),
		}
	}
	return e, nil
}
