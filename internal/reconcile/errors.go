package reconcile

import (
	"errors"
	"fmt"
)

// Error categories for configuration failures. All of them are detected
// before any comparison work starts.
const (
	// ErrInvalidTypeFilter means the type filter is empty or names an unknown type
	ErrInvalidTypeFilter = "invalid_type_filter"

	// ErrReservedSourceName means a caller-supplied source uses the baseline's name
	ErrReservedSourceName = "reserved_source_name"

	// ErrDuplicateSourceName means two caller-supplied sources share a name
	ErrDuplicateSourceName = "duplicate_source_name"
)

// ConfigError represents a fatal configuration problem with additional
// context about what was rejected.
type ConfigError struct {
	// Category helps with programmatic error handling
	Category string

	// Message provides human-readable details
	Message string

	// Value is the offending input (if applicable)
	Value string

	// Underlying is the wrapped cause of this error
	Underlying error
}

// Error returns the error message
func (e *ConfigError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (value: %s)", e.Category, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// Unwrap returns the underlying error (for errors.Is/As support)
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// NewConfigError creates a new error with the given category and details
func NewConfigError(category, message, value string, underlying error) *ConfigError {
	return &ConfigError{
		Category:   category,
		Message:    message,
		Value:      value,
		Underlying: underlying,
	}
}

// IsErrorCategory checks if an error belongs to a specific error category
func IsErrorCategory(err error, category string) bool {
	if err == nil {
		return false
	}

	var e *ConfigError
	if errors.As(err, &e) {
		return e.Category == category
	}

	return false
}
