package channel

import "fmt"

// FieldError indicates that a record field cannot be encoded.
type FieldError struct {
	// Field is the column name of the offending field
	Field string

	// Value is the offending value as text
	Value string

	// Reason explains what is wrong with the value
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}
