package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrValidation is returned when a domain entity fails validation.
// ValidationError unwraps to it.
var ErrValidation = errors.New("validation failed")

// Field error messages reported to API clients.
const (
	MsgRequired        = "This field is required."
	MsgNull            = "This field may not be null."
	MsgBlank           = "This field may not be blank."
	MsgNotString       = "Not a valid string."
	MsgNotInteger      = "A valid integer is required."
	MsgNotBoolean      = "Must be a valid boolean."
	MsgUsernameExists  = "A user with that username already exists."
	MsgInvalidUsername = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
)

// MsgMaxLength reports a string longer than n characters.
func MsgMaxLength(n int) string {
	return fmt.Sprintf("Ensure this field has no more than %d characters.", n)
}

// MsgMinLength reports a string shorter than n characters.
func MsgMinLength(n int) string {
	return fmt.Sprintf("Ensure this field has at least %d characters.", n)
}

// MsgMinValue reports a number below n.
func MsgMinValue(n int) string {
	return fmt.Sprintf("Ensure this value is greater than or equal to %d.", n)
}

// MsgMaxValue reports a number above n.
func MsgMaxValue(n int) string {
	return fmt.Sprintf("Ensure this value is less than or equal to %d.", n)
}

// ValidationError collects field-level validation failures.
// The zero value is ready to use.
type ValidationError struct {
	Fields map[string][]string
}

// Add records msg against field. A message already recorded for the field
// is not repeated.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	for _, existing := range e.Fields[field] {
		if existing == msg {
			return
		}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Has reports whether field already has an error.
func (e *ValidationError) Has(field string) bool {
	return len(e.Fields[field]) > 0
}

// Merge copies every field error from other into e.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for field, msgs := range other.Fields {
		for _, msg := range msgs {
			e.Add(field, msg)
		}
	}
}

// Err returns e as an error, or nil when no field errors were recorded.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Error lists the failing fields in a stable order.
func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e.Fields[field], " "))
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap allows errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
