package validate

import "fmt"

// ErrorKind classifies a validation failure.
type ErrorKind string

const (
	// MissingField means a required field was absent or null.
	MissingField ErrorKind = "missing_field"
	// TypeMismatch means a value was present but not coercible to the
	// field's semantic type.
	TypeMismatch ErrorKind = "type_mismatch"
	// ConstraintViolation means a value was coercible but outside the
	// allowed domain.
	ConstraintViolation ErrorKind = "constraint_violation"
	// TimestampParseError is the TypeMismatch specialization for
	// last_updated. The field is required, so it is always fatal.
	TimestampParseError ErrorKind = "timestamp_parse_error"
)

// FieldError describes one field-level violation: which field, what kind of
// failure, the offending raw value, and the expectation it broke. Callers
// get everything they need without re-inspecting the raw record.
type FieldError struct {
	Field      string    `json:"field"`
	Kind       ErrorKind `json:"kind"`
	Value      any       `json:"value,omitempty"`
	Constraint string    `json:"constraint,omitempty"`
}

func (e *FieldError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Field, e.Kind)
	if e.Constraint != "" {
		msg += ": " + e.Constraint
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (got %v)", e.Value)
	}
	return msg
}

// RecordError is the fatal rejection of one record. Cause is the first
// fatal field failure; nothing after it was evaluated.
type RecordError struct {
	Ticker string     `json:"ticker,omitempty"`
	Cause  FieldError `json:"cause"`
}

func (e *RecordError) Error() string {
	if e.Ticker != "" {
		return fmt.Sprintf("record %s rejected: %s", e.Ticker, e.Cause.Error())
	}
	return fmt.Sprintf("record rejected: %s", e.Cause.Error())
}

func (e *RecordError) Unwrap() error {
	return &e.Cause
}
