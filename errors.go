package stoplight

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrInvalidRule indicates a rule has an empty field name or an unknown strategy.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrMissingAttribute indicates a rule names a field the record does not expose.
	ErrMissingAttribute = errors.New("missing attribute")

	// ErrForbiddenTarget indicates a rule targets the record's primary key.
	ErrForbiddenTarget = errors.New("forbidden target")

	// ErrTypeKind indicates the field value's type is not supported by the strategy.
	ErrTypeKind = errors.New("unsupported type")

	// ErrValueKind indicates the strategy arguments have the wrong count or shape.
	ErrValueKind = errors.New("invalid value")

	// ErrNotReady indicates hooks were registered before the host finished initializing.
	ErrNotReady = errors.New("host not ready")

	// ErrInvalidRecord indicates the instance is not a non-nil pointer to a struct.
	ErrInvalidRecord = errors.New("invalid record")
)

// ArgError is returned by strategy transforms.
// It wraps ErrTypeKind or ErrValueKind with a description of what was rejected.
type ArgError struct {
	Err      error    // ErrTypeKind or ErrValueKind
	Strategy Strategy // Strategy that rejected its input
	Reason   string
}

func (e *ArgError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Strategy, e.Err.Error(), e.Reason)
}

func (e *ArgError) Unwrap() error {
	return e.Err
}

// RuleError represents a failure while applying one rule to an instance.
// It wraps a sentinel error with context about the record type and field.
type RuleError struct {
	Err      error    // Underlying sentinel error (ErrMissingAttribute, etc.)
	Type     string   // Record type name
	Field    string   // Field named by the rule
	Strategy Strategy // Strategy declared by the rule
	Cause    error    // Original error from the transform, if any
}

func (e *RuleError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s.%s: %v", e.Strategy, e.Type, e.Field, e.Cause)
	}
	return fmt.Sprintf("%s %s.%s: %s", e.Strategy, e.Type, e.Field, e.Err.Error())
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// ConfigError represents a declaration error from struct tags or a config file.
type ConfigError struct {
	Err   error  // Underlying sentinel error
	Model string // Model or type name, if known
	Field string // Field name, if known
	Value string // Offending tag or config value
}

func (e *ConfigError) Error() string {
	switch {
	case e.Model != "" && e.Field != "":
		return fmt.Sprintf("%s %q (field %s.%s)", e.Err.Error(), e.Value, e.Model, e.Field)
	case e.Field != "":
		return fmt.Sprintf("%s %q (field %s)", e.Err.Error(), e.Value, e.Field)
	case e.Model != "":
		return fmt.Sprintf("%s %q (model %s)", e.Err.Error(), e.Value, e.Model)
	}
	return fmt.Sprintf("%s %q", e.Err.Error(), e.Value)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func typeKindError(s Strategy, format string, args ...any) error {
	return &ArgError{Err: ErrTypeKind, Strategy: s, Reason: fmt.Sprintf(format, args...)}
}

func valueKindError(s Strategy, format string, args ...any) error {
	return &ArgError{Err: ErrValueKind, Strategy: s, Reason: fmt.Sprintf(format, args...)}
}

// newRuleError wraps a rule failure. When cause already carries a sentinel
// (an *ArgError from a transform), that sentinel is used.
func newRuleError(sentinel error, typeName string, r Rule, cause error) error {
	var argErr *ArgError
	if sentinel == nil && errors.As(cause, &argErr) {
		sentinel = argErr.Err
	}
	if sentinel == nil {
		sentinel = ErrValueKind
	}
	return &RuleError{
		Err:      sentinel,
		Type:     typeName,
		Field:    r.Field,
		Strategy: r.Strategy,
		Cause:    cause,
	}
}
