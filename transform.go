package stoplight

import (
	"math/rand/v2"
	"reflect"
)

// Transform is the signature shared by every strategy.
// It receives the current field value and the rule's arguments and returns
// the replacement value, which has the same dynamic type as v.
type Transform func(v any, args ...any) (any, error)

// Sampler draws standard normal samples for StrategyVary.
type Sampler interface {
	NormFloat64() float64
}

// globalSampler uses the goroutine-safe top-level math/rand/v2 generator.
type globalSampler struct{}

func (globalSampler) NormFloat64() float64 { return rand.NormFloat64() }

// DefaultSampler returns the sampler used when none is configured.
func DefaultSampler() Sampler {
	return globalSampler{}
}

// Apply runs the transform for strategy s on v.
// It returns ErrInvalidRule for an unknown strategy.
func Apply(s Strategy, v any, args ...any) (any, error) {
	return apply(DefaultSampler(), s, v, args)
}

// Lookup returns the transform bound to s.
func Lookup(s Strategy) (Transform, bool) {
	if !s.IsValid() {
		return nil, false
	}
	return func(v any, args ...any) (any, error) {
		return Apply(s, v, args...)
	}, true
}

func apply(sampler Sampler, s Strategy, v any, args []any) (any, error) {
	return throughPointer(s, v, args, func(rv reflect.Value) (reflect.Value, error) {
		switch s {
		case StrategySuppress:
			return suppress(rv, args)
		case StrategyPartialSuppress:
			return partialSuppress(rv, args)
		case StrategyMock:
			return mock(rv, args)
		case StrategyVary:
			return vary(sampler, rv, args)
		default:
			return reflect.Value{}, unknownStrategy(s)
		}
	})
}

// check validates args and the value type t for strategy s without a value.
// Checks that need the value itself, such as the pattern length of
// StrategyPartialSuppress, are left to the transform.
func check(s Strategy, t reflect.Type, args []any) error {
	var err error
	switch s {
	case StrategySuppress:
		err = checkSuppress(t, args)
	case StrategyPartialSuppress:
		_, err = checkPartialSuppress(t, args)
	case StrategyMock:
		_, err = checkMock(t, args)
	case StrategyVary:
		_, err = checkVary(t, args)
	default:
		err = unknownStrategy(s)
	}
	return err
}

func unknownStrategy(s Strategy) error {
	return &ArgError{Err: ErrInvalidRule, Strategy: s, Reason: "unknown strategy"}
}

// throughPointer applies fn to v, dereferencing one level of pointer.
// A non-nil pointer yields a new pointer to the transformed value so the
// original pointee is untouched. A nil pointer is returned unchanged once
// args and the pointee type pass check.
func throughPointer(s Strategy, v any, args []any, fn func(reflect.Value) (reflect.Value, error)) (any, error) {
	if v == nil {
		return nil, typeKindError(s, "value is nil")
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		out, err := fn(rv)
		if err != nil {
			return nil, err
		}
		return out.Interface(), nil
	}
	if rv.IsNil() {
		if err := check(s, rv.Type().Elem(), args); err != nil {
			return nil, err
		}
		return v, nil
	}
	out, err := fn(rv.Elem())
	if err != nil {
		return nil, err
	}
	ptr := reflect.New(rv.Type().Elem())
	ptr.Elem().Set(out)
	return ptr.Interface(), nil
}
