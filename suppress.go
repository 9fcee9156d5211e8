package stoplight

import (
	"reflect"
	"strings"
	"unicode/utf8"
)

const (
	// SuppressedValue replaces every field anonymized with StrategySuppress.
	SuppressedValue = "<CONFIDENTIAL>"

	// MaskSymbol marks the pattern positions hidden by StrategyPartialSuppress.
	MaskSymbol = '*'
)

// Suppress returns SuppressedValue for any string value.
// It accepts no arguments.
func Suppress(v any, args ...any) (any, error) {
	return throughPointer(StrategySuppress, v, args, func(rv reflect.Value) (reflect.Value, error) {
		return suppress(rv, args)
	})
}

func checkSuppress(t reflect.Type, args []any) error {
	if len(args) != 0 {
		return valueKindError(StrategySuppress, "takes no arguments, got %d", len(args))
	}
	if t.Kind() != reflect.String {
		return typeKindError(StrategySuppress, "only works on strings, got %s", t)
	}
	return nil
}

func suppress(rv reflect.Value, args []any) (reflect.Value, error) {
	if err := checkSuppress(rv.Type(), args); err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(SuppressedValue).Convert(rv.Type()), nil
}

// PartialSuppress masks v against a pattern of the same length.
// Every position where the pattern holds MaskSymbol becomes MaskSymbol;
// every other position keeps the original character.
//
//	PartialSuppress("012 345 6789", "*** *** XXXX") // "*** *** 6789"
func PartialSuppress(v any, args ...any) (any, error) {
	return throughPointer(StrategyPartialSuppress, v, args, func(rv reflect.Value) (reflect.Value, error) {
		return partialSuppress(rv, args)
	})
}

// checkPartialSuppress validates everything but the pattern length and
// returns the pattern.
func checkPartialSuppress(t reflect.Type, args []any) (string, error) {
	if t.Kind() != reflect.String {
		return "", typeKindError(StrategyPartialSuppress, "only works on strings, got %s", t)
	}
	if len(args) != 1 {
		return "", valueKindError(StrategyPartialSuppress, "requires exactly one pattern argument, got %d", len(args))
	}
	pattern, ok := stringArg(args[0])
	if !ok {
		return "", valueKindError(StrategyPartialSuppress, "pattern must be a string, got %T", args[0])
	}
	return pattern, nil
}

func partialSuppress(rv reflect.Value, args []any) (reflect.Value, error) {
	pattern, err := checkPartialSuppress(rv.Type(), args)
	if err != nil {
		return reflect.Value{}, err
	}

	value := rv.String()
	if utf8.RuneCountInString(value) != utf8.RuneCountInString(pattern) {
		return reflect.Value{}, valueKindError(StrategyPartialSuppress,
			"pattern length %d does not match value length %d",
			utf8.RuneCountInString(pattern), utf8.RuneCountInString(value))
	}

	var b strings.Builder
	b.Grow(len(value))
	p := []rune(pattern)
	i := 0
	for _, c := range value {
		if p[i] == MaskSymbol {
			b.WriteRune(MaskSymbol)
		} else {
			b.WriteRune(c)
		}
		i++
	}
	return reflect.ValueOf(b.String()).Convert(rv.Type()), nil
}

// stringArg accepts string arguments, including named string types.
func stringArg(arg any) (string, bool) {
	if arg == nil {
		return "", false
	}
	rv := reflect.ValueOf(arg)
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}
