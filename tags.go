package stoplight

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zoobzio/sentinel"
)

// TagName is the struct tag read by DeclareTagged.
//
//	type Person struct {
//	    ID    int64  `bun:"id,pk"`
//	    Name  string `anonymize:"suppress"`
//	    Phone string `anonymize:"partial_suppress,*** *** XXXX"`
//	    Home  string `anonymize:"mock,address"`
//	    Age   int    `anonymize:"vary,15"`
//	}
//
// Everything after the first comma is the strategy's single argument.
const TagName = "anonymize"

func init() {
	sentinel.Tag(TagName)
}

// DeclareTagged declares the mapping for T from its anonymize struct tags,
// in field order. It replaces any earlier mapping for T.
func DeclareTagged[T any](a *Anonymizer) error {
	meta := sentinel.Scan[T]()

	var m Mapping
	for _, field := range meta.Fields {
		val, ok := field.Tags[TagName]
		if !ok {
			continue
		}
		name, arg, hasArg := strings.Cut(val, ",")

		var args []any
		if hasArg {
			args = []any{arg}
		}
		r, err := newRule(field.Name, name, args)
		if err != nil {
			return &ConfigError{Err: err, Model: meta.TypeName, Field: field.Name, Value: val}
		}
		m = append(m, r)
	}

	Declare[T](a, m...)
	return nil
}

// newRule builds a rule from textual input. String arguments are converted
// to the type each strategy expects: a MockKind for mock, a float for vary.
func newRule(field, strategy string, raw []any) (Rule, error) {
	s, err := ParseStrategy(strategy)
	if err != nil {
		return Rule{}, ErrInvalidRule
	}
	r := Rule{Field: field, Strategy: s}

	switch s {
	case StrategySuppress:
		if len(raw) != 0 {
			return Rule{}, ErrValueKind
		}

	case StrategyPartialSuppress:
		if len(raw) != 1 {
			return Rule{}, ErrValueKind
		}
		pattern, ok := stringArg(raw[0])
		if !ok {
			return Rule{}, ErrValueKind
		}
		r.Args = []any{pattern}

	case StrategyMock:
		if len(raw) != 1 {
			return Rule{}, ErrValueKind
		}
		kind, ok := raw[0].(MockKind)
		if !ok {
			text, isString := stringArg(raw[0])
			if !isString {
				return Rule{}, ErrValueKind
			}
			if kind, err = ParseMockKind(text); err != nil {
				return Rule{}, ErrValueKind
			}
		}
		r.Args = []any{kind}

	case StrategyVary:
		if len(raw) != 1 {
			return Rule{}, ErrValueKind
		}
		sigma, ok := realArg(raw[0])
		if !ok {
			text, isString := stringArg(raw[0])
			if !isString {
				return Rule{}, ErrValueKind
			}
			if sigma, err = strconv.ParseFloat(strings.TrimSpace(text), 64); err != nil {
				return Rule{}, fmt.Errorf("%w: %v", ErrValueKind, err)
			}
		}
		if !validSigma(sigma) {
			return Rule{}, fmt.Errorf("%w: standard deviation must be finite and non-negative, got %v", ErrValueKind, sigma)
		}
		r.Args = []any{sigma}
	}

	return r, nil
}
