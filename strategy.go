package stoplight

import (
	"fmt"
	"strings"
)

// Strategy selects how a field is anonymized.
// Use these constants in rules and struct tags: `anonymize:"vary,15"`
// The zero value is not a valid strategy.
type Strategy int

const (
	// StrategySuppress replaces a string with SuppressedValue.
	StrategySuppress Strategy = iota + 1

	// StrategyPartialSuppress masks a string position by position against a pattern.
	StrategyPartialSuppress

	// StrategyMock replaces a value with generated data of the same category.
	StrategyMock

	// StrategyVary perturbs a number, date, or datetime with Gaussian noise.
	StrategyVary
)

// MockKind selects the category of data generated by StrategyMock.
// The zero value is not a valid mock kind.
type MockKind int

const (
	// MockAddress generates a postal address. Requires a string field.
	MockAddress MockKind = iota + 1

	// MockName generates a person's full name. Requires a string field.
	MockName

	// MockDatetime generates a datetime for time.Time fields
	// or a date for civil.Date fields.
	MockDatetime
)

var strategyNames = map[Strategy]string{
	StrategySuppress:        "suppress",
	StrategyPartialSuppress: "partial_suppress",
	StrategyMock:            "mock",
	StrategyVary:            "vary",
}

var mockKindNames = map[MockKind]string{
	MockAddress:  "address",
	MockName:     "name",
	MockDatetime: "datetime",
}

// IsValid returns true if s is a known strategy.
func (s Strategy) IsValid() bool {
	_, ok := strategyNames[s]
	return ok
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: strategy %d", ErrInvalidRule, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStrategy returns the strategy with the given name.
// Matching ignores case and surrounding whitespace.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown strategy %q", ErrInvalidRule, name)
}

// IsValid returns true if k is a known mock kind.
func (k MockKind) IsValid() bool {
	_, ok := mockKindNames[k]
	return ok
}

func (k MockKind) String() string {
	if name, ok := mockKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("mockkind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k MockKind) MarshalText() ([]byte, error) {
	if !k.IsValid() {
		return nil, fmt.Errorf("%w: mock kind %d", ErrValueKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *MockKind) UnmarshalText(text []byte) error {
	parsed, err := ParseMockKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseMockKind returns the mock kind with the given name.
func ParseMockKind(name string) (MockKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range mockKindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown mock kind %q", ErrValueKind, name)
}
