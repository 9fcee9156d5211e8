package stoplight

import (
	"reflect"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang-sql/civil"
)

var (
	timeType  = reflect.TypeFor[time.Time]()
	civilType = reflect.TypeFor[civil.Date]()
)

// Mock replaces v with generated data chosen by a single MockKind argument.
// The result shares only the category of v, never its content:
//
//	MockAddress  - string fields
//	MockName     - string fields
//	MockDatetime - time.Time fields (random datetime) or civil.Date fields (random date)
func Mock(v any, args ...any) (any, error) {
	return throughPointer(StrategyMock, v, args, func(rv reflect.Value) (reflect.Value, error) {
		return mock(rv, args)
	})
}

// checkMock validates the mock kind argument and that t suits that kind.
func checkMock(t reflect.Type, args []any) (MockKind, error) {
	if len(args) != 1 {
		return 0, valueKindError(StrategyMock, "requires exactly one mock kind, got %d arguments", len(args))
	}
	kind, ok := args[0].(MockKind)
	if !ok {
		return 0, valueKindError(StrategyMock, "argument must be a MockKind, got %T", args[0])
	}

	switch kind {
	case MockAddress, MockName:
		if t.Kind() != reflect.String {
			return 0, typeKindError(StrategyMock, "%s mocking only works on strings, got %s", kind, t)
		}
	case MockDatetime:
		if !isTime(t) && !isCivilDate(t) {
			return 0, typeKindError(StrategyMock, "datetime mocking only works on time.Time or civil.Date, got %s", t)
		}
	default:
		return 0, valueKindError(StrategyMock, "unknown mock kind %s", kind)
	}
	return kind, nil
}

func mock(rv reflect.Value, args []any) (reflect.Value, error) {
	kind, err := checkMock(rv.Type(), args)
	if err != nil {
		return reflect.Value{}, err
	}

	switch {
	case kind == MockAddress:
		return reflect.ValueOf(gofakeit.Address().Address).Convert(rv.Type()), nil
	case kind == MockName:
		return reflect.ValueOf(gofakeit.Name()).Convert(rv.Type()), nil
	case isTime(rv.Type()):
		orig := rv.Convert(timeType).Interface().(time.Time)
		generated := gofakeit.Date().In(orig.Location())
		return reflect.ValueOf(generated).Convert(rv.Type()), nil
	default:
		generated := civil.DateOf(gofakeit.Date())
		return reflect.ValueOf(generated).Convert(rv.Type()), nil
	}
}

func isTime(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.ConvertibleTo(timeType)
}

func isCivilDate(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.ConvertibleTo(civilType)
}
