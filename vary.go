package stoplight

import (
	"math"
	"reflect"
	"time"

	"github.com/golang-sql/civil"
	"github.com/shopspring/decimal"
)

var decimalType = reflect.TypeFor[decimal.Decimal]()

const day = 24 * time.Hour

// Vary perturbs v with Gaussian noise. The single argument is the standard
// deviation, any real Go number or decimal.Decimal.
//
// Numeric values move by an N(0, sigma) offset in their original
// representation. Integers move by the offset rounded half away from zero
// and saturate at the bounds of their type. Decimals are offset in decimal
// arithmetic and keep their original scale.
//
// time.Time values move by N(0, sigma) days, fractional days included.
// civil.Date values move by N(0, sigma) days rounded to a whole day.
func Vary(v any, args ...any) (any, error) {
	return VaryWith(DefaultSampler(), v, args...)
}

// VaryWith is Vary drawing from the given sampler.
func VaryWith(sampler Sampler, v any, args ...any) (any, error) {
	return throughPointer(StrategyVary, v, args, func(rv reflect.Value) (reflect.Value, error) {
		return vary(sampler, rv, args)
	})
}

// checkVary validates t and the standard deviation argument and returns sigma.
func checkVary(t reflect.Type, args []any) (float64, error) {
	if !isVariable(t) {
		return 0, typeKindError(StrategyVary, "only works on numbers, dates and datetimes, got %s", t)
	}
	if len(args) != 1 {
		return 0, valueKindError(StrategyVary, "requires exactly one standard deviation, got %d arguments", len(args))
	}
	sigma, ok := realArg(args[0])
	if !ok {
		return 0, valueKindError(StrategyVary, "standard deviation must be a real number, got %T", args[0])
	}
	if !validSigma(sigma) {
		return 0, valueKindError(StrategyVary, "standard deviation must be finite and non-negative, got %v", sigma)
	}
	return sigma, nil
}

func vary(sampler Sampler, rv reflect.Value, args []any) (reflect.Value, error) {
	sigma, err := checkVary(rv.Type(), args)
	if err != nil {
		return reflect.Value{}, err
	}
	offset := sigma * sampler.NormFloat64()

	out := reflect.New(rv.Type()).Elem()
	switch {
	case isTime(rv.Type()):
		t := rv.Convert(timeType).Interface().(time.Time)
		out.Set(reflect.ValueOf(t.Add(time.Duration(offset * float64(day)))).Convert(rv.Type()))

	case isCivilDate(rv.Type()):
		d := rv.Convert(civilType).Interface().(civil.Date)
		out.Set(reflect.ValueOf(d.AddDays(int(math.Round(offset)))).Convert(rv.Type()))

	case isDecimal(rv.Type()):
		d := rv.Convert(decimalType).Interface().(decimal.Decimal)
		places := int32(0)
		if d.Exponent() < 0 {
			places = -d.Exponent()
		}
		varied := d.Add(decimal.NewFromFloat(offset)).Round(places)
		out.Set(reflect.ValueOf(varied).Convert(rv.Type()))

	default:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			out.SetInt(addInt(rv.Int(), math.Round(offset), rv.Type().Bits()))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			out.SetUint(addUint(rv.Uint(), math.Round(offset), rv.Type().Bits()))
		case reflect.Float32, reflect.Float64:
			out.SetFloat(rv.Float() + offset)
		}
	}
	return out, nil
}

// isVariable reports whether StrategyVary supports values of type t.
func isVariable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Struct:
		return isTime(t) || isCivilDate(t) || isDecimal(t)
	}
	return false
}

func isDecimal(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.ConvertibleTo(decimalType)
}

// validSigma reports whether sigma is usable as a standard deviation.
func validSigma(sigma float64) bool {
	return !math.IsNaN(sigma) && !math.IsInf(sigma, 0) && sigma >= 0
}

// realArg converts a standard deviation argument to float64.
// Booleans and strings are rejected.
func realArg(arg any) (float64, bool) {
	if arg == nil {
		return 0, false
	}
	if d, ok := arg.(decimal.Decimal); ok {
		return d.InexactFloat64(), true
	}
	rv := reflect.ValueOf(arg)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// addInt adds the whole-number offset to v, saturating at the bounds of a
// signed integer of the given bit size.
func addInt(v int64, offset float64, bits int) int64 {
	hi := int64(1)<<(bits-1) - 1
	lo := -hi - 1
	limit := math.Ldexp(1, 63)
	switch {
	case offset >= limit:
		return hi
	case offset < -limit:
		return lo
	}

	o := int64(offset)
	switch {
	case o > 0 && v > hi-o:
		return hi
	case o < 0 && v < lo-o:
		return lo
	}
	return v + o
}

// addUint adds the whole-number offset to v, saturating at 0 and at the
// largest unsigned integer of the given bit size.
func addUint(v uint64, offset float64, bits int) uint64 {
	hi := uint64(math.MaxUint64) >> (64 - bits)
	limit := math.Ldexp(1, 64)

	if offset < 0 {
		if -offset >= limit {
			return 0
		}
		d := uint64(-offset)
		if d >= v {
			return 0
		}
		return v - d
	}

	if offset >= limit {
		return hi
	}
	d := uint64(offset)
	if d > hi-v {
		return hi
	}
	return v + d
}
