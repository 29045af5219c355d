package callable

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

var ErrNotConvertible = errors.New("value is not convertible")

// Convert returns v as a value of type t.
//
// Assignable values pass through unchanged. Numeric values convert between
// numeric kinds (floats only into integers when they carry no fraction, as
// decoded JSON numbers do), values of the same kind convert between named
// types, and slices or arrays convert element by element into slice types.
func Convert(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		if nilable(t.Kind()) {
			return reflect.Zero(t), nil
		}

		return reflect.Value{}, fmt.Errorf("%w: nil to %s", ErrNotConvertible, t)
	}

	return convertValue(reflect.ValueOf(v), t)
}

func convertValue(rv reflect.Value, t reflect.Type) (reflect.Value, error) {
	// unwrap interface values held in []any and friends
	for rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			if nilable(t.Kind()) {
				return reflect.Zero(t), nil
			}

			return reflect.Value{}, fmt.Errorf("%w: nil to %s", ErrNotConvertible, t)
		}

		rv = rv.Elem()
	}

	if rv.Type().AssignableTo(t) {
		out := reflect.New(t).Elem()
		out.Set(rv)

		return out, nil
	}

	switch {
	case isNumber(rv.Kind()) && isNumber(t.Kind()):
		return convertNumber(rv, t)

	case rv.Kind() == t.Kind() && rv.Type().ConvertibleTo(t) && t.Kind() != reflect.Slice:
		return rv.Convert(t), nil

	case t.Kind() == reflect.Slice && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array):
		out := reflect.MakeSlice(t, rv.Len(), rv.Len())
		for i := range rv.Len() {
			ev, err := convertValue(rv.Index(i), t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}

			out.Index(i).Set(ev)
		}

		return out, nil
	}

	return reflect.Value{}, fmt.Errorf("%w: %s to %s", ErrNotConvertible, rv.Type(), t)
}

func convertNumber(rv reflect.Value, t reflect.Type) (reflect.Value, error) {
	if isFloat(rv.Kind()) && !isFloat(t.Kind()) {
		f := rv.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return reflect.Value{}, fmt.Errorf("%w: %v to %s loses precision", ErrNotConvertible, f, t)
		}
	}

	if !rv.Type().ConvertibleTo(t) {
		return reflect.Value{}, fmt.Errorf("%w: %s to %s", ErrNotConvertible, rv.Type(), t)
	}

	if overflows(rv, t) {
		return reflect.Value{}, fmt.Errorf("%w: %v overflows %s", ErrNotConvertible, rv.Interface(), t)
	}

	return rv.Convert(t), nil
}

// overflows reports whether the numeric value rv is out of range for t.
func overflows(rv reflect.Value, t reflect.Type) bool {
	target := reflect.New(t).Elem()

	switch {
	case isSigned(t.Kind()):
		switch {
		case isSigned(rv.Kind()):
			return target.OverflowInt(rv.Int())
		case isUnsigned(rv.Kind()):
			return rv.Uint() > math.MaxInt64 || target.OverflowInt(int64(rv.Uint()))
		default:
			f := rv.Float()
			return f < math.MinInt64 || f >= math.MaxInt64 || target.OverflowInt(int64(f))
		}

	case isUnsigned(t.Kind()):
		switch {
		case isSigned(rv.Kind()):
			return rv.Int() < 0 || target.OverflowUint(uint64(rv.Int()))
		case isUnsigned(rv.Kind()):
			return target.OverflowUint(rv.Uint())
		default:
			f := rv.Float()
			return f < 0 || f >= math.MaxUint64 || target.OverflowUint(uint64(f))
		}

	case isFloat(rv.Kind()):
		f := rv.Float()
		return !math.IsInf(f, 0) && !math.IsNaN(f) && target.OverflowFloat(f)
	}

	return false
}

func nilable(k reflect.Kind) bool {
	switch k { //nolint:exhaustive // only nilable kinds matter
	case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isSigned(k reflect.Kind) bool {
	switch k { //nolint:exhaustive // only signed kinds matter
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func isUnsigned(k reflect.Kind) bool {
	switch k { //nolint:exhaustive // only unsigned kinds matter
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

func isNumber(k reflect.Kind) bool {
	switch k { //nolint:exhaustive // only numeric kinds matter
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
