// Package order defines the total order used for sort_by keys.
package order

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrUnorderable is returned when two values have no defined order.
var ErrUnorderable = errors.New("values are not orderable")

var intType = reflect.TypeFor[int]()

// Compare returns -1, 0 or +1. Nil sorts before anything else. Numbers compare
// by value regardless of width, strings lexically, false before true. Slices
// and arrays compare lexicographically. A type with a
// Compare(T) int method is ordered by it.
func Compare(a, b any) (int, error) {
	switch {
	case a == nil && b == nil:
		return 0, nil
	case a == nil:
		return -1, nil
	case b == nil:
		return 1, nil
	}

	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)

	return compareValues(av, bv)
}

// CompareTuples compares two composite keys lexicographically.
func CompareTuples(a, b []any) (int, error) {
	for i := range min(len(a), len(b)) {
		c, err := Compare(a[i], b[i])
		if err != nil {
			return 0, fmt.Errorf("component %d: %w", i, err)
		}

		if c != 0 {
			return c, nil
		}
	}

	return cmp.Compare(len(a), len(b)), nil
}

func compareValues(av, bv reflect.Value) (int, error) {
	for av.Kind() == reflect.Interface && !av.IsNil() {
		av = av.Elem()
	}

	for bv.Kind() == reflect.Interface && !bv.IsNil() {
		bv = bv.Elem()
	}

	ak, bk := av.Kind(), bv.Kind()

	switch {
	case isInt(ak) && isInt(bk):
		return cmp.Compare(av.Int(), bv.Int()), nil
	case isUint(ak) && isUint(bk):
		return cmp.Compare(av.Uint(), bv.Uint()), nil
	case isNumber(ak) && isNumber(bk):
		return cmp.Compare(toFloat(av), toFloat(bv)), nil
	case ak == reflect.String && bk == reflect.String:
		return strings.Compare(av.String(), bv.String()), nil
	case ak == reflect.Bool && bk == reflect.Bool:
		return compareBool(av.Bool(), bv.Bool()), nil
	}

	if av.Type() == bv.Type() {
		if c, ok := compareMethod(av, bv); ok {
			return c, nil
		}
	}

	if isSequence(ak) && isSequence(bk) {
		return compareSequences(av, bv)
	}

	return 0, fmt.Errorf("%w: %s and %s", ErrUnorderable, av.Type(), bv.Type())
}

func compareMethod(av, bv reflect.Value) (int, bool) {
	m := av.MethodByName("Compare")
	if !m.IsValid() {
		return 0, false
	}

	mt := m.Type()
	if mt.NumIn() != 1 || mt.NumOut() != 1 || mt.In(0) != av.Type() || mt.Out(0) != intType {
		return 0, false
	}

	return cmp.Compare(int(m.Call([]reflect.Value{bv})[0].Int()), 0), true
}

func compareSequences(av, bv reflect.Value) (int, error) {
	for i := range min(av.Len(), bv.Len()) {
		ae, be := av.Index(i), bv.Index(i)

		if isNilValue(ae) || isNilValue(be) {
			c, _ := Compare(nilOrValue(ae), nilOrValue(be))
			if c != 0 {
				return c, nil
			}

			continue
		}

		c, err := compareValues(ae, be)
		if err != nil {
			return 0, fmt.Errorf("element %d: %w", i, err)
		}

		if c != 0 {
			return c, nil
		}
	}

	return cmp.Compare(av.Len(), bv.Len()), nil
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func isNilValue(v reflect.Value) bool {
	return v.Kind() == reflect.Interface && v.IsNil()
}

func nilOrValue(v reflect.Value) any {
	if isNilValue(v) {
		return nil
	}

	return v.Interface()
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isNumber(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || k == reflect.Float32 || k == reflect.Float64
}

func isSequence(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array
}

func toFloat(v reflect.Value) float64 {
	switch {
	case isInt(v.Kind()):
		return float64(v.Int())
	case isUint(v.Kind()):
		return float64(v.Uint())
	default:
		return v.Float()
	}
}
