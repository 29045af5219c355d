package specfile

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"transmuter/internal/common"
	"transmuter/internal/order"
)

var ErrEmptyValues = errors.New("no values to reduce")

// builtins are available in every registry.
var builtins = map[string]any{
	"first":    first,
	"last":     last,
	"count":    count,
	"sum":      sum,
	"mean":     mean,
	"min":      minimum,
	"max":      maximum,
	"list":     list,
	"distinct": distinct,
	"sorted":   sorted,
	"join":     join,
	"upper":    strings.ToUpper,
	"lower":    strings.ToLower,
	"string":   toString,
}

func first(values []any) (any, error) {
	v, ok := common.First(values)
	if !ok {
		return nil, ErrEmptyValues
	}

	return v, nil
}

func last(values []any) (any, error) {
	v, ok := common.Last(values)
	if !ok {
		return nil, ErrEmptyValues
	}

	return v, nil
}

func count(values []any) int {
	return len(values)
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}

	return total
}

func mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyValues
	}

	return sum(values) / float64(len(values)), nil
}

func minimum(values []any) (any, error) {
	return extreme(values, -1)
}

func maximum(values []any) (any, error) {
	return extreme(values, 1)
}

func extreme(values []any, sign int) (any, error) {
	if len(values) == 0 {
		return nil, ErrEmptyValues
	}

	best := values[0]

	for _, v := range values[1:] {
		c, err := order.Compare(v, best)
		if err != nil {
			return nil, err
		}

		if c*sign > 0 {
			best = v
		}
	}

	return best, nil
}

func list(values []any) []any {
	return slices.Clone(values)
}

// distinct keeps the first occurrence of every value.
func distinct(values []any) []any {
	seen := make(map[any]struct{}, len(values))
	out := make([]any, 0, len(values))

	for _, v := range values {
		if v != nil && !reflect.ValueOf(v).Comparable() {
			if !slices.ContainsFunc(out, func(o any) bool { return reflect.DeepEqual(o, v) }) {
				out = append(out, v)
			}

			continue
		}

		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}

func sorted(values []any) ([]any, error) {
	out := slices.Clone(values)

	var cmpErr error

	slices.SortStableFunc(out, func(a, b any) int {
		c, err := order.Compare(a, b)
		if err != nil && cmpErr == nil {
			cmpErr = err
		}

		return c
	})

	if cmpErr != nil {
		return nil, cmpErr
	}

	return out, nil
}

func join(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = toString(v)
	}

	return strings.Join(parts, ", ")
}

func toString(v any) string {
	if v == nil {
		return ""
	}

	return fmt.Sprint(v)
}
