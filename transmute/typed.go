package transmute

import (
	"errors"
	"fmt"
	"reflect"
)

var ErrResultType = errors.New("constructor returned an unexpected type")

// MapAs is Map with a typed result.
func MapAs[T, S any](m *Mapper[S], record any) (T, error) {
	v, err := m.Map(record)
	if err != nil {
		var zero T

		return zero, err
	}

	return as[T](v)
}

// MapListAs is MapList with typed results.
func MapListAs[T, S any](m *Mapper[S], records []any) ([]T, error) {
	out, err := m.MapList(records)
	if err != nil {
		return nil, err
	}

	return allAs[T](out)
}

// AggregateAs is Aggregate with typed results.
func AggregateAs[T, S any](a *Aggregator[S], records []any) ([]T, error) {
	out, err := a.Aggregate(records)
	if err != nil {
		return nil, err
	}

	return allAs[T](out)
}

// Records converts a typed slice into the []any taken by Mapper and Aggregator.
func Records[R any](in []R) []any {
	out := make([]any, len(in))
	for i, r := range in {
		out[i] = r
	}

	return out
}

func as[T any](v any) (T, error) {
	t, ok := v.(T)
	if !ok {
		var zero T

		return zero, fmt.Errorf("%w: got %T, want %s", ErrResultType, v, reflect.TypeFor[T]())
	}

	return t, nil
}

func allAs[T any](in []any) ([]T, error) {
	out := make([]T, len(in))

	for i, v := range in {
		t, err := as[T](v)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}

		out[i] = t
	}

	return out, nil
}
