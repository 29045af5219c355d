// Package group partitions a sequence by composite keys while keeping
// first-seen order for groups and for the members inside each group.
package group

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrUnhashableKey is returned when a key component is not comparable
// (a slice, a map, a function, or a struct/interface holding one).
var ErrUnhashableKey = errors.New("group key component is not comparable")

// Group is one partition: the composite key and the members sharing it.
type Group[T any] struct {
	Key     []any
	Members []T
}

// KeyFunc computes the composite key of an item.
type KeyFunc[T any] func(item T) ([]any, error)

// Partition splits items into groups of equal composite keys. Components are
// compared with Go's == semantics. Groups are returned in the order their key
// was first seen; members keep their input order. A nil key function puts all
// items in a single group (no group at all for empty input).
func Partition[T any](items []T, key KeyFunc[T]) ([]Group[T], error) {
	if len(items) == 0 {
		return nil, nil
	}

	if key == nil {
		return []Group[T]{{Members: append([]T(nil), items...)}}, nil
	}

	index := make(map[any]int)

	var groups []Group[T]

	for i, item := range items {
		components, err := key(item)
		if err != nil {
			return nil, err
		}

		k, err := composite(components)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		gi, ok := index[k]
		if !ok {
			gi = len(groups)
			index[k] = gi
			groups = append(groups, Group[T]{Key: components})
		}

		groups[gi].Members = append(groups[gi].Members, item)
	}

	return groups, nil
}

var (
	anyType    = reflect.TypeFor[any]()
	arrayTypes sync.Map // int -> reflect.Type
)

// composite turns the components into a single comparable map key: an
// [n]any array, which Go hashes and compares element-wise.
func composite(components []any) (any, error) {
	at := arrayType(len(components))
	arr := reflect.New(at).Elem()

	for i, c := range components {
		if c == nil {
			continue
		}

		cv := reflect.ValueOf(c)
		if !cv.Comparable() {
			return nil, fmt.Errorf("%w: component %d has type %T", ErrUnhashableKey, i, c)
		}

		arr.Index(i).Set(cv)
	}

	return arr.Interface(), nil
}

func arrayType(n int) reflect.Type {
	if t, ok := arrayTypes.Load(n); ok {
		return t.(reflect.Type) //nolint:forcetypeassert // only reflect.Type is stored
	}

	t := reflect.ArrayOf(n, anyType)
	arrayTypes.Store(n, t)

	return t
}
