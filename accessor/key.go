package accessor

import (
	"reflect"
	"slices"

	"transmuter/internal/match"
)

// Key reads entries of a Go map. Keys may be any comparable value, e.g. an
// int, a struct, or an array standing in for a tuple. A key whose type differs
// from the map's key type is converted when the kinds match (a named string
// type for a string key).
type Key struct{}

// Get implements Accessor.
func (Key) Get(record any, key any) (any, error) {
	rv := reflect.ValueOf(record)
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && !rv.IsNil() {
		rv = rv.Elem()
	}

	if !rv.IsValid() || rv.Kind() != reflect.Map {
		return nil, &MissingFieldError{Key: key, Record: recordType(record), Reason: "record is not a map"}
	}

	kt := rv.Type().Key()

	kv, ok := mapKey(key, kt)
	if !ok {
		return nil, &MissingFieldError{Key: key, Record: recordType(record), Reason: "key type does not match " + kt.String()}
	}

	v := rv.MapIndex(kv)
	if !v.IsValid() {
		return nil, &MissingFieldError{Key: key, Record: recordType(record), Suggestions: keySuggestions(rv, key)}
	}

	return v.Interface(), nil
}

func mapKey(key any, kt reflect.Type) (reflect.Value, bool) {
	if key == nil {
		if kt.Kind() == reflect.Interface {
			return reflect.Zero(kt), true
		}

		return reflect.Value{}, false
	}

	kv := reflect.ValueOf(key)

	switch {
	case kv.Type().AssignableTo(kt):
		// an interface-typed map panics on an uncomparable dynamic key
		if !kv.Comparable() {
			return reflect.Value{}, false
		}

		return kv, true
	case kv.Kind() == kt.Kind() && kv.Type().ConvertibleTo(kt):
		return kv.Convert(kt), true
	default:
		return reflect.Value{}, false
	}
}

func keySuggestions(m reflect.Value, key any) []string {
	name, ok := key.(string)
	if !ok {
		return nil
	}

	var names []string

	iter := m.MapRange()
	for iter.Next() {
		k := iter.Key()
		for k.Kind() == reflect.Interface && !k.IsNil() {
			k = k.Elem()
		}

		if k.Kind() == reflect.String {
			names = append(names, k.String())
		}
	}

	// map iteration order is random; keep suggestions stable
	slices.Sort(names)

	return match.Suggest(name, names, 3)
}
