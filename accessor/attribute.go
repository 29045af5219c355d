package accessor

import (
	"reflect"
	"strings"
	"sync"

	"transmuter/internal/match"
)

// TagName is the struct tag consulted when matching field names,
// e.g. `transmute:"temperature_celsius"`.
const TagName = "transmute"

// Attribute reads struct fields by name. Lookup order for a name:
//  1. exported field with exactly that name
//  2. `transmute` tag, then `json` tag
//  3. field whose name matches after normalization ("first_name" ~ "FirstName")
//  4. exported method with no parameters returning a value (and optionally an error)
//
// Pointers are followed; a nil pointer has no fields.
type Attribute struct{}

var fieldCache sync.Map // fieldCacheKey -> fieldLookup

type fieldCacheKey struct {
	t    reflect.Type
	name string
}

type fieldLookup struct {
	index []int
	found bool
}

// Get implements Accessor.
func (Attribute) Get(record any, key any) (any, error) {
	name, ok := key.(string)
	if !ok {
		return nil, &MissingFieldError{Key: key, Record: recordType(record), Reason: "attribute names must be strings"}
	}

	rv := reflect.ValueOf(record)
	if !rv.IsValid() {
		return nil, &MissingFieldError{Key: key, Record: recordType(record)}
	}

	// methods may be declared on the pointer, look them up before dereferencing
	outer := rv

	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, &MissingFieldError{Key: key, Record: recordType(record), Reason: "nil pointer"}
		}

		rv = rv.Elem()
	}

	if rv.Kind() == reflect.Struct {
		if index, ok := LookupField(rv.Type(), name); ok {
			fv, err := rv.FieldByIndexErr(index)
			if err != nil {
				return nil, &MissingFieldError{Key: key, Record: recordType(record), Reason: err.Error()}
			}

			return fv.Interface(), nil
		}
	}

	if v, ok, err := callGetter(outer, name); ok {
		return v, err
	}

	if rv.Kind() != reflect.Struct {
		return nil, &MissingFieldError{Key: key, Record: recordType(record), Reason: "record is not a struct"}
	}

	return nil, &MissingFieldError{
		Key:         key,
		Record:      recordType(record),
		Suggestions: match.Suggest(name, fieldNames(rv.Type()), 3),
	}
}

// LookupField finds the exported field of struct type t addressed by name,
// following the rules documented on Attribute. Results are cached per type.
func LookupField(t reflect.Type, name string) ([]int, bool) {
	ck := fieldCacheKey{t: t, name: name}
	if cached, ok := fieldCache.Load(ck); ok {
		l := cached.(fieldLookup) //nolint:forcetypeassert // only fieldLookup is stored

		return l.index, l.found
	}

	index, found := lookupField(t, name)
	fieldCache.Store(ck, fieldLookup{index: index, found: found})

	return index, found
}

func lookupField(t reflect.Type, name string) ([]int, bool) {
	if t.Kind() != reflect.Struct {
		return nil, false
	}

	// 1) exact name
	if sf, ok := t.FieldByName(name); ok && sf.IsExported() {
		return sf.Index, true
	}

	fields := reflect.VisibleFields(t)

	// 2) tags
	for _, tag := range []string{TagName, "json"} {
		for _, sf := range fields {
			if sf.IsExported() && tagName(sf, tag) == name {
				return sf.Index, true
			}
		}
	}

	// 3) normalized name
	normalized := match.NormalizeIdent(name)
	for _, sf := range fields {
		if sf.IsExported() && !sf.Anonymous && match.NormalizeIdent(sf.Name) == normalized {
			return sf.Index, true
		}
	}

	return nil, false
}

func tagName(sf reflect.StructField, tag string) string {
	value := sf.Tag.Get(tag)
	if value == "" || value == "-" {
		return ""
	}

	if idx := strings.IndexByte(value, ','); idx >= 0 {
		value = value[:idx]
	}

	return value
}

// callGetter calls a zero-argument method named name, if there is one.
func callGetter(rv reflect.Value, name string) (any, bool, error) {
	m := rv.MethodByName(name)
	if !m.IsValid() {
		return nil, false, nil
	}

	mt := m.Type()
	if mt.NumIn() != 0 {
		return nil, false, nil
	}

	switch {
	case mt.NumOut() == 1:
		return m.Call(nil)[0].Interface(), true, nil
	case mt.NumOut() == 2 && mt.Out(1) == reflect.TypeFor[error]():
		out := m.Call(nil)
		if !out[1].IsNil() {
			return nil, true, out[1].Interface().(error) //nolint:forcetypeassert // checked above
		}

		return out[0].Interface(), true, nil
	default:
		return nil, false, nil
	}
}

// fieldNames lists exported field names (and their tag aliases) of t for suggestions.
func fieldNames(t reflect.Type) []string {
	if t.Kind() != reflect.Struct {
		return nil
	}

	var names []string

	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}

		names = append(names, sf.Name)

		for _, tag := range []string{TagName, "json"} {
			if alias := tagName(sf, tag); alias != "" && alias != sf.Name {
				names = append(names, alias)
			}
		}
	}

	return names
}
