package transmute

import (
	"reflect"
)

//go:generate go tool stringer -type=EntryKind -trimprefix=Kind -output=entrykind_string.go

// EntryKind is the shape of a declared entry.
type EntryKind int

const (
	KindInvalid EntryKind = iota
	KindField
	KindTransform
	KindFunc
	KindMethod
	KindContextual
	KindReduce
)

// ContextualFunc receives the context of the transformer instance together
// with its argument.
type ContextualFunc func(ctx any, arg any) (any, error)

// Entry is one declared rule for a target field.
type Entry struct {
	kind   EntryKind
	source any
	fn     any
	method string
	inner  *Entry

	// inferred marks a bare function given without Func or Method.
	inferred bool
}

// Kind returns the shape of the entry.
func (e Entry) Kind() EntryKind {
	return e.kind
}

// Source returns the source key of Field, Transform and Reduce entries.
func (e Entry) Source() any {
	return e.source
}

// Field reads the source field key and passes its value through.
func Field(key any) Entry {
	return Entry{kind: KindField, source: key}
}

// Transform reads the source field key and passes its value to fn.
// fn may be a function, or an Entry built with Func, Method, MethodNamed or
// Contextual.
func Transform(key any, fn any) Entry {
	return Entry{kind: KindTransform, source: key, inner: callableEntry(fn)}
}

// Func calls fn with the whole source record.
func Func(fn any) Entry {
	return Entry{kind: KindFunc, fn: fn}
}

// Method calls a method expression of the transformer type, e.g.
// (*WeatherMapper).Humidity, with the live instance as its receiver.
func Method(fn any) Entry {
	return Entry{kind: KindMethod, fn: fn}
}

// MethodNamed calls the named method of the transformer type.
func MethodNamed(name string) Entry {
	return Entry{kind: KindMethod, method: name}
}

// Contextual calls fn with the context of the transformer instance.
func Contextual(fn ContextualFunc) Entry {
	return Entry{kind: KindContextual, fn: fn}
}

// Reduce collects the values of source field key over the group members, in
// order, and passes them to fn. Only valid in aggregations.
func Reduce(key any, fn any) Entry {
	return Entry{kind: KindReduce, source: key, inner: callableEntry(fn)}
}

func callableEntry(fn any) *Entry {
	if e, ok := fn.(Entry); ok {
		return &e
	}

	return &Entry{kind: KindFunc, fn: fn, inferred: true}
}

// entryOf turns a table rule into an Entry, applying the shorthands.
func entryOf(rule any) Entry {
	switch r := rule.(type) {
	case Entry:
		return r
	case *Entry:
		if r == nil {
			return Entry{}
		}

		return *r
	case nil:
		return Entry{}
	}

	if reflect.TypeOf(rule).Kind() == reflect.Func {
		return Entry{kind: KindFunc, fn: rule, inferred: true}
	}

	return Field(rule)
}

// Rule pairs a target key with its entry.
type Rule struct {
	Target any
	Entry  any
}

// Table is an ordered list of rules. Declaration order is evaluation order.
type Table []Rule

// Spec builds a Table from alternating target keys and entries.
// A trailing key without an entry is reported when the table is compiled.
func Spec(kv ...any) Table {
	t := make(Table, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		r := Rule{Target: kv[i]}
		if i+1 < len(kv) {
			r.Entry = kv[i+1]
		}

		t = append(t, r)
	}

	return t
}

// Add appends a rule and returns the extended table.
func (t Table) Add(target any, entry any) Table {
	return append(t, Rule{Target: target, Entry: entry})
}

// Targets returns the target keys in declaration order.
func (t Table) Targets() []any {
	out := make([]any, len(t))
	for i, r := range t {
		out[i] = r.Target
	}

	return out
}

// Aggregation declares a many-to-one transformation.
type Aggregation struct {
	// GroupBy lists field keys and callables forming the composite group key.
	// Empty means a single group holding every record, and no group (so no
	// output) when there are no records.
	GroupBy []any
	// SortBy optionally orders the records before they are partitioned.
	SortBy []any
	// Mappings are applied per record and collected into lists.
	Mappings Table
	// Aggregations receive the whole group.
	Aggregations Table
}
