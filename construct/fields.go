package construct

import "iter"

// Fields is an insertion-ordered table of target field values.
// Keys are arbitrary comparable values.
type Fields struct {
	keys   []any
	values map[any]any
}

// NewFields returns an empty table sized for n fields.
func NewFields(n int) *Fields {
	return &Fields{
		keys:   make([]any, 0, n),
		values: make(map[any]any, n),
	}
}

// Set stores value under key. Re-setting a key keeps its original position.
func (f *Fields) Set(key, value any) {
	if _, exists := f.values[key]; !exists {
		f.keys = append(f.keys, key)
	}

	f.values[key] = value
}

// Get returns the value stored under key.
func (f *Fields) Get(key any) (any, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (f *Fields) Keys() []any {
	return append([]any(nil), f.keys...)
}

// Len returns the number of fields.
func (f *Fields) Len() int {
	return len(f.keys)
}

// All iterates over the fields in insertion order.
func (f *Fields) All() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for _, k := range f.keys {
			if !yield(k, f.values[k]) {
				return
			}
		}
	}
}
