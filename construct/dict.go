package construct

import (
	"errors"
	"fmt"
)

// DictConstructor builds map[any]any records.
type DictConstructor struct{}

// Dict returns a Constructor producing map[any]any, keeping every key as is.
func Dict() Constructor {
	return DictConstructor{}
}

// Construct implements Constructor.
func (DictConstructor) Construct(fields *Fields) (any, error) {
	out := make(map[any]any, fields.Len())
	for k, v := range fields.All() {
		out[k] = v
	}

	return out, nil
}

// StringDictConstructor builds map[string]any records.
type StringDictConstructor struct{}

// StringDict returns a Constructor producing map[string]any.
// Every target key must be a string.
func StringDict() Constructor {
	return StringDictConstructor{}
}

// Construct implements Constructor.
func (StringDictConstructor) Construct(fields *Fields) (any, error) {
	out := make(map[string]any, fields.Len())

	for k, v := range fields.All() {
		s, ok := k.(string)
		if !ok {
			return nil, &ConstructionError{
				Target: "map[string]any",
				Field:  k,
				Err:    fmt.Errorf("key of type %T is not a string", k),
			}
		}

		out[s] = v
	}

	return out, nil
}

// CheckFields implements Checker.
func (StringDictConstructor) CheckFields(targets []any) []error {
	var errs []error

	for _, k := range targets {
		if _, ok := k.(string); !ok {
			errs = append(errs, fmt.Errorf("target key %#v is not a string", k))
		}
	}

	return errs
}

var _ Checker = StringDictConstructor{}

var errNotStruct = errors.New("target type must be a struct or a pointer to a struct")
