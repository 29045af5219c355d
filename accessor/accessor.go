package accessor

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrMissingField is matched by every *MissingFieldError.
var ErrMissingField = errors.New("missing field")

// Accessor reads the value identified by key from a record.
type Accessor interface {
	Get(record any, key any) (any, error)
}

// Func adapts a function to the Accessor interface.
type Func func(record any, key any) (any, error)

// Get calls f(record, key).
func (f Func) Get(record any, key any) (any, error) {
	return f(record, key)
}

// MissingFieldError reports a field that cannot be resolved against a record.
type MissingFieldError struct {
	// Key is the field identifier that was requested.
	Key any
	// Record describes the record type.
	Record string
	// Reason is an optional detail, e.g. "nil pointer".
	Reason string
	// Suggestions lists similarly named fields that do exist.
	Suggestions []string
}

func (e *MissingFieldError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "missing field %s in %s", formatKey(e.Key), e.Record)

	if e.Reason != "" {
		b.WriteString(": " + e.Reason)
	}

	if len(e.Suggestions) > 0 {
		quoted := make([]string, len(e.Suggestions))
		for i, s := range e.Suggestions {
			quoted[i] = fmt.Sprintf("%q", s)
		}

		b.WriteString(" (did you mean " + strings.Join(quoted, ", ") + "?)")
	}

	return b.String()
}

// Is makes errors.Is(err, ErrMissingField) succeed.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

func formatKey(key any) string {
	if s, ok := key.(string); ok {
		return fmt.Sprintf("%q", s)
	}

	return fmt.Sprintf("%#v", key)
}

func recordType(record any) string {
	if record == nil {
		return "nil record"
	}

	return reflect.TypeOf(record).String()
}
