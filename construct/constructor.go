package construct

import (
	"errors"
	"fmt"
)

// ErrConstruction is matched by every *ConstructionError.
var ErrConstruction = errors.New("construction failed")

// Constructor builds one target record from a completed field table.
type Constructor interface {
	Construct(fields *Fields) (any, error)
}

// Checker is implemented by constructors that can tell, before any record is
// processed, whether a set of declared target keys can ever produce a valid
// record. It returns one error per problem.
type Checker interface {
	CheckFields(targets []any) []error
}

// ConstructionError reports a target record that could not be built.
type ConstructionError struct {
	// Target describes the target type.
	Target string
	// Field is the offending field key, if the failure is tied to one.
	Field any
	Err   error
}

func (e *ConstructionError) Error() string {
	if e.Field != nil {
		return fmt.Sprintf("cannot construct %s: field %v: %v", e.Target, e.Field, e.Err)
	}

	return fmt.Sprintf("cannot construct %s: %v", e.Target, e.Err)
}

func (e *ConstructionError) Unwrap() []error {
	return []error{ErrConstruction, e.Err}
}

// FuncConstructor adapts a function to the Constructor interface.
type FuncConstructor[T any] func(fields *Fields) (T, error)

// Construct calls the function.
func (f FuncConstructor[T]) Construct(fields *Fields) (any, error) {
	return f(fields)
}

// Func returns a Constructor backed by fn.
func Func[T any](fn func(fields *Fields) (T, error)) Constructor {
	return FuncConstructor[T](fn)
}
