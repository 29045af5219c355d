package construct

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"transmuter/accessor"
	"transmuter/internal/callable"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func defaultValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	return validate
}

// StructConstructor builds values of struct type T (or pointer to struct).
type StructConstructor[T any] struct {
	typ      reflect.Type // struct type
	pointer  bool
	validate *validator.Validate
}

// Struct returns a Constructor producing T, which must be a struct or a
// pointer to a struct. Field keys are matched to struct fields the way
// accessor.Attribute matches them (name, `transmute` / `json` tag, normalized
// name). Values are converted to the field type when possible. The finished
// struct is validated against its `validate` tags.
//
// Struct panics if T is not a struct or a pointer to a struct.
func Struct[T any]() *StructConstructor[T] {
	return StructWithValidator[T](defaultValidator())
}

// StructWithValidator is Struct with a caller-configured validator, e.g. one
// with custom validation functions registered. A nil validator disables validation.
func StructWithValidator[T any](v *validator.Validate) *StructConstructor[T] {
	t := reflect.TypeFor[T]()
	pointer := false

	if t.Kind() == reflect.Pointer {
		t = t.Elem()
		pointer = true
	}

	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("construct.Struct[%s]: %v", reflect.TypeFor[T](), errNotStruct))
	}

	return &StructConstructor[T]{typ: t, pointer: pointer, validate: v}
}

// Construct implements Constructor.
func (c *StructConstructor[T]) Construct(fields *Fields) (any, error) {
	return c.Build(fields)
}

// Build is Construct with a typed result.
func (c *StructConstructor[T]) Build(fields *Fields) (T, error) {
	var zero T

	ptr := reflect.New(c.typ)
	sv := ptr.Elem()

	for key, value := range fields.All() {
		index, err := c.fieldIndex(key)
		if err != nil {
			return zero, c.fail(key, err)
		}

		fv, err := sv.FieldByIndexErr(index)
		if err != nil {
			return zero, c.fail(key, err)
		}

		converted, err := callable.Convert(value, fv.Type())
		if err != nil {
			return zero, c.fail(key, err)
		}

		fv.Set(converted)
	}

	if c.validate != nil {
		if err := c.validate.Struct(ptr.Interface()); err != nil {
			return zero, c.fail(nil, err)
		}
	}

	if c.pointer {
		return ptr.Interface().(T), nil //nolint:forcetypeassert // T is *struct
	}

	return sv.Interface().(T), nil //nolint:forcetypeassert // T is the struct
}

// CheckFields implements Checker: every key must address a field of T and
// every field tagged `validate:"required"` must have a key.
func (c *StructConstructor[T]) CheckFields(targets []any) []error {
	var errs []error

	covered := map[string]struct{}{}

	for _, key := range targets {
		index, err := c.fieldIndex(key)
		if err != nil {
			errs = append(errs, fmt.Errorf("target %v: %w", key, err))
			continue
		}

		covered[c.typ.FieldByIndex(index).Name] = struct{}{}
	}

	for _, sf := range reflect.VisibleFields(c.typ) {
		if !sf.IsExported() || sf.Anonymous || !isRequired(sf) {
			continue
		}

		if _, ok := covered[sf.Name]; !ok {
			errs = append(errs, fmt.Errorf("required field %s of %s has no entry", sf.Name, c.typ))
		}
	}

	return errs
}

func (c *StructConstructor[T]) fieldIndex(key any) ([]int, error) {
	name, ok := key.(string)
	if !ok {
		return nil, fmt.Errorf("key of type %T is not a field name", key)
	}

	index, ok := accessor.LookupField(c.typ, name)
	if !ok {
		return nil, fmt.Errorf("no field %q in %s", name, c.typ)
	}

	return index, nil
}

func (c *StructConstructor[T]) fail(field any, err error) error {
	return &ConstructionError{Target: reflect.TypeFor[T]().String(), Field: field, Err: err}
}

func isRequired(sf reflect.StructField) bool {
	rules := strings.Split(sf.Tag.Get("validate"), ",")
	return slices.Contains(rules, "required")
}

// ValidationErrors extracts the validator's per-field errors from err, if any.
func ValidationErrors(err error) validator.ValidationErrors {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}

	return nil
}

var _ Checker = (*StructConstructor[struct{}])(nil)
