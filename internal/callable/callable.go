package callable

import (
	"errors"
	"fmt"
	"reflect"

	"transmuter/internal/common"
)

var (
	ErrNotAFunction         = errors.New("provided value is not a function")
	ErrUnsupportedSignature = errors.New("function signature is not supported")
	ErrNilFunction          = errors.New("provided function is nil")
)

var errorType = reflect.TypeFor[error]()

// Func is a parsed user function.
type Func struct {
	fn     reflect.Value
	typ    reflect.Type
	name   string
	bound  bool
	hasErr bool
}

// Parse inspects fn and returns a Func if its signature is supported.
// When bound is true fn must take the transformer instance as its first
// parameter and the argument as its second.
func Parse(fn any, bound bool) (*Func, error) {
	if fn == nil {
		return nil, ErrNilFunction
	}

	return ParseValue(reflect.ValueOf(fn), bound)
}

// ParseValue is Parse for an already reflected function value, as found in
// reflect.Method.Func.
func ParseValue(v reflect.Value, bound bool) (*Func, error) {
	if !v.IsValid() {
		return nil, ErrNilFunction
	}

	if v.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %s", ErrNotAFunction, v.Type())
	}

	if v.IsNil() {
		return nil, ErrNilFunction
	}

	t := v.Type()

	wantIn := 1
	if bound {
		wantIn = 2
	}

	if t.NumIn() != wantIn || t.IsVariadic() {
		return nil, fmt.Errorf("%w: %s takes %d parameter(s), want %d", ErrUnsupportedSignature, t, t.NumIn(), wantIn)
	}

	f := &Func{fn: v, typ: t, bound: bound}

	alias, symbol := common.FuncName(v.Interface())
	if alias != "" {
		f.name = alias + "." + symbol
	} else {
		f.name = t.String()
	}

	switch t.NumOut() {
	case 1:
		if t.Out(0) == errorType {
			return nil, fmt.Errorf("%w: %s returns only an error", ErrUnsupportedSignature, t)
		}
	case 2:
		if t.Out(1) != errorType {
			return nil, fmt.Errorf("%w: second result of %s must be error", ErrUnsupportedSignature, t)
		}

		f.hasErr = true
	default:
		return nil, fmt.Errorf("%w: %s must return a value and optionally an error", ErrUnsupportedSignature, t)
	}

	return f, nil
}

// Name returns a readable name of the function, e.g. "strconv.Itoa".
func (f *Func) Name() string {
	return f.name
}

// Bound reports whether the function expects the transformer instance.
func (f *Func) Bound() bool {
	return f.bound
}

// Receiver returns the type of the instance parameter, or nil for free functions.
func (f *Func) Receiver() reflect.Type {
	if !f.bound {
		return nil
	}

	return f.typ.In(0)
}

// Param returns the type of the argument parameter.
func (f *Func) Param() reflect.Type {
	if f.bound {
		return f.typ.In(1)
	}

	return f.typ.In(0)
}

// Call invokes the function. self is ignored for free functions.
// An error returned by the function is returned as is.
func (f *Func) Call(self reflect.Value, arg any) (any, error) {
	param := f.Param()

	av, err := Convert(arg, param)
	if err != nil {
		return nil, &ArgumentError{Func: f.name, Want: param, Err: err}
	}

	var in []reflect.Value
	if f.bound {
		in = []reflect.Value{self, av}
	} else {
		in = []reflect.Value{av}
	}

	out := f.fn.Call(in)
	if f.hasErr && !out[1].IsNil() {
		return nil, out[1].Interface().(error) //nolint:forcetypeassert // checked in Parse
	}

	return out[0].Interface(), nil
}

// ArgumentError reports an argument that cannot be passed to a user function.
type ArgumentError struct {
	Func string
	Want reflect.Type
	Err  error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("cannot call %s: %v", e.Func, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}
