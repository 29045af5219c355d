// Package starexpr evaluates Starlark expressions against Go values.
// Expressions are parsed once and evaluated with a fresh environment per call.
package starexpr

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"
)

var (
	ErrSyntax      = errors.New("invalid expression")
	ErrUnsupported = errors.New("unsupported value")
)

// Expr is a parsed Starlark expression.
type Expr struct {
	name string
	src  string
}

// Compile parses src. name identifies the expression in error messages.
func Compile(name, src string) (*Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("%w: %s: empty expression", ErrSyntax, name)
	}

	if _, err := syntax.ParseExpr(name, src, 0); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	return &Expr{name: name, src: src}, nil
}

// Source returns the expression text.
func (e *Expr) Source() string {
	return e.src
}

var structBuiltin = starlark.NewBuiltin("struct", starlarkstruct.Make)

// Eval evaluates the expression with vars bound as predeclared names and
// converts the result back to a Go value.
func (e *Expr) Eval(vars map[string]any) (any, error) {
	thread := &starlark.Thread{
		Name:  e.name,
		Print: func(*starlark.Thread, string) {},
	}

	env := starlark.StringDict{
		"struct": structBuiltin,
	}

	for name, v := range vars {
		sv, err := ToValue(v)
		if err != nil {
			return nil, fmt.Errorf("%s: variable %s: %w", e.name, name, err)
		}

		env[name] = sv
	}

	result, err := starlark.Eval(thread, e.name, e.src, env)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.name, err)
	}

	return FromValue(result)
}

// ToValue converts a Go value to a Starlark value. Structs become
// starlark structs with their exported field names as attributes.
func ToValue(v any) (starlark.Value, error) {
	switch val := v.(type) {
	case nil:
		return starlark.None, nil
	case starlark.Value:
		return val, nil
	case bool:
		return starlark.Bool(val), nil
	case int:
		return starlark.MakeInt(val), nil
	case int64:
		return starlark.MakeInt64(val), nil
	case float64:
		return starlark.Float(val), nil
	case string:
		return starlark.String(val), nil
	}

	return reflectValue(reflect.ValueOf(v))
}

func reflectValue(rv reflect.Value) (starlark.Value, error) {
	switch rv.Kind() {
	case reflect.Invalid:
		return starlark.None, nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return starlark.None, nil
		}

		return reflectValue(rv.Elem())
	case reflect.Bool:
		return starlark.Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return starlark.MakeInt64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return starlark.MakeUint64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return starlark.Float(rv.Float()), nil
	case reflect.String:
		return starlark.String(rv.String()), nil
	case reflect.Slice, reflect.Array:
		list := make([]starlark.Value, rv.Len())
		for i := range list {
			item, err := reflectValue(rv.Index(i))
			if err != nil {
				return nil, err
			}

			list[i] = item
		}

		return starlark.NewList(list), nil
	case reflect.Map:
		dict := starlark.NewDict(rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			k, err := reflectValue(iter.Key())
			if err != nil {
				return nil, err
			}

			val, err := reflectValue(iter.Value())
			if err != nil {
				return nil, err
			}

			if err := dict.SetKey(k, val); err != nil {
				return nil, err
			}
		}

		return dict, nil
	case reflect.Struct:
		fields := make(starlark.StringDict, rv.NumField())

		for _, sf := range reflect.VisibleFields(rv.Type()) {
			if !sf.IsExported() || sf.Anonymous {
				continue
			}

			fv, err := rv.FieldByIndexErr(sf.Index)
			if err != nil {
				continue
			}

			val, err := reflectValue(fv)
			if err != nil {
				return nil, err
			}

			fields[sf.Name] = val
		}

		return starlarkstruct.FromStringDict(starlarkstruct.Default, fields), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, rv.Type())
	}
}

// FromValue converts a Starlark value to a Go value. Integers become int64,
// tuples and lists become []any, dicts with only string keys become
// map[string]any and other dicts map[any]any.
func FromValue(v starlark.Value) (any, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.Bool:
		return bool(val), nil
	case starlark.Int:
		i, ok := val.Int64()
		if !ok {
			return nil, fmt.Errorf("%w: integer %s too large", ErrUnsupported, val)
		}

		return i, nil
	case starlark.Float:
		return float64(val), nil
	case starlark.String:
		return string(val), nil
	case *starlark.List:
		return fromIndexable(val)
	case starlark.Tuple:
		return fromIndexable(val)
	case *starlark.Dict:
		return fromDict(val)
	case *starlarkstruct.Struct:
		out := make(map[string]any)

		for _, name := range val.AttrNames() {
			attr, err := val.Attr(name)
			if err != nil {
				return nil, err
			}

			item, err := FromValue(attr)
			if err != nil {
				return nil, err
			}

			out[name] = item
		}

		return out, nil
	default:
		return nil, fmt.Errorf("%w: starlark type %s", ErrUnsupported, v.Type())
	}
}

func fromIndexable(val starlark.Indexable) ([]any, error) {
	out := make([]any, val.Len())
	for i := range out {
		item, err := FromValue(val.Index(i))
		if err != nil {
			return nil, err
		}

		out[i] = item
	}

	return out, nil
}

func fromDict(val *starlark.Dict) (any, error) {
	items := val.Items()

	stringKeys := true
	for _, item := range items {
		if _, ok := item[0].(starlark.String); !ok {
			stringKeys = false

			break
		}
	}

	if stringKeys {
		out := make(map[string]any, len(items))
		for _, item := range items {
			v, err := FromValue(item[1])
			if err != nil {
				return nil, err
			}

			out[string(item[0].(starlark.String))] = v //nolint:forcetypeassert // checked above
		}

		return out, nil
	}

	out := make(map[any]any, len(items))

	for _, item := range items {
		k, err := FromValue(item[0])
		if err != nil {
			return nil, err
		}

		if !reflect.ValueOf(k).Comparable() {
			return nil, fmt.Errorf("%w: dict key of type %T", ErrUnsupported, k)
		}

		v, err := FromValue(item[1])
		if err != nil {
			return nil, err
		}

		out[k] = v
	}

	return out, nil
}
