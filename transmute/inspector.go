package transmute

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"transmuter/internal/callable"
	"transmuter/internal/common"
)

var (
	errNotAMethod   = errors.New("not a method of the transformer type")
	errMethodValue  = errors.New("method value is bound to a fixed receiver, use the method expression")
	errReceiverType = errors.New("receiver does not accept the transformer type")
)

// methodSets caches the inspected method set per transformer type.
var methodSets sync.Map // reflect.Type -> *methodSet

type methodSet struct {
	typ     reflect.Type
	methods map[string]reflect.Method
}

// inspect returns the method set of the transformer type t.
func inspect(t reflect.Type) *methodSet {
	if ms, ok := methodSets.Load(t); ok {
		return ms.(*methodSet) //nolint:forcetypeassert // only *methodSet is stored
	}

	ms := &methodSet{typ: t, methods: make(map[string]reflect.Method, t.NumMethod())}
	for i := range t.NumMethod() {
		m := t.Method(i)
		ms.methods[m.Name] = m
	}

	actual, _ := methodSets.LoadOrStore(t, ms)

	return actual.(*methodSet) //nolint:forcetypeassert // only *methodSet is stored
}

// has reports whether name is in the method set.
func (ms *methodSet) has(name string) bool {
	_, ok := ms.methods[name]

	return ok
}

// owns reports whether fn looks like a method expression of the transformer
// type: its runtime name is a method of the type and its first parameter
// accepts an instance.
func (ms *methodSet) owns(fn any) bool {
	ft := reflect.TypeOf(fn)
	if ft == nil || ft.Kind() != reflect.Func || ft.NumIn() != 2 {
		return false
	}

	if !ms.typ.AssignableTo(ft.In(0)) {
		return false
	}

	_, symbol := common.FuncName(fn)
	if strings.HasSuffix(symbol, "-fm") {
		return false
	}

	name, ok := common.MethodName(symbol)

	return ok && ms.has(name)
}

// bind parses a method expression given with Method.
func (ms *methodSet) bind(fn any) (*callable.Func, error) {
	_, symbol := common.FuncName(fn)
	if strings.HasSuffix(symbol, "-fm") {
		return nil, fmt.Errorf("%w: %s", errMethodValue, symbol)
	}

	f, err := callable.Parse(fn, true)
	if err != nil {
		return nil, err
	}

	if !ms.typ.AssignableTo(f.Receiver()) {
		return nil, fmt.Errorf("%w: %s is not assignable to %s", errReceiverType, ms.typ, f.Receiver())
	}

	name, ok := common.MethodName(symbol)
	if !ok || !ms.has(name) {
		return nil, fmt.Errorf("%w: %s has no method matching %s", errNotAMethod, ms.typ, f.Name())
	}

	return f, nil
}

// named resolves a method by name.
func (ms *methodSet) named(name string) (*callable.Func, error) {
	m, ok := ms.methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no method %q", errNotAMethod, ms.typ, name)
	}

	if ms.typ.Kind() == reflect.Interface {
		return nil, fmt.Errorf("%w: methods of interface type %s cannot be named", errNotAMethod, ms.typ)
	}

	return callable.ParseValue(m.Func, true)
}
