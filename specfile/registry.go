package specfile

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"transmuter/internal/callable"
	"transmuter/transmute"
)

var (
	ErrUnknownFunction = errors.New("unknown function")
	ErrInvalidFunction = errors.New("invalid function")
)

// Registry holds the named functions a specification file can reference.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]any
}

// NewRegistry returns a registry holding the builtin functions.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]any, len(builtins))}
	for name, fn := range builtins {
		r.funcs[name] = fn
	}

	return r
}

// Register adds or replaces a named function. fn is either a function of one
// argument returning a value and optionally an error, or a transmute.Entry
// built with Func, Method, MethodNamed or Contextual.
func (r *Registry) Register(name string, fn any) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidFunction)
	}

	if err := validateFunction(fn); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidFunction, name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.funcs[name] = fn

	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(name string, fn any) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.funcs[name]

	return fn, ok
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func validateFunction(fn any) error {
	if e, ok := fn.(transmute.Entry); ok {
		switch e.Kind() {
		case transmute.KindFunc, transmute.KindMethod, transmute.KindContextual:
			return nil
		default:
			return fmt.Errorf("%s entry is not callable", e.Kind())
		}
	}

	_, err := callable.Parse(fn, false)

	return err
}
