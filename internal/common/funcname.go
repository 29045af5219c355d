package common

import (
	"path"
	"reflect"
	"runtime"
	"strings"
)

// FuncName returns the runtime name of a function value split into its package
// alias and the remaining symbol, e.g. ("strconv", "Itoa") or
// ("weather", "(*Mapper).Fahrenheit").
// Both parts are empty if fn is not a function.
func FuncName(fn any) (alias, name string) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return "", ""
	}

	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return "", ""
	}

	pkgPath, symbol := splitRuntimeName(rf.Name())

	return path.Base(pkgPath), symbol
}

// splitRuntimeName splits a runtime function name at the first dot after the
// package path. Slashes and dots inside type argument brackets, as in
// "pkg.(*M[example.com/x.T]).F", belong to the symbol.
func splitRuntimeName(full string) (pkgPath, symbol string) {
	depth, slash := 0, -1

	for i := range len(full) {
		switch full[i] {
		case '[':
			depth++
		case ']':
			depth--
		case '/':
			if depth == 0 {
				slash = i
			}
		}
	}

	depth = 0

	for i := slash + 1; i < len(full); i++ {
		switch full[i] {
		case '[':
			depth++
		case ']':
			depth--
		case '.':
			if depth == 0 {
				return full[:i], full[i+1:]
			}
		}
	}

	return full, ""
}

// MethodName extracts the method name from a symbol returned by FuncName.
// Method expressions look like "(*T).Name" or "T.Name"; method values carry a
// "-fm" suffix. The boolean reports whether the symbol looked like a method at all.
func MethodName(symbol string) (string, bool) {
	idx := strings.LastIndexByte(symbol, '.')
	if idx <= 0 {
		return "", false
	}

	name := strings.TrimSuffix(symbol[idx+1:], "-fm")
	if name == "" || strings.HasPrefix(name, "func") {
		return "", false
	}

	return name, true
}
