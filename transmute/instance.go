package transmute

import (
	"reflect"

	"github.com/rs/zerolog"
)

func newInstance[S any](self S, bound bool, cfg instanceConfig) (*instance, error) {
	sv := reflect.ValueOf(&self).Elem()

	if isNil(sv) {
		if bound {
			return nil, ErrNilInstance
		}

		if cfg.hasContext {
			return nil, ErrNoContextHolder
		}

		return &instance{self: sv}, nil
	}

	holder, _ := any(self).(ContextHolder)

	if cfg.hasContext {
		if holder == nil {
			return nil, ErrNoContextHolder
		}

		holder.SetContext(cfg.context)
	}

	return &instance{self: sv, holder: holder}, nil
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

func instanceLogger(cfg instanceConfig, selfType reflect.Type) zerolog.Logger {
	return cfg.logger.With().Stringer("transformer", selfType).Logger()
}
