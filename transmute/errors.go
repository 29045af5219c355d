package transmute

import (
	"errors"
	"strings"

	"transmuter/internal/diagnostic"
	"transmuter/internal/group"
	"transmuter/internal/order"
)

var (
	ErrMalformedSpecification = errors.New("malformed specification")
	ErrNoContextHolder        = errors.New("transformer does not implement ContextHolder")
	ErrNilInstance            = errors.New("transformer instance is nil but the plan calls its methods")

	// ErrUnhashableKey is returned when a group key component is not comparable.
	ErrUnhashableKey = group.ErrUnhashableKey
	// ErrUnorderable is returned when sort_by components cannot be ordered.
	ErrUnorderable = order.ErrUnorderable
)

// MalformedSpecificationError reports every problem found while compiling a
// specification table.
type MalformedSpecificationError struct {
	// Kind is "mapping" or "aggregation".
	Kind  string
	Diags diagnostic.Diagnostics
}

func (e *MalformedSpecificationError) Error() string {
	return "malformed " + e.Kind + " specification: " + strings.Join(e.Diags.Messages(), "; ")
}

// Issues returns the formatted problems.
func (e *MalformedSpecificationError) Issues() []string {
	return e.Diags.Messages()
}

func (e *MalformedSpecificationError) Is(target error) bool {
	return target == ErrMalformedSpecification
}
