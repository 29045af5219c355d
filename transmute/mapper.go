package transmute

import (
	"time"

	"github.com/rs/zerolog"
)

// Mapper applies a MappingPlan to records, bound to one transformer instance.
type Mapper[S any] struct {
	plan *MappingPlan[S]
	self S
	inst *instance
	log  zerolog.Logger
}

// NewMapper binds plan to the transformer instance self.
func NewMapper[S any](plan *MappingPlan[S], self S, opts ...Option) (*Mapper[S], error) {
	cfg := newInstanceConfig(opts)

	inst, err := newInstance(self, plan.bound, cfg)
	if err != nil {
		return nil, err
	}

	return &Mapper[S]{
		plan: plan,
		self: self,
		inst: inst,
		log:  instanceLogger(cfg, plan.selfType),
	}, nil
}

// Self returns the transformer instance.
func (m *Mapper[S]) Self() S {
	return m.self
}

// Context returns the context of the transformer instance, or nil if it
// carries none.
func (m *Mapper[S]) Context() any {
	return m.inst.context()
}

// SetContext replaces the context of the transformer instance.
func (m *Mapper[S]) SetContext(ctx any) error {
	if m.inst.holder == nil {
		return ErrNoContextHolder
	}

	m.inst.holder.SetContext(ctx)

	return nil
}

// Map transforms one record. Fields are evaluated in declaration order and
// the first error is returned as is.
func (m *Mapper[S]) Map(record any) (any, error) {
	fields, err := resolveFields(m.plan.fields, m.inst, record)
	if err != nil {
		return nil, err
	}

	return m.plan.ctor.Construct(fields)
}

// MapList transforms records in order. Nothing is returned if any record fails.
func (m *Mapper[S]) MapList(records []any) ([]any, error) {
	start := time.Now()

	out := make([]any, 0, len(records))

	for i, rec := range records {
		v, err := m.Map(rec)
		if err != nil {
			m.log.Debug().Err(err).Int("record", i).Msg("mapping failed")

			return nil, err
		}

		out = append(out, v)
	}

	m.log.Debug().Int("records", len(records)).Dur("elapsed", time.Since(start)).Msg("records mapped")

	return out, nil
}
