package transmute

import (
	"slices"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"transmuter/construct"
	"transmuter/internal/group"
	"transmuter/internal/order"
)

// Aggregator applies an AggregationPlan to record sequences, bound to one
// transformer instance.
type Aggregator[S any] struct {
	plan        *AggregationPlan[S]
	self        S
	inst        *instance
	parallelism int
	log         zerolog.Logger
}

// NewAggregator binds plan to the transformer instance self.
func NewAggregator[S any](plan *AggregationPlan[S], self S, opts ...Option) (*Aggregator[S], error) {
	cfg := newInstanceConfig(opts)

	inst, err := newInstance(self, plan.bound, cfg)
	if err != nil {
		return nil, err
	}

	return &Aggregator[S]{
		plan:        plan,
		self:        self,
		inst:        inst,
		parallelism: cfg.parallelism,
		log:         instanceLogger(cfg, plan.selfType),
	}, nil
}

// Self returns the transformer instance.
func (a *Aggregator[S]) Self() S {
	return a.self
}

// Context returns the context of the transformer instance.
func (a *Aggregator[S]) Context() any {
	return a.inst.context()
}

// SetContext replaces the context of the transformer instance.
func (a *Aggregator[S]) SetContext(ctx any) error {
	if a.inst.holder == nil {
		return ErrNoContextHolder
	}

	a.inst.holder.SetContext(ctx)

	return nil
}

// Aggregate partitions records by the group key and produces one target
// record per group, in the order groups were first seen (after sorting when
// sort_by is declared). Within a group, members keep their order.
// Any error aborts the call and no partial output is returned.
func (a *Aggregator[S]) Aggregate(records []any) ([]any, error) {
	start := time.Now()

	ordered, err := a.sort(records)
	if err != nil {
		return nil, err
	}

	var key group.KeyFunc[any]
	if len(a.plan.groupBy) > 0 {
		key = func(rec any) ([]any, error) {
			return evalComponents(a.plan.groupBy, a.inst, rec)
		}
	}

	groups, err := group.Partition(ordered, key)
	if err != nil {
		return nil, err
	}

	tables := make([]*construct.Fields, len(groups))

	err = a.forEachGroup(len(groups), func(i int) error {
		t, err := a.resolveGroup(groups[i].Members)
		if err != nil {
			return err
		}

		tables[i] = t

		return nil
	})
	if err != nil {
		a.log.Debug().Err(err).Msg("aggregation failed")

		return nil, err
	}

	out := make([]any, 0, len(tables))

	for _, t := range tables {
		v, err := a.plan.ctor.Construct(t)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	a.log.Debug().
		Int("records", len(records)).
		Int("groups", len(groups)).
		Int("parallelism", a.parallelism).
		Dur("elapsed", time.Since(start)).
		Msg("records aggregated")

	return out, nil
}

// resolveGroup collects the per-record mappings and then reduces the group.
func (a *Aggregator[S]) resolveGroup(members []any) (*construct.Fields, error) {
	fields := construct.NewFields(len(a.plan.mappings) + len(a.plan.aggregations))

	for _, f := range a.plan.mappings {
		values := make([]any, len(members))

		for i, rec := range members {
			v, err := f.eval(a.inst, rec)
			if err != nil {
				return nil, err
			}

			values[i] = v
		}

		fields.Set(f.target, values)
	}

	for _, f := range a.plan.aggregations {
		v, err := f.eval(a.inst, members)
		if err != nil {
			return nil, err
		}

		fields.Set(f.target, v)
	}

	return fields, nil
}

// forEachGroup runs fn for every group index, concurrently when parallelism
// allows it. The first error is returned.
func (a *Aggregator[S]) forEachGroup(n int, fn func(i int) error) error {
	if a.parallelism < 2 || n < 2 {
		for i := range n {
			if err := fn(i); err != nil {
				return err
			}
		}

		return nil
	}

	var g errgroup.Group
	g.SetLimit(a.parallelism)

	for i := range n {
		g.Go(func() error {
			return fn(i)
		})
	}

	return g.Wait()
}

type sortItem struct {
	key []any
	rec any
}

// sort orders the records by the sort_by components, keeping the input
// order of equal keys.
func (a *Aggregator[S]) sort(records []any) ([]any, error) {
	if len(a.plan.sortBy) == 0 {
		return records, nil
	}

	items := make([]sortItem, len(records))

	for i, rec := range records {
		k, err := evalComponents(a.plan.sortBy, a.inst, rec)
		if err != nil {
			return nil, err
		}

		items[i] = sortItem{key: k, rec: rec}
	}

	var cmpErr error

	slices.SortStableFunc(items, func(x, y sortItem) int {
		c, err := order.CompareTuples(x.key, y.key)
		if err != nil && cmpErr == nil {
			cmpErr = err
		}

		return c
	})

	if cmpErr != nil {
		return nil, cmpErr
	}

	out := make([]any, len(items))
	for i, it := range items {
		out[i] = it.rec
	}

	return out, nil
}
