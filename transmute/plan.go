package transmute

import (
	"reflect"

	"transmuter/construct"
)

// MappingPlan is a compiled one-to-one specification for transformer type S.
// Plans are immutable and may be shared by any number of instances.
type MappingPlan[S any] struct {
	fields   []field
	ctor     construct.Constructor
	selfType reflect.Type
	bound    bool
}

// CompileMapping validates the table and compiles every entry.
// All problems are reported together in a *MalformedSpecificationError.
func CompileMapping[S any](table Table, opts ...PlanOption) (*MappingPlan[S], error) {
	cfg := newPlanConfig(opts)
	selfType := reflect.TypeFor[S]()
	c := newCompiler("mapping", selfType, cfg.accessor)

	if len(table) == 0 {
		c.diags.AddError("empty_specification", "mapping must declare at least one entry", "mapping", "")
	}

	fields := c.table("mapping", table, make(map[any]string, len(table)), c.record)
	c.checkConstructor(cfg.constructor, table.Targets())

	if err := c.err(); err != nil {
		cfg.logger.Debug().Err(err).Stringer("transformer", selfType).Msg("mapping specification rejected")

		return nil, err
	}

	cfg.logger.Debug().
		Stringer("transformer", selfType).
		Int("fields", len(fields)).
		Bool("bound", c.bound).
		Msg("mapping compiled")

	return &MappingPlan[S]{
		fields:   fields,
		ctor:     cfg.constructor,
		selfType: selfType,
		bound:    c.bound,
	}, nil
}

// MustCompileMapping is CompileMapping that panics on error.
func MustCompileMapping[S any](table Table, opts ...PlanOption) *MappingPlan[S] {
	p, err := CompileMapping[S](table, opts...)
	if err != nil {
		panic(err)
	}

	return p
}

// Targets returns the target keys in declaration order.
func (p *MappingPlan[S]) Targets() []any {
	return targetsOf(p.fields)
}

// AggregationPlan is a compiled many-to-one specification for transformer type S.
type AggregationPlan[S any] struct {
	groupBy      []thunk
	sortBy       []thunk
	mappings     []field
	aggregations []field
	ctor         construct.Constructor
	selfType     reflect.Type
	bound        bool
	warnings     []string
}

// CompileAggregation validates the aggregation and compiles every entry.
func CompileAggregation[S any](agg Aggregation, opts ...PlanOption) (*AggregationPlan[S], error) {
	cfg := newPlanConfig(opts)
	selfType := reflect.TypeFor[S]()
	c := newCompiler("aggregation", selfType, cfg.accessor)

	if len(agg.Mappings) == 0 && len(agg.Aggregations) == 0 {
		c.diags.AddError("empty_specification", "aggregation must declare mappings or aggregations", "aggregation", "")
	}

	seen := make(map[any]string, len(agg.Mappings)+len(agg.Aggregations))

	p := &AggregationPlan[S]{
		groupBy:      c.components("group_by", agg.GroupBy),
		sortBy:       c.components("sort_by", agg.SortBy),
		aggregations: c.table("aggregations", agg.Aggregations, seen, c.group),
		mappings:     c.table("mappings", agg.Mappings, seen, c.record),
		ctor:         cfg.constructor,
		selfType:     selfType,
	}

	targets := append(agg.Mappings.Targets(), agg.Aggregations.Targets()...)
	c.checkConstructor(cfg.constructor, targets)
	c.warnGroupKeyCollections(agg.GroupBy, agg.Mappings)

	if err := c.err(); err != nil {
		cfg.logger.Debug().Err(err).Stringer("transformer", selfType).Msg("aggregation specification rejected")

		return nil, err
	}

	p.bound = c.bound
	p.warnings = c.diags.WarningMessages()

	for _, w := range p.warnings {
		cfg.logger.Warn().Stringer("transformer", selfType).Msg(w)
	}

	cfg.logger.Debug().
		Stringer("transformer", selfType).
		Int("group_by", len(p.groupBy)).
		Int("sort_by", len(p.sortBy)).
		Int("mappings", len(p.mappings)).
		Int("aggregations", len(p.aggregations)).
		Msg("aggregation compiled")

	return p, nil
}

// MustCompileAggregation is CompileAggregation that panics on error.
func MustCompileAggregation[S any](agg Aggregation, opts ...PlanOption) *AggregationPlan[S] {
	p, err := CompileAggregation[S](agg, opts...)
	if err != nil {
		panic(err)
	}

	return p
}

// Targets returns the mapping targets followed by the aggregation targets.
func (p *AggregationPlan[S]) Targets() []any {
	return append(targetsOf(p.mappings), targetsOf(p.aggregations)...)
}

// Warnings returns the non-fatal problems found while compiling.
func (p *AggregationPlan[S]) Warnings() []string {
	return p.warnings
}

func targetsOf(fields []field) []any {
	out := make([]any, len(fields))
	for i, f := range fields {
		out[i] = f.target
	}

	return out
}
