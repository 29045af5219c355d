package specfile

import (
	"errors"
	"fmt"
	"strings"

	"transmuter/accessor"
	"transmuter/construct"
	"transmuter/internal/diagnostic"
	"transmuter/internal/match"
	"transmuter/internal/starexpr"
	"transmuter/transmute"
)

var ErrWrongKind = errors.New("specification file has a different kind")

// Transformer is the transformer type for specification files that do not
// call Go methods. It carries the file's context.
type Transformer struct {
	transmute.Base
}

// NewTransformer returns a Transformer.
func NewTransformer() *Transformer {
	return &Transformer{}
}

// position of an entry, which decides what an expression sees.
type position int

const (
	onRecord position = iota
	onGroup
)

type builder struct {
	reg   *Registry
	diags diagnostic.Diagnostics
}

// MappingTable builds the transmute table of a mapping file.
func (f *File) MappingTable(reg *Registry) (transmute.Table, error) {
	if f.Kind != KindMapping {
		return nil, fmt.Errorf("%w: %s is not a mapping", ErrWrongKind, f.Kind)
	}

	b := &builder{reg: registryOrDefault(reg)}
	table := b.table("mapping", f.Mapping, onRecord)

	if err := b.err("mapping"); err != nil {
		return nil, err
	}

	return table, nil
}

// Aggregation builds the transmute aggregation of an aggregation file.
func (f *File) Aggregation(reg *Registry) (transmute.Aggregation, error) {
	if f.Kind != KindAggregation {
		return transmute.Aggregation{}, fmt.Errorf("%w: %s is not an aggregation", ErrWrongKind, f.Kind)
	}

	b := &builder{reg: registryOrDefault(reg)}

	agg := transmute.Aggregation{
		GroupBy:      b.components("group_by", f.GroupBy),
		SortBy:       b.components("sort_by", f.SortBy),
		Mappings:     b.table("mappings", f.Mappings, onRecord),
		Aggregations: b.table("aggregations", f.Aggregations, onGroup),
	}

	if err := b.err("aggregation"); err != nil {
		return transmute.Aggregation{}, err
	}

	return agg, nil
}

// PlanOptions returns the plan options the file asks for. Targets are
// always built as map[string]any.
func (f *File) PlanOptions() []transmute.PlanOption {
	var acc accessor.Accessor = accessor.Key{}
	if f.Accessor == AccessorAttribute {
		acc = accessor.Attribute{}
	}

	return []transmute.PlanOption{
		transmute.WithAccessor(acc),
		transmute.WithConstructor(construct.StringDict()),
	}
}

// InstanceOptions returns the instance options the file asks for.
func (f *File) InstanceOptions() []transmute.Option {
	if f.Context == nil {
		return nil
	}

	return []transmute.Option{transmute.WithContext(f.Context)}
}

// CompileMapping builds and compiles the mapping of f for transformer type S.
// opts are applied after the file's own options.
func CompileMapping[S any](f *File, reg *Registry, opts ...transmute.PlanOption) (*transmute.MappingPlan[S], error) {
	table, err := f.MappingTable(reg)
	if err != nil {
		return nil, err
	}

	return transmute.CompileMapping[S](table, append(f.PlanOptions(), opts...)...)
}

// CompileAggregation builds and compiles the aggregation of f for transformer type S.
func CompileAggregation[S any](f *File, reg *Registry, opts ...transmute.PlanOption) (*transmute.AggregationPlan[S], error) {
	agg, err := f.Aggregation(reg)
	if err != nil {
		return nil, err
	}

	return transmute.CompileAggregation[S](agg, append(f.PlanOptions(), opts...)...)
}

func registryOrDefault(reg *Registry) *Registry {
	if reg == nil {
		return NewRegistry()
	}

	return reg
}

func (b *builder) err(kind string) error {
	if !b.diags.HasErrors() {
		return nil
	}

	return &transmute.MalformedSpecificationError{Kind: kind, Diags: b.diags}
}

func (b *builder) table(section string, m EntryMap, pos position) transmute.Table {
	table := make(transmute.Table, 0, len(m))

	for _, e := range m {
		entry, ok := b.entry(section, e.Target, e.Entry, pos)
		if !ok {
			continue
		}

		table = table.Add(e.Target, entry)
	}

	return table
}

func (b *builder) components(section string, defs []EntryDef) []any {
	out := make([]any, 0, len(defs))

	for i, d := range defs {
		entry, ok := b.entry(section, fmt.Sprintf("#%d", i), d, onRecord)
		if ok {
			out = append(out, entry)
		}
	}

	return out
}

func (b *builder) entry(section, target string, d EntryDef, pos position) (transmute.Entry, bool) {
	var set []string

	for _, kv := range [][2]string{
		{"transform", d.Transform},
		{"func", d.Func},
		{"method", d.Method},
		{"expr", d.Expr},
		{"reduce", d.Reduce},
	} {
		if kv[1] != "" {
			set = append(set, kv[0])
		}
	}

	if len(set) > 1 {
		b.diags.AddErrorf("conflicting_keys", section, target, "entry sets %s, only one is allowed", strings.Join(set, " and "))

		return transmute.Entry{}, false
	}

	switch {
	case d.Reduce != "" && pos != onGroup:
		b.diags.AddError("invalid_entry", "reduce is only valid in aggregations", section, target)

	case d.Transform != "" && pos == onGroup:
		b.diags.AddError("invalid_entry", "transform is not valid in aggregations, use reduce", section, target)

	case d.IsSourceOnly():
		if pos == onGroup {
			b.diags.AddError("invalid_entry", "aggregation entries need reduce, func, method or expr", section, target)

			break
		}

		return transmute.Field(d.Source), true

	case d.Source != "" && (d.Transform != "" || d.Reduce != ""):
		name := d.Transform + d.Reduce

		fn, ok := b.function(section, target, name)
		if !ok {
			break
		}

		if pos == onGroup {
			return transmute.Reduce(d.Source, fn), true
		}

		return transmute.Transform(d.Source, fn), true

	case d.Source != "" && d.Expr != "":
		varName := "value"
		if pos == onGroup {
			varName = "values"
		}

		fn, ok := b.expr(section, target, d.Expr, varName)
		if !ok {
			break
		}

		if pos == onGroup {
			return transmute.Reduce(d.Source, fn), true
		}

		return transmute.Transform(d.Source, fn), true

	case d.Source != "":
		b.diags.AddError("invalid_entry", "source can only be combined with transform, reduce or expr", section, target)

	case d.Func != "":
		fn, ok := b.function(section, target, d.Func)
		if !ok {
			break
		}

		if e, isEntry := fn.(transmute.Entry); isEntry {
			return e, true
		}

		return transmute.Func(fn), true

	case d.Method != "":
		return transmute.MethodNamed(d.Method), true

	case d.Expr != "":
		varName := "record"
		if pos == onGroup {
			varName = "records"
		}

		return b.expr(section, target, d.Expr, varName)

	default:
		b.diags.AddError("invalid_entry", "entry is empty", section, target)
	}

	return transmute.Entry{}, false
}

func (b *builder) function(section, target, name string) (any, bool) {
	fn, ok := b.reg.Lookup(name)
	if ok {
		return fn, true
	}

	msg := fmt.Sprintf("%v %q", ErrUnknownFunction, name)
	if s := match.Suggest(name, b.reg.Names(), 3); len(s) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(s, ", "))
	}

	b.diags.AddError("unknown_function", msg, section, target)

	return nil, false
}

// expr compiles a Starlark expression into a contextual entry that binds its
// argument to varName.
func (b *builder) expr(section, target, src, varName string) (transmute.Entry, bool) {
	e, err := starexpr.Compile(section+"."+target, src)
	if err != nil {
		b.diags.AddError("invalid_expression", err.Error(), section, target)

		return transmute.Entry{}, false
	}

	return transmute.Contextual(func(ctx any, arg any) (any, error) {
		return e.Eval(map[string]any{varName: arg, "context": ctx})
	}), true
}
