package transmute

import (
	"fmt"
	"reflect"

	"transmuter/accessor"
	"transmuter/construct"
	"transmuter/internal/callable"
	"transmuter/internal/diagnostic"
)

// thunk is a compiled entry. arg is a record, a field value, or the ordered
// members of a group, depending on where the entry was declared.
type thunk func(inst *instance, arg any) (any, error)

// field is a compiled table rule.
type field struct {
	target any
	kind   EntryKind
	eval   thunk
}

// instance is what a thunk sees of the live transformer.
type instance struct {
	self   reflect.Value
	holder ContextHolder
}

func (i *instance) context() any {
	if i.holder == nil {
		return nil
	}

	return i.holder.Context()
}

// compiler turns entries into thunks and collects every problem it finds.
type compiler struct {
	kind  string
	self  *methodSet
	acc   accessor.Accessor
	diags diagnostic.Diagnostics

	// bound is set when some entry calls a method of the transformer.
	bound bool
}

func newCompiler(kind string, selfType reflect.Type, acc accessor.Accessor) *compiler {
	return &compiler{kind: kind, self: inspect(selfType), acc: acc}
}

func (c *compiler) err() error {
	if !c.diags.HasErrors() {
		return nil
	}

	return &MalformedSpecificationError{Kind: c.kind, Diags: c.diags}
}

// table compiles the rules of one section. seen maps already declared
// targets to the section that declared them.
func (c *compiler) table(
	section string,
	t Table,
	seen map[any]string,
	compile func(section, target string, rule any) thunk,
) []field {
	fields := make([]field, 0, len(t))

	for i, r := range t {
		target := targetName(r.Target, i)

		if !c.checkTarget(section, target, r.Target, seen) {
			continue
		}

		eval := compile(section, target, r.Entry)
		if eval == nil {
			continue
		}

		fields = append(fields, field{target: r.Target, kind: entryOf(r.Entry).kind, eval: eval})
	}

	return fields
}

func (c *compiler) checkTarget(section, target string, key any, seen map[any]string) bool {
	if key == nil {
		c.diags.AddError("invalid_target", "target key is nil", section, target)

		return false
	}

	if !reflect.ValueOf(key).Comparable() {
		c.diags.AddErrorf("invalid_target", section, target, "target key of type %T is not comparable", key)

		return false
	}

	prev, dup := seen[key]

	switch {
	case !dup:
		seen[key] = section

		return true
	case prev == section:
		c.diags.AddError("double_definition", "target is defined more than once", section, target)
	default:
		c.diags.AddErrorf("double_definition", section, target, "target is declared in both %s and %s", prev, section)
	}

	return false
}

// record compiles an entry applied to a single source record.
func (c *compiler) record(section, target string, rule any) thunk {
	e := entryOf(rule)

	switch e.kind {
	case KindField:
		return c.fieldThunk(section, target, e.source)

	case KindTransform:
		get := c.fieldThunk(section, target, e.source)
		fn := c.callable(section, target, e.inner)

		if get == nil || fn == nil {
			return nil
		}

		return func(inst *instance, rec any) (any, error) {
			v, err := get(inst, rec)
			if err != nil {
				return nil, err
			}

			return fn(inst, v)
		}

	case KindFunc, KindMethod, KindContextual:
		return c.callable(section, target, &e)

	case KindReduce:
		c.diags.AddError("invalid_entry", "reduce entries are only valid in aggregations", section, target)

	case KindInvalid:
		c.diags.AddError("invalid_entry", "target has no entry", section, target)
	}

	return nil
}

// group compiles an aggregation entry, applied to the ordered members of a group.
func (c *compiler) group(section, target string, rule any) thunk {
	e := entryOf(rule)

	switch e.kind {
	case KindReduce:
		key := e.source
		if key == nil {
			c.diags.AddError("invalid_entry", "reduce source key is nil", section, target)

			return nil
		}

		fn := c.callable(section, target, e.inner)
		if fn == nil {
			return nil
		}

		acc := c.acc

		return func(inst *instance, arg any) (any, error) {
			members, _ := arg.([]any)

			values := make([]any, len(members))
			for i, rec := range members {
				v, err := acc.Get(rec, key)
				if err != nil {
					return nil, err
				}

				values[i] = v
			}

			return fn(inst, values)
		}

	case KindFunc, KindMethod, KindContextual:
		return c.callable(section, target, &e)

	case KindField, KindTransform:
		c.diags.AddErrorf("invalid_entry", section, target,
			"%s entries do not reduce a group, use Reduce or a group callable", e.kind)

	case KindInvalid:
		c.diags.AddError("invalid_entry", "target has no entry", section, target)
	}

	return nil
}

func (c *compiler) fieldThunk(section, target string, key any) thunk {
	if key == nil {
		c.diags.AddError("invalid_entry", "source key is nil", section, target)

		return nil
	}

	acc := c.acc

	return func(_ *instance, rec any) (any, error) {
		return acc.Get(rec, key)
	}
}

// callable classifies and compiles a function entry.
func (c *compiler) callable(section, target string, e *Entry) thunk {
	var (
		f   *callable.Func
		err error
	)

	switch e.kind {
	case KindFunc:
		if e.inferred && e.fn != nil && c.self.owns(e.fn) {
			f, err = callable.Parse(e.fn, true)
		} else {
			f, err = callable.Parse(e.fn, false)
		}

	case KindMethod:
		if e.method != "" {
			f, err = c.self.named(e.method)
		} else if e.fn == nil {
			err = callable.ErrNilFunction
		} else {
			f, err = c.self.bind(e.fn)
		}

	case KindContextual:
		fn, _ := e.fn.(ContextualFunc)
		if fn == nil {
			c.diags.AddError("invalid_callable", callable.ErrNilFunction.Error(), section, target)

			return nil
		}

		return func(inst *instance, arg any) (any, error) {
			return fn(inst.context(), arg)
		}

	default:
		c.diags.AddErrorf("invalid_callable", section, target, "%s entry is not callable", e.kind)

		return nil
	}

	if err != nil {
		c.diags.AddError("invalid_callable", err.Error(), section, target)

		return nil
	}

	if f.Bound() {
		c.bound = true
	}

	return func(inst *instance, arg any) (any, error) {
		return f.Call(inst.self, arg)
	}
}

// components compiles group_by and sort_by lists.
func (c *compiler) components(section string, rules []any) []thunk {
	out := make([]thunk, 0, len(rules))

	for i, r := range rules {
		if t := c.record(section, fmt.Sprintf("#%d", i), r); t != nil {
			out = append(out, t)
		}
	}

	return out
}

// warnGroupKeyCollections flags mappings that collect a group_by field, since
// every collected value of a group is then the same.
func (c *compiler) warnGroupKeyCollections(groupBy []any, mappings Table) {
	keys := make(map[any]struct{}, len(groupBy))

	for _, r := range groupBy {
		if e := entryOf(r); e.kind == KindField && isComparable(e.source) {
			keys[e.source] = struct{}{}
		}
	}

	for i, r := range mappings {
		e := entryOf(r.Entry)
		if e.kind != KindField || !isComparable(e.source) {
			continue
		}

		if _, ok := keys[e.source]; ok {
			c.diags.AddWarning("constant_collection",
				fmt.Sprintf("collects group_by field %v, all values of a group are equal", e.source),
				"mappings", targetName(r.Target, i))
		}
	}
}

func isComparable(v any) bool {
	return v != nil && reflect.ValueOf(v).Comparable()
}

func (c *compiler) checkConstructor(ctor construct.Constructor, targets []any) {
	checker, ok := ctor.(construct.Checker)
	if !ok {
		return
	}

	for _, err := range checker.CheckFields(targets) {
		c.diags.AddError("constructor", err.Error(), "constructor", "")
	}
}

func resolveFields(fields []field, inst *instance, arg any) (*construct.Fields, error) {
	out := construct.NewFields(len(fields))

	for _, f := range fields {
		v, err := f.eval(inst, arg)
		if err != nil {
			return nil, err
		}

		out.Set(f.target, v)
	}

	return out, nil
}

func evalComponents(components []thunk, inst *instance, rec any) ([]any, error) {
	out := make([]any, len(components))

	for i, eval := range components {
		v, err := eval(inst, rec)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

func targetName(target any, i int) string {
	if target == nil {
		return fmt.Sprintf("#%d", i)
	}

	return fmt.Sprintf("%v", target)
}
