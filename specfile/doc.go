// Package specfile loads transformation specifications from YAML and turns
// them into transmute tables.
//
// A specification file declares either a mapping or an aggregation:
//
//	version: "1"
//	kind: aggregation
//	accessor: key            # key (default) or attribute
//	group_by: [parent]
//	sort_by:
//	  - expr: "record['age']"
//	mappings:
//	  children:
//	    expr: "record['first'] + ' ' + record['last']"
//	aggregations:
//	  name:
//	    source: parent
//	    reduce: first
//	  size:
//	    func: count
//	context:
//	  greeting: hello
//
// # Entry forms
//
//   - a plain string: the source field
//   - source: the source field
//   - source + transform: a named function applied to the field value
//   - source + expr: a Starlark expression over `value`
//   - func: a named function applied to the record (or to the group in aggregations)
//   - method: a method of the transformer type
//   - expr: a Starlark expression over `record` (or `records` in aggregations)
//   - source + reduce: in aggregations, a named function applied to the field values
//   - source + expr: in aggregations, a Starlark expression over `values`
//
// Every expression also sees `context`, the context of the transformer
// instance. Named functions are resolved in a Registry, which comes with
// builtins such as first, count, sum, mean, join and upper.
package specfile
