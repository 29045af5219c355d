package specfile

// Kind of a specification file.
type Kind string

const (
	KindMapping     Kind = "mapping"
	KindAggregation Kind = "aggregation"
)

// Accessor names.
const (
	AccessorKey       = "key"
	AccessorAttribute = "attribute"
)

// File is a parsed specification file.
type File struct {
	Version  string `yaml:"version"`
	Kind     Kind   `yaml:"kind,omitempty"`
	Accessor string `yaml:"accessor,omitempty"`

	// Mapping is the table of a mapping file.
	Mapping EntryMap `yaml:"mapping,omitempty"`

	GroupBy      []EntryDef `yaml:"group_by,omitempty"`
	SortBy       []EntryDef `yaml:"sort_by,omitempty"`
	Mappings     EntryMap   `yaml:"mappings,omitempty"`
	Aggregations EntryMap   `yaml:"aggregations,omitempty"`

	// Context is the initial context of the transformer instance.
	Context any `yaml:"context,omitempty"`
}

// EntryDef is one entry as written in YAML. A plain string is the same as
// an entry with only Source set.
type EntryDef struct {
	Source    string `yaml:"source,omitempty"`
	Transform string `yaml:"transform,omitempty"`
	Func      string `yaml:"func,omitempty"`
	Method    string `yaml:"method,omitempty"`
	Expr      string `yaml:"expr,omitempty"`
	Reduce    string `yaml:"reduce,omitempty"`
}

// IsSourceOnly reports whether the entry is a plain field reference.
func (e EntryDef) IsSourceOnly() bool {
	return e.Source != "" && e.Transform == "" && e.Func == "" && e.Method == "" && e.Expr == "" && e.Reduce == ""
}

// NamedEntry is an entry with its target key.
type NamedEntry struct {
	Target string
	Entry  EntryDef
}

// EntryMap keeps entries in the order they appear in the document.
type EntryMap []NamedEntry

// Targets returns the target keys in order.
func (m EntryMap) Targets() []string {
	out := make([]string, len(m))
	for i, e := range m {
		out[i] = e.Target
	}

	return out
}
