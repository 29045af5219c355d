package specfile

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

var entryKeys = []string{"source", "transform", "func", "method", "expr", "reduce"}

// UnmarshalYAML accepts a plain string or a mapping.
func (e *EntryDef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string

		if err := node.Decode(&s); err != nil {
			return err
		}

		*e = EntryDef{Source: s}

		return nil

	case yaml.MappingNode:
		for i := 0; i < len(node.Content); i += 2 {
			if !slices.Contains(entryKeys, node.Content[i].Value) {
				return fmt.Errorf("line %d: unknown entry key %q", node.Content[i].Line, node.Content[i].Value)
			}
		}

		type plain EntryDef

		var p plain

		if err := node.Decode(&p); err != nil {
			return err
		}

		*e = EntryDef(p)

		return nil

	default:
		return fmt.Errorf("line %d: expected a string or a mapping for an entry", node.Line)
	}
}

// MarshalYAML writes source-only entries as plain strings.
func (e EntryDef) MarshalYAML() (any, error) {
	if e.IsSourceOnly() {
		return e.Source, nil
	}

	type plain EntryDef

	return plain(e), nil
}

// UnmarshalYAML decodes a mapping node keeping the key order. Repeated keys
// are kept so that they can be reported as double definitions.
func (m *EntryMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of target keys to entries", node.Line)
	}

	out := make(EntryMap, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		var target string
		if err := keyNode.Decode(&target); err != nil {
			return fmt.Errorf("line %d: target key: %w", keyNode.Line, err)
		}

		var entry EntryDef
		if err := valueNode.Decode(&entry); err != nil {
			return fmt.Errorf("target %q: %w", target, err)
		}

		out = append(out, NamedEntry{Target: target, Entry: entry})
	}

	*m = out

	return nil
}

// MarshalYAML writes the entries as an ordered mapping.
func (m EntryMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	for _, e := range m {
		var value yaml.Node
		if err := value.Encode(e.Entry); err != nil {
			return nil, err
		}

		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Target},
			&value,
		)
	}

	return node, nil
}
