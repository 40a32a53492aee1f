package chatgraph

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes a raw graph document into its typed form. Every node is
// inspected; the first malformed entry, in source mapping order, fails
// the whole parse. There is no partial-graph recovery.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to decode graph document: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 {
		return nil, fmt.Errorf("graph document is empty")
	}

	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top-level value is not a mapping of node names")
	}

	doc := &Document{}
	for i := 0; i < len(mapping.Content); i += 2 {
		keyNode, valNode := mapping.Content[i], mapping.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode || keyNode.Tag != "!!str" {
			return nil, fmt.Errorf("line %d: node name must be a string", keyNode.Line)
		}
		name := keyNode.Value

		spec, err := parseNode(name, valNode)
		if err != nil {
			return nil, err
		}
		doc.Nodes = append(doc.Nodes, spec)
	}
	return doc, nil
}

// ParseFile reads and parses the graph document at path.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph document: %w", err)
	}
	return Parse(data)
}

func parseNode(name string, valNode *yaml.Node) (NodeSpec, error) {
	var raw map[string]any
	if err := valNode.Decode(&raw); err != nil {
		return NodeSpec{}, fmt.Errorf("node %q: not a mapping: %w", name, err)
	}

	rawMessages, ok := raw["messages"].([]any)
	if !ok {
		return NodeSpec{}, fmt.Errorf("node %q lacks a messages sequence", name)
	}
	rawAction, ok := raw["action"].(map[string]any)
	if !ok {
		return NodeSpec{}, fmt.Errorf("node %q lacks an action mapping", name)
	}

	spec := NodeSpec{Name: name, Messages: make([]MessageSpec, 0, len(rawMessages))}
	for idx, entry := range rawMessages {
		m, ok := entry.(map[string]any)
		if !ok {
			return NodeSpec{}, fmt.Errorf("node %q message %d: not a mapping", name, idx)
		}
		msg, err := decodeMessage(m)
		if err != nil {
			return NodeSpec{}, fmt.Errorf("node %q message %d: %w", name, idx, err)
		}
		spec.Messages = append(spec.Messages, msg)
	}

	action, err := decodeAction(rawAction)
	if err != nil {
		return NodeSpec{}, fmt.Errorf("node %q: %w", name, err)
	}
	spec.Action = action
	return spec, nil
}
