// Package validator checks a parsed graph document for cross-node
// consistency before it is compiled into executable nodes.
package validator

import (
	"fmt"

	"github.com/quizline/chatflow/pkg/chatgraph"
)

// Validate inspects every node of the document and returns the first
// violation in document order. A graph that fails validation must not
// serve traffic; there is no partial recovery.
func Validate(doc *chatgraph.Document) error {
	names := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		names[n.Name] = true
	}

	if !names[chatgraph.EntryNode] {
		return fmt.Errorf("graph has no %q node; it is the sole entry point", chatgraph.EntryNode)
	}

	for _, n := range doc.Nodes {
		if err := validateAction(n, names); err != nil {
			return err
		}
	}
	return nil
}

func validateAction(n chatgraph.NodeSpec, names map[string]bool) error {
	checkDest := func(dest string) error {
		if dest == "" {
			return fmt.Errorf("node %q: action has no dest", n.Name)
		}
		if !names[dest] {
			return fmt.Errorf("node %q: dest %q does not exist", n.Name, dest)
		}
		return nil
	}

	switch a := n.Action.(type) {
	case chatgraph.DefaultAction:
		return checkDest(a.Dest)

	case chatgraph.QAAction:
		if err := checkDest(a.Dest); err != nil {
			return err
		}
		if a.Label == "" {
			return fmt.Errorf("node %q: qa action has no label", n.Name)
		}
		if a.Answer == "" {
			return fmt.Errorf("node %q: qa action has no answer", n.Name)
		}
		return nil

	case chatgraph.StoreAction:
		if err := checkDest(a.Dest); err != nil {
			return err
		}
		if a.Label == "" {
			return fmt.Errorf("node %q: store action has no label", n.Name)
		}
		return nil

	case chatgraph.EndAction:
		if err := checkDest(a.Dest); err != nil {
			return err
		}
		for i, r := range a.Results {
			if r.Original == "" || r.Preview == "" || r.Text == "" {
				return fmt.Errorf("node %q: result %d must carry original, preview and text", n.Name, i)
			}
		}
		return nil

	default:
		return fmt.Errorf("node %q: unsupported action %T", n.Name, n.Action)
	}
}
