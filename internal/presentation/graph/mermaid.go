// Package graph renders a parsed chatflow document as a Mermaid
// flowchart for inspection tooling.
package graph

import (
	"fmt"
	"strings"

	"github.com/quizline/chatflow/pkg/chatgraph"
)

// GenerateMermaid produces Mermaid flowchart syntax for the graph.
// Shapes follow the action kind:
//   - qa: [/Parallelogram/] (gated input)
//   - store: [[Subroutine]] (tally side effect)
//   - end: ((Circle)) (traversal sink, restart edge dotted)
//   - default: [Rectangle]
func GenerateMermaid(doc *chatgraph.Document) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range doc.Nodes {
		safeID := sanitizeMermaidID(node.Name)

		opener, closer := "[", "]"
		switch node.Action.(type) {
		case chatgraph.QAAction:
			opener, closer = "[/", "/]"
		case chatgraph.StoreAction:
			opener, closer = "[[", "]]"
		case chatgraph.EndAction:
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, node.Name, closer))

		switch a := node.Action.(type) {
		case chatgraph.DefaultAction:
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", safeID, sanitizeMermaidID(a.Dest)))
		case chatgraph.QAAction:
			sb.WriteString(fmt.Sprintf("    %s -- \"%s=%s\" --> %s\n", safeID, a.Label, a.Answer, sanitizeMermaidID(a.Dest)))
		case chatgraph.StoreAction:
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", safeID, a.Label, sanitizeMermaidID(a.Dest)))
		case chatgraph.EndAction:
			sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", safeID, sanitizeMermaidID(a.Dest)))
		}
	}
	return sb.String()
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer("/", "_", " ", "_", "-", "_", ".", "_")
	return r.Replace(id)
}
