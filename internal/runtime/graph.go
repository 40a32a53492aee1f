package runtime

import (
	"fmt"
	"strings"

	"github.com/quizline/chatflow/internal/compiler"
	"github.com/quizline/chatflow/pkg/chatgraph"
	"github.com/quizline/chatflow/pkg/domain"
)

// Factory constructs a node instance bound to a running tally.
type Factory func(tally *domain.Tally) domain.Node

// Graph is the compiled, immutable name -> factory table driving all
// transitions. Built once at startup from a validated document.
type Graph map[string]Factory

// Build compiles a validated document into a graph. Every message spec
// becomes a producer here; template errors therefore surface at load
// time, never mid-conversation.
func Build(doc *chatgraph.Document) (Graph, error) {
	g := make(Graph, len(doc.Nodes))

	for _, spec := range doc.Nodes {
		producers, err := compiler.CompileAll(spec.Messages)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", spec.Name, err)
		}

		switch action := spec.Action.(type) {
		case chatgraph.DefaultAction:
			dest := action.Dest
			g[spec.Name] = func(tally *domain.Tally) domain.Node {
				return &defaultNode{graph: g, dest: dest, tally: tally, producers: producers}
			}

		case chatgraph.QAAction:
			dest, label, answer := action.Dest, action.Label, action.Answer
			g[spec.Name] = func(tally *domain.Tally) domain.Node {
				return &qaNode{
					graph:     g,
					dest:      dest,
					label:     label,
					answer:    answer,
					attempted: make(map[string]struct{}),
					tally:     tally,
					producers: producers,
				}
			}

		case chatgraph.StoreAction:
			dest, label := action.Dest, action.Label
			g[spec.Name] = func(tally *domain.Tally) domain.Node {
				return &storeNode{graph: g, dest: dest, label: label, tally: tally, producers: producers}
			}

		case chatgraph.EndAction:
			dest, results := action.Dest, action.Results
			g[spec.Name] = func(tally *domain.Tally) domain.Node {
				return &endNode{graph: g, dest: dest, results: results, tally: tally}
			}

		default:
			return nil, fmt.Errorf("node %q: unsupported action %T", spec.Name, spec.Action)
		}
	}
	return g, nil
}

// NewInit returns the implicit bootstrap node for unseen users. It emits
// nothing and enters the graph at the entry node on any input, with a
// fresh tally.
func (g Graph) NewInit() domain.Node {
	return &initNode{graph: g}
}

// spawn constructs the named node around the given tally. The graph is
// validated at load time, so a missing name cannot happen during normal
// operation; it degrades to a fresh init node rather than panicking.
func (g Graph) spawn(name string, tally *domain.Tally) domain.Node {
	factory, ok := g[name]
	if !ok {
		return g.NewInit()
	}
	return factory(tally)
}

// letterIndex maps an answer letter to its zero-based alphabet position,
// or -1 when the key is not a single uppercase letter.
func letterIndex(key string) int {
	if len(key) != 1 {
		return -1
	}
	return strings.Index(compiler.Alphabet, key)
}
