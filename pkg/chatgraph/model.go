package chatgraph

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// EntryNode is the name every graph must define; the implicit init state
// transitions here on the first input from a user.
const EntryNode = "Begin"

// MessageSpec is the closed union of declarative message kinds.
type MessageSpec interface {
	messageSpec()
}

// TextSpec emits a fixed text message.
type TextSpec struct {
	Text string
}

func (TextSpec) messageSpec() {}

// ImageSpec emits an image message; both paths are relative to the
// request base URL and resolved at emission time.
type ImageSpec struct {
	Original string
	Preview  string
}

func (ImageSpec) messageSpec() {}

// FlexSpec wraps a raw flex layout document verbatim.
type FlexSpec struct {
	AltText  string
	Contents any
}

func (FlexSpec) messageSpec() {}

// TemplateSpec generates one of the two choice layouts: id 1 is a single
// bubble with one button per option, id 2 is a carousel with a title
// card followed by one card per option.
type TemplateSpec struct {
	ID      int      `mapstructure:"id"`
	Label   string   `mapstructure:"label"`
	Title   string   `mapstructure:"title"`
	Options []string `mapstructure:"options"`
	FG      string   `mapstructure:"fg"`
	BG      string   `mapstructure:"bg"`
}

func (TemplateSpec) messageSpec() {}

// ActionSpec is the closed union of node action kinds.
type ActionSpec interface {
	actionSpec()
}

// DefaultAction advances unconditionally on any input.
type DefaultAction struct {
	Dest string `mapstructure:"dest"`
}

func (DefaultAction) actionSpec() {}

// QAAction gates the advance on a correct answer for its question label.
type QAAction struct {
	Dest   string `mapstructure:"dest"`
	Label  string `mapstructure:"label"`
	Answer string `mapstructure:"answer"`
}

func (QAAction) actionSpec() {}

// StoreAction records every matching answer into the tally, then advances.
type StoreAction struct {
	Dest  string `mapstructure:"dest"`
	Label string `mapstructure:"label"`
}

func (StoreAction) actionSpec() {}

// ResultBundle is one end-node outcome, indexed by answer letter.
type ResultBundle struct {
	Original string `mapstructure:"original"`
	Preview  string `mapstructure:"preview"`
	Text     string `mapstructure:"text"`
}

// EndAction picks a result from the tally and restarts the traversal on
// the next input. Dest defaults to the entry node when omitted.
type EndAction struct {
	Dest    string         `mapstructure:"dest"`
	Results []ResultBundle `mapstructure:"results"`
}

func (EndAction) actionSpec() {}

// NodeSpec is one fully decoded node of the graph document.
type NodeSpec struct {
	Name     string
	Messages []MessageSpec
	Action   ActionSpec
}

// Document is the ordered, typed form of a raw graph document. Order
// follows the source mapping so validation errors surface
// deterministically.
type Document struct {
	Nodes []NodeSpec
}

// Lookup returns the node spec with the given name.
func (d *Document) Lookup(name string) (NodeSpec, bool) {
	for _, n := range d.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return NodeSpec{}, false
}

// Names returns all node names in document order.
func (d *Document) Names() []string {
	names := make([]string, len(d.Nodes))
	for i, n := range d.Nodes {
		names[i] = n.Name
	}
	return names
}

func decodeMessage(raw map[string]any) (MessageSpec, error) {
	kind, ok := raw["type"].(string)
	if !ok || kind == "" {
		return nil, fmt.Errorf("message entry lacks a string type")
	}

	switch kind {
	case "text":
		text, ok := raw["data"].(string)
		if !ok {
			return nil, fmt.Errorf("text message requires string data")
		}
		return TextSpec{Text: text}, nil

	case "image":
		var data struct {
			Original string `mapstructure:"original"`
			Preview  string `mapstructure:"preview"`
		}
		if err := mapstructure.Decode(raw["data"], &data); err != nil {
			return nil, fmt.Errorf("image message has malformed data: %w", err)
		}
		if data.Original == "" || data.Preview == "" {
			return nil, fmt.Errorf("image message requires original and preview paths")
		}
		return ImageSpec{Original: data.Original, Preview: data.Preview}, nil

	case "flex":
		contents, ok := raw["data"]
		if !ok || contents == nil {
			return nil, fmt.Errorf("flex message requires a layout document")
		}
		alt, _ := raw["alt"].(string)
		return FlexSpec{AltText: alt, Contents: contents}, nil

	case "template":
		var spec TemplateSpec
		if err := mapstructure.Decode(raw, &spec); err != nil {
			return nil, fmt.Errorf("template message is malformed: %w", err)
		}
		if spec.ID != 1 && spec.ID != 2 {
			return nil, fmt.Errorf("template id must be 1 or 2, got %d", spec.ID)
		}
		return spec, nil

	default:
		return nil, fmt.Errorf("unknown message type %q", kind)
	}
}

func decodeAction(raw map[string]any) (ActionSpec, error) {
	kind, ok := raw["type"].(string)
	if !ok || kind == "" {
		return nil, fmt.Errorf("action lacks a string type")
	}

	switch kind {
	case "default":
		var spec DefaultAction
		if err := mapstructure.Decode(raw, &spec); err != nil {
			return nil, fmt.Errorf("default action is malformed: %w", err)
		}
		return spec, nil

	case "qa":
		var spec QAAction
		if err := mapstructure.Decode(raw, &spec); err != nil {
			return nil, fmt.Errorf("qa action is malformed: %w", err)
		}
		return spec, nil

	case "store":
		var spec StoreAction
		if err := mapstructure.Decode(raw, &spec); err != nil {
			return nil, fmt.Errorf("store action is malformed: %w", err)
		}
		return spec, nil

	case "end":
		var spec EndAction
		if err := mapstructure.Decode(raw, &spec); err != nil {
			return nil, fmt.Errorf("end action is malformed: %w", err)
		}
		if spec.Dest == "" {
			spec.Dest = EntryNode
		}
		return spec, nil

	default:
		return nil, fmt.Errorf("unknown action type %q", kind)
	}
}
