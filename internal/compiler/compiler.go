// Package compiler turns declarative message specs into message
// producers. Compilation happens once at load time; producers run per
// request because the asset base URL is only known then.
package compiler

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/quizline/chatflow/pkg/chatgraph"
	"github.com/quizline/chatflow/pkg/domain"
	"github.com/quizline/chatflow/pkg/line"
)

// Producer emits one outgoing message for the given render context.
type Producer func(rc domain.RenderContext) line.Message

// Compile builds a producer for a single message spec. Unknown template
// ids have already been rejected at parse time; hitting one here is a
// programming error and fails loudly.
func Compile(spec chatgraph.MessageSpec) (Producer, error) {
	switch s := spec.(type) {
	case chatgraph.TextSpec:
		msg := line.NewText(s.Text)
		return func(domain.RenderContext) line.Message { return msg }, nil

	case chatgraph.ImageSpec:
		return func(rc domain.RenderContext) line.Message {
			return line.NewImage(ResolveURL(rc.BaseURL, s.Original), ResolveURL(rc.BaseURL, s.Preview))
		}, nil

	case chatgraph.FlexSpec:
		alt := s.AltText
		if alt == "" {
			alt = " "
		}
		msg := line.NewFlex(alt, s.Contents)
		return func(domain.RenderContext) line.Message { return msg }, nil

	case chatgraph.TemplateSpec:
		switch s.ID {
		case 1:
			msg := buildChoiceBubble(s)
			return func(domain.RenderContext) line.Message { return msg }, nil
		case 2:
			msg := buildChoiceCarousel(s)
			return func(domain.RenderContext) line.Message { return msg }, nil
		default:
			return nil, fmt.Errorf("template id must be 1 or 2, got %d", s.ID)
		}

	default:
		return nil, fmt.Errorf("unsupported message spec %T", spec)
	}
}

// CompileAll compiles an ordered message list.
func CompileAll(specs []chatgraph.MessageSpec) ([]Producer, error) {
	producers := make([]Producer, 0, len(specs))
	for i, spec := range specs {
		p, err := Compile(spec)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		producers = append(producers, p)
	}
	return producers, nil
}

// Render applies every producer to the render context in declared order.
func Render(producers []Producer, rc domain.RenderContext) []line.Message {
	messages := make([]line.Message, len(producers))
	for i, p := range producers {
		messages[i] = p(rc)
	}
	return messages
}

// ResolveURL joins a relative asset path against the request base URL,
// percent-encoding each path segment.
func ResolveURL(base, path string) string {
	u, err := url.Parse(base)
	if err != nil {
		return path
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	return u.JoinPath(segments...).String()
}
