package runtime

import (
	"net/url"

	"github.com/quizline/chatflow/internal/compiler"
	"github.com/quizline/chatflow/pkg/chatgraph"
	"github.com/quizline/chatflow/pkg/domain"
	"github.com/quizline/chatflow/pkg/line"
)

// parseAnswer interprets a postback payload as a URL-encoded query
// string with exactly one q value and one a value. Any other shape is an
// unrecognized submission.
func parseAnswer(input string) (question, answer string, ok bool) {
	values, err := url.ParseQuery(input)
	if err != nil {
		return "", "", false
	}
	qs, as := values["q"], values["a"]
	if len(qs) != 1 || len(as) != 1 {
		return "", "", false
	}
	return qs[0], as[0], true
}

// initNode is the lazy default for unseen users. It is never stored and
// never speaks; any input enters the graph with a fresh tally.
type initNode struct {
	graph Graph
}

func (n *initNode) Messages(domain.RenderContext) []line.Message {
	return nil
}

func (n *initNode) Transition(string) domain.Node {
	return n.graph.spawn(chatgraph.EntryNode, domain.NewTally())
}

// defaultNode advances unconditionally, threading its tally through by
// reference.
type defaultNode struct {
	graph     Graph
	dest      string
	tally     *domain.Tally
	producers []compiler.Producer
}

func (n *defaultNode) Messages(rc domain.RenderContext) []line.Message {
	return compiler.Render(n.producers, rc)
}

func (n *defaultNode) Transition(string) domain.Node {
	return n.graph.spawn(n.dest, n.tally)
}

// qaNode gates the advance on the correct answer to its question.
// Wrong answers accumulate in attempted, which lives and dies with this
// node instance; the tally is never touched here.
type qaNode struct {
	graph     Graph
	dest      string
	label     string
	answer    string
	attempted map[string]struct{}
	tally     *domain.Tally
	producers []compiler.Producer

	// notice overrides the compiled messages after a self-loop.
	notice string
}

func (n *qaNode) Messages(rc domain.RenderContext) []line.Message {
	if n.notice != "" {
		return []line.Message{line.NewText(n.notice)}
	}
	return compiler.Render(n.producers, rc)
}

func (n *qaNode) Transition(input string) domain.Node {
	question, answer, ok := parseAnswer(input)
	switch {
	case !ok:
		n.notice = textUnrecognized
	case question != n.label:
		n.notice = textWrongQuestion
	default:
		if _, dup := n.attempted[answer]; dup {
			n.notice = textDuplicate
			return n
		}
		if answer != n.answer {
			n.attempted[answer] = struct{}{}
			n.notice = textWrongAnswer
			return n
		}
		return n.graph.spawn(n.dest, n.tally)
	}
	return n
}

// storeNode records every matching submission into the shared tally and
// advances. There is no duplicate suppression here; repeated visits
// accumulate.
type storeNode struct {
	graph     Graph
	dest      string
	label     string
	tally     *domain.Tally
	producers []compiler.Producer

	notice string
}

func (n *storeNode) Messages(rc domain.RenderContext) []line.Message {
	if n.notice != "" {
		return []line.Message{line.NewText(n.notice)}
	}
	return compiler.Render(n.producers, rc)
}

func (n *storeNode) Transition(input string) domain.Node {
	question, answer, ok := parseAnswer(input)
	switch {
	case !ok:
		n.notice = textUnrecognized
	case question != n.label:
		n.notice = textWrongQuestion
	default:
		n.tally.Add(answer)
		return n.graph.spawn(n.dest, n.tally)
	}
	return n
}

// endNode resolves the traversal: its messages announce the result the
// tally points at, and any further input restarts the quiz with a brand
// new tally.
type endNode struct {
	graph   Graph
	dest    string
	results []chatgraph.ResultBundle
	tally   *domain.Tally
}

func (n *endNode) Messages(rc domain.RenderContext) []line.Message {
	key, ok := n.tally.MostCommon()
	if !ok {
		return []line.Message{line.NewText(textNoResult)}
	}
	idx := letterIndex(key)
	if idx < 0 || idx >= len(n.results) {
		return []line.Message{line.NewText(textNoResult)}
	}

	result := n.results[idx]
	return []line.Message{
		line.NewImage(
			compiler.ResolveURL(rc.BaseURL, result.Original),
			compiler.ResolveURL(rc.BaseURL, result.Preview),
		),
		line.NewText(result.Text),
	}
}

func (n *endNode) Transition(string) domain.Node {
	return n.graph.spawn(n.dest, domain.NewTally())
}
