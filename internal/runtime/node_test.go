package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizline/chatflow/pkg/chatgraph"
	"github.com/quizline/chatflow/pkg/domain"
	"github.com/quizline/chatflow/pkg/line"
)

var testRC = domain.RenderContext{BaseURL: "https://bot.example.com/"}

// quizDoc: Begin -> Q1 (qa, answer B) -> S1 (store) -> Result (end, 2 results) -> Begin
func quizDoc() *chatgraph.Document {
	return &chatgraph.Document{Nodes: []chatgraph.NodeSpec{
		{
			Name:     "Begin",
			Messages: []chatgraph.MessageSpec{chatgraph.TextSpec{Text: "welcome"}},
			Action:   chatgraph.DefaultAction{Dest: "Q1"},
		},
		{
			Name:     "Q1",
			Messages: []chatgraph.MessageSpec{chatgraph.TextSpec{Text: "question one"}},
			Action:   chatgraph.QAAction{Dest: "S1", Label: "q1", Answer: "B"},
		},
		{
			Name:     "S1",
			Messages: []chatgraph.MessageSpec{chatgraph.TextSpec{Text: "survey one"}},
			Action:   chatgraph.StoreAction{Dest: "Result", Label: "s1"},
		},
		{
			Name: "Result",
			Action: chatgraph.EndAction{
				Dest: "Begin",
				Results: []chatgraph.ResultBundle{
					{Original: "static/r0.png", Preview: "static/r0_s.png", Text: "result zero"},
					{Original: "static/r1.png", Preview: "static/r1_s.png", Text: "result one"},
				},
			},
		},
	}}
}

func buildGraph(t *testing.T) Graph {
	t.Helper()
	g, err := Build(quizDoc())
	require.NoError(t, err)
	return g
}

func textOf(t *testing.T, msgs []line.Message) string {
	t.Helper()
	require.Len(t, msgs, 1)
	return msgs[0].(line.TextMessage).Text
}

func TestInit_EntersGraphWithFreshTally(t *testing.T) {
	g := buildGraph(t)

	node := g.NewInit()
	assert.Empty(t, node.Messages(testRC), "init never speaks")

	begin := node.Transition("anything at all")
	assert.Equal(t, "welcome", textOf(t, begin.Messages(testRC)))

	dn, ok := begin.(*defaultNode)
	require.True(t, ok)
	assert.Equal(t, 0, dn.tally.Len())
}

func TestDefault_AdvancesOnAnyInput(t *testing.T) {
	g := buildGraph(t)

	begin := g.NewInit().Transition("hi")
	q1 := begin.Transition("whatever")

	assert.Equal(t, "question one", textOf(t, q1.Messages(testRC)))
	assert.IsType(t, &qaNode{}, q1)
}

func TestQA_UnrecognizedInputSelfLoops(t *testing.T) {
	g := buildGraph(t)
	q1 := g.NewInit().Transition("x").Transition("x")

	next := q1.Transition("free text, not a postback")
	assert.Same(t, q1, next)
	assert.Equal(t, textUnrecognized, textOf(t, next.Messages(testRC)))

	// Multiple values for one key are also unrecognized.
	next = q1.Transition("q=q1&a=A&a=B")
	assert.Same(t, q1, next)
	assert.Equal(t, textUnrecognized, textOf(t, next.Messages(testRC)))
}

func TestQA_WrongQuestionNeverMutatesAttempted(t *testing.T) {
	g := buildGraph(t)
	q1 := g.NewInit().Transition("x").Transition("x")

	next := q1.Transition("q=other&a=A")
	assert.Same(t, q1, next)
	assert.Equal(t, textWrongQuestion, textOf(t, next.Messages(testRC)))

	// A was not recorded above: submitting it now yields the generic
	// wrong-answer text, not the duplicate text.
	next = q1.Transition("q=q1&a=A")
	assert.Equal(t, textWrongAnswer, textOf(t, next.Messages(testRC)))
}

func TestQA_DuplicateWrongAnswer(t *testing.T) {
	g := buildGraph(t)
	q1 := g.NewInit().Transition("x").Transition("x")

	assert.Equal(t, textWrongAnswer, textOf(t, q1.Transition("q=q1&a=A").Messages(testRC)))
	assert.Equal(t, textDuplicate, textOf(t, q1.Transition("q=q1&a=A").Messages(testRC)))
}

func TestQA_CorrectAnswerAdvancesAfterAnyNumberOfWrongs(t *testing.T) {
	g := buildGraph(t)
	q1 := g.NewInit().Transition("x").Transition("x")

	for _, wrong := range []string{"A", "C", "D", "E"} {
		q1.Transition("q=q1&a=" + wrong)
	}

	s1 := q1.Transition("q=q1&a=B")
	assert.NotSame(t, q1, s1)
	assert.Equal(t, "survey one", textOf(t, s1.Messages(testRC)))

	// The QA node never touches the tally.
	sn, ok := s1.(*storeNode)
	require.True(t, ok)
	assert.Equal(t, 0, sn.tally.Len())
}

func TestStore_RecordsEveryMatchingAnswer(t *testing.T) {
	g := buildGraph(t)

	tally := domain.NewTally()
	s1 := g.spawn("S1", tally)

	// Mismatched question self-loops without recording.
	next := s1.Transition("q=nope&a=A")
	assert.Same(t, s1, next)
	assert.Equal(t, textWrongQuestion, textOf(t, next.Messages(testRC)))
	assert.Equal(t, 0, tally.Len())

	end := s1.Transition("q=s1&a=A")
	assert.IsType(t, &endNode{}, end)
	assert.Equal(t, 1, tally.Count("A"))

	// A second visit threading the same tally accumulates.
	s1Again := g.spawn("S1", tally)
	s1Again.Transition("q=s1&a=A")
	assert.Equal(t, 2, tally.Count("A"))
}

func TestEnd_SelectsResultByMostCommonLetter(t *testing.T) {
	g := buildGraph(t)

	tally := domain.NewTally()
	tally.Add("A")
	tally.Add("A")
	tally.Add("A")
	tally.Add("B")

	end := g.spawn("Result", tally)
	msgs := end.Messages(testRC)
	require.Len(t, msgs, 2)

	img := msgs[0].(line.ImageMessage)
	assert.Equal(t, "https://bot.example.com/static/r0.png", img.OriginalContentURL)
	assert.Equal(t, "https://bot.example.com/static/r0_s.png", img.PreviewImageURL)
	assert.Equal(t, "result zero", msgs[1].(line.TextMessage).Text)
}

func TestEnd_TieSelectsFirstIncremented(t *testing.T) {
	g := buildGraph(t)

	tally := domain.NewTally()
	tally.Add("B")
	tally.Add("A")

	msgs := g.spawn("Result", tally).Messages(testRC)
	require.Len(t, msgs, 2)
	assert.Equal(t, "result one", msgs[1].(line.TextMessage).Text)
}

func TestEnd_IndexBeyondResultsFallsBack(t *testing.T) {
	g := buildGraph(t)

	tally := domain.NewTally()
	tally.Add("Z")

	msgs := g.spawn("Result", tally).Messages(testRC)
	assert.Equal(t, textNoResult, textOf(t, msgs))
}

func TestEnd_EmptyTallyFallsBack(t *testing.T) {
	g := buildGraph(t)

	msgs := g.spawn("Result", domain.NewTally()).Messages(testRC)
	assert.Equal(t, textNoResult, textOf(t, msgs))
}

func TestEnd_RestartsWithFreshTally(t *testing.T) {
	g := buildGraph(t)

	tally := domain.NewTally()
	tally.Add("A")
	end := g.spawn("Result", tally)

	begin := end.Transition("anything")
	dn, ok := begin.(*defaultNode)
	require.True(t, ok)
	assert.Equal(t, "welcome", textOf(t, begin.Messages(testRC)))
	assert.NotSame(t, tally, dn.tally)
	assert.Equal(t, 0, dn.tally.Len())
}

func TestTally_SharedByReferenceAlongOneTraversal(t *testing.T) {
	g := buildGraph(t)

	begin := g.NewInit().Transition("x").(*defaultNode)
	q1 := begin.Transition("x").(*qaNode)
	s1 := q1.Transition("q=q1&a=B").(*storeNode)

	assert.Same(t, begin.tally, q1.tally)
	assert.Same(t, q1.tally, s1.tally)
}
