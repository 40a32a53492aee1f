package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizline/chatflow/internal/validator"
	"github.com/quizline/chatflow/pkg/chatgraph"
)

func doc(nodes ...chatgraph.NodeSpec) *chatgraph.Document {
	return &chatgraph.Document{Nodes: nodes}
}

func TestValidate_OK(t *testing.T) {
	err := validator.Validate(doc(
		chatgraph.NodeSpec{Name: "Begin", Action: chatgraph.DefaultAction{Dest: "Q1"}},
		chatgraph.NodeSpec{Name: "Q1", Action: chatgraph.QAAction{Dest: "S1", Label: "q1", Answer: "A"}},
		chatgraph.NodeSpec{Name: "S1", Action: chatgraph.StoreAction{Dest: "End", Label: "s1"}},
		chatgraph.NodeSpec{Name: "End", Action: chatgraph.EndAction{
			Dest: "Begin",
			Results: []chatgraph.ResultBundle{
				{Original: "o.png", Preview: "p.png", Text: "t"},
			},
		}},
	))
	require.NoError(t, err)
}

func TestValidate_MissingEntryNode(t *testing.T) {
	err := validator.Validate(doc(
		chatgraph.NodeSpec{Name: "Other", Action: chatgraph.DefaultAction{Dest: "Other"}},
	))
	assert.ErrorContains(t, err, `no "Begin" node`)
}

func TestValidate_BrokenDest(t *testing.T) {
	err := validator.Validate(doc(
		chatgraph.NodeSpec{Name: "Begin", Action: chatgraph.DefaultAction{Dest: "Ghost"}},
	))
	assert.ErrorContains(t, err, `dest "Ghost" does not exist`)
}

func TestValidate_QAWithoutAnswer(t *testing.T) {
	err := validator.Validate(doc(
		chatgraph.NodeSpec{Name: "Begin", Action: chatgraph.QAAction{Dest: "Begin", Label: "q1"}},
	))
	assert.ErrorContains(t, err, "qa action has no answer")
}

func TestValidate_StoreWithoutLabel(t *testing.T) {
	err := validator.Validate(doc(
		chatgraph.NodeSpec{Name: "Begin", Action: chatgraph.StoreAction{Dest: "Begin"}},
	))
	assert.ErrorContains(t, err, "store action has no label")
}

func TestValidate_IncompleteResultBundle(t *testing.T) {
	err := validator.Validate(doc(
		chatgraph.NodeSpec{Name: "Begin", Action: chatgraph.EndAction{
			Dest: "Begin",
			Results: []chatgraph.ResultBundle{
				{Original: "o.png", Preview: "p.png", Text: "ok"},
				{Original: "o.png", Text: "missing preview"},
			},
		}},
	))
	assert.ErrorContains(t, err, "result 1 must carry original, preview and text")
}

func TestValidate_FirstViolationWins(t *testing.T) {
	err := validator.Validate(doc(
		chatgraph.NodeSpec{Name: "Begin", Action: chatgraph.DefaultAction{Dest: "Missing1"}},
		chatgraph.NodeSpec{Name: "Later", Action: chatgraph.DefaultAction{Dest: "Missing2"}},
	))
	assert.ErrorContains(t, err, `dest "Missing1"`)
}
