package runtime

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizline/chatflow/pkg/adapters/memory"
	"github.com/quizline/chatflow/pkg/line"
	"github.com/quizline/chatflow/pkg/session"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	g := buildGraph(t)
	sessions := session.NewManager(memory.NewStore(), g.NewInit)
	return NewEngine(sessions)
}

func textEvent(userID, text string) line.Event {
	return line.Event{
		Type:       line.EventTypeMessage,
		ReplyToken: "rt-" + userID,
		Source:     &line.Source{UserID: userID},
		Message:    &line.MessageContent{Type: "text", Text: text},
	}
}

func postbackEvent(userID, data string) line.Event {
	return line.Event{
		Type:       line.EventTypePostback,
		ReplyToken: "rt-" + userID,
		Source:     &line.Source{UserID: userID},
		Postback:   &line.Postback{Data: data},
	}
}

func TestEngine_FirstMessageLandsOnEntryNode(t *testing.T) {
	e := newTestEngine(t)

	reply, err := e.Handle(context.Background(), textEvent("alice", "hello"), testRC)
	require.NoError(t, err)
	require.NotNil(t, reply)

	assert.Equal(t, "rt-alice", reply.ReplyToken)
	assert.Equal(t, "welcome", textOf(t, reply.Messages))
}

func TestEngine_PostbackDrivesQA(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Handle(ctx, textEvent("bob", "hi"), testRC) // -> Begin
	require.NoError(t, err)
	_, err = e.Handle(ctx, textEvent("bob", "go"), testRC) // -> Q1
	require.NoError(t, err)

	reply, err := e.Handle(ctx, postbackEvent("bob", "q=q1&a=A"), testRC)
	require.NoError(t, err)
	assert.Equal(t, textWrongAnswer, textOf(t, reply.Messages))

	reply, err = e.Handle(ctx, postbackEvent("bob", "q=q1&a=B"), testRC)
	require.NoError(t, err)
	assert.Equal(t, "survey one", textOf(t, reply.Messages))
}

func TestEngine_FollowGreetsWithoutTransition(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Handle(ctx, textEvent("carol", "hi"), testRC) // -> Begin
	require.NoError(t, err)

	follow := line.Event{
		Type:       line.EventTypeFollow,
		ReplyToken: "rt-follow",
		Source:     &line.Source{UserID: "carol"},
	}
	reply, err := e.Handle(ctx, follow, testRC)
	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.Equal(t, "welcome", textOf(t, reply.Messages), "follow repeats the current node")

	// The session did not advance.
	reply, err = e.Handle(ctx, textEvent("carol", "go"), testRC)
	require.NoError(t, err)
	assert.Equal(t, "question one", textOf(t, reply.Messages))
}

func TestEngine_FollowFromUnseenUserIsSilent(t *testing.T) {
	e := newTestEngine(t)

	follow := line.Event{
		Type:       line.EventTypeFollow,
		ReplyToken: "rt-follow",
		Source:     &line.Source{UserID: "dave"},
	}
	reply, err := e.Handle(context.Background(), follow, testRC)
	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.Empty(t, reply.Messages, "init node has nothing to say")
}

func TestEngine_DropsIneligibleEvents(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	for name, ev := range map[string]line.Event{
		"no source":       {Type: line.EventTypeMessage, ReplyToken: "rt"},
		"no user id":      {Type: line.EventTypeMessage, ReplyToken: "rt", Source: &line.Source{}},
		"no reply token":  {Type: line.EventTypeMessage, Source: &line.Source{UserID: "u"}},
		"unfollow":        {Type: "unfollow", ReplyToken: "rt", Source: &line.Source{UserID: "u"}},
		"sticker message": {Type: line.EventTypeMessage, ReplyToken: "rt", Source: &line.Source{UserID: "u"}, Message: &line.MessageContent{Type: "sticker"}},
	} {
		reply, err := e.Handle(ctx, ev, testRC)
		assert.NoError(t, err, name)
		assert.Nil(t, reply, name)
	}
}

func TestEngine_IsolatesUsers(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Handle(ctx, textEvent("erin", "hi"), testRC)
	require.NoError(t, err)
	_, err = e.Handle(ctx, textEvent("erin", "go"), testRC)
	require.NoError(t, err)

	reply, err := e.Handle(ctx, textEvent("frank", "hi"), testRC)
	require.NoError(t, err)
	assert.Equal(t, "welcome", textOf(t, reply.Messages), "frank starts at the beginning")
}

func TestEngine_ConcurrentSameUserEventsSerialize(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Handle(ctx, textEvent("grace", "hi"), testRC)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// 16 transitions walk Begin -> Q1 deterministically: the session ends
	// parked on the QA node whatever the interleaving.
	reply, err := e.Handle(ctx, postbackEvent("grace", "q=q1&a=B"), testRC)
	require.NoError(t, err)
	assert.Equal(t, "survey one", textOf(t, reply.Messages))
}
