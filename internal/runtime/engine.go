package runtime

import (
	"context"
	"log/slog"

	"github.com/quizline/chatflow/internal/logging"
	"github.com/quizline/chatflow/pkg/domain"
	"github.com/quizline/chatflow/pkg/line"
	"github.com/quizline/chatflow/pkg/session"
)

// Engine drives dialogue sessions: one inbound event looks up the
// user's current node, transitions it, renders the landing node's
// messages, and stores the new node. The engine performs no I/O and
// never retries anything.
type Engine struct {
	sessions *session.Manager
	logger   *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine over the session directory.
func NewEngine(sessions *session.Manager, opts ...EngineOption) *Engine {
	e := &Engine{
		sessions: sessions,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handle processes one webhook event. It returns nil when the event
// shape is not reply-eligible (no user, no reply token, or an
// unsupported kind); such events are dropped without a session lookup.
// The whole read-modify-write runs under the user's session lock.
func (e *Engine) Handle(ctx context.Context, ev line.Event, rc domain.RenderContext) (*line.Reply, error) {
	if ev.Source == nil || ev.Source.UserID == "" || ev.ReplyToken == "" {
		return nil, nil
	}

	var input string
	switch {
	case ev.Type == line.EventTypeMessage && ev.Message != nil && ev.Message.Type == "text":
		input = ev.Message.Text
	case ev.Type == line.EventTypePostback && ev.Postback != nil:
		input = ev.Postback.Data
	case ev.Type == line.EventTypeFollow:
		// Greeted below with the current node's messages, no transition.
	default:
		return nil, nil
	}

	userID := ev.Source.UserID
	var reply *line.Reply

	err := e.sessions.WithLock(ctx, userID, func(ctx context.Context) error {
		node, err := e.sessions.Current(ctx, userID)
		if err != nil {
			return err
		}

		if ev.Type != line.EventTypeFollow {
			node = node.Transition(input)
			if err := e.sessions.Save(ctx, userID, node); err != nil {
				return err
			}
		}

		reply = &line.Reply{
			ReplyToken: ev.ReplyToken,
			Messages:   node.Messages(rc),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("handled event",
		"user_id", userID,
		"event", ev.Type,
		"messages", len(reply.Messages),
	)
	return reply, nil
}
