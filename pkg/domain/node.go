package domain

import "github.com/quizline/chatflow/pkg/line"

// RenderContext carries per-request data needed when messages are
// produced. The base URL is only known once a request arrives, so
// relative asset paths resolve at emission time, not at compile time.
type RenderContext struct {
	// BaseURL is the absolute URL static assets resolve against,
	// e.g. "https://bot.example.com/".
	BaseURL string
}

// Node is one state of a user's dialogue. Transition interprets the
// user's input and returns the node the session moves to (possibly the
// receiver itself on a self-loop); Messages produces the reply for the
// state the transition landed on.
type Node interface {
	Messages(rc RenderContext) []line.Message
	Transition(input string) Node
}
