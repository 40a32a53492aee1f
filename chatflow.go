package chatflow

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/quizline/chatflow/internal/runtime"
	"github.com/quizline/chatflow/internal/validator"
	"github.com/quizline/chatflow/pkg/adapters/memory"
	"github.com/quizline/chatflow/pkg/chatgraph"
	"github.com/quizline/chatflow/pkg/ports"
	"github.com/quizline/chatflow/pkg/session"
)

// Version is the release version, overridable at build time.
var Version = "0.1.0"

// Bot bundles a compiled chatflow with its session directory and
// engine. It is the high-level entry point for consumers.
type Bot struct {
	Document *chatgraph.Document
	Graph    runtime.Graph
	Sessions *session.Manager
	Engine   *runtime.Engine
}

// Option configures the Bot.
type Option func(*botConfig)

type botConfig struct {
	store  ports.Store
	locker ports.Locker
	logger *slog.Logger
}

// WithStore injects a custom session store (default: in-memory).
func WithStore(store ports.Store) Option {
	return func(c *botConfig) {
		c.store = store
	}
}

// WithLocker enables distributed per-user locking.
func WithLocker(locker ports.Locker) Option {
	return func(c *botConfig) {
		c.locker = locker
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *botConfig) {
		c.logger = logger
	}
}

// Load parses, validates, and compiles the graph document at path and
// assembles a ready bot. Any malformed node fails the whole load; a bot
// is never built from a partial graph.
func Load(path string, opts ...Option) (*Bot, error) {
	doc, err := chatgraph.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return New(doc, opts...)
}

// New assembles a bot from an already parsed document.
func New(doc *chatgraph.Document, opts ...Option) (*Bot, error) {
	cfg := &botConfig{
		store:  memory.NewStore(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := validator.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid chatflow: %w", err)
	}

	graph, err := runtime.Build(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chatflow: %w", err)
	}

	managerOpts := []session.Option{session.WithLogger(cfg.logger)}
	if cfg.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(cfg.locker))
	}
	sessions := session.NewManager(cfg.store, graph.NewInit, managerOpts...)

	return &Bot{
		Document: doc,
		Graph:    graph,
		Sessions: sessions,
		Engine:   runtime.NewEngine(sessions, runtime.WithLogger(cfg.logger)),
	}, nil
}
