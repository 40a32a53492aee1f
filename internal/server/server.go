// Package server is the webhook transport: it verifies inbound
// deliveries, feeds parsed events to the engine, and hands replies to
// the delivery client. It also hosts the static quiz assets and the
// metrics endpoint.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quizline/chatflow/internal/logging"
	"github.com/quizline/chatflow/internal/runtime"
	"github.com/quizline/chatflow/pkg/domain"
	"github.com/quizline/chatflow/pkg/line"
)

// ReplyClient is the delivery collaborator.
type ReplyClient interface {
	Reply(ctx context.Context, replyToken string, messages []line.Message) error
}

// Server wires the webhook endpoint to the chatflow engine.
type Server struct {
	engine  *runtime.Engine
	client  ReplyClient
	secret  string
	baseURL string
	static  string
	logger  *slog.Logger
	metrics *metrics
}

// Option configures the Server.
type Option func(*Server)

// WithBaseURL fixes the asset base URL instead of deriving it from the
// inbound request host.
func WithBaseURL(baseURL string) Option {
	return func(s *Server) {
		s.baseURL = baseURL
	}
}

// WithStaticDir serves quiz assets from dir under /static/.
func WithStaticDir(dir string) Option {
	return func(s *Server) {
		s.static = dir
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a webhook server.
func New(engine *runtime.Engine, client ReplyClient, channelSecret string, opts ...Option) *Server {
	s := &Server{
		engine:  engine,
		client:  client,
		secret:  channelSecret,
		logger:  logging.NewNop(),
		metrics: newMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Post("/callback", s.handleCallback)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	if s.static != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(s.static)))
		r.Get("/static/*", fs.ServeHTTP)
	}
	return r
}

func (s *Server) renderContext(r *http.Request) domain.RenderContext {
	if s.baseURL != "" {
		return domain.RenderContext{BaseURL: s.baseURL}
	}
	// The platform always calls back over TLS; behind a proxy the
	// request scheme is unreliable, so https is forced like the
	// original deployment did.
	return domain.RenderContext{BaseURL: "https://" + r.Host + "/"}
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	events, err := line.ParseWebhook(s.secret, body, r.Header.Get("X-Line-Signature"))
	if err != nil {
		if errors.Is(err, line.ErrInvalidSignature) {
			s.logger.Warn("rejected webhook", "err", err)
			http.Error(w, "invalid signature", http.StatusBadRequest)
			return
		}
		http.Error(w, "malformed webhook body", http.StatusBadRequest)
		return
	}

	rc := s.renderContext(r)
	for _, ev := range events {
		s.metrics.events.WithLabelValues(ev.Type).Inc()

		started := time.Now()
		reply, err := s.engine.Handle(r.Context(), ev, rc)
		s.metrics.handleDuration.Observe(time.Since(started).Seconds())

		if err != nil {
			s.logger.Error("engine failure", "err", err, "event", ev.Type)
			http.Error(w, "engine failure", http.StatusInternalServerError)
			return
		}
		if reply == nil || len(reply.Messages) == 0 {
			continue
		}

		if err := s.client.Reply(r.Context(), reply.ReplyToken, reply.Messages); err != nil {
			s.metrics.deliveryErrors.Inc()
			s.logger.Error("delivery failed", "err", err)
			http.Error(w, "delivery failed", http.StatusBadRequest)
			return
		}
		s.metrics.replies.Inc()
	}

	w.Write([]byte("OK"))
}
