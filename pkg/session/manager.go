package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/quizline/chatflow/internal/logging"
	"github.com/quizline/chatflow/pkg/domain"
	"github.com/quizline/chatflow/pkg/ports"
)

// lockEntry holds the per-user mutex and its reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager is the session directory. It maps user identifiers to their
// current dialogue node and serializes same-user access with
// reference-counted locks, so concurrent webhook deliveries for one
// user cannot interleave their read-modify-write. Different users never
// contend.
type Manager struct {
	store     ports.Store
	bootstrap func() domain.Node

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.Locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed per-user locking on top of the local
// serialization.
func WithLocker(locker ports.Locker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLogger configures a logger for deferred errors.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a session directory over the given store.
// bootstrap produces the node unseen users resolve to; it is invoked
// lazily and its result is never stored until the user's first
// transition completes.
func NewManager(store ports.Store, bootstrap func() domain.Node, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		bootstrap: bootstrap,
		locks:     make(map[string]*lockEntry),
		lockTTL:   30 * time.Second,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference
// count. Callers lock entry.mu themselves and pair with release.
func (m *Manager) acquire(userID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[userID]
	if !ok {
		entry = &lockEntry{}
		m.locks[userID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and garbage collects the entry
// at zero.
func (m *Manager) release(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[userID]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, userID)
	}
}

// WithLock executes fn while holding the per-user lock (and the
// distributed lock, when configured).
func (m *Manager) WithLock(ctx context.Context, userID string, fn func(context.Context) error) error {
	entry := m.acquire(userID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(userID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, userID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"user_id", userID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Current returns the stored node for a user, or the bootstrap node for
// unseen users. The bootstrap node is not stored. Callers inside a
// read-modify-write must hold WithLock.
func (m *Manager) Current(ctx context.Context, userID string) (domain.Node, error) {
	node, err := m.store.Load(ctx, userID)
	if err == nil {
		return node, nil
	}
	if err != domain.ErrSessionNotFound {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return m.bootstrap(), nil
}

// Save replaces the user's entry.
func (m *Manager) Save(ctx context.Context, userID string, node domain.Node) error {
	return m.store.Save(ctx, userID, node)
}

// Delete removes the user's entry.
func (m *Manager) Delete(ctx context.Context, userID string) error {
	return m.WithLock(ctx, userID, func(ctx context.Context) error {
		return m.store.Delete(ctx, userID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}
