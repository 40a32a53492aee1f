// Package memory provides the in-process session store.
package memory

import (
	"context"
	"sync"

	"github.com/quizline/chatflow/pkg/domain"
)

// Store implements ports.Store with a mutex-guarded map. Nodes are live
// objects owned by a single logical session, so they are stored by
// reference, not copied. Memory grows with the number of distinct users
// for the process lifetime; that is an accepted trade-off.
type Store struct {
	mu   sync.RWMutex
	data map[string]domain.Node
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{data: make(map[string]domain.Node)}
}

// Load retrieves the node for a user.
func (s *Store) Load(ctx context.Context, userID string) (domain.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.data[userID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return node, nil
}

// Save replaces the entry for a user.
func (s *Store) Save(ctx context.Context, userID string, node domain.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = node
	return nil
}

// Delete removes the entry for a user.
func (s *Store) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, userID)
	return nil
}

// List returns the identifiers with a stored session.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]string, 0, len(s.data))
	for id := range s.data {
		users = append(users, id)
	}
	return users, nil
}
