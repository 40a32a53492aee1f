package ports

import (
	"context"

	"github.com/quizline/chatflow/pkg/domain"
)

// Store persists the current dialogue node per user identifier.
// Entries live for the process lifetime; there is no eviction.
type Store interface {
	// Load retrieves the node for a user.
	// Returns domain.ErrSessionNotFound when the user is unseen.
	Load(ctx context.Context, userID string) (domain.Node, error)

	// Save replaces the entry for a user.
	Save(ctx context.Context, userID string, node domain.Node) error

	// Delete removes the entry for a user.
	Delete(ctx context.Context, userID string) error

	// List returns the user identifiers with a stored session.
	List(ctx context.Context) ([]string, error)
}
