// Package save persists one GameState per user, either in a JSON file or in
// PostgreSQL.
package save

import (
	"context"
	"errors"

	"crawler/internal/game"
)

// ErrNotFound is returned by Load when the user has no saved game.
var ErrNotFound = errors.New("save: no saved game")

// Storage is the persistence collaborator. Save returns the state as stored,
// which a caller may treat as the canonical copy.
type Storage interface {
	Load(ctx context.Context, userID string) (*game.GameState, error)
	Save(ctx context.Context, userID string, st *game.GameState) (*game.GameState, error)
	Close() error
}
