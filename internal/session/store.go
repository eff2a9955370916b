// Package session keeps live per-browser game sessions in memory.
package session

import "context"

// Store holds values keyed by session id. Get reports false when the id is
// unknown.
type Store[T any] interface {
	Get(ctx context.Context, id string) (T, bool, error)
	Put(ctx context.Context, id string, v T) error
	Delete(ctx context.Context, id string) error
	Len() int
	Range(fn func(id string, v T) bool)
	NewID() string
}
