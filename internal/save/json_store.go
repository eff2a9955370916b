package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"crawler/internal/game"
)

// JSONStore keeps every user's save in a single JSON file.
type JSONStore struct {
	filePath string
	mu       sync.RWMutex
	saves    map[string]json.RawMessage
}

// NewJSONStore opens path, creating it (and its directory) when missing.
func NewJSONStore(path string) (*JSONStore, error) {
	s := &JSONStore{
		filePath: filepath.Clean(path),
		saves:    map[string]json.RawMessage{},
	}
	b, err := os.ReadFile(s.filePath) //nolint:gosec // path comes from server config
	switch {
	case err == nil:
		if len(b) > 0 {
			if err := json.Unmarshal(b, &s.saves); err != nil {
				return nil, fmt.Errorf("read save file %s: %w", s.filePath, err)
			}
		}
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(s.filePath), 0o750); err != nil {
			return nil, fmt.Errorf("create save dir: %w", err)
		}
		if err := s.flush(); err != nil {
			return nil, fmt.Errorf("create save file: %w", err)
		}
	default:
		return nil, fmt.Errorf("open save file: %w", err)
	}
	return s, nil
}

func (s *JSONStore) Load(_ context.Context, userID string) (*game.GameState, error) {
	s.mu.RLock()
	raw, ok := s.saves[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	st, err := game.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", userID, err)
	}
	return st, nil
}

func (s *JSONStore) Save(_ context.Context, userID string, st *game.GameState) (*game.GameState, error) {
	b, err := game.Encode(st)
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", userID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.saves[userID]
	s.saves[userID] = b
	if err := s.flush(); err != nil {
		if had {
			s.saves[userID] = prev
		} else {
			delete(s.saves, userID)
		}
		return nil, fmt.Errorf("save %s: %w", userID, err)
	}
	return game.Decode(b)
}

// flush writes the whole file via a temp file and rename. Callers hold mu
// (or own s exclusively).
func (s *JSONStore) flush() error {
	b, err := json.MarshalIndent(s.saves, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.filePath)
}

// Close is a no-op; every Save is already on disk.
func (s *JSONStore) Close() error {
	return nil
}
