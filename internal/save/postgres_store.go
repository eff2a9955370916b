package save

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"crawler/internal/game"

	_ "github.com/lib/pq" // PostgreSQL driver
)

const schema = `
CREATE TABLE IF NOT EXISTS saves (
	user_id TEXT PRIMARY KEY,
	version INTEGER NOT NULL,
	state JSONB NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`

// PostgresStore keeps one row per user with the state as JSONB.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Load(ctx context.Context, userID string) (*game.GameState, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT state FROM saves WHERE user_id = $1`, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", userID, err)
	}
	st, err := game.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", userID, err)
	}
	return st, nil
}

// Save upserts the row and returns the state read back from the database.
func (s *PostgresStore) Save(ctx context.Context, userID string, st *game.GameState) (*game.GameState, error) {
	b, err := game.Encode(st)
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", userID, err)
	}
	var stored []byte
	err = s.db.QueryRowContext(ctx, `
	INSERT INTO saves (user_id, version, state)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id)
	DO UPDATE SET version = $2, state = $3, updated_at = NOW()
	RETURNING state`, userID, st.Version, string(b)).Scan(&stored)
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", userID, err)
	}
	return game.Decode(stored)
}

func (s *PostgresStore) Close() error {
	log.Println("Closing database connection...")
	return s.db.Close()
}
