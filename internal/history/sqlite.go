// Package history records completed generation runs in a small SQLite
// database so operators can audit when the published registry changed.
// Recording is best effort: the JSON artifacts are the product, a history
// failure never fails a run.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Generation is one recorded run.
type Generation struct {
	ID        string
	CreatedAt time.Time
	Digest    string
	Total     int
	Added     int
	Removed   int
	Updated   int
}

// Store persists generations. Safe for use from a daemon's scheduled runs.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates or opens the history database at path. Use ":memory:" for an
// ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS generations (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		digest TEXT NOT NULL,
		total INTEGER NOT NULL,
		added INTEGER NOT NULL,
		removed INTEGER NOT NULL,
		updated INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_generations_created_at ON generations(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record inserts one generation.
func (s *Store) Record(ctx context.Context, gen Generation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO generations (id, created_at, digest, total, added, removed, updated) VALUES (?, ?, ?, ?, ?, ?, ?)",
		gen.ID, gen.CreatedAt.Unix(), gen.Digest, gen.Total, gen.Added, gen.Removed, gen.Updated,
	)
	if err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}
	return nil
}

// Recent returns up to limit generations, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Generation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, created_at, digest, total, added, removed, updated FROM generations ORDER BY created_at DESC, id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	var gens []Generation
	for rows.Next() {
		var gen Generation
		var createdAt int64
		if err := rows.Scan(&gen.ID, &createdAt, &gen.Digest, &gen.Total, &gen.Added, &gen.Removed, &gen.Updated); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		gen.CreatedAt = time.Unix(createdAt, 0).UTC()
		gens = append(gens, gen)
	}
	return gens, rows.Err()
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
