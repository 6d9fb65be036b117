package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/k1LoW/errors"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS nav_index (
  doc TEXT PRIMARY KEY,
  idx INTEGER NOT NULL,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLite is a durable index store so the reading position survives
// restarts.
type SQLite struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

// OpenSQLite opens (creating if needed) an index store at path.
func OpenSQLite(ctx context.Context, path string) (_ *SQLite, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index store %s: %w", path, err)
	}
	// modernc.org/sqlite serializes through a single connection.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize index store %s: %w", path, err)
	}
	return &SQLite{db: db}, nil
}

// Cell returns the index cell for a document.
func (s *SQLite) Cell(doc string) *SQLiteCell {
	return &SQLiteCell{s: s, doc: doc}
}

// Close closes the store. Cells of a closed store return ErrClosed.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *SQLite) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// SQLiteCell is one document's slot in a SQLite store.
type SQLiteCell struct {
	s   *SQLite
	doc string
}

func (c *SQLiteCell) Load(ctx context.Context) (_ int, _ bool, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if c.s.isClosed() {
		return 0, false, ErrClosed
	}
	var index int
	row := c.s.db.QueryRowContext(ctx, `SELECT idx FROM nav_index WHERE doc = ?`, c.doc)
	if err := row.Scan(&index); err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, err
	}
	return index, true, nil
}

func (c *SQLiteCell) Store(ctx context.Context, index int) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if c.s.isClosed() {
		return ErrClosed
	}
	_, err = c.s.db.ExecContext(ctx, `
INSERT INTO nav_index (doc, idx, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(doc) DO UPDATE SET idx = excluded.idx, updated_at = CURRENT_TIMESTAMP
`, c.doc, index)
	return err
}
