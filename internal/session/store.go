// Package session persists per-document view state in SQLite so a view that
// is recreated can show the last grid it received before the first live
// update arrives.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/iw2rmb/csvi/protocol"
)

var ErrNotFound = errors.New("session not found")

const defaultFile = "sessions.db"

// State is what a view remembers about one document.
type State struct {
	Key       string
	Grid      protocol.GridUpdate
	FocusRow  int
	FocusCol  int
	UpdatedAt time.Time
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultPath places the database next to the settings file.
func DefaultPath(configDir string) string {
	return filepath.Join(configDir, defaultFile)
}

// Open opens (creating when needed) the session database at path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ensure session directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 2000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %q: %w", pragma, err)
		}
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize session schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS sessions (
            doc_key    TEXT PRIMARY KEY,
            grid       TEXT NOT NULL,
            focus_row  INTEGER NOT NULL DEFAULT 0,
            focus_col  INTEGER NOT NULL DEFAULT 0,
            updated_at INTEGER NOT NULL
        )
    `)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Key normalises a document path into a session key.
func Key(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return filepath.Clean(abs)
	}
	return filepath.Clean(path)
}

// Save upserts the state for st.Key. The grid is stored in its wire form.
func (s *Store) Save(ctx context.Context, st State) error {
	if st.Key == "" {
		return errors.New("save session: empty key")
	}
	grid, err := protocol.EncodeGridUpdate(st.Grid)
	if err != nil {
		return fmt.Errorf("encode session grid: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO sessions (doc_key, grid, focus_row, focus_col, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(doc_key) DO UPDATE SET
            grid = excluded.grid,
            focus_row = excluded.focus_row,
            focus_col = excluded.focus_col,
            updated_at = excluded.updated_at
    `, st.Key, string(grid), st.FocusRow, st.FocusCol, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save session %q: %w", st.Key, err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, key string) (State, error) {
	var (
		grid    string
		st      = State{Key: key}
		updated int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT grid, focus_row, focus_col, updated_at FROM sessions WHERE doc_key = ?",
		key,
	).Scan(&grid, &st.FocusRow, &st.FocusCol, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, fmt.Errorf("load session %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return State{}, fmt.Errorf("load session %q: %w", key, err)
	}

	st.Grid, err = protocol.DecodeGridUpdate([]byte(grid))
	if err != nil {
		return State{}, fmt.Errorf("decode session %q: %w", key, err)
	}
	st.UpdatedAt = time.UnixMilli(updated)
	return st, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE doc_key = ?", key)
	if err != nil {
		return fmt.Errorf("delete session %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session %q: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("delete session %q: %w", key, ErrNotFound)
	}
	return nil
}
