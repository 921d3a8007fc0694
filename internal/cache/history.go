// Package cache memoizes git lookups in a SQLite database.
//
// File contents and diffs are addressed by full commit hashes, which
// never change meaning, so entries are never invalidated. Commit lists
// depend on where HEAD is and always go to the underlying source.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/TimelordUK/gitvid/internal/git"
)

// Source is the history being memoized
type Source interface {
	Commits(ctx context.Context, path string) ([]git.Commit, error)
	Content(ctx context.Context, rev, path string) ([]string, error)
	Diff(ctx context.Context, from, to, path string) (string, error)
}

// Stats counts cache traffic
type Stats struct {
	Hits   int
	Misses int
}

// Current schema version - bump when the tables change shape
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS contents (
    rev   TEXT NOT NULL,
    path  TEXT NOT NULL,
    lines INTEGER NOT NULL,  -- distinguishes an empty file from one blank line
    body  TEXT NOT NULL,
    PRIMARY KEY (rev, path)
);

CREATE TABLE IF NOT EXISTS diffs (
    from_rev TEXT NOT NULL,
    to_rev   TEXT NOT NULL,
    path     TEXT NOT NULL,
    body     TEXT NOT NULL,
    PRIMARY KEY (from_rev, to_rev, path)
);
`

// History wraps a Source with a persistent cache
type History struct {
	src   Source
	db    *sql.DB
	stats Stats
}

// Open opens or creates the cache database at dbPath
func Open(dbPath string, src Source) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dsn := dbPath +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &History{src: src, db: db}, nil
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	var version int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion)
		return err
	case err != nil:
		return fmt.Errorf("failed to read schema version: %w", err)
	case version != schemaVersion:
		return fmt.Errorf("cache schema version %d, want %d: delete the cache file", version, schemaVersion)
	}
	return nil
}

// Commits passes through to the source
func (h *History) Commits(ctx context.Context, path string) ([]git.Commit, error) {
	return h.src.Commits(ctx, path)
}

// Content returns the cached file content, fetching it on a miss
func (h *History) Content(ctx context.Context, rev, path string) ([]string, error) {
	var (
		count int
		body  string
	)
	err := h.db.QueryRowContext(ctx,
		"SELECT lines, body FROM contents WHERE rev = ? AND path = ?", rev, path,
	).Scan(&count, &body)
	if err == nil {
		h.stats.Hits++
		if count == 0 {
			return []string{}, nil
		}
		return strings.Split(body, "\n"), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cache lookup: %w", err)
	}

	h.stats.Misses++
	lines, err := h.src.Content(ctx, rev, path)
	if err != nil {
		return nil, err
	}

	_, err = h.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO contents (rev, path, lines, body) VALUES (?, ?, ?, ?)",
		rev, path, len(lines), strings.Join(lines, "\n"),
	)
	if err != nil {
		return nil, fmt.Errorf("cache store: %w", err)
	}
	return lines, nil
}

// Diff returns the cached diff, fetching it on a miss
func (h *History) Diff(ctx context.Context, from, to, path string) (string, error) {
	var body string
	err := h.db.QueryRowContext(ctx,
		"SELECT body FROM diffs WHERE from_rev = ? AND to_rev = ? AND path = ?", from, to, path,
	).Scan(&body)
	if err == nil {
		h.stats.Hits++
		return body, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("cache lookup: %w", err)
	}

	h.stats.Misses++
	body, err = h.src.Diff(ctx, from, to, path)
	if err != nil {
		return "", err
	}

	_, err = h.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO diffs (from_rev, to_rev, path, body) VALUES (?, ?, ?, ?)",
		from, to, path, body,
	)
	if err != nil {
		return "", fmt.Errorf("cache store: %w", err)
	}
	return body, nil
}

// Stats returns hit and miss counts since Open
func (h *History) Stats() Stats {
	return h.stats
}

// Close closes the database
func (h *History) Close() error {
	return h.db.Close()
}
