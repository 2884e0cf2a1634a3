// Package history persists entered shell lines in sqlite.
package history

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Source tags where a line was entered.
type Source string

const (
	SourceTUI  Source = "tui"
	SourceREPL Source = "repl"
)

// Store is the history backend used by the terminal pane and the plain loop.
type Store interface {
	Append(ctx context.Context, src Source, line string) error
	Recent(ctx context.Context, limit int) ([]string, error)
	Close() error
}

// DB is a sqlite-backed Store.
type DB struct {
	db *sql.DB
}

// Open creates the database file if needed and migrates it to the latest
// schema.
func Open(path string) (*DB, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir history dir: %w", err)
	}
	if err := migrateUp(abs); err != nil {
		return nil, fmt.Errorf("migrate history: %w", err)
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", abs))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

func migrateUp(dbPath string) error {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite3://"+dbPath)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func (h *DB) Append(ctx context.Context, src Source, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	_, err := h.db.ExecContext(ctx, `INSERT INTO history (line, source) VALUES (?, ?)`, line, string(src))
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// Recent returns up to limit lines, oldest first.
func (h *DB) Recent(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := h.db.QueryContext(ctx, `
		SELECT line FROM (
			SELECT id, line FROM history ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

func (h *DB) Close() error {
	return h.db.Close()
}

// Memory is a Store that lives only as long as the process. It stands in when
// the database cannot be opened.
type Memory struct {
	mu    sync.Mutex
	lines []string
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Append(_ context.Context, _ Source, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	m.mu.Lock()
	m.lines = append(m.lines, line)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Recent(_ context.Context, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		return nil, nil
	}
	start := len(m.lines) - limit
	if start < 0 {
		start = 0
	}
	return append([]string(nil), m.lines[start:]...), nil
}

func (m *Memory) Close() error { return nil }
