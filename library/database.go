package library

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// MemoryPath opens a private in-memory store.
const MemoryPath = ":memory:"

// Options configures Open.
type Options struct {
	Path        string
	BusyTimeout time.Duration
	Logger      zerolog.Logger
}

// Database owns the single SQLite handle shared by every repository.
type Database struct {
	db   *sql.DB
	path string
	log  zerolog.Logger
}

// Open opens (or creates) the SQLite database at opts.Path with foreign keys
// enforced. The schema is not touched; call CreateTables for that.
func Open(ctx context.Context, opts Options) (*Database, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("open sqlite: empty path")
	}
	busy := opts.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}

	var dsn string
	if opts.Path == MemoryPath {
		dsn = fmt.Sprintf("file::memory:?_busy_timeout=%d&_foreign_keys=1", busy.Milliseconds())
	} else {
		// Ensure directory exists so first-run succeeds.
		if dir := filepath.Dir(opts.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=1", opts.Path, busy.Milliseconds())
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One handle. The pool queues callers in front of it, and an in-memory
	// store only lives as long as its connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	d := &Database{db: db, path: opts.Path, log: opts.Logger.With().Str("component", "database").Logger()}
	if err := d.enableForeignKeys(ctx); err != nil {
		db.Close()
		return nil, err
	}
	d.log.Debug().Str("path", opts.Path).Msg("database opened")
	return d, nil
}

// newDatabase wraps an already open handle. Tests use it with sqlmock.
func newDatabase(db *sql.DB, log zerolog.Logger) *Database {
	return &Database{db: db, path: "", log: log}
}

func (d *Database) enableForeignKeys(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	var on int
	if err := d.db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&on); err != nil {
		return fmt.Errorf("read foreign_keys pragma: %w", err)
	}
	if on != 1 {
		return fmt.Errorf("foreign keys not enforced by this sqlite build")
	}
	return nil
}

// Close closes the handle.
func (d *Database) Close() error { return d.db.Close() }

// Path is the file the database was opened from.
func (d *Database) Path() string { return d.path }

// Conn exposes the handle to repositories.
func (d *Database) Conn() Conn { return d.db }

// Store returns repositories bound to the handle.
func (d *Database) Store() *Store { return NewStore(d.db, d.log) }

// WithTx runs fn with repositories bound to one transaction and commits when
// fn returns nil.
func (d *Database) WithTx(ctx context.Context, fn func(*Store) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := fn(NewStore(tx, d.log)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
