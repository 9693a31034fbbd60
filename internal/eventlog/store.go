// Package eventlog durably records actor lifecycle events (spawn, crash,
// cancel, terminate) to a SQLite-backed append log.
package eventlog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/mattn/go-sqlite3"
)

const (
	defaultBusyTimeoutMs = 5000
	defaultDBFileName    = "eventlog.db"
)

// Config controls how the event store opens and migrates its database.
type Config struct {
	// DatabaseFilePath is the full path to the sqlite file. It is
	// required: Open fails when it is empty (DefaultDBPath builds one).
	DatabaseFilePath string

	// SkipMigrations, when true, leaves the schema untouched on Open.
	SkipMigrations bool

	// BackupBeforeMigrate, when true, VACUUM INTOs a timestamped backup
	// file before applying any pending migration.
	BackupBeforeMigrate bool

	// Log receives eventlog diagnostics. Defaults to slog.Default().
	Log *slog.Logger
}

// DefaultDBPath returns a sqlite path rooted at dir, creating dir if
// necessary.
func DefaultDBPath(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("unable to create eventlog dir: %w", err)
	}
	return filepath.Join(dir, defaultDBFileName), nil
}

// Store is a sqlite-backed append-only log of actor lifecycle events.
type Store struct {
	cfg Config
	db  *sql.DB
	log *slog.Logger
}

// Open opens (creating if necessary) the event store at cfg.DatabaseFilePath,
// applying any pending migrations unless cfg.SkipMigrations is set.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DatabaseFilePath == "" {
		return nil, fmt.Errorf("eventlog: DatabaseFilePath is required")
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}

	db, err := openSqlite(cfg.DatabaseFilePath)
	if err != nil {
		return nil, err
	}

	store := &Store{cfg: cfg, db: db, log: cfg.Log}

	if !cfg.SkipMigrations {
		if err := store.runMigrations(ctx, TargetLatest); err != nil {
			db.Close()
			return nil, err
		}
	}

	return store, nil
}

func openSqlite(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"file:%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=%d&_foreign_keys=on",
		url.PathEscape(path), defaultBusyTimeoutMs,
	)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open eventlog database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := configurePragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func configurePragmas(db *sql.DB) error {
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("unable to set pragma %q: %w", pragma, err)
		}
	}
	return nil
}

// runMigrations applies target against the event store's schema, optionally
// backing the database up first.
func (s *Store) runMigrations(ctx context.Context, target MigrationTarget, opts ...MigrateOpt) error {
	if s.cfg.BackupBeforeMigrate {
		if err := backupSqliteDatabase(s.db, s.cfg.DatabaseFilePath, s.log); err != nil {
			return fmt.Errorf("unable to back up eventlog database: %w", err)
		}
	}

	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("unable to create migration driver: %w", err)
	}

	o := defaultMigrateOptions()
	for _, opt := range opts {
		opt(o)
	}

	return applyMigrations(sqlSchemas, driver, "migrations", "sqlite3", target, o, s.log)
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Event is a single recorded actor lifecycle occurrence.
type Event struct {
	ID            int64
	ActorID       string
	ParentActorID string
	Kind          string
	Detail        string
	OccurredAt    time.Time
}

// RecordEvent appends a single lifecycle event to the log.
func (s *Store) RecordEvent(ctx context.Context, ev Event) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO actor_events (actor_id, parent_actor_id, kind, detail, occurred_at)
		 VALUES (?, ?, ?, ?, ?)`,
		ev.ActorID, ev.ParentActorID, ev.Kind, ev.Detail, ev.OccurredAt.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("unable to record eventlog entry: %w", err)
	}
	return res.LastInsertId()
}

// QueryEvents returns events recorded for actorID, oldest first.
func (s *Store) QueryEvents(ctx context.Context, actorID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, actor_id, parent_actor_id, kind, detail, occurred_at
		 FROM actor_events WHERE actor_id = ? ORDER BY id ASC`,
		actorID,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to query eventlog: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			ev    Event
			nanos int64
		)
		if err := rows.Scan(&ev.ID, &ev.ActorID, &ev.ParentActorID, &ev.Kind, &ev.Detail, &nanos); err != nil {
			return nil, fmt.Errorf("unable to scan eventlog row: %w", err)
		}
		ev.OccurredAt = time.Unix(0, nanos)
		events = append(events, ev)
	}
	return events, rows.Err()
}
