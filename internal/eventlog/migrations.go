package eventlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source/httpfs"
)

// LatestMigrationVersion is the latest migration version of the event
// store. Must be bumped whenever a migration file is added.
const LatestMigrationVersion uint = 2

// MigrationTarget selects which migration(s) to apply, mirroring
// internal/db/migrations.go's MigrationTarget.
type MigrationTarget func(mig *migrate.Migrate, currentDBVersion int, maxMigrationVersion uint) error

var (
	// TargetLatest migrates all the way up.
	TargetLatest MigrationTarget = func(mig *migrate.Migrate, _ int, _ uint) error {
		return mig.Up()
	}

	// TargetVersion migrates to a specific version.
	TargetVersion = func(version uint) MigrationTarget {
		return func(mig *migrate.Migrate, _ int, _ uint) error {
			return mig.Migrate(version)
		}
	}
)

// ErrMigrationDowngrade is returned when the on-disk schema is newer than
// this binary knows about.
var ErrMigrationDowngrade = errors.New("eventlog: database downgrade detected")

type migrateOptions struct {
	latestVersion uint
}

func defaultMigrateOptions() *migrateOptions {
	return &migrateOptions{latestVersion: LatestMigrationVersion}
}

// MigrateOpt configures migration execution.
type MigrateOpt func(*migrateOptions)

// WithLatestVersion overrides the default latest-known-version check.
func WithLatestVersion(version uint) MigrateOpt {
	return func(o *migrateOptions) { o.latestVersion = version }
}

type migrationLogger struct{ log *slog.Logger }

func (m *migrationLogger) Printf(format string, v ...any) {
	format = strings.TrimRight(format, "\n")
	m.log.Info(fmt.Sprintf(format, v...))
}

func (m *migrationLogger) Verbose() bool { return true }

func applyMigrations(fsys fs.FS, driver database.Driver, path, dbName string,
	target MigrationTarget, opts *migrateOptions, log *slog.Logger) error {

	src, err := httpfs.New(http.FS(fsys), path)
	if err != nil {
		return err
	}

	sqlMigrate, err := migrate.NewWithInstance("migrations", src, dbName, driver)
	if err != nil {
		return err
	}

	version, dirty, err := sqlMigrate.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("unable to determine current migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("eventlog: database is in a dirty state at version %v, manual intervention required", version)
	}
	if version > opts.latestVersion {
		return fmt.Errorf("%w: db_version=%v latest_migration_version=%v",
			ErrMigrationDowngrade, version, opts.latestVersion)
	}

	currentDBVersion, _, err := driver.Version()
	if err != nil {
		return fmt.Errorf("unable to get current db version: %w", err)
	}
	log.InfoContext(context.Background(), "attempting to apply eventlog migration(s)",
		"current_db_version", currentDBVersion,
		"latest_migration_version", opts.latestVersion)

	sqlMigrate.Log = &migrationLogger{log}

	if err := target(sqlMigrate, currentDBVersion, opts.latestVersion); err != nil &&
		!errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	currentDBVersion, _, err = driver.Version()
	if err != nil {
		return fmt.Errorf("unable to get current db version: %w", err)
	}
	log.InfoContext(context.Background(), "eventlog database version after migration",
		"current_db_version", currentDBVersion)

	return nil
}

func backupSqliteDatabase(srcDB *sql.DB, dbFullFilePath string, log *slog.Logger) error {
	if srcDB == nil {
		return fmt.Errorf("eventlog: backup source database is nil")
	}

	timestamp := time.Now().UnixNano()
	backupPath := fmt.Sprintf("%s.%d.backup", dbFullFilePath, timestamp)

	log.InfoContext(context.Background(), "creating backup of eventlog database file",
		"source", dbFullFilePath, "backup", backupPath)

	stmt, err := srcDB.Prepare("VACUUM INTO ?;")
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(backupPath)
	return err
}
