package history

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/ethpandaops/assetdiff/internal/history/memfs"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/clickhouse"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

const (
	databasePlaceholder = "${DATABASE}"
	migrationsTable     = "schema_migrations"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationRunner applies the history schema to a database.
type MigrationRunner interface {
	RunMigrations(ctx context.Context, conn *sql.DB, dbName string) error
}

type migrationRunner struct {
	source fs.FS
	log    logrus.FieldLogger
}

// NewMigrationRunner creates a runner over the embedded history migrations.
func NewMigrationRunner(log logrus.FieldLogger) MigrationRunner {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		// The embed pattern guarantees the directory exists.
		panic(err)
	}

	return &migrationRunner{
		source: sub,
		log:    log.WithField("component", "migration_runner"),
	}
}

func (r *migrationRunner) RunMigrations(ctx context.Context, conn *sql.DB, dbName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sourceFS, err := templateMigrations(r.source, dbName)
	if err != nil {
		return fmt.Errorf("creating templated migrations: %w", err)
	}

	sourceDriver, err := iofs.New(sourceFS, ".")
	if err != nil {
		return fmt.Errorf("creating source driver: %w", err)
	}

	dbDriver, err := clickhouse.WithInstance(conn, &clickhouse.Config{
		DatabaseName:          dbName,
		MigrationsTable:       migrationsTable,
		MultiStatementEnabled: true,
		MultiStatementMaxSize: 1024 * 1024,
	})
	if err != nil {
		return fmt.Errorf("creating clickhouse driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, dbName, dbDriver)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			done <- fmt.Errorf("running migrations: %w", err)
			return
		}
		done <- nil
	}()

	select {
	case <-ctx.Done():
		m.GracefulStop <- true
		return fmt.Errorf("migration canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return err
		}
	}

	r.log.WithField("database", dbName).Debug("migrations completed successfully")

	return nil
}

// templateMigrations renders every .sql file of source with the database
// placeholder replaced by dbName.
func templateMigrations(source fs.FS, dbName string) (*memfs.FS, error) {
	entries, err := fs.ReadDir(source, ".")
	if err != nil {
		return nil, fmt.Errorf("reading migrations: %w", err)
	}

	files := make(map[string]string, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		content, err := fs.ReadFile(source, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading migration file %s: %w", entry.Name(), err)
		}

		files[entry.Name()] = strings.TrimSpace(strings.ReplaceAll(string(content), databasePlaceholder, dbName))
	}

	return memfs.New(files), nil
}
