package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/ethpandaops/assetdiff/internal/config"
	"github.com/sirupsen/logrus"
)

var errNotStarted = errors.New("exporter not started")

// Exporter writes summary snapshots to ClickHouse.
type Exporter interface {
	Start(ctx context.Context) error
	Stop() error
	Export(ctx context.Context, snapshot Snapshot) error
}

type exporter struct {
	cfg        *config.AppConfig
	migrations MigrationRunner
	log        logrus.FieldLogger

	conn driver.Conn
	db   *sql.DB
}

// NewExporter creates an exporter for the ClickHouse server in cfg.
func NewExporter(log logrus.FieldLogger, cfg *config.AppConfig, migrations MigrationRunner) Exporter {
	return &exporter{
		cfg:        cfg,
		migrations: migrations,
		log:        log.WithField("component", "history_exporter"),
	}
}

// Start connects, creates the database if needed and applies migrations.
func (e *exporter) Start(ctx context.Context) error {
	conn, err := clickhouse.Open(e.options("default"))
	if err != nil {
		return fmt.Errorf("failed to open connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := conn.Ping(pingCtx); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	query := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", e.cfg.ClickhouseDatabase)
	if err := conn.Exec(ctx, query); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to create database: %w", err)
	}

	return e.attach(ctx, conn)
}

// attach adopts conn and migrates the target database over a second
// connection. Both are closed again if the migration fails.
func (e *exporter) attach(ctx context.Context, conn driver.Conn) error {
	e.conn = conn
	e.db = clickhouse.OpenDB(e.options(e.cfg.ClickhouseDatabase))

	if err := e.migrations.RunMigrations(ctx, e.db, e.cfg.ClickhouseDatabase); err != nil {
		if stopErr := e.Stop(); stopErr != nil {
			e.log.WithError(stopErr).Warn("failed to close connection after migration error")
		}

		return fmt.Errorf("migrating %s: %w", e.cfg.ClickhouseDatabase, err)
	}

	e.log.WithFields(logrus.Fields{
		"addr":     e.addr(),
		"database": e.cfg.ClickhouseDatabase,
	}).Debug("connected to ClickHouse")

	return nil
}

// Stop closes both connections. It is safe to call more than once.
func (e *exporter) Stop() error {
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			e.log.WithError(err).Warn("failed to close migration connection")
		}

		e.db = nil
	}

	if e.conn != nil {
		conn := e.conn
		e.conn = nil

		if err := conn.Close(); err != nil {
			return fmt.Errorf("closing connection: %w", err)
		}
	}

	return nil
}

// Export inserts the averages and deltas of snapshot in one batch each.
func (e *exporter) Export(ctx context.Context, snapshot Snapshot) error {
	if e.conn == nil {
		return errNotStarted
	}

	if err := e.insertAverages(ctx, snapshot.Averages); err != nil {
		return err
	}

	if err := e.insertDeltas(ctx, snapshot.Deltas); err != nil {
		return err
	}

	e.log.WithFields(logrus.Fields{
		"export_id": snapshot.ID,
		"averages":  len(snapshot.Averages),
		"deltas":    len(snapshot.Deltas),
	}).Info("exported summary")

	return nil
}

func (e *exporter) insertAverages(ctx context.Context, rows []AverageRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch, err := e.conn.PrepareBatch(ctx, fmt.Sprintf(
		"INSERT INTO `%s`.metric_averages (export_id, exported_at, url, report_type, label, metric, average, key_audit)",
		e.cfg.ClickhouseDatabase,
	))
	if err != nil {
		return fmt.Errorf("preparing averages batch: %w", err)
	}

	for _, row := range rows {
		if err := batch.Append(
			row.ExportID, row.ExportedAt, row.URL, row.ReportType, row.Label, row.Metric, row.Average, row.KeyAudit,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("appending average %s/%s: %w", row.Label, row.Metric, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("sending averages batch: %w", err)
	}

	return nil
}

func (e *exporter) insertDeltas(ctx context.Context, rows []DeltaRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch, err := e.conn.PrepareBatch(ctx, fmt.Sprintf(
		"INSERT INTO `%s`.metric_deltas "+
			"(export_id, exported_at, url, report_type, label, metric, baseline, value, raw_delta, bucket, suppressed)",
		e.cfg.ClickhouseDatabase,
	))
	if err != nil {
		return fmt.Errorf("preparing deltas batch: %w", err)
	}

	for _, row := range rows {
		if err := batch.Append(
			row.ExportID, row.ExportedAt, row.URL, row.ReportType, row.Label, row.Metric,
			row.Baseline, row.Value, row.RawDelta, row.Bucket, row.Suppressed,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("appending delta %s/%s: %w", row.Label, row.Metric, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("sending deltas batch: %w", err)
	}

	return nil
}

func (e *exporter) addr() string {
	return fmt.Sprintf("%s:%d", e.cfg.ClickhouseHost, e.cfg.ClickhouseNativePort)
}

func (e *exporter) options(database string) *clickhouse.Options {
	return &clickhouse.Options{
		Addr: []string{e.addr()},
		Auth: clickhouse.Auth{
			Database: database,
			Username: e.cfg.ClickhouseUsername,
			Password: e.cfg.ClickhousePassword,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:     time.Second * 30,
		MaxOpenConns:    5,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Duration(10) * time.Minute,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	}
}

// Compile-time interface compliance check
var _ Exporter = (*exporter)(nil)
