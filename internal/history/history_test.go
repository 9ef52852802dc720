package history

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/ethpandaops/assetdiff/internal/config"
	"github.com/ethpandaops/assetdiff/internal/summary"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return log
}

func TestTemplateMigrations(t *testing.T) {
	t.Parallel()

	runner, ok := NewMigrationRunner(newTestLogger()).(*migrationRunner)
	require.True(t, ok)

	rendered, err := templateMigrations(runner.source, "assetdiff_test")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"001_create_metric_averages.down.sql",
		"001_create_metric_averages.up.sql",
		"002_create_metric_deltas.down.sql",
		"002_create_metric_deltas.up.sql",
	}, rendered.Names())

	for _, name := range rendered.Names() {
		content, err := fs.ReadFile(rendered, name)
		require.NoError(t, err)

		assert.NotContains(t, string(content), databasePlaceholder, name)
		assert.Contains(t, string(content), "`assetdiff_test`.", name)
	}

	up, err := fs.ReadFile(rendered, "002_create_metric_deltas.up.sql")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(up), "CREATE TABLE IF NOT EXISTS `assetdiff_test`.metric_deltas"))
}

func TestRunMigrations_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewMigrationRunner(newTestLogger()).RunMigrations(ctx, nil, "assetdiff")
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuildSnapshot(t *testing.T) {
	t.Parallel()

	table := summary.NewTable()
	table.Set(config.BaselineLabel, map[string]float64{"speed-index": 80, "interactive": 40, "uses-http2": 100})
	table.Set("Fonts", map[string]float64{"speed-index": 96})

	keyAudits := []string{"speed-index", "interactive"}
	deltas := summary.NewClassifier(newTestLogger()).Classify(table, keyAudits)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	snapshot := BuildSnapshot("https://example.com", config.ReportTypeIndividual, table, keyAudits, deltas, now)

	assert.NotEqual(t, uuid.Nil, snapshot.ID)

	require.Len(t, snapshot.Averages, 4)
	assert.Equal(t, AverageRow{
		ExportID:   snapshot.ID,
		ExportedAt: now,
		URL:        "https://example.com",
		ReportType: config.ReportTypeIndividual,
		Label:      config.BaselineLabel,
		Metric:     "interactive",
		Average:    40,
		KeyAudit:   true,
	}, snapshot.Averages[0])
	assert.Equal(t, "uses-http2", snapshot.Averages[2].Metric)
	assert.False(t, snapshot.Averages[2].KeyAudit)
	assert.Equal(t, "Fonts", snapshot.Averages[3].Label)

	// The baseline has no delta rows.
	require.Len(t, snapshot.Deltas, 2)

	si := snapshot.Deltas[0]
	assert.Equal(t, snapshot.ID, si.ExportID)
	assert.Equal(t, "speed-index", si.Metric)
	assert.Equal(t, int32(80), si.Baseline)
	require.NotNil(t, si.Value)
	assert.Equal(t, int32(96), *si.Value)
	assert.Equal(t, int32(20), si.RawDelta)
	assert.Equal(t, string(summary.BucketModerateImprovement), si.Bucket)

	interactive := snapshot.Deltas[1]
	assert.Nil(t, interactive.Value)
	assert.True(t, interactive.Suppressed)
	assert.Equal(t, string(summary.BucketNeutral), interactive.Bucket)
}

func TestExporter_ExportBeforeStart(t *testing.T) {
	t.Parallel()

	exp := NewExporter(newTestLogger(), &config.AppConfig{ClickhouseDatabase: "assetdiff"}, NewMigrationRunner(newTestLogger()))

	err := exp.Export(context.Background(), Snapshot{})
	require.ErrorIs(t, err, errNotStarted)
	require.NoError(t, exp.Stop())
}

type closeTrackingConn struct {
	driver.Conn
	closed int
}

func (c *closeTrackingConn) Close() error {
	c.closed++
	return nil
}

type failingMigrations struct {
	err error
}

func (f failingMigrations) RunMigrations(context.Context, *sql.DB, string) error {
	return f.err
}

func TestExporter_MigrationFailureClosesConnections(t *testing.T) {
	t.Parallel()

	errDirty := errors.New("dirty database version 2")

	exp := &exporter{
		cfg:        &config.AppConfig{ClickhouseHost: "127.0.0.1", ClickhouseNativePort: 9000, ClickhouseDatabase: "assetdiff"},
		migrations: failingMigrations{err: errDirty},
		log:        newTestLogger(),
	}

	conn := &closeTrackingConn{}

	err := exp.attach(context.Background(), conn)
	require.ErrorIs(t, err, errDirty)

	assert.Equal(t, 1, conn.closed)
	assert.Nil(t, exp.conn)
	assert.Nil(t, exp.db)
	require.ErrorIs(t, exp.Export(context.Background(), Snapshot{}), errNotStarted)

	require.NoError(t, exp.Stop())
	assert.Equal(t, 1, conn.closed)
}

func TestBuildSnapshot_NewIDPerExport(t *testing.T) {
	t.Parallel()

	table := summary.NewTable()
	table.Set(config.BaselineLabel, map[string]float64{"speed-index": 80})

	first := BuildSnapshot("https://example.com", config.ReportTypeIndividual, table, nil, nil, time.Now())
	second := BuildSnapshot("https://example.com", config.ReportTypeIndividual, table, nil, nil, time.Now())

	assert.NotEqual(t, first.ID, second.ID)
	assert.Empty(t, first.Deltas)
}
