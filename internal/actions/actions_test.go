package actions

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethpandaops/assetdiff/internal/config"
	"github.com/ethpandaops/assetdiff/internal/history"
	"github.com/ethpandaops/assetdiff/internal/lighthouse"
	"github.com/ethpandaops/assetdiff/internal/store"
	"github.com/ethpandaops/assetdiff/internal/summary"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return log
}

// patternAuditor scores speed-index higher the more patterns are blocked.
type patternAuditor struct {
	calls int
}

func (a *patternAuditor) Audit(_ context.Context, req lighthouse.Request) (*lighthouse.Output, error) {
	a.calls++

	data := []byte(fmt.Sprintf(
		`{"audits":{"speed-index":{"id":"speed-index","score":%.2f},"interactive":{"id":"interactive","score":0.5}},`+
			`"categories":{"performance":{"id":"performance","score":0.6}}}`,
		0.5+0.1*float64(len(req.Patterns)),
	))

	report, err := lighthouse.ParseReport(data)
	if err != nil {
		return nil, err
	}

	return &lighthouse.Output{JSON: data, Report: report, Duration: 10 * time.Millisecond}, nil
}

type recordingExporter struct {
	snapshots []history.Snapshot
}

func (e *recordingExporter) Start(_ context.Context) error { return nil }
func (e *recordingExporter) Stop() error                   { return nil }

func (e *recordingExporter) Export(_ context.Context, snapshot history.Snapshot) error {
	e.snapshots = append(e.snapshots, snapshot)
	return nil
}

func testConfig() config.Config {
	cfg := config.Defaults()
	cfg.URL = "https://example.com"
	cfg.Runs = 2
	cfg.KeyAudits = []string{"speed-index", "interactive"}
	cfg.AssetGroups = []config.AssetGroup{
		{Label: "Fonts", Patterns: []string{".woff2"}},
		{Label: "Trackers", Patterns: []string{"analytics.js", "gtm.js"}},
	}

	return cfg
}

func TestPipeline_RunSummarizeExport(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var (
		log     = newTestLogger()
		root    = t.TempDir()
		cfg     = testConfig()
		auditor = &patternAuditor{}
		out     bytes.Buffer
	)

	require.NoError(t, runAudits(context.Background(), log, &out, root, cfg, auditor, false))
	assert.Equal(t, 6, auditor.calls)
	assert.Contains(t, out.String(), "Audit Runs")
	assert.Contains(t, out.String(), "Total Runs")

	s := store.NewFSStore(log, root, config.ReportTypeIndividual)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	doc, err := summarizeReportType(log, s, cfg, cfg.Labels(), now)
	require.NoError(t, err)

	require.Len(t, doc.Rows, 3)
	assert.Equal(t, "50", doc.Rows[0].Cells[0].Text())
	assert.Equal(t, "60 (+20%)", doc.Rows[1].Cells[0].Text())
	assert.Equal(t, "70 (+40%)", doc.Rows[2].Cells[0].Text())
	assert.Equal(t, "50 (0%)", doc.Rows[2].Cells[1].Text())

	assert.FileExists(t, filepath.Join(root, config.ReportTypeIndividual, config.SummaryHTMLFile))
	assert.FileExists(t, filepath.Join(root, config.ReportTypeIndividual, config.AveragesFile))

	exporter := &recordingExporter{}
	settings := &Settings{App: &config.AppConfig{ReportsDir: root}, Audit: cfg}
	out.Reset()

	require.NoError(t, exportReportTypes(
		context.Background(), log, &out, settings, []string{config.ReportTypeIndividual}, exporter, now,
	))

	require.Len(t, exporter.snapshots, 1)
	snapshot := exporter.snapshots[0]
	assert.Len(t, snapshot.Averages, 6)
	assert.Len(t, snapshot.Deltas, 4)
	assert.Equal(t, string(summary.BucketStrongImprovement), snapshot.Deltas[2].Bucket)
	assert.Contains(t, out.String(), "Exported individual: 6 averages, 4 deltas")
}

func TestRunAudits_Clean(t *testing.T) {
	root := t.TempDir()
	stale := filepath.Join(root, config.ReportTypeAggregate, "Old")
	require.NoError(t, os.MkdirAll(stale, 0o750))

	cfg := testConfig()
	cfg.AssetGroups = nil
	cfg.Runs = 1

	require.NoError(t, runAudits(context.Background(), newTestLogger(), io.Discard, root, cfg, &patternAuditor{}, true))

	assert.NoDirExists(t, stale)
	assert.DirExists(t, filepath.Join(root, config.ReportTypeIndividual, config.BaselineLabel))
}

func TestExportReportTypes_RequiresSummary(t *testing.T) {
	settings := &Settings{App: &config.AppConfig{ReportsDir: t.TempDir()}, Audit: testConfig()}

	err := exportReportTypes(
		context.Background(), newTestLogger(), io.Discard, settings,
		[]string{config.ReportTypeIndividual}, &recordingExporter{}, time.Now(),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run summarize first")
}

func TestLoadSettings(t *testing.T) {
	t.Setenv("ASSETDIFF_REPORTS_DIR", "/tmp/assetdiff-reports")
	t.Setenv("LIGHTHOUSE_BIN", "/opt/lighthouse")

	path := filepath.Join(t.TempDir(), "assetdiff.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
url: https://example.com
runs: 5
assetGroups:
  - label: Fonts
    patterns: [".woff2"]
`), 0o600))

	settings, err := LoadSettings(Options{ConfigFile: path, Runs: 2, ReportTypes: []string{config.ReportTypeAggregate}})
	require.NoError(t, err)

	assert.True(t, settings.FromFile)
	assert.Equal(t, "/tmp/assetdiff-reports", settings.App.ReportsDir)
	assert.Equal(t, "https://example.com", settings.Audit.URL)
	assert.Equal(t, 2, settings.Audit.Runs)
	assert.Equal(t, []string{config.ReportTypeAggregate}, settings.Audit.AssetTests)
	assert.Equal(t, "/opt/lighthouse", settings.Audit.Lighthouse.Binary)
	assert.Equal(t, config.DefaultKeyAudits, settings.Audit.KeyAudits)
	assert.Equal(t, []string{config.BaselineLabel, "Fonts"}, settings.Audit.Labels())
}

func TestLoadSettings_MissingExplicitFile(t *testing.T) {
	_, err := LoadSettings(Options{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSelectReportTypes(t *testing.T) {
	root := t.TempDir()
	settings := &Settings{App: &config.AppConfig{ReportsDir: root}}

	_, err := selectReportTypes(settings, Options{})
	require.ErrorIs(t, err, errNoResults)

	require.NoError(t, os.MkdirAll(filepath.Join(root, config.ReportTypeIndividual), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, config.ReportTypeAggregate), 0o750))

	found, err := selectReportTypes(settings, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{config.ReportTypeAggregate, config.ReportTypeIndividual}, found)

	named, err := selectReportTypes(settings, Options{ReportTypes: []string{config.ReportTypeIndividual}})
	require.NoError(t, err)
	assert.Equal(t, []string{config.ReportTypeIndividual}, named)

	for _, reportType := range []string{"..", "../outside", "combined", "."} {
		t.Run(reportType, func(t *testing.T) {
			_, err := selectReportTypes(settings, Options{ReportTypes: []string{config.ReportTypeIndividual, reportType}})
			require.ErrorIs(t, err, errReportTypeUnknown)

			var cfgErr *config.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, "report-type", cfgErr.Field)
		})
	}
}
