package report

import (
	"bytes"
	"html"
	"io"
	"testing"
	"time"

	"github.com/ethpandaops/assetdiff/internal/config"
	"github.com/ethpandaops/assetdiff/internal/summary"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return log
}

func fixture() (*summary.Table, []string, summary.Deltas) {
	table := summary.NewTable()
	table.Set(config.BaselineLabel, map[string]float64{"speed-index": 80.4, "total-blocking-time": 50})
	table.Set("Fonts", map[string]float64{"speed-index": 96, "total-blocking-time": 34})
	table.Set("Tracking", map[string]float64{"speed-index": 81})

	keyAudits := []string{"speed-index", "total-blocking-time"}

	return table, keyAudits, summary.NewClassifier(newTestLogger()).Classify(table, keyAudits)
}

func TestBuild(t *testing.T) {
	t.Parallel()

	table, keyAudits, deltas := fixture()
	doc := Build(table, keyAudits, deltas, Meta{URL: "https://example.com"})

	assert.Equal(t, []string{"Test", "speed-index", "total-blocking-time"}, doc.Headers)
	require.Len(t, doc.Rows, 3)

	baseline := doc.Rows[0]
	assert.Equal(t, config.BaselineLabel, baseline.Label)
	assert.Equal(t, "80", baseline.Cells[0].Text())
	assert.Equal(t, "50", baseline.Cells[1].Text())
	assert.Empty(t, baseline.Cells[0].Class())

	fonts := doc.Rows[1]
	assert.Equal(t, "Fonts", fonts.Label)
	assert.Equal(t, "96 (+20%)", fonts.Cells[0].Text())
	assert.Equal(t, "plus-2", fonts.Cells[0].Class())
	assert.Equal(t, "34 (-32%)", fonts.Cells[1].Text())
	assert.Equal(t, "minus-3", fonts.Cells[1].Class())

	tracking := doc.Rows[2]
	assert.Equal(t, "81 (+1%)", tracking.Cells[0].Text())
	assert.Empty(t, tracking.Cells[0].Class())
	assert.Equal(t, NotAvailable, tracking.Cells[1].Text())
	assert.Equal(t, summary.BucketNeutral, tracking.Cells[1].Bucket)
}

func TestBuild_BaselineFirst(t *testing.T) {
	t.Parallel()

	table := summary.NewTable()
	table.Set("Images", map[string]float64{"speed-index": 70})
	table.Set(config.BaselineLabel, map[string]float64{"speed-index": 70})

	doc := Build(table, []string{"speed-index"}, summary.NewClassifier(newTestLogger()).Classify(table, []string{"speed-index"}), Meta{})

	require.Len(t, doc.Rows, 2)
	assert.Equal(t, config.BaselineLabel, doc.Rows[0].Label)
	assert.Equal(t, "Images", doc.Rows[1].Label)
	assert.Equal(t, "70 (0%)", doc.Rows[1].Cells[0].Text())
}

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	table, keyAudits, deltas := fixture()
	doc := Build(table, keyAudits, deltas, Meta{
		URL:         "https://example.com",
		ReportType:  config.ReportTypeIndividual,
		GeneratedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	})

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, doc))

	out := html.UnescapeString(buf.String())

	assert.Contains(t, out, "<!doctype html>")
	assert.Contains(t, out, "border-collapse: collapse")
	assert.Contains(t, out, "<th>Test</th><th>speed-index</th><th>total-blocking-time</th>")
	assert.Contains(t, out, "<tr><td>Baseline</td><td><b>80</b></td><td><b>50</b></td></tr>")
	assert.Contains(t, out, `<td class="plus-2"><b>96</b> (+20%)</td>`)
	assert.Contains(t, out, `<td class="minus-3"><b>34</b> (-32%)</td>`)
	assert.Contains(t, out, "<td><b>n/a</b></td>")
	assert.Contains(t, out, "2024-05-01 12:00:00 UTC")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "<link")
}

func TestRenderHTML_EscapesLabels(t *testing.T) {
	t.Parallel()

	table := summary.NewTable()
	table.Set(config.BaselineLabel, map[string]float64{"speed-index": 50})
	table.Set("<script>alert(1)</script>", map[string]float64{"speed-index": 50})

	doc := Build(table, []string{"speed-index"}, summary.NewClassifier(newTestLogger()).Classify(table, []string{"speed-index"}), Meta{})

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, doc))

	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}
