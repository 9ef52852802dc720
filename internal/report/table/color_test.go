package table

import (
	"strings"
	"testing"

	"github.com/ethpandaops/assetdiff/internal/summary"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/stretchr/testify/assert"
)

func TestColorHelper_FormatStatus(t *testing.T) {
	// Disable colors for consistent testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	helper := NewColorHelper()

	t.Run("passed status", func(t *testing.T) {
		assert.Equal(t, "✓ OK", helper.FormatStatus(true))
	})

	t.Run("failed status", func(t *testing.T) {
		assert.Equal(t, "✗ FAIL", helper.FormatStatus(false))
	})
}

func TestColorHelper_FormatBucket(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	helper := NewColorHelper()

	for _, bucket := range summary.Buckets {
		t.Run(string(bucket), func(t *testing.T) {
			assert.Equal(t, "96 (+20%)", helper.FormatBucket(bucket, "96 (+20%)"))
		})
	}
}

func TestColorHelper_ColorsDisabledWhenNoColor(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	helper := NewColorHelper()
	assert.False(t, helper.enabled)

	assert.Equal(t, "test", helper.Success("test"))
	assert.Equal(t, "test", helper.Failure("test"))
	assert.Equal(t, "test", helper.Muted("test"))
	assert.Equal(t, "test", helper.Header("test"))
}

func TestRenderer_RenderToString(t *testing.T) {
	r := NewRenderer(newTestLogger())

	out := r.RenderToString([]string{"Test", "speed-index"}, [][]string{
		{"Baseline", "80"},
		{"Fonts", "96 (+20%)"},
	})

	assert.Contains(t, out, "speed-index")
	assert.Contains(t, out, "Baseline")
	assert.Contains(t, out, "96 (+20%)")
}

func TestRenderer_LabelColumnAlignment(t *testing.T) {
	r := NewRenderer(newTestLogger())

	headers := []string{"Test", "speed-index"}
	rows := [][]string{{"Baseline", "80"}}

	left := r.RenderToString(headers, rows)
	right := r.RenderToString(headers, rows, WithLabelColumn(len(headers), tablewriter.ALIGN_RIGHT))

	assert.NotContains(t, left, "      80")
	assert.Contains(t, right, "      80")
	assert.Contains(t, right, "│ Baseline ")
}

func TestRenderer_WithoutBorder(t *testing.T) {
	r := NewRenderer(newTestLogger())

	headers := []string{"Metric", "Value"}
	rows := [][]string{{"Total Runs", "4"}}

	bordered := r.RenderToString(headers, rows)
	plain := r.RenderToString(headers, rows, WithBorder(false))

	assert.True(t, strings.HasPrefix(bordered, "│") || strings.HasPrefix(bordered, "─"))

	for _, line := range strings.Split(strings.TrimRight(plain, "\n"), "\n") {
		assert.False(t, strings.HasPrefix(line, "│"), line)
	}

	assert.Contains(t, plain, "Total Runs")
}
