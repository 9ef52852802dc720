package plan

import (
	"testing"

	"github.com/ethpandaops/assetdiff/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(assetTests ...string) config.Config {
	cfg := config.Defaults()
	cfg.URL = "https://example.com"
	cfg.AssetTests = assetTests
	cfg.AssetGroups = []config.AssetGroup{
		{Label: "Fonts", Patterns: []string{"chronicle", "gotham"}},
		{Label: "Images", Patterns: []string{"png", "jpg"}},
		{Label: "Tracking", Patterns: []string{"amplitude", "png"}},
	}

	return cfg
}

func TestBuild_Individual(t *testing.T) {
	t.Parallel()

	runs := Build(logrus.New(), testConfig(config.ReportTypeIndividual))

	require.Len(t, runs, 4)
	assert.True(t, runs[0].IsBaseline())
	assert.Empty(t, runs[0].Patterns)

	expected := []Run{
		{ReportType: config.ReportTypeIndividual, Label: "Fonts", Patterns: []string{"chronicle", "gotham"}},
		{ReportType: config.ReportTypeIndividual, Label: "Images", Patterns: []string{"png", "jpg"}},
		{ReportType: config.ReportTypeIndividual, Label: "Tracking", Patterns: []string{"amplitude", "png"}},
	}
	assert.Equal(t, expected, runs[1:])
}

func TestBuild_AggregateAccumulatesPrefix(t *testing.T) {
	t.Parallel()

	runs := Build(logrus.New(), testConfig(config.ReportTypeAggregate))

	require.Len(t, runs, 4)
	assert.True(t, runs[0].IsBaseline())
	assert.Equal(t, []string{"chronicle", "gotham"}, runs[1].Patterns)
	assert.Equal(t, []string{"chronicle", "gotham", "png", "jpg"}, runs[2].Patterns)
	assert.Equal(t, []string{"chronicle", "gotham", "png", "jpg", "amplitude"}, runs[3].Patterns)
	assert.Equal(t, "Tracking", runs[3].Label)
}

func TestBuild_AggregateIncludesOwnGroup(t *testing.T) {
	t.Parallel()

	individual := Build(logrus.New(), testConfig(config.ReportTypeIndividual))
	aggregate := Build(logrus.New(), testConfig(config.ReportTypeAggregate))

	assert.Equal(t, individual[1].Patterns, aggregate[1].Patterns)

	for i, run := range aggregate[1:] {
		assert.Subset(t, run.Patterns, individual[i+1].Patterns, run.Label)
	}
}

func TestBuild_ReportTypeOrderFollowsExecutionOrder(t *testing.T) {
	t.Parallel()

	runs := Build(logrus.New(), testConfig(config.ReportTypeAggregate, config.ReportTypeIndividual))

	require.Len(t, runs, 8)
	assert.Equal(t, config.ReportTypeIndividual, runs[0].ReportType)
	assert.Equal(t, config.ReportTypeAggregate, runs[4].ReportType)
	assert.True(t, runs[4].IsBaseline())
}

func TestBuild_NoAssetGroupsYieldsBaselineOnly(t *testing.T) {
	t.Parallel()

	cfg := testConfig(config.ReportTypeIndividual)
	cfg.AssetGroups = nil

	runs := Build(logrus.New(), cfg)

	require.Len(t, runs, 1)
	assert.Equal(t, Run{ReportType: config.ReportTypeIndividual, Label: config.BaselineLabel}, runs[0])
}

func TestBuild_EmptyPatternGroupMatchesBaseline(t *testing.T) {
	t.Parallel()

	cfg := testConfig(config.ReportTypeIndividual)
	cfg.AssetGroups = []config.AssetGroup{{Label: "Nothing"}}

	runs := Build(logrus.New(), cfg)

	require.Len(t, runs, 2)
	assert.Empty(t, runs[1].Patterns)
	assert.Equal(t, len(runs[0].Patterns), len(runs[1].Patterns))
}

func TestBuild_PatternsAreCopied(t *testing.T) {
	t.Parallel()

	cfg := testConfig(config.ReportTypeIndividual)
	runs := Build(logrus.New(), cfg)

	runs[1].Patterns[0] = "mutated"
	assert.Equal(t, "chronicle", cfg.AssetGroups[0].Patterns[0])
}
