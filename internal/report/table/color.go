package table

import (
	"github.com/ethpandaops/assetdiff/internal/summary"
	"github.com/fatih/color"
)

// ColorHelper provides utilities for coloring terminal output
type ColorHelper struct {
	enabled bool
}

// NewColorHelper creates a new color helper
// Colors are enabled only when outputting to a terminal
func NewColorHelper() *ColorHelper {
	return &ColorHelper{
		enabled: !color.NoColor,
	}
}

// Success returns green colored text
func (c *ColorHelper) Success(text string) string {
	if !c.enabled {
		return text
	}
	return color.GreenString(text)
}

// Failure returns red colored text
func (c *ColorHelper) Failure(text string) string {
	if !c.enabled {
		return text
	}
	return color.RedString(text)
}

// Muted returns gray colored text
func (c *ColorHelper) Muted(text string) string {
	if !c.enabled {
		return text
	}
	return color.New(color.FgHiBlack).Sprint(text)
}

// Bold returns bold text
func (c *ColorHelper) Bold(text string) string {
	if !c.enabled {
		return text
	}
	return color.New(color.Bold).Sprint(text)
}

// Header returns bold cyan text for section headers
func (c *ColorHelper) Header(text string) string {
	if !c.enabled {
		return text
	}
	return color.New(color.FgCyan, color.Bold).Sprint(text)
}

// FormatStatus returns appropriately colored run status text
func (c *ColorHelper) FormatStatus(passed bool) string {
	if passed {
		return c.Success("✓ OK")
	}
	return c.Failure("✗ FAIL")
}

// FormatBucket colors text by delta severity: greens for improvements,
// yellow to red for regressions, plain for neutral.
func (c *ColorHelper) FormatBucket(bucket summary.Bucket, text string) string {
	if !c.enabled {
		return text
	}

	switch bucket {
	case summary.BucketStrongImprovement:
		return color.New(color.FgGreen, color.Bold).Sprint(text)
	case summary.BucketModerateImprovement:
		return color.GreenString(text)
	case summary.BucketSlightImprovement:
		return color.New(color.FgHiGreen).Sprint(text)
	case summary.BucketSlightRegression:
		return color.YellowString(text)
	case summary.BucketModerateRegression:
		return color.New(color.FgHiRed).Sprint(text)
	case summary.BucketSevereRegression:
		return color.New(color.FgRed, color.Bold).Sprint(text)
	default:
		return text
	}
}
