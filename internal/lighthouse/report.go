package lighthouse

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errReportNoAudits = errors.New("report has no audits")

// Audit is a single Lighthouse audit entry. Score is nil for informative
// audits that carry no score.
type Audit struct {
	ID           string   `json:"id"`
	Title        string   `json:"title,omitempty"`
	Score        *float64 `json:"score"`
	NumericValue *float64 `json:"numericValue,omitempty"`
	DisplayValue string   `json:"displayValue,omitempty"`
}

// Category is a Lighthouse category summary such as "performance".
type Category struct {
	ID    string   `json:"id"`
	Title string   `json:"title,omitempty"`
	Score *float64 `json:"score"`
}

// Report is the subset of the Lighthouse JSON report this tool reads.
type Report struct {
	RequestedURL string              `json:"requestedUrl,omitempty"`
	FinalURL     string              `json:"finalDisplayedUrl,omitempty"`
	FetchTime    string              `json:"fetchTime,omitempty"`
	Audits       map[string]Audit    `json:"audits"`
	Categories   map[string]Category `json:"categories,omitempty"`
}

// ParseReport decodes a Lighthouse JSON report.
func ParseReport(data []byte) (*Report, error) {
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decoding lighthouse report: %w", err)
	}

	if len(report.Audits) == 0 {
		return nil, errReportNoAudits
	}

	return &report, nil
}

// Scores returns every scored audit as a 0-100 value keyed by audit id.
// Audits without a score are omitted rather than reported as zero.
func (r *Report) Scores() map[string]float64 {
	scores := make(map[string]float64, len(r.Audits))

	for id, audit := range r.Audits {
		if audit.Score == nil {
			continue
		}

		scores[id] = *audit.Score * 100
	}

	return scores
}

// PerformanceScore returns the performance category score on a 0-100 scale,
// or 0 when the report has no performance category.
func (r *Report) PerformanceScore() float64 {
	category, ok := r.Categories["performance"]
	if !ok || category.Score == nil {
		return 0
	}

	return *category.Score * 100
}
