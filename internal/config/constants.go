package config

const (
	// BaselineLabel is the reserved test label for runs without blocked patterns.
	BaselineLabel = "Baseline"
	// ReportTypeIndividual blocks exactly one asset group per run.
	ReportTypeIndividual = "individual"
	// ReportTypeAggregate blocks the cumulative union of asset groups per run.
	ReportTypeAggregate = "aggregate"
	// DefaultConfigFile is the audit configuration file read when --config is not given.
	DefaultConfigFile = "assetdiff.yaml"
	// DefaultReportsDir is the directory results and reports are written to.
	DefaultReportsDir = "reports"
	// SummaryManifestFile is the per-label manifest listing run result files.
	SummaryManifestFile = "summary.json"
	// SummaryHTMLFile is the rendered comparison report per report type.
	SummaryHTMLFile = "summary.html"
	// AveragesFile holds the metric average table per report type.
	AveragesFile = "averages.json"
	// DefaultLighthouseBinary is the auditing engine executable.
	DefaultLighthouseBinary = "lighthouse"
	// DefaultRuns is the number of audits per test label.
	DefaultRuns = 3
	// DefaultClickhouseDatabase is the database history rows are exported to.
	DefaultClickhouseDatabase = "assetdiff"
)

// ReportTypes lists every supported report type in execution order.
var ReportTypes = []string{ReportTypeIndividual, ReportTypeAggregate}

// DefaultKeyAudits are the metrics reported when the configuration names none.
var DefaultKeyAudits = []string{
	"largest-contentful-paint",
	"total-blocking-time",
	"speed-index",
	"interactive",
	"first-contentful-paint",
}
