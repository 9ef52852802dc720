package summary

import (
	"math"

	"github.com/ethpandaops/assetdiff/internal/config"
	"github.com/sirupsen/logrus"
)

// Bucket is the severity class of a delta. Higher scores are better, so a
// positive delta is an improvement.
type Bucket string

const (
	BucketStrongImprovement   Bucket = "strong improvement"
	BucketModerateImprovement Bucket = "moderate improvement"
	BucketSlightImprovement   Bucket = "slight improvement"
	BucketNeutral             Bucket = "neutral"
	BucketSlightRegression    Bucket = "slight regression"
	BucketModerateRegression  Bucket = "moderate regression"
	BucketSevereRegression    Bucket = "severe regression"
)

// Buckets lists every bucket from best to worst.
var Buckets = []Bucket{
	BucketStrongImprovement,
	BucketModerateImprovement,
	BucketSlightImprovement,
	BucketNeutral,
	BucketSlightRegression,
	BucketModerateRegression,
	BucketSevereRegression,
}

// CSSClass returns the report stylesheet class of b. Neutral has none.
func (b Bucket) CSSClass() string {
	switch b {
	case BucketStrongImprovement:
		return "plus-3"
	case BucketModerateImprovement:
		return "plus-2"
	case BucketSlightImprovement:
		return "plus-1"
	case BucketSlightRegression:
		return "minus-1"
	case BucketModerateRegression:
		return "minus-2"
	case BucketSevereRegression:
		return "minus-3"
	default:
		return ""
	}
}

// Classify buckets a rounded percentage delta. Thresholds are inclusive and
// checked best first.
func Classify(rawDelta int) Bucket {
	switch {
	case rawDelta >= 30:
		return BucketStrongImprovement
	case rawDelta >= 20:
		return BucketModerateImprovement
	case rawDelta >= 5:
		return BucketSlightImprovement
	case rawDelta <= -30:
		return BucketSevereRegression
	case rawDelta <= -20:
		return BucketModerateRegression
	case rawDelta <= -5:
		return BucketSlightRegression
	default:
		return BucketNeutral
	}
}

// PercentDelta returns round((value - baseline) / baseline * 100). A zero
// baseline yields 0.
func PercentDelta(baseline, value int) int {
	if baseline == 0 {
		return 0
	}

	return int(math.Round(float64(value-baseline) / float64(baseline) * 100))
}

// Record is the comparison of one label's metric against the baseline.
type Record struct {
	Label    string
	Metric   string
	Baseline int
	Value    int
	HasValue bool
	RawDelta int
	Bucket   Bucket
	// Suppressed is set when the delta was forced to 0 because the baseline
	// was zero or a value was missing.
	Suppressed bool
}

// Deltas maps label -> metric -> record for every non-baseline label.
type Deltas map[string]map[string]Record

// Get returns the record of label and metric.
func (d Deltas) Get(label, metric string) (Record, bool) {
	r, ok := d[label][metric]
	return r, ok
}

// Classifier compares every label of a table against its baseline.
type Classifier struct {
	log logrus.FieldLogger
}

// NewClassifier creates a delta classifier.
func NewClassifier(log logrus.FieldLogger) *Classifier {
	return &Classifier{log: log.WithField("component", "delta_classifier")}
}

// Classify computes a record for every non-baseline label and key audit.
// Zero baselines and absent metrics are normalised to a neutral 0% delta
// and logged.
func (c *Classifier) Classify(table *Table, keyAudits []string) Deltas {
	deltas := make(Deltas)

	for _, label := range table.Labels() {
		if label == config.BaselineLabel {
			continue
		}

		records := make(map[string]Record, len(keyAudits))

		for _, metric := range keyAudits {
			records[metric] = c.compare(table, label, metric)
		}

		deltas[label] = records
	}

	return deltas
}

func (c *Classifier) compare(table *Table, label, metric string) Record {
	record := Record{Label: label, Metric: metric, Bucket: BucketNeutral}

	baselineMean, hasBaseline := table.Value(config.BaselineLabel, metric)
	valueMean, hasValue := table.Value(label, metric)

	record.Baseline = roundScore(baselineMean)
	record.Value = roundScore(valueMean)
	record.HasValue = hasValue

	logCtx := c.log.WithFields(logrus.Fields{
		"label":  label,
		"metric": metric,
	})

	switch {
	case !hasBaseline || !hasValue:
		record.Suppressed = true
		logCtx.WithFields(logrus.Fields{
			"baseline_present": hasBaseline,
			"value_present":    hasValue,
		}).Warn("metric missing, reporting neutral delta")
	case record.Baseline == 0:
		record.Suppressed = true
		logCtx.Warn("baseline is zero, reporting neutral delta")
	default:
		record.RawDelta = PercentDelta(record.Baseline, record.Value)
		record.Bucket = Classify(record.RawDelta)
	}

	return record
}

func roundScore(v float64) int {
	return int(math.Round(v))
}
