package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	errURLRequired         = errors.New("url is required")
	errRunsInvalid         = errors.New("runs must be a positive integer")
	errAssetLabelRequired  = errors.New("asset group label is required")
	errAssetLabelDuplicate = errors.New("asset group label is duplicated")
	errAssetLabelReserved  = errors.New("asset group label is reserved")
	errAssetLabelInvalid   = errors.New("asset group label must be a single directory name")
	errReportTypeUnknown   = errors.New("unknown report type")
)

// ConfigurationError reports an invalid or incomplete audit configuration.
// It is returned before any audit or aggregation work starts.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// AssetGroup is a named set of URL substrings blocked together.
type AssetGroup struct {
	Label    string   `yaml:"label"`
	Patterns []string `yaml:"patterns"`
}

// LighthouseConfig controls how the auditing engine is invoked.
type LighthouseConfig struct {
	Binary         string   `yaml:"binary,omitempty"`
	ChromeFlags    string   `yaml:"chromeFlags,omitempty"`
	FormFactor     string   `yaml:"formFactor,omitempty"`
	OnlyCategories []string `yaml:"onlyCategories,omitempty"`
	HTML           *bool    `yaml:"html,omitempty"`
	ExtraArgs      []string `yaml:"extraArgs,omitempty"`
}

// WriteHTML reports whether the per-run Lighthouse HTML report is kept.
func (l LighthouseConfig) WriteHTML() bool {
	return l.HTML != nil && *l.HTML
}

// Config is the audit configuration. It is immutable once resolved.
type Config struct {
	URL         string           `yaml:"url"`
	Runs        int              `yaml:"runs,omitempty"`
	KeyAudits   []string         `yaml:"keyAudits,omitempty"`
	AssetTests  []string         `yaml:"assetTests,omitempty"`
	AssetGroups []AssetGroup     `yaml:"assetGroups,omitempty"`
	Lighthouse  LighthouseConfig `yaml:"lighthouse,omitempty"`
}

// Defaults returns the documented default configuration. URL has no default.
func Defaults() Config {
	html := true

	return Config{
		Runs:       DefaultRuns,
		KeyAudits:  slices.Clone(DefaultKeyAudits),
		AssetTests: []string{ReportTypeIndividual},
		Lighthouse: LighthouseConfig{
			Binary:         DefaultLighthouseBinary,
			ChromeFlags:    "--headless",
			FormFactor:     "mobile",
			OnlyCategories: []string{"performance"},
			HTML:           &html,
		},
	}
}

// Resolve merges overrides over defaults field by field. A field set in
// overrides wins; zero-valued override fields keep the default.
func Resolve(defaults, overrides Config) Config {
	out := Config{
		URL:         pick(overrides.URL, defaults.URL),
		Runs:        defaults.Runs,
		KeyAudits:   pickSlice(overrides.KeyAudits, defaults.KeyAudits),
		AssetTests:  pickSlice(overrides.AssetTests, defaults.AssetTests),
		AssetGroups: cloneGroups(defaults.AssetGroups),
		Lighthouse: LighthouseConfig{
			Binary:         pick(overrides.Lighthouse.Binary, defaults.Lighthouse.Binary),
			ChromeFlags:    pick(overrides.Lighthouse.ChromeFlags, defaults.Lighthouse.ChromeFlags),
			FormFactor:     pick(overrides.Lighthouse.FormFactor, defaults.Lighthouse.FormFactor),
			OnlyCategories: pickSlice(overrides.Lighthouse.OnlyCategories, defaults.Lighthouse.OnlyCategories),
			HTML:           defaults.Lighthouse.HTML,
			ExtraArgs:      pickSlice(overrides.Lighthouse.ExtraArgs, defaults.Lighthouse.ExtraArgs),
		},
	}

	if overrides.Runs != 0 {
		out.Runs = overrides.Runs
	}

	if overrides.AssetGroups != nil {
		out.AssetGroups = cloneGroups(overrides.AssetGroups)
	}

	if overrides.Lighthouse.HTML != nil {
		html := *overrides.Lighthouse.HTML
		out.Lighthouse.HTML = &html
	} else if defaults.Lighthouse.HTML != nil {
		html := *defaults.Lighthouse.HTML
		out.Lighthouse.HTML = &html
	}

	return out
}

// LoadFile reads an audit configuration file. Fields absent from the file are
// left zero so the result can be used as overrides for Resolve.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing yaml: %w", err)
	}

	return cfg, nil
}

// Validate checks the resolved configuration and returns a
// *ConfigurationError describing the first problem found.
func (c Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return &ConfigurationError{Field: "url", Err: errURLRequired}
	}

	if c.Runs < 1 {
		return &ConfigurationError{Field: "runs", Err: fmt.Errorf("%w: %d", errRunsInvalid, c.Runs)}
	}

	for _, reportType := range c.AssetTests {
		if !slices.Contains(ReportTypes, reportType) {
			return &ConfigurationError{Field: "assetTests", Err: fmt.Errorf("%w: %s", errReportTypeUnknown, reportType)}
		}
	}

	seen := make(map[string]struct{}, len(c.AssetGroups))

	for i, group := range c.AssetGroups {
		field := fmt.Sprintf("assetGroups[%d]", i)

		switch {
		case strings.TrimSpace(group.Label) == "":
			return &ConfigurationError{Field: field, Err: errAssetLabelRequired}
		case group.Label == BaselineLabel:
			return &ConfigurationError{Field: field, Err: fmt.Errorf("%w: %s", errAssetLabelReserved, group.Label)}
		case !IsPathSegment(group.Label):
			return &ConfigurationError{Field: field, Err: fmt.Errorf("%w: %q", errAssetLabelInvalid, group.Label)}
		}

		if _, ok := seen[group.Label]; ok {
			return &ConfigurationError{Field: field, Err: fmt.Errorf("%w: %s", errAssetLabelDuplicate, group.Label)}
		}

		seen[group.Label] = struct{}{}
	}

	return nil
}

// IsPathSegment reports whether name can be used as one directory below the
// reports root: not "." or "..", and free of path separators.
func IsPathSegment(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}

	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

// Labels returns the baseline label followed by every asset group label.
func (c Config) Labels() []string {
	labels := make([]string, 0, len(c.AssetGroups)+1)
	labels = append(labels, BaselineLabel)

	for _, group := range c.AssetGroups {
		labels = append(labels, group.Label)
	}

	return labels
}

func (c Config) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, `Audit Configuration:
====================
URL:              %s
Runs per test:    %d
Key audits:       %s
Report types:     %s
Lighthouse:       %s (%s, categories: %s)
Asset groups:     %d`,
		displayOrUnset(c.URL),
		c.Runs,
		strings.Join(c.KeyAudits, ", "),
		strings.Join(c.AssetTests, ", "),
		c.Lighthouse.Binary,
		c.Lighthouse.FormFactor,
		strings.Join(c.Lighthouse.OnlyCategories, ", "),
		len(c.AssetGroups),
	)

	for _, group := range c.AssetGroups {
		fmt.Fprintf(&b, "\n  - %s: %s", group.Label, strings.Join(group.Patterns, ", "))
	}

	return b.String()
}

func pick(override, fallback string) string {
	if override != "" {
		return override
	}

	return fallback
}

func pickSlice(override, fallback []string) []string {
	if len(override) > 0 {
		return slices.Clone(override)
	}

	return slices.Clone(fallback)
}

func cloneGroups(groups []AssetGroup) []AssetGroup {
	if groups == nil {
		return nil
	}

	out := make([]AssetGroup, len(groups))
	for i, group := range groups {
		out[i] = AssetGroup{Label: group.Label, Patterns: slices.Clone(group.Patterns)}
	}

	return out
}

func displayOrUnset(s string) string {
	if s == "" {
		return "(not set)"
	}

	return s
}
