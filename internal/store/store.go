// Package store persists audit results, manifests and reports on disk.
//
// Results for one report type live under <root>/<report-type>/:
//
//	<root>/<report-type>/<label>/summary.json       manifest
//	<root>/<report-type>/<label>/run-001.report.json one file per run
//	<root>/<report-type>/summary.html                rendered report
//	<root>/<report-type>/averages.json               metric average table
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ethpandaops/assetdiff/internal/config"
	"github.com/ethpandaops/assetdiff/internal/lighthouse"
	"github.com/sirupsen/logrus"
)

const (
	dirPerm  = 0o750
	filePerm = 0o644
)

var errInvalidLabel = errors.New("label is not a single directory name")

// MissingManifestError is returned when a label has no summary manifest.
type MissingManifestError struct {
	Label string
	Path  string
}

func (e *MissingManifestError) Error() string {
	return fmt.Sprintf("missing summary manifest for %q: %s", e.Label, e.Path)
}

// MissingResultFileError is returned when a manifest references a result
// file that does not exist.
type MissingResultFileError struct {
	Label string
	Path  string
}

func (e *MissingResultFileError) Error() string {
	return fmt.Sprintf("missing result file for %q: %s", e.Label, e.Path)
}

// ManifestEntry references one run's result files. Paths are relative to
// the label directory.
type ManifestEntry struct {
	URL   string  `json:"url"`
	Name  string  `json:"name"`
	File  string  `json:"file"`
	HTML  string  `json:"html,omitempty"`
	Score float64 `json:"score"`
}

// Manifest lists every run recorded for a label, in run order.
type Manifest []ManifestEntry

// BatchResult is the raw output of one run to be persisted.
type BatchResult struct {
	URL   string
	JSON  []byte
	HTML  []byte
	Score float64
}

// RunResult is one persisted run read back: its manifest entry and the
// 0-100 score of every scored audit.
type RunResult struct {
	Entry  ManifestEntry
	Scores map[string]float64
}

// Store reads and writes the results of a single report type.
type Store interface {
	ReportType() string
	PrepareLabel(label string) error
	WriteBatchResult(label string, runIndex int, result BatchResult) error
	ReadBatchResults(label string) (Manifest, []RunResult, error)
	Labels() ([]string, error)
	WriteArtifact(name string, data []byte) error
	ReadArtifact(name string) ([]byte, error)
	ArtifactPath(name string) string
}

type fsStore struct {
	dir        string
	reportType string
	log        logrus.FieldLogger
}

// NewFSStore returns a Store rooted at <root>/<reportType>.
func NewFSStore(log logrus.FieldLogger, root, reportType string) Store {
	return &fsStore{
		dir:        filepath.Join(root, reportType),
		reportType: reportType,
		log: log.WithFields(logrus.Fields{
			"component":   "store",
			"report_type": reportType,
		}),
	}
}

// Clean removes every stored result under root.
func Clean(root string) error {
	if err := os.RemoveAll(root); err != nil {
		return fmt.Errorf("removing %s: %w", root, err)
	}

	return nil
}

// ReportTypes returns the report type directories present under root, sorted.
func ReportTypes(root string) ([]string, error) {
	return listDirs(root)
}

func (s *fsStore) ReportType() string {
	return s.reportType
}

// PrepareLabel recreates an empty directory for label, discarding results
// from any previous batch.
func (s *fsStore) PrepareLabel(label string) error {
	if !config.IsPathSegment(label) || !config.IsPathSegment(s.reportType) {
		return fmt.Errorf("%w: %s/%s", errInvalidLabel, s.reportType, label)
	}

	dir := s.labelDir(label)

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing %s: %w", dir, err)
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	return nil
}

// WriteBatchResult writes the result files for run runIndex (zero based) and
// records them in the label's manifest. The manifest is rewritten after
// every run so results written before a failure stay referenced.
func (s *fsStore) WriteBatchResult(label string, runIndex int, result BatchResult) error {
	dir := s.labelDir(label)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	name := fmt.Sprintf("run-%03d", runIndex+1)
	entry := ManifestEntry{
		URL:   result.URL,
		Name:  name,
		File:  name + ".report.json",
		Score: result.Score,
	}

	if err := writeFile(filepath.Join(dir, entry.File), result.JSON); err != nil {
		return err
	}

	if len(result.HTML) > 0 {
		entry.HTML = name + ".report.html"
		if err := writeFile(filepath.Join(dir, entry.HTML), result.HTML); err != nil {
			return err
		}
	}

	manifest, err := s.readManifest(label)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	manifest = upsert(manifest, entry)

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}

	if err := writeFile(s.manifestPath(label), data); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"label": label,
		"run":   runIndex + 1,
		"file":  entry.File,
	}).Debug("stored run result")

	return nil
}

// ReadBatchResults returns the manifest of label and the scores of every run
// it references. A label directory with no files yields an empty manifest.
func (s *fsStore) ReadBatchResults(label string) (Manifest, []RunResult, error) {
	dir := s.labelDir(label)
	manifestPath := s.manifestPath(label)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, &MissingManifestError{Label: label, Path: manifestPath}
		}

		return nil, nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	manifest, err := s.readManifest(label)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, nil, err
		}

		if len(entries) > 0 {
			return nil, nil, &MissingManifestError{Label: label, Path: manifestPath}
		}

		s.log.WithField("label", label).Warn("label directory is empty")

		return Manifest{}, nil, nil
	}

	results := make([]RunResult, 0, len(manifest))

	for _, entry := range manifest {
		path := filepath.Join(dir, entry.File)

		data, err := os.ReadFile(path) //nolint:gosec // G304: path is built from our own manifest
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, nil, &MissingResultFileError{Label: label, Path: path}
			}

			return nil, nil, fmt.Errorf("reading %s: %w", path, err)
		}

		report, err := lighthouse.ParseReport(data)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
		}

		results = append(results, RunResult{Entry: entry, Scores: report.Scores()})
	}

	return manifest, results, nil
}

// Labels returns every label directory, baseline first and the rest sorted.
func (s *fsStore) Labels() ([]string, error) {
	dirs, err := listDirs(s.dir)
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if dir == config.BaselineLabel {
			labels = append([]string{dir}, labels...)
			continue
		}

		labels = append(labels, dir)
	}

	return labels, nil
}

// WriteArtifact writes a report-level file such as summary.html.
func (s *fsStore) WriteArtifact(name string, data []byte) error {
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return fmt.Errorf("creating %s: %w", s.dir, err)
	}

	return writeFile(s.ArtifactPath(name), data)
}

// ReadArtifact reads a report-level file.
func (s *fsStore) ReadArtifact(name string) ([]byte, error) {
	data, err := os.ReadFile(s.ArtifactPath(name))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.ArtifactPath(name), err)
	}

	return data, nil
}

func (s *fsStore) ArtifactPath(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *fsStore) labelDir(label string) string {
	return filepath.Join(s.dir, label)
}

func (s *fsStore) manifestPath(label string) string {
	return filepath.Join(s.labelDir(label), config.SummaryManifestFile)
}

func (s *fsStore) readManifest(label string) (Manifest, error) {
	path := s.manifestPath(label)

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is built from the results directory
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("decoding manifest %s: %w", path, err)
	}

	return manifest, nil
}

func upsert(manifest Manifest, entry ManifestEntry) Manifest {
	for i := range manifest {
		if manifest[i].Name == entry.Name {
			manifest[i] = entry
			return manifest
		}
	}

	manifest = append(manifest, entry)
	sort.SliceStable(manifest, func(i, j int) bool { return manifest[i].Name < manifest[j].Name })

	return manifest
}

func listDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}

	dirs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}

	sort.Strings(dirs)

	return dirs, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, filePerm); err != nil { //nolint:gosec // G306: reports are opened by other users and browsers
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

// Compile-time interface compliance check
var _ Store = (*fsStore)(nil)
