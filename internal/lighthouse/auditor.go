// Package lighthouse invokes the Lighthouse CLI and parses its JSON reports.
package lighthouse

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethpandaops/assetdiff/internal/config"
	"github.com/sirupsen/logrus"
)

const (
	outputBaseName = "run"
	maxStderrLen   = 2048
)

// Request describes a single audit of a page.
type Request struct {
	URL      string
	Patterns []string
}

// Output is the raw and parsed result of a single audit.
type Output struct {
	JSON     []byte
	HTML     []byte
	Report   *Report
	Duration time.Duration
}

// ExternalInvocationError is returned when the Lighthouse process cannot be
// started, exits abnormally or produces an unreadable report.
type ExternalInvocationError struct {
	Binary   string
	URL      string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExternalInvocationError) Error() string {
	msg := fmt.Sprintf("lighthouse invocation failed (%s %s)", e.Binary, e.URL)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(": exit code %d", e.ExitCode)
	}

	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}

	if e.Stderr != "" {
		msg += fmt.Sprintf(": %s", e.Stderr)
	}

	return msg
}

func (e *ExternalInvocationError) Unwrap() error {
	return e.Err
}

// Auditor runs a page audit and returns its report.
type Auditor interface {
	Audit(ctx context.Context, req Request) (*Output, error)
}

type execAuditor struct {
	cfg config.LighthouseConfig
	log logrus.FieldLogger
}

// NewAuditor creates an Auditor that shells out to the Lighthouse CLI.
func NewAuditor(log logrus.FieldLogger, cfg config.LighthouseConfig) Auditor {
	if cfg.Binary == "" {
		cfg.Binary = config.DefaultLighthouseBinary
	}

	return &execAuditor{
		cfg: cfg,
		log: log.WithField("component", "lighthouse_auditor"),
	}
}

// Audit runs Lighthouse once against req.URL with req.Patterns blocked.
func (a *execAuditor) Audit(ctx context.Context, req Request) (*Output, error) {
	tmpDir, err := os.MkdirTemp("", "assetdiff-lighthouse-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	outputPath := filepath.Join(tmpDir, outputBaseName)
	args := a.buildArgs(req, outputPath)

	a.log.WithFields(logrus.Fields{
		"command":  fmt.Sprintf("%s %s", a.cfg.Binary, strings.Join(args, " ")),
		"patterns": len(req.Patterns),
	}).Debug("executing lighthouse")

	start := time.Now()

	cmd := exec.CommandContext(ctx, a.cfg.Binary, args...) //nolint:gosec // G204: binary and arguments come from operator configuration

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		invocationErr := &ExternalInvocationError{
			Binary: a.cfg.Binary,
			URL:    req.URL,
			Stderr: truncate(strings.TrimSpace(stderr.String()), maxStderrLen),
			Err:    err,
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			invocationErr.ExitCode = exitErr.ExitCode()
		}

		return nil, invocationErr
	}

	out := &Output{Duration: time.Since(start)}

	jsonPath, htmlPath := a.outputFiles(outputPath)

	out.JSON, err = os.ReadFile(jsonPath) //nolint:gosec // G304: path is inside our temp directory
	if err != nil {
		return nil, &ExternalInvocationError{Binary: a.cfg.Binary, URL: req.URL, Err: fmt.Errorf("reading json report: %w", err)}
	}

	if htmlPath != "" {
		out.HTML, err = os.ReadFile(htmlPath) //nolint:gosec // G304: path is inside our temp directory
		if err != nil {
			return nil, &ExternalInvocationError{Binary: a.cfg.Binary, URL: req.URL, Err: fmt.Errorf("reading html report: %w", err)}
		}
	}

	out.Report, err = ParseReport(out.JSON)
	if err != nil {
		return nil, &ExternalInvocationError{Binary: a.cfg.Binary, URL: req.URL, Err: err}
	}

	return out, nil
}

func (a *execAuditor) buildArgs(req Request, outputPath string) []string {
	args := []string{
		req.URL,
		"--quiet",
		"--output=json",
	}

	if a.cfg.WriteHTML() {
		args = append(args, "--output=html")
	}

	args = append(args, fmt.Sprintf("--output-path=%s", outputPath))

	if a.cfg.ChromeFlags != "" {
		args = append(args, fmt.Sprintf("--chrome-flags=%s", a.cfg.ChromeFlags))
	}

	if len(a.cfg.OnlyCategories) > 0 {
		args = append(args, fmt.Sprintf("--only-categories=%s", strings.Join(a.cfg.OnlyCategories, ",")))
	}

	if a.cfg.FormFactor == "desktop" {
		args = append(args, "--preset=desktop")
	}

	for _, pattern := range req.Patterns {
		args = append(args, fmt.Sprintf("--blocked-url-patterns=%s", pattern))
	}

	return append(args, a.cfg.ExtraArgs...)
}

// outputFiles mirrors Lighthouse's naming: a single output is written to the
// output path verbatim, multiple outputs get a ".report.<ext>" suffix.
func (a *execAuditor) outputFiles(outputPath string) (jsonPath, htmlPath string) {
	if !a.cfg.WriteHTML() {
		return outputPath, ""
	}

	return outputPath + ".report.json", outputPath + ".report.html"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n-3] + "..."
}

// Compile-time interface compliance check
var _ Auditor = (*execAuditor)(nil)
