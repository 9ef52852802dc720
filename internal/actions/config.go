// Package actions contains the operations shared by the CLI commands and the
// interactive menu.
package actions

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ethpandaops/assetdiff/internal/config"
)

// Options are the operator inputs common to every action.
type Options struct {
	ConfigFile  string
	URL         string
	Runs        int
	ReportTypes []string
	Clean       bool
}

// Settings is the resolved configuration an action works with.
type Settings struct {
	App   *config.AppConfig
	Audit config.Config
	// FromFile is set when an audit configuration file was read.
	FromFile bool
}

// LoadSettings resolves defaults, the configuration file, the environment
// and opts, in increasing precedence. A missing default configuration file is
// not an error; a missing explicit one is.
func LoadSettings(opts Options) (*Settings, error) {
	app, err := config.LoadApp()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	path := opts.ConfigFile
	explicit := path != ""

	if !explicit {
		path = config.DefaultConfigFile
	}

	settings := &Settings{App: app, Audit: config.Defaults()}

	fileCfg, err := config.LoadFile(path)

	switch {
	case err == nil:
		settings.Audit = config.Resolve(settings.Audit, fileCfg)
		settings.FromFile = true
	case !explicit && errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	settings.Audit = config.Resolve(settings.Audit, app.Overrides())
	settings.Audit = config.Resolve(settings.Audit, config.Config{
		URL:        opts.URL,
		Runs:       opts.Runs,
		AssetTests: opts.ReportTypes,
	})

	return settings, nil
}

// ShowConfig prints the resolved environment and audit configuration.
func ShowConfig(out io.Writer, opts Options) error {
	settings, err := LoadSettings(opts)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, settings.App.String())
	fmt.Fprintln(out)
	fmt.Fprintln(out, settings.Audit.String())

	if err := settings.Audit.Validate(); err != nil {
		fmt.Fprintf(out, "\nConfiguration is not runnable: %v\n", err)
	}

	return nil
}
