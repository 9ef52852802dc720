// Package main is the entry point for the assetdiff application
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethpandaops/assetdiff/cmd"
	"github.com/joho/godotenv"
)

const (
	envFlag      = "--env"
	envFlagEqual = "--env="
)

func main() {
	envFile, runTUI := parseArgs(os.Args[1:])

	if !runTUI {
		// Cobra handles --env itself.
		cmd.Execute()
		return
	}

	if err := loadEnvFile(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading env file: %v\n", err)
		os.Exit(1)
	}

	// Pick up LOG_LEVEL from the env file.
	cmd.InitLogger()
	cmd.RunInteractive()
}

// parseArgs extracts the env file and reports whether the arguments ask for
// interactive mode: none at all, or only --env.
func parseArgs(args []string) (envFile string, runTUI bool) {
	for i, arg := range args {
		if arg == envFlag && i+1 < len(args) {
			envFile = args[i+1]
			break
		}

		if strings.HasPrefix(arg, envFlagEqual) {
			envFile = arg[len(envFlagEqual):]
			break
		}
	}

	switch {
	case len(args) == 0:
		return envFile, true
	case len(args) == 1 && strings.HasPrefix(args[0], envFlagEqual):
		return envFile, true
	case len(args) == 2 && args[0] == envFlag:
		return envFile, true
	default:
		// Includes a bare --env, which cobra rejects with a usage error.
		return envFile, false
	}
}

// loadEnvFile loads the specified environment file
func loadEnvFile(file string) error {
	if file == "" {
		file = ".env"
	}

	if err := godotenv.Overload(file); err != nil {
		// If it's the default .env file and it doesn't exist, that's okay
		if file == ".env" && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to load env file '%s': %w", file, err)
	}

	return nil
}
