// Package config handles audit configuration and environment settings.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// AppConfig holds the environment configuration loaded from environment variables.
type AppConfig struct {
	ReportsDir           string
	LighthouseBinary     string
	ClickhouseHost       string
	ClickhouseNativePort int
	ClickhouseUsername   string
	ClickhousePassword   string
	ClickhouseDatabase   string
}

// LoadApp reads configuration from environment variables and .env file.
func LoadApp() (*AppConfig, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if the file doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &AppConfig{
		ReportsDir:         getEnv("ASSETDIFF_REPORTS_DIR", DefaultReportsDir),
		LighthouseBinary:   getEnv("LIGHTHOUSE_BIN", ""),
		ClickhouseHost:     getEnv("CLICKHOUSE_HOST", "localhost"),
		ClickhouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickhousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),
		ClickhouseDatabase: getEnv("CLICKHOUSE_DATABASE", DefaultClickhouseDatabase),
	}

	nativePort, err := strconv.Atoi(getEnv("CLICKHOUSE_NATIVE_PORT", "9000"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLICKHOUSE_NATIVE_PORT: %w", err)
	}
	cfg.ClickhouseNativePort = nativePort

	return cfg, nil
}

// Overrides returns the audit configuration fields the environment sets.
func (c *AppConfig) Overrides() Config {
	return Config{
		Lighthouse: LighthouseConfig{Binary: c.LighthouseBinary},
	}
}

func (c *AppConfig) String() string {
	passwordDisplay := "(not set)"
	if c.ClickhousePassword != "" {
		passwordDisplay = "********"
	}

	lighthouseDisplay := c.LighthouseBinary
	if lighthouseDisplay == "" {
		lighthouseDisplay = "(from config)"
	}

	return fmt.Sprintf(`Environment Configuration:
==========================
Reports Dir:            %s
Lighthouse Binary:      %s
ClickHouse Host:        %s
ClickHouse Native Port: %d
ClickHouse Username:    %s
ClickHouse Password:    %s
ClickHouse Database:    %s`,
		c.ReportsDir,
		lighthouseDisplay,
		c.ClickhouseHost,
		c.ClickhouseNativePort,
		c.ClickhouseUsername,
		passwordDisplay,
		c.ClickhouseDatabase,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
