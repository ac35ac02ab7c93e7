// Package config loads chessperf's configuration from defaults, an optional
// YAML file, and environment variables, in that order of increasing
// priority, using Koanf v2 the way the teacher application layers its own
// configuration.
package config

import (
	"fmt"
)

// Config holds all settings needed to run the importer, selector, and
// performance calculator against a Store.
type Config struct {
	Store   StoreConfig   `koanf:"store"`
	Import  ImportConfig  `koanf:"import"`
	Calc    CalcConfig    `koanf:"calc"`
	Logging LoggingConfig `koanf:"logging"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// StoreConfig configures the embedded Badger-backed Store.
type StoreConfig struct {
	// Dir is the directory holding the Badger database files.
	Dir string `koanf:"dir"`

	// ErrorLogPath names a side-channel error log file. It is loaded and
	// defaulted with the rest of the configuration; no chessperf command
	// opens or writes that file.
	ErrorLogPath string `koanf:"error_log_path"`
}

// ImportConfig configures the PGN importer.
type ImportConfig struct {
	// SegmentSize is the number of inserted records per commit segment.
	SegmentSize int `koanf:"segment_size"`
}

// CalcConfig configures the performance calculator's defaults.
type CalcConfig struct {
	// Measure is the default reward scale: a win contributes +Measure,
	// a loss -Measure.
	Measure float64 `koanf:"measure"`

	// Tolerance is the default delta used to decide iteration stability.
	Tolerance float64 `koanf:"tolerance"`

	// MaxIterations caps the iteration loop; 0 means unbounded.
	MaxIterations int `koanf:"max_iterations"`
}

// LoggingConfig configures the logging package.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// MetricsConfig holds the metrics.enabled and metrics.addr settings. They
// are loaded and defaulted with the rest of the configuration; no chessperf
// command reads them, and nothing serves the metrics over HTTP.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// ConfigPathEnvVar is the environment variable overriding the config file search.
const ConfigPathEnvVar = "CHESSPERF_CONFIG"

// DefaultConfigPaths lists config file locations searched in priority order.
var DefaultConfigPaths = []string{
	"chessperf.yaml",
	"chessperf.yml",
	"/etc/chessperf/chessperf.yaml",
}

// defaultConfig returns a Config with sensible defaults for every field.
func defaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Dir:          "./chessperf-db",
			ErrorLogPath: "./chessperf-db/ErrorLog",
		},
		Import: ImportConfig{
			SegmentSize: 4000,
		},
		Calc: CalcConfig{
			Measure:       50,
			Tolerance:     1e-12,
			MaxIterations: 0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
		},
	}
}

// Validate checks that the configuration can be used to drive a calculation.
func (c *Config) Validate() error {
	if c.Store.Dir == "" {
		return fmt.Errorf("store.dir must not be empty")
	}
	if c.Import.SegmentSize <= 0 {
		return fmt.Errorf("import.segment_size must be positive, got %d", c.Import.SegmentSize)
	}
	if c.Calc.Measure <= 0 {
		return fmt.Errorf("calc.measure must be positive, got %v", c.Calc.Measure)
	}
	if c.Calc.Tolerance <= 0 {
		return fmt.Errorf("calc.tolerance must be positive, got %v", c.Calc.Tolerance)
	}
	if c.Calc.MaxIterations < 0 {
		return fmt.Errorf("calc.max_iterations must not be negative, got %d", c.Calc.MaxIterations)
	}
	return nil
}

// SegmentCommitInterval returns the import segment size as a plain int,
// named for readability at call sites that don't otherwise touch Config.
func (c *Config) SegmentCommitInterval() int {
	return c.Import.SegmentSize
}
