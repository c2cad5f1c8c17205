// Package config holds the YAML configuration of a backtest run.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DateLayout = "2006-01-02"

// Price sources understood by the loader.
const (
	SourceCSV      = "csv"
	SourceParquet  = "parquet"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
	SourceAlpaca   = "alpaca"
)

// Config is the top-level configuration.
type Config struct {
	App       App       `yaml:"app"`
	Data      Data      `yaml:"data"`
	Alpaca    Alpaca    `yaml:"alpaca"`
	Strategy  Strategy  `yaml:"strategy"`
	Portfolio Portfolio `yaml:"portfolio"`
	Report    Report    `yaml:"report"`
}

// App holds process-wide settings.
type App struct {
	LogLevel string `yaml:"log_level"`
	// Timeout bounds the price download, e.g. "30s".
	Timeout string `yaml:"timeout"`
}

// Data selects the price series: where it comes from and which slice of it.
type Data struct {
	Source      string `yaml:"source"`
	Ticker      string `yaml:"ticker"`
	Start       string `yaml:"start"`
	End         string `yaml:"end"`
	Interval    string `yaml:"interval"`
	CSVPath     string `yaml:"csv_path"`
	DataDir     string `yaml:"data_dir"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresURL string `yaml:"postgres_url"`
}

// Alpaca holds credentials and options for the market-data API.
type Alpaca struct {
	APIKey     string `yaml:"api_key"`
	APISecret  string `yaml:"api_secret"`
	DataURL    string `yaml:"data_url"`
	Feed       string `yaml:"feed"`
	Adjustment string `yaml:"adjustment"`
}

// Strategy holds the moving-average windows.
type Strategy struct {
	ShortWindow int `yaml:"short_window"`
	LongWindow  int `yaml:"long_window"`
}

// Portfolio holds the simulated account settings.
type Portfolio struct {
	InitialCapital float64 `yaml:"initial_capital"`
}

// Report controls output besides the printed metrics.
type Report struct {
	CSVOut     string `yaml:"csv_out"`
	ParquetOut string `yaml:"parquet_out"`
	Progress   bool   `yaml:"progress"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		App: App{
			LogLevel: "info",
			Timeout:  "60s",
		},
		Data: Data{
			Source:     SourceAlpaca,
			Ticker:     "AAPL",
			Start:      "2020-01-01",
			End:        "2025-01-01",
			Interval:   "D",
			SQLitePath: "data/bars.db",
			DataDir:    "data",
		},
		Alpaca: Alpaca{
			Feed:       "iex",
			Adjustment: "all",
		},
		Strategy: Strategy{
			ShortWindow: 50,
			LongWindow:  200,
		},
		Portfolio: Portfolio{
			InitialCapital: 10000,
		},
	}
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Save persists cfg to path as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SMACROSS_LOG_LEVEL"); v != "" {
		cfg.App.LogLevel = v
	}
	if v := os.Getenv("SMACROSS_SOURCE"); v != "" {
		cfg.Data.Source = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Data.PostgresURL = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Data.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Data.SQLitePath = v
	}
	// Canonical Alpaca SDK names.
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
}

// Validate checks the fields that can be checked without touching a data
// source. Window sizes and capital are left to the engine.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Data.Source) {
	case SourceCSV:
		if c.Data.CSVPath == "" {
			return fmt.Errorf("data.csv_path is required for source %q", c.Data.Source)
		}
	case SourceParquet:
		if c.Data.DataDir == "" {
			return fmt.Errorf("data.data_dir is required for source %q", c.Data.Source)
		}
	case SourceSQLite:
		if c.Data.SQLitePath == "" {
			return fmt.Errorf("data.sqlite_path is required for source %q", c.Data.Source)
		}
	case SourcePostgres:
		if c.Data.PostgresURL == "" {
			return fmt.Errorf("data.postgres_url is required for source %q", c.Data.Source)
		}
	case SourceAlpaca:
	default:
		return fmt.Errorf("unknown data source %q", c.Data.Source)
	}
	if strings.TrimSpace(c.Data.Ticker) == "" {
		return fmt.Errorf("data.ticker is required")
	}
	start, end, err := c.Data.Range()
	if err != nil {
		return err
	}
	if !end.After(start) {
		return fmt.Errorf("data.end %s must be after data.start %s", c.Data.End, c.Data.Start)
	}
	if _, err := c.App.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// Range parses the start and end dates.
func (d Data) Range() (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, d.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid data.start (expected YYYY-MM-DD): %w", err)
	}
	end, err := time.Parse(DateLayout, d.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid data.end (expected YYYY-MM-DD): %w", err)
	}
	return start, end, nil
}

// TimeoutDuration parses App.Timeout. Empty means no timeout.
func (a App) TimeoutDuration() (time.Duration, error) {
	if a.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(a.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid app.timeout: %w", err)
	}
	return d, nil
}
