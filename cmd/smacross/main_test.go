package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_CSVBacktest(t *testing.T) {
	for _, k := range []string{"SMACROSS_LOG_LEVEL", "SMACROSS_SOURCE", "DATABASE_URL", "DATA_DIR", "SQLITE_PATH"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()

	prices := "Date,Close\n" +
		"2024-01-02,10\n2024-01-03,10\n2024-01-04,12\n" +
		"2024-01-05,12\n2024-01-08,14\n2024-01-09,14\n"
	csvPath := filepath.Join(dir, "TEST.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(prices), 0o644))

	cfgPath := filepath.Join(dir, "smacross.yaml")
	cfg := "app:\n  log_level: error\ndata:\n  csv_path: " + csvPath + "\n  sqlite_path: " + filepath.Join(dir, "bars.db") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	recordsPath := filepath.Join(dir, "records.csv")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{
		"--config", cfgPath,
		"--source", "csv",
		"--ticker", "TEST",
		"--from", "2024-01-01",
		"--to", "2024-02-01",
		"--short", "2",
		"--long", "3",
		"--capital", "100",
		"--csv-out", recordsPath,
	})
	require.NoError(t, rootCmd.Execute())

	report := out.String()
	assert.Contains(t, report, "Performance Metrics:")
	assert.Contains(t, report, "Total Return (%): 2.00")
	assert.Contains(t, report, "Win Rate (%): 100.00")
	assert.Contains(t, report, "Max Drawdown (%): 0.00")
	assert.Contains(t, report, "SMA(2/3)")

	records, err := os.ReadFile(recordsPath)
	require.NoError(t, err)
	assert.Equal(t, 7, len(strings.Split(strings.TrimSpace(string(records)), "\n")))

	// The same series through the cache subcommand, then back from SQLite.
	rootCmd.SetArgs([]string{"cache", "--config", cfgPath, "--source", "csv", "--ticker", "TEST",
		"--from", "2024-01-01", "--to", "2024-02-01"})
	require.NoError(t, rootCmd.Execute())

	out.Reset()
	rootCmd.SetArgs([]string{
		"--config", cfgPath,
		"--source", "sqlite",
		"--ticker", "TEST",
		"--from", "2024-01-01",
		"--to", "2024-02-01",
		"--short", "2",
		"--long", "3",
		"--capital", "100",
		"--csv-out", "",
	})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Total Return (%): 2.00")
}

func TestRootCommand_InvalidWindows(t *testing.T) {
	t.Setenv("SMACROSS_SOURCE", "")
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "TEST.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Date,Close\n2024-01-02,10\n"), 0o644))
	cfgPath := filepath.Join(dir, "smacross.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("app:\n  log_level: error\ndata:\n  source: csv\n  csv_path: "+csvPath+"\n"), 0o644))

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"--config", cfgPath, "--source", "csv", "--ticker", "TEST", "--short", "200", "--long", "50"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid parameter")
}
