package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "smacross",
	Short: "Backtest a moving-average crossover strategy",
	Long: "Load a daily close series, go long while the short SMA is above the long SMA, " +
		"simulate a one-share portfolio and print total return, win rate and max drawdown.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBacktest,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	addDataFlags(rootCmd)
	addBacktestFlags(rootCmd)
	rootCmd.AddCommand(cacheCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log := newLogger("")
		log.Error().Err(err).Msg("smacross failed")
		os.Exit(1)
	}
}
