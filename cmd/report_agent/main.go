// Package main implements the report_agent CLI for rendering school report cards.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "report_agent",
	Short:         "School report card renderer",
	Long:          "report_agent computes subject totals, percentages and letter grades and lays out one-page A4 report cards, singly or as a zipped batch for a whole class.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	globalConfigPath  string
	globalVerbose     bool
	globalDatabaseURL string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&globalConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.PersistentFlags().StringVar(&globalDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
