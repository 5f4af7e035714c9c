// Package main provides the entry point for the candidate scoring service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "smartrecruiter",
	Short: "Hybrid candidate scoring engine",
	Long: "smartrecruiter scores job candidates by fusing heuristic features, embedding similarity\n" +
		"and reasoning-model judgments, recalibrates its weights from hiring decisions, and\n" +
		"audits the results for cross-group bias.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
