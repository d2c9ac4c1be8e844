// Package main provides the pricelens command line: one-off searches, the
// source and country catalogs, and the HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pricelens/backend/config"
	"github.com/pricelens/backend/internal/bootstrap"
	"github.com/pricelens/backend/internal/logger"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "pricelens",
	Short: "Multi-marketplace product price search",
	Long:  "PriceLens searches marketplaces in a country for a product query and returns matched, scored and deduplicated listings.",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if logLevel == "" {
			return nil
		}
		return logger.InitLogger(logLevel, "")
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadApp loads configuration and wires the search pipeline
func loadApp() (*config.Config, *bootstrap.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, bootstrap.New(cfg), nil
}
