package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Belphemur/ShowFinder/internal/config"
)

var (
	configFile string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "showfinder",
	Short: "Search the TVmaze catalog and browse episode lists",
	Long: `ShowFinder serves a small search page backed by the TVmaze catalog.

Searching renders one card per matching show; the Episodes button on a card
lists every episode of that show.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd returns the root command (exported for tests).
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./config.yaml or ./config/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (auto, console, json)")
}

func initConfig() {
	// flags win over file and environment through the keys config binds
	if logLevel != "" {
		_ = os.Setenv("LOG_LEVEL", logLevel)
	}
	if logFormat != "" {
		_ = os.Setenv("APP_LOG_FORMAT", logFormat)
	}

	if err := config.Initialize(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}
