// cmd/tidytable/root.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tidytable/tidytable/pkg/config"
	"github.com/tidytable/tidytable/pkg/rules"
)

var (
	// Global flags (override environment configuration when set)
	flagRulesPath string
	flagLogLevel  string
	flagStrict    bool

	// Loaded configuration
	cfg     *config.Config
	ruleset rules.Rules
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tidytable",
	Short: "tidytable: detect and fix data-quality issues in tabular files",
	Long: `tidytable loads a CSV or JSON dataset, detects data-quality defects,
recommends rule-based fixes with impact and risk annotations, applies a
selected subset under safety guards, and reports the before/after
improvement.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(initialize)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRulesPath, "rules", "", "rules yaml file overriding the built-in heuristics")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagStrict, "strict", false, "fail on schema validation problems instead of warning")
}

func initialize() {
	var err error
	cfg, err = config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading configuration:", err)
		os.Exit(1)
	}
	if flagRulesPath != "" {
		cfg.RulesPath = flagRulesPath
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagStrict {
		cfg.StrictSchema = true
	}

	logger, err = config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error building logger:", err)
		os.Exit(1)
	}

	ruleset, err = rules.Load(cfg.RulesPath)
	if err != nil {
		logger.Fatal("Failed to load rules", zap.Error(err))
	}
}
