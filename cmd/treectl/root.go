package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/treekit/internal/logger"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	noColor    bool
	logFile    string
	configPath string

	// cfg holds settings from --config; zero when none was given.
	cfg Config

	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "treectl",
	Short: "Inspect and manipulate tree dump files",
	Long: `treectl is a tool for inspecting, modifying, and comparing tree dump
files: the text format produced by dumping a tree of labeled nodes with
named string values and tags.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write a JSON debug log to this file")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML file with default settings")
}

// setup loads the config file and starts logging before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		c, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = c
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	closeFn, err := logger.Init(logger.Options{
		Enabled: logFile != "",
		Path:    logFile,
		Level:   level,
		JSON:    true,
	})
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	closeLog = closeFn
	logger.Debug("command started", "command", cmd.Name(), "args", args)
	return nil
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// useColor reports whether output may be colored.
func useColor() bool {
	if noColor || jsonOut {
		return false
	}
	if cfg.Color != nil {
		return *cfg.Color
	}
	return true
}

// checkArgs validates that the correct number of arguments were provided
func checkArgs(args []string, expected int, usage string) error {
	if len(args) != expected {
		return fmt.Errorf("expected %d argument(s), got %d\nUsage: %s", expected, len(args), usage)
	}
	return nil
}
