package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile    string
	logLevel   string
	logFormat  string
	inputPath  string
	outputPath string
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "dumpmigrate",
	Short: "SQL Server dump migrator",
	Long: `A CLI tool that recovers typed records from a SQL Server style dump of
INSERT statements and loads them into a MySQL or PostgreSQL database.

Features:
  - Line-by-line scanning of multi-line INSERT statements
  - Lenient per-record coercion into nine known entities
  - Ordered JSON handoff file (migration_data.json)
  - Transactional import guarded by an advisory lock
  - Post-import verification (count and SHA256)`,
	Version:      Version,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "dumpmigrate.yaml",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Path overrides
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "",
		"Override dump file to scan")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "",
		"Override JSON handoff file")

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored summaries")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel   string
	LogFormat  string
	InputPath  string
	OutputPath string
	NoColor    bool
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:   logLevel,
		LogFormat:  logFormat,
		InputPath:  inputPath,
		OutputPath: outputPath,
		NoColor:    noColor,
	}
}
