package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/dumpmigrate/internal/database"
)

var validateSkipConnect bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and destination connectivity",
	Long: `Validate checks the configuration file and, when a destination is
configured, connects to it.

Checks performed:
  - Configuration syntax and required fields
  - Input escape mode, schema and entity selection
  - Destination settings (driver, host, port, user, database, tls)
  - Database connectivity

Example:
  dumpmigrate validate --config dumpmigrate.yaml`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateSkipConnect, "skip-connect", false,
		"Check the configuration only, without connecting")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}

	cmd.Printf("\n=== Configuration Validation ===\n")
	cmd.Printf("Config file: %s\n", configFile)
	cmd.Printf("Input: %s (schema %s, escape %s)\n", cfg.Input.Path, cfg.Input.Schema, cfg.Input.Escape)
	cmd.Printf("Output: %s\n", cfg.Output.Path)

	entities, err := selectedEntities(cfg)
	if err != nil {
		return err
	}
	cmd.Printf("Entities: %d\n", len(entities))

	if !cfg.HasDestination() {
		cmd.Printf("Destination: not configured (parse only)\n\n")
		cmd.Println("=== Validation Complete ===")
		return nil
	}

	if err := cfg.ValidateDestination(); err != nil {
		return err
	}
	cmd.Printf("Destination: %s %s:%d/%s\n", cfg.Destination.Driver,
		cfg.Destination.Host, cfg.Destination.Port, cfg.Destination.Database)

	if validateSkipConnect {
		cmd.Printf("Connectivity: skipped\n\n")
		cmd.Println("=== Validation Complete ===")
		return nil
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	dbManager := database.NewManager(&cfg.Destination)
	ctx := context.Background()

	if err := dbManager.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to destination: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.Ping(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	log.Infow("Destination reachable", "driver", cfg.Destination.Driver, "database", cfg.Destination.Database)

	cmd.Printf("Connectivity: ok\n\n")
	cmd.Println("=== Validation Complete ===")
	return nil
}
