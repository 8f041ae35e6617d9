package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/dumpmigrate/internal/config"
	"github.com/dbsmedya/dumpmigrate/internal/database"
	"github.com/dbsmedya/dumpmigrate/internal/dump"
	"github.com/dbsmedya/dumpmigrate/internal/logger"
	"github.com/dbsmedya/dumpmigrate/internal/verifier"
)

var (
	checkAgainst string
	checkDump    bool
	checkMethod  string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compare destination tables with parsed records",
	Long: `Check reads the destination tables of the selected entities and
compares them with a set of records.

Sources of the expected records:
  --against <file>   a JSON handoff file
  --dump             a fresh scan of the input dump
  (neither)          row counts only, every table passes

Example:
  dumpmigrate check --config dumpmigrate.yaml --against migration_data.json --method sha256`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkAgainst, "against", "",
		"JSON handoff file holding the expected records")
	checkCmd.Flags().BoolVar(&checkDump, "dump", false,
		"Scan the input dump for the expected records")
	checkCmd.Flags().StringVar(&checkMethod, "method", string(verifier.MethodCount),
		"Verification method (count, sha256)")

	rootCmd.AddCommand(checkCmd)
}

// expectedRecords picks the source of the records a check compares with.
// A nil result means counts only.
func expectedRecords(cfg *config.Config, log *logger.Logger) (*dump.Result, error) {
	if checkAgainst != "" && checkDump {
		return nil, fmt.Errorf("--against and --dump are mutually exclusive")
	}
	if checkAgainst == "" && !checkDump {
		return nil, nil
	}
	result, _, err := loadResult(cfg, log, checkAgainst)
	return result, err
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	if err := cfg.ValidateDestination(); err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	entities, err := selectedEntities(cfg)
	if err != nil {
		return err
	}

	expected, err := expectedRecords(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := database.SetupSignalHandler(context.Background(), nil)
	defer stop()

	dbManager := database.NewManager(&cfg.Destination)
	if err := dbManager.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to destination: %w", err)
	}
	defer dbManager.Close()

	v, err := verifier.NewVerifier(dbManager.DB, dbManager.Dialect(),
		verifier.VerificationMethod(checkMethod), log)
	if err != nil {
		return err
	}

	stats, err := v.Verify(ctx, entities, expected)
	if stats != nil {
		newPrinter(cmd.OutOrStdout()).Verify(stats)
	}
	return err
}
