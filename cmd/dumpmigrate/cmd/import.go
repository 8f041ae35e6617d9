package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/dumpmigrate/internal/database"
	"github.com/dbsmedya/dumpmigrate/internal/importer"
	"github.com/dbsmedya/dumpmigrate/internal/lock"
	"github.com/dbsmedya/dumpmigrate/internal/verifier"
)

var (
	importFromJSON     string
	importVerify       bool
	importVerifyMethod string
	importForce        bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import parsed records into the destination database",
	Long: `Import loads the records of a dump into the destination database.

The import process follows these steps:
  1. Parse the dump, or read a JSON handoff file (--from-json)
  2. Acquire the advisory import lock for the destination database
  3. Delete the selected tables child-first inside one transaction
  4. Insert the records parent-first and commit
  5. Optionally verify the destination against the records (--verify)

Any error, or an interrupt, rolls the transaction back and leaves the
destination as it was.

Example:
  dumpmigrate import --config dumpmigrate.yaml --from-json migration_data.json --verify`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importFromJSON, "from-json", "",
		"Import a JSON handoff file instead of parsing the dump")
	importCmd.Flags().BoolVar(&importVerify, "verify", false,
		"Verify the destination after the import")
	importCmd.Flags().StringVar(&importVerifyMethod, "verify-method", string(verifier.MethodCount),
		"Verification method (count, sha256)")
	importCmd.Flags().BoolVar(&importForce, "force", false,
		"Skip the advisory import lock (use with caution)")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	if err := cfg.ValidateDestination(); err != nil {
		return err
	}
	method := verifier.VerificationMethod(importVerifyMethod)
	if importVerify && method != verifier.MethodCount && method != verifier.MethodSHA256 {
		return fmt.Errorf("unsupported verification method: %s", method)
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

	result, source, err := loadResult(cfg, log, importFromJSON)
	if err != nil {
		return err
	}
	log.Infow("Loaded records", "source", source, "records", result.Total())

	// Setup context with signal handling
	ctx, stop := database.SetupSignalHandler(context.Background(), func(sig os.Signal) {
		log.Warnw("Received shutdown signal - rolling back import", "signal", sig.String())
	})
	defer stop()

	dbManager := database.NewManager(&cfg.Destination)
	if err := dbManager.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to destination: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.Ping(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	imp, err := importer.New(dbManager.DB, dbManager.Dialect(), importer.Options{
		Entities:                entities,
		DisableForeignKeyChecks: cfg.Import.DisableForeignKeyChecks,
	}, log)
	if err != nil {
		return err
	}

	var stats *importer.Stats
	run := func() error {
		var err error
		stats, err = imp.Import(ctx, result)
		return err
	}

	if cfg.Import.UseLock && !importForce {
		importLock := lock.NewImportLock(dbManager.DB, dbManager.Dialect(), cfg.Destination.Database)
		log.Infow("Acquiring advisory lock", "lock", importLock.LockName(), "timeout", cfg.Import.LockTimeout)
		err = importLock.WithLock(ctx, cfg.Import.LockTimeout, run)
	} else {
		log.Warnw("Skipping advisory lock acquisition", "database", cfg.Destination.Database)
		err = run()
	}

	if err != nil {
		switch {
		case errors.Is(err, lock.ErrLockTimeout):
			return fmt.Errorf("another import into %q is running (use --force to override): %w",
				cfg.Destination.Database, err)
		case errors.Is(err, context.Canceled):
			log.Warn("Import cancelled by user, destination rolled back")
			return err
		default:
			return fmt.Errorf("import failed: %w", err)
		}
	}

	printer := newPrinter(cmd.OutOrStdout())
	printer.Import(stats)

	if !importVerify {
		return nil
	}

	v, err := verifier.NewVerifier(dbManager.DB, dbManager.Dialect(), method, log)
	if err != nil {
		return err
	}

	cmd.Println()
	verifyStats, err := v.Verify(ctx, stats.Entities, result)
	if verifyStats != nil {
		printer.Verify(verifyStats)
	}
	return err
}
