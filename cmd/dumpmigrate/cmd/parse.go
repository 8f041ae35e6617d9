package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	parseStdout bool
	parseQuiet  bool
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a dump into the JSON handoff file",
	Long: `Parse scans the dump file line by line, recovers the records of the
nine known entities and writes them as one JSON object.

Statements for unknown tables, statements without a value tuple and
statements left open at end of input are counted and skipped. A tuple that
cannot be coerced is logged at warn level and skipped on its own.

A config file is optional; without one the defaults are used.

Example:
  dumpmigrate parse --input restore_utf8.sql --output migration_data.json`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseStdout, "stdout", false,
		"Write the JSON to standard output instead of the output file")
	parseCmd.Flags().BoolVarP(&parseQuiet, "quiet", "q", false,
		"Do not print the summary")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Infow("Starting parse", "input", cfg.Input.Path, "schema", cfg.Input.Schema)

	scanner, err := newScanner(cfg, log)
	if err != nil {
		return err
	}
	result, err := scanner.ParseFile(cfg.Input.Path)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	if parseStdout {
		// summary goes to stderr so stdout stays valid JSON
		if err := result.WriteJSON(cmd.OutOrStdout(), cfg.Output.Indent); err != nil {
			return fmt.Errorf("failed to write JSON: %w", err)
		}
		if !parseQuiet {
			newPrinter(cmd.ErrOrStderr()).Parse(cfg.Input.Path, result)
		}
		return nil
	}

	if err := result.WriteFile(cfg.Output.Path, cfg.Output.Indent); err != nil {
		return err
	}
	log.Infow("Wrote handoff file", "output", cfg.Output.Path, "records", result.Total())

	if !parseQuiet {
		newPrinter(cmd.OutOrStdout()).Parse(cfg.Input.Path, result)
		cmd.Printf("\nWrote %s\n", cfg.Output.Path)
	}
	return nil
}
