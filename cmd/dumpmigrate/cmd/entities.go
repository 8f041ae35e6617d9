package cmd

import (
	"github.com/spf13/cobra"
)

var entitiesCmd = &cobra.Command{
	Use:   "entities",
	Short: "List the entities recognized in a dump",
	Long: `Entities lists the nine record collections with the dump table that
feeds each one, the destination table it is imported into and the number
of values its tuples must carry.

Example:
  dumpmigrate entities --config dumpmigrate.yaml`,
	RunE: runEntities,
}

func init() {
	rootCmd.AddCommand(entitiesCmd)
}

func runEntities(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	cmd.Printf("Entities (schema %s):\n\n", cfg.Input.Schema)
	newPrinter(cmd.OutOrStdout()).Entities(cfg.Input.Schema)
	return nil
}
