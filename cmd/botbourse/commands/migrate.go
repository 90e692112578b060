package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adilezz/botbourse/internal/data"
)

var migrateSeed bool

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Crée le schéma de la base de données",
	Long: `Applique le schéma (instruments, cours, dividendes, transactions,
runs). Idempotent : chaque exécution laisse la base dans le même état.
Avec --seed les dividendes connus sont insérés.

Example:
  go run ./cmd/botbourse migrate --seed`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "insérer les dividendes connus après la migration")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	app, closeApp, err := newApp()
	if err != nil {
		return err
	}
	defer closeApp()

	ctx := cmd.Context()

	if err := data.Migrate(ctx, app.db.Pool, app.log); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	PrintSuccess("Schéma à jour")

	if migrateSeed {
		if err := data.SeedDividends(ctx, app.db.Pool, app.log); err != nil {
			return fmt.Errorf("seed dividends: %w", err)
		}
		PrintSuccess("Dividendes connus insérés")
	}
	return nil
}
