package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adilezz/botbourse/internal/data"
)

var statusLimit int

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "État de la base et derniers runs du pipeline",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&statusLimit, "limit", 5, "nombre de runs à afficher")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	app, closeApp, err := newApp()
	if err != nil {
		return err
	}
	defer closeApp()

	ctx := cmd.Context()

	health, _ := app.db.HealthCheck(ctx)
	PrintDoubleSeparator()
	if health.Healthy {
		PrintSuccess(fmt.Sprintf("Base de données OK (%s)", health.ResponseTime))
	} else {
		PrintError(fmt.Sprintf("Base de données indisponible: %s", health.Error))
	}
	PrintKeyValue("Connexions", fmt.Sprintf("%d/%d", health.Stats.TotalConns, health.Stats.MaxConns), 11)
	PrintSeparator()

	runs, err := app.runs.Latest(ctx, statusLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("  Aucun run enregistré.")
		return nil
	}
	for _, run := range runs {
		fmt.Printf("  #%-4d %s  %s\n", run.ID, run.StartedAt.Format("2006-01-02 15:04"), statusEmoji(run.Status))
		if run.WindowFrom != nil && run.WindowTo != nil {
			PrintKeyValue("Fenêtre", fmt.Sprintf("%s → %s",
				run.WindowFrom.Format("2006-01-02"), run.WindowTo.Format("2006-01-02")), 11)
		}
		PrintKeyValue("Lignes", fmt.Sprintf("%d", run.RowsInserted), 11)
		PrintKeyValue("Instruments", fmt.Sprintf("%d ok, %d en échec", run.SymbolsOK, run.SymbolsFailed), 11)
		if run.Error != "" {
			PrintKeyValue("Erreur", run.Error, 11)
		}
		PrintSeparator()
	}
	return nil
}

func statusEmoji(status string) string {
	switch status {
	case data.RunStatusSuccess:
		return "✅ " + status
	case data.RunStatusFailed:
		return "❌ " + status
	default:
		return "⏳ " + status
	}
}
