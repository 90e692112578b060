package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/adilezz/botbourse/internal/data"
	"github.com/adilezz/botbourse/internal/sync"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise les cours depuis la Bourse de Casablanca",
	Long: `Met à jour la liste des instruments puis récupère les séances
manquantes depuis la dernière date stockée (fenêtre delta).

Example:
  go run ./cmd/botbourse sync`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	app, closeApp, err := newApp()
	if err != nil {
		return err
	}
	defer closeApp()

	ctx := cmd.Context()
	start := time.Now()

	result, err := app.orchestrator.Run(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	recordSyncRun(ctx, app, result)

	PrintSeparator()
	fmt.Println("📊 Synchronisation terminée")
	PrintSeparator()
	if result.Window.Empty() {
		fmt.Println("  Base déjà à jour, rien à récupérer.")
	} else {
		fmt.Printf("  Fenêtre    : %s → %s\n",
			result.Window.From.Format("2006-01-02"), result.Window.To.Format("2006-01-02"))
	}
	fmt.Printf("  Lignes     : %d\n", result.RowsInserted)
	fmt.Printf("  Instruments: %d ok, %d en échec\n", result.SymbolsOK, result.SymbolsFailed)
	for _, s := range result.FailedSymbols {
		fmt.Printf("    ⚠️ %s\n", s)
	}
	fmt.Printf("  Durée      : %.1fs\n", time.Since(start).Seconds())
	return nil
}

// recordSyncRun persists the run for the status command; bookkeeping
// failures are logged, never fatal.
func recordSyncRun(ctx context.Context, app *app, result *sync.Result) {
	id, err := app.runs.Start(ctx, result.Window.From, result.Window.To)
	if err != nil {
		app.log.WithError(err).Warn("Run record could not be opened")
		return
	}
	err = app.runs.Finish(ctx, id, data.PipelineRun{
		RowsInserted:  result.RowsInserted,
		SymbolsOK:     result.SymbolsOK,
		SymbolsFailed: result.SymbolsFailed,
		Status:        data.RunStatusSuccess,
	})
	if err != nil {
		app.log.WithError(err).Warn("Run record could not be closed")
	}
}
