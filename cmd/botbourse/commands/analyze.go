package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/adilezz/botbourse/internal/report"
)

var analyzeSend bool

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score le marché et affiche le rapport du jour",
	Long: `Calcule les indicateurs sur l'historique stocké, score chaque
instrument selon la stratégie configurée et affiche le rapport. Avec
--send le rapport est aussi envoyé sur Telegram.

Example:
  go run ./cmd/botbourse analyze --send`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeSend, "send", false, "envoyer le rapport via le notifier configuré")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	app, closeApp, err := newApp()
	if err != nil {
		return err
	}
	defer closeApp()

	ctx := cmd.Context()

	run, err := app.runner.Analyze(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	text := report.NewFormatter().FormatRun(*run)
	PrintDoubleSeparator()
	fmt.Println(text)
	PrintDoubleSeparator()
	fmt.Printf("  %d opportunité(s), %d alerte(s)\n", len(run.Opportunities), len(run.Risks))

	if analyzeSend {
		if err := app.notifier.Send(ctx, text); err != nil {
			return fmt.Errorf("send report: %w", err)
		}
		PrintSuccess("Rapport envoyé")
	}
	return nil
}
