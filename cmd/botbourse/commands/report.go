package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adilezz/botbourse/internal/report"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report SYMBOL",
	Short: "Rapport investisseur détaillé pour un instrument",
	Long: `Affiche le rapport investisseur d'un instrument : tendance,
volatilité, niveau de risque et rendement annualisé.

Example:
  go run ./cmd/botbourse report IAM`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	app, closeApp, err := newApp()
	if err != nil {
		return err
	}
	defer closeApp()

	ctx := cmd.Context()
	symbol := strings.ToUpper(args[0])

	series, err := app.quotes.SeriesFor(ctx, symbol, 0)
	if err != nil {
		return fmt.Errorf("load series for %s: %w", symbol, err)
	}
	snap := app.engine.Snapshot(symbol, series)

	name := symbol
	if instruments, err := app.instruments.ListActive(ctx); err == nil {
		for _, inst := range instruments {
			if inst.Symbol == symbol {
				name = inst.Name
				break
			}
		}
	}

	fmt.Println(report.NewFormatter().FormatInvestorReport(name, snap))
	return nil
}
