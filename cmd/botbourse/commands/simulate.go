package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adilezz/botbourse/internal/report"
)

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate MONTANT SYMBOL",
	Short: "Simule un achat-conservation sur l'historique stocké",
	Long: `Répond à "et si j'avais investi ce montant au début de
l'historique" : achat en actions entières au premier cours de clôture,
valorisation au dernier cours, reliquat conservé en cash.

Example:
  go run ./cmd/botbourse simulate 10000 IAM`,
	Args: cobra.ExactArgs(2),
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil || amount <= 0 {
		return fmt.Errorf("montant invalide: %q", args[0])
	}
	symbol := strings.ToUpper(args[1])

	app, closeApp, err := newApp()
	if err != nil {
		return err
	}
	defer closeApp()

	ctx := cmd.Context()

	series, err := app.quotes.SeriesFor(ctx, symbol, 0)
	if err != nil {
		return fmt.Errorf("load series for %s: %w", symbol, err)
	}

	name := symbol
	if instruments, err := app.instruments.ListActive(ctx); err == nil {
		for _, inst := range instruments {
			if inst.Symbol == symbol {
				name = inst.Name
				break
			}
		}
	}

	sim, err := report.Simulate(amount, name, series)
	if err != nil {
		return fmt.Errorf("simulate %s: %w", symbol, err)
	}
	fmt.Println(report.NewFormatter().FormatSimulation(sim))
	return nil
}
