package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "botbourse",
	Short: "BotBourse - assistant d'investissement pour la Bourse de Casablanca",
	Long: `BotBourse Unified CLI

Pipeline quotidien pour la Bourse de Casablanca : synchronisation des
cours, calcul d'indicateurs, scoring des opportunités et envoi du
rapport Telegram.

Usage:
  go run ./cmd/botbourse [command]

Examples:
  go run ./cmd/botbourse migrate --seed
  go run ./cmd/botbourse sync
  go run ./cmd/botbourse analyze --send
  go run ./cmd/botbourse scheduler
  go run ./cmd/botbourse api`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy file (default from STRATEGY_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
