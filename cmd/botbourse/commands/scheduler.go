package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adilezz/botbourse/internal/scheduler"
)

var schedulerCron string

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Lance le pipeline quotidien en mode planifié",
	Long: `Démarre le planificateur et exécute le pipeline complet
(synchronisation, scoring, rapport) après la clôture de chaque séance.
Reste en avant-plan jusqu'à SIGINT/SIGTERM.

Example:
  go run ./cmd/botbourse scheduler --cron "30 18 * * 1-5"`,
	RunE: runScheduler,
}

func init() {
	schedulerCmd.Flags().StringVar(&schedulerCron, "cron", "", "expression cron du job (défaut: 30 18 * * 1-5)")
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	app, closeApp, err := newApp()
	if err != nil {
		return err
	}
	defer closeApp()

	sched := scheduler.New(app.log)
	job := scheduler.NewMarketPipelineJob(app.runner, schedulerCron)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("register job: %w", err)
	}

	sched.Start()
	PrintSuccess(fmt.Sprintf("Planificateur démarré (%s: %s)", job.Name(), job.Schedule()))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println()
	app.log.Info("Shutting down scheduler")
	sched.Stop()
	return nil
}
