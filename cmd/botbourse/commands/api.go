package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/adilezz/botbourse/internal/api"
	"github.com/adilezz/botbourse/internal/api/handlers"
	"github.com/adilezz/botbourse/internal/contracts"
	"github.com/adilezz/botbourse/internal/pipeline"
	"github.com/adilezz/botbourse/internal/scheduler"
)

var (
	apiPort     string
	apiSchedule string
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Démarre le serveur API REST",
	Long: `Démarre le serveur HTTP et le planificateur du pipeline. Les
rapports de runs sont diffusés en direct sur /ws/runs.

Endpoints:
  GET  /health                              - Health check
  GET  /api/status                          - Derniers runs
  GET  /api/opportunities                   - Scoring à la demande
  GET  /api/instruments                     - Liste des instruments
  GET  /api/instruments/{symbol}/series     - Historique de cours
  GET  /api/instruments/{symbol}/report     - Rapport investisseur
  POST /api/sync                            - Déclenche une synchronisation
  GET  /ws/runs                             - Flux websocket des runs

Example:
  go run ./cmd/botbourse api --port 8080`,
	RunE: runAPIServer,
}

func init() {
	apiCmd.Flags().StringVar(&apiPort, "port", "", "port du serveur (défaut: PORT)")
	apiCmd.Flags().StringVar(&apiSchedule, "schedule", "", "expression cron du pipeline (défaut: 30 18 * * 1-5)")
	rootCmd.AddCommand(apiCmd)
}

// publishingRunner runs the pipeline and fans the resulting report out to
// websocket subscribers.
type publishingRunner struct {
	runner *pipeline.Runner
	stream *api.RunStream
}

func (p *publishingRunner) Run(ctx context.Context, today time.Time) (*contracts.RunReport, error) {
	run, err := p.runner.Run(ctx, today)
	if err != nil {
		return nil, err
	}
	p.stream.Publish(*run)
	return run, nil
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	app, closeApp, err := newApp()
	if err != nil {
		return err
	}
	defer closeApp()

	if apiPort != "" {
		app.cfg.Port = apiPort
	}

	stream := api.NewRunStream(app.log)
	market := handlers.NewMarketHandler(
		app.db, app.instruments, app.quotes, app.engine,
		app.runner, app.orchestrator, app.runs, app.log)
	router := api.NewRouter(market, stream, app.log)
	server := api.New(app.cfg, app.log, router)

	sched := scheduler.New(app.log)
	job := scheduler.NewMarketPipelineJob(&publishingRunner{runner: app.runner, stream: stream}, apiSchedule)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("register job: %w", err)
	}
	sched.Start()

	go func() {
		if err := server.Start(); err != nil {
			app.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", app.cfg.Port)
	fmt.Printf("   Pipeline planifié: %s\n", job.Schedule())
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	app.log.Info("Shutting down server...")
	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.log.Info("Server stopped")
	return nil
}
