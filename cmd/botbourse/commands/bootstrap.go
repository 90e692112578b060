package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/adilezz/botbourse/internal/analysis"
	"github.com/adilezz/botbourse/internal/contracts"
	"github.com/adilezz/botbourse/internal/data"
	"github.com/adilezz/botbourse/internal/external/casablanca"
	"github.com/adilezz/botbourse/internal/notify"
	"github.com/adilezz/botbourse/internal/pipeline"
	"github.com/adilezz/botbourse/internal/strategy"
	"github.com/adilezz/botbourse/internal/sync"
	"github.com/adilezz/botbourse/pkg/config"
	"github.com/adilezz/botbourse/pkg/database"
	"github.com/adilezz/botbourse/pkg/httputil"
	"github.com/adilezz/botbourse/pkg/logger"
)

// app bundles every wired component a command may need. Built once per
// command invocation; close() releases the database pool.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB
	strategy *strategy.Config

	instruments *data.InstrumentRepository
	quotes      *data.QuoteRepository
	dividends   *data.DividendRepository
	portfolio   *data.PortfolioRepository
	runs        *data.RunRepository

	exchange     *casablanca.Client
	orchestrator *sync.Orchestrator
	engine       *analysis.Engine
	notifier     contracts.Notifier
	runner       *pipeline.Runner
}

func newApp() (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if strategyFile != "" {
		cfg.StrategyFile = strategyFile
	}

	log := logger.New(cfg)

	strat, err := loadStrategy(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		strategy: strat,

		instruments: data.NewInstrumentRepository(db.Pool),
		quotes:      data.NewQuoteRepository(db.Pool),
		dividends:   data.NewDividendRepository(db.Pool),
		runs:        data.NewRunRepository(db.Pool),
	}
	a.portfolio = data.NewPortfolioRepository(db.Pool, a.quotes)
	a.exchange = casablanca.NewClient(cfg, log)
	a.engine = analysis.NewEngine(strat.Analysis, log)
	a.notifier = notify.NewFromConfig(cfg, httputil.New(log), log)

	a.orchestrator = sync.NewOrchestrator(cfg.Sync,
		a.exchange, a.exchange, a.instruments, a.quotes, log)

	a.runner = pipeline.NewRunner(pipeline.Deps{
		Strategy:    strat,
		Syncer:      a.orchestrator,
		Instruments: a.instruments,
		Quotes:      a.quotes,
		Dividends:   a.dividends,
		Exposure:    a.portfolio,
		Notifier:    a.notifier,
		Recorder:    a.runs,
		Logger:      log,
	})

	return a, db.Close, nil
}

// loadStrategy reads the configured strategy file, falling back to the
// built-in defaults when no file is present.
func loadStrategy(cfg *config.Config, log *logger.Logger) (*strategy.Config, error) {
	strat, _, err := strategy.Load(cfg.StrategyFile)
	if err == nil {
		log.WithField("strategy", strat.Meta.StrategyID).Info("Strategy loaded")
		return strat, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		log.WithField("file", cfg.StrategyFile).Warn("Strategy file not found, using defaults")
		return strategy.Default(), nil
	}
	return nil, fmt.Errorf("load strategy: %w", err)
}
