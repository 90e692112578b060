package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/adilezz/botbourse/internal/analysis"
	"github.com/adilezz/botbourse/internal/contracts"
	"github.com/adilezz/botbourse/internal/data"
	"github.com/adilezz/botbourse/internal/report"
	"github.com/adilezz/botbourse/internal/selection"
	"github.com/adilezz/botbourse/internal/strategy"
	"github.com/adilezz/botbourse/internal/sync"
	"github.com/adilezz/botbourse/pkg/logger"
)

// Syncer runs one market-data sync. Satisfied by sync.Orchestrator.
type Syncer interface {
	Run(ctx context.Context, today time.Time) (*sync.Result, error)
}

// DividendSource provides the latest known payout per symbol.
type DividendSource interface {
	LastDividends(ctx context.Context) (map[string]float64, error)
}

// RunRecorder persists run bookkeeping. Satisfied by data.RunRepository.
type RunRecorder interface {
	Start(ctx context.Context, from, to time.Time) (int64, error)
	Finish(ctx context.Context, id int64, run data.PipelineRun) error
}

// Runner executes the full daily pipeline: sync, analyze, score, report,
// notify. One Run call is one complete cycle; the runner itself holds no
// state between cycles.
type Runner struct {
	strategy    *strategy.Config
	syncer      Syncer
	instruments contracts.InstrumentStore
	quotes      contracts.QuoteStore
	dividends   DividendSource
	exposure    contracts.ExposureSource
	engine      *analysis.Engine
	screener    *selection.Screener
	scorer      *selection.Scorer
	formatter   *report.Formatter
	notifier    contracts.Notifier
	recorder    RunRecorder
	logger      *logger.Logger
}

type Deps struct {
	Strategy    *strategy.Config
	Syncer      Syncer
	Instruments contracts.InstrumentStore
	Quotes      contracts.QuoteStore
	Dividends   DividendSource
	Exposure    contracts.ExposureSource
	Notifier    contracts.Notifier
	Recorder    RunRecorder
	Logger      *logger.Logger
}

func NewRunner(d Deps) *Runner {
	return &Runner{
		strategy:    d.Strategy,
		syncer:      d.Syncer,
		instruments: d.Instruments,
		quotes:      d.Quotes,
		dividends:   d.Dividends,
		exposure:    d.Exposure,
		engine:      analysis.NewEngine(d.Strategy.Analysis, d.Logger),
		screener:    selection.NewScreener(d.Strategy, d.Logger),
		scorer:      selection.NewScorer(d.Strategy.Scoring, d.Logger),
		formatter:   report.NewFormatter(),
		notifier:    d.Notifier,
		recorder:    d.Recorder,
		logger:      d.Logger,
	}
}

// Run executes one full cycle as of today. A sync failure aborts the
// cycle, produces no partial report and notifies the operator channel.
func (r *Runner) Run(ctx context.Context, today time.Time) (*contracts.RunReport, error) {
	syncResult, err := r.syncer.Run(ctx, today)
	if err != nil {
		r.notifyFailure(ctx, err)
		return nil, fmt.Errorf("sync: %w", err)
	}

	runID := r.recordStart(ctx, syncResult)

	run, err := r.Analyze(ctx, today)
	if err != nil {
		r.recordFinish(ctx, runID, syncResult, data.RunStatusFailed, err)
		r.notifyFailure(ctx, err)
		return nil, err
	}
	run.RowsInserted = syncResult.RowsInserted

	if err := r.deliver(ctx, run); err != nil {
		r.recordFinish(ctx, runID, syncResult, data.RunStatusFailed, err)
		return nil, err
	}

	r.recordFinish(ctx, runID, syncResult, data.RunStatusSuccess, nil)
	return run, nil
}

// Analyze scores the market as of today without syncing or notifying.
// Used by Run and directly by the analyze CLI command and the API.
func (r *Runner) Analyze(ctx context.Context, today time.Time) (*contracts.RunReport, error) {
	instruments, err := r.instruments.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active instruments: %w", err)
	}

	dividends, err := r.dividends.LastDividends(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dividends: %w", err)
	}

	var portfolioValue float64
	bySymbol := map[string]float64{}
	if r.exposure != nil {
		portfolioValue, bySymbol, err = r.exposure.Exposure(ctx)
		if err != nil {
			return nil, fmt.Errorf("compute portfolio exposure: %w", err)
		}
	}
	// the monthly contribution counts as immediately investable cash
	projectedTotal := portfolioValue + r.strategy.Report.MonthlyBudget

	names := make(map[string]string, len(instruments))
	var snapshots []*contracts.IndicatorSnapshot
	for _, ins := range instruments {
		names[ins.Symbol] = ins.Name

		series, err := r.quotes.SeriesFor(ctx, ins.Symbol, 0)
		if err != nil {
			return nil, fmt.Errorf("load series for %s: %w", ins.Symbol, err)
		}
		if snap := r.engine.Snapshot(ins.Symbol, series); snap != nil {
			snapshots = append(snapshots, snap)
		}
	}

	screened := r.screener.Screen(snapshots)

	var scored []contracts.Opportunity
	for _, snap := range screened.Candidates {
		exposureFrac := 0.0
		if projectedTotal > 0 {
			exposureFrac = bySymbol[snap.Symbol] / projectedTotal
		}
		scored = append(scored, r.scorer.Score(selection.ScoreInput{
			Snapshot: snap,
			Name:     names[snap.Symbol],
			Dividend: dividends[snap.Symbol],
			Exposure: exposureFrac,
		}))
	}

	ranked := selection.Rank(scored, *r.strategy)
	risks := selection.Risks(snapshots, names, r.strategy.Risk)
	allocations := selection.Allocate(r.strategy.Report.MonthlyBudget, ranked, r.strategy.Report.AllocationSplit)

	r.logger.WithFields(map[string]interface{}{
		"instruments":   len(instruments),
		"candidates":    len(screened.Candidates),
		"opportunities": len(ranked),
		"risks":         len(risks),
	}).Info("Market analysis complete")

	return &contracts.RunReport{
		Date:           today,
		Kind:           contracts.KindForDate(today),
		Opportunities:  ranked,
		Allocations:    allocations,
		Risks:          risks,
		Budget:         r.strategy.Report.MonthlyBudget,
		PortfolioValue: portfolioValue,
	}, nil
}

// deliver sends the report unless it is an empty daily one: a quiet day
// produces no message, weekly and monthly recaps always go out.
func (r *Runner) deliver(ctx context.Context, run *contracts.RunReport) error {
	if run.Kind == contracts.ReportDaily && len(run.Opportunities) == 0 && len(run.Risks) == 0 {
		r.logger.Info("Quiet day, no report sent")
		return nil
	}

	if err := r.notifier.Send(ctx, r.formatter.FormatRun(*run)); err != nil {
		return fmt.Errorf("deliver report: %w", err)
	}
	return nil
}

func (r *Runner) notifyFailure(ctx context.Context, cause error) {
	if err := r.notifier.Send(ctx, r.formatter.FormatSyncFailure(cause)); err != nil {
		r.logger.WithError(err).Error("Failure notification could not be delivered")
	}
}

func (r *Runner) recordStart(ctx context.Context, res *sync.Result) int64 {
	if r.recorder == nil {
		return 0
	}
	id, err := r.recorder.Start(ctx, res.Window.From, res.Window.To)
	if err != nil {
		r.logger.WithError(err).Warn("Run record could not be opened")
		return 0
	}
	return id
}

func (r *Runner) recordFinish(ctx context.Context, id int64, res *sync.Result, status string, cause error) {
	if r.recorder == nil || id == 0 {
		return
	}

	record := data.PipelineRun{
		RowsInserted:  res.RowsInserted,
		SymbolsOK:     res.SymbolsOK,
		SymbolsFailed: res.SymbolsFailed,
		Status:        status,
	}
	if cause != nil {
		record.Error = cause.Error()
	}
	if err := r.recorder.Finish(ctx, id, record); err != nil {
		r.logger.WithError(err).Warn("Run record could not be closed")
	}
}
