package sync

import (
	"context"
	"fmt"
	"sort"
	gosync "sync"
	"time"

	"github.com/adilezz/botbourse/internal/contracts"
	"github.com/adilezz/botbourse/pkg/config"
	"github.com/adilezz/botbourse/pkg/logger"
)

// Orchestrator runs one incremental sync: refresh the instrument registry,
// compute the delta window, fetch histories concurrently and store them.
//
// Fetching is fanned out over a bounded worker pool, but every database
// write happens on a single goroutine draining the result channel. Workers
// never touch the store.
type Orchestrator struct {
	source          contracts.InstrumentSource
	market          contracts.MarketDataSource
	instrumentStore contracts.InstrumentStore
	quoteStore      contracts.QuoteStore
	logger          *logger.Logger

	workers       int
	bootstrapDays int
	symbolLength  int
	blacklist     map[string]bool
}

// Result summarizes one sync run.
type Result struct {
	Window        Window
	RowsInserted  int
	SymbolsOK     int
	SymbolsFailed int
	FailedSymbols []string
}

func NewOrchestrator(
	cfg config.SyncConfig,
	source contracts.InstrumentSource,
	market contracts.MarketDataSource,
	instrumentStore contracts.InstrumentStore,
	quoteStore contracts.QuoteStore,
	log *logger.Logger,
) *Orchestrator {
	blacklist := make(map[string]bool, len(cfg.Blacklist))
	for _, s := range cfg.Blacklist {
		blacklist[s] = true
	}

	return &Orchestrator{
		source:          source,
		market:          market,
		instrumentStore: instrumentStore,
		quoteStore:      quoteStore,
		logger:          log,
		workers:         cfg.Workers,
		bootstrapDays:   cfg.BootstrapDays,
		symbolLength:    cfg.SymbolLength,
		blacklist:       blacklist,
	}
}

// fetchResult carries one instrument's fetched history to the writer.
type fetchResult struct {
	symbol string
	quotes []contracts.Quote
	err    error
}

// Run executes a full sync as of today. Per-instrument fetch failures are
// contained and counted; only an unavailable instrument list or a store
// failure aborts the run.
func (o *Orchestrator) Run(ctx context.Context, today time.Time) (*Result, error) {
	listings, err := o.source.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available instruments: %w", err)
	}

	symbols := o.filterListings(listings)
	o.logger.WithFields(map[string]interface{}{
		"listed":   len(listings),
		"eligible": len(symbols),
	}).Info("Instrument list refreshed")

	for _, l := range symbols {
		if err := o.instrumentStore.Upsert(ctx, l.Symbol, l.Name); err != nil {
			return nil, fmt.Errorf("upsert instrument %s: %w", l.Symbol, err)
		}
	}

	window, err := ComputeWindow(ctx, o.quoteStore, today, o.bootstrapDays)
	if err != nil {
		return nil, fmt.Errorf("compute sync window: %w", err)
	}

	result := &Result{Window: window}
	if window.Empty() {
		o.logger.Info("Store already current, nothing to sync")
		return result, nil
	}

	o.logger.WithFields(map[string]interface{}{
		"from":    window.From.Format("2006-01-02"),
		"to":      window.To.Format("2006-01-02"),
		"days":    window.Days(),
		"workers": o.workers,
	}).Info("Sync window computed")

	if err := o.fetchAndStore(ctx, symbols, window, result); err != nil {
		return nil, err
	}

	sort.Strings(result.FailedSymbols)
	o.logger.WithFields(map[string]interface{}{
		"rows_inserted":  result.RowsInserted,
		"symbols_ok":     result.SymbolsOK,
		"symbols_failed": result.SymbolsFailed,
	}).Info("Sync run complete")
	return result, nil
}

// filterListings drops symbols with the wrong ticker length and
// blacklisted instruments before they ever reach the registry.
func (o *Orchestrator) filterListings(listings []contracts.Listing) []contracts.Listing {
	var eligible []contracts.Listing
	for _, l := range listings {
		if o.symbolLength > 0 && len(l.Symbol) != o.symbolLength {
			continue
		}
		if o.blacklist[l.Symbol] {
			continue
		}
		eligible = append(eligible, l)
	}
	return eligible
}

// fetchAndStore fans fetches out to the worker pool and serializes all
// inserts on the current goroutine.
func (o *Orchestrator) fetchAndStore(ctx context.Context, symbols []contracts.Listing, window Window, result *Result) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	symbolCh := make(chan string)
	resultCh := make(chan fetchResult)

	var wg gosync.WaitGroup
	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range symbolCh {
				quotes, err := o.market.FetchHistory(ctx, symbol, window.From, window.To)
				select {
				case resultCh <- fetchResult{symbol: symbol, quotes: quotes, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(symbolCh)
		for _, l := range symbols {
			select {
			case symbolCh <- l.Symbol:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// single writer: this loop is the only place quotes are inserted
	for res := range resultCh {
		if res.err != nil {
			result.SymbolsFailed++
			result.FailedSymbols = append(result.FailedSymbols, res.symbol)
			o.logger.WithField("symbol", res.symbol).WithError(res.err).Warn("History fetch failed")
			continue
		}

		for _, q := range res.quotes {
			inserted, err := o.quoteStore.InsertIfAbsent(ctx, q)
			if err != nil {
				cancel()
				for range resultCh {
					// drain so workers can exit
				}
				return fmt.Errorf("store quote %s@%s: %w",
					q.Symbol, q.Date.Format("2006-01-02"), err)
			}
			if inserted {
				result.RowsInserted++
			}
		}
		result.SymbolsOK++
	}

	return ctx.Err()
}
