package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/adilezz/botbourse/internal/analysis"
	"github.com/adilezz/botbourse/internal/contracts"
	"github.com/adilezz/botbourse/internal/data"
	"github.com/adilezz/botbourse/internal/report"
	"github.com/adilezz/botbourse/internal/sync"
	"github.com/adilezz/botbourse/pkg/database"
	"github.com/adilezz/botbourse/pkg/logger"
)

// Analyzer scores the market on demand. Satisfied by pipeline.Runner.
type Analyzer interface {
	Analyze(ctx context.Context, today time.Time) (*contracts.RunReport, error)
}

// SyncRunner triggers a market-data sync. Satisfied by sync.Orchestrator.
type SyncRunner interface {
	Run(ctx context.Context, today time.Time) (*sync.Result, error)
}

// RunLister exposes recent pipeline runs. Satisfied by data.RunRepository.
type RunLister interface {
	Latest(ctx context.Context, limit int) ([]data.PipelineRun, error)
}

// MarketHandler serves market data and pipeline endpoints.
type MarketHandler struct {
	db          *database.DB
	instruments contracts.InstrumentStore
	quotes      contracts.QuoteStore
	engine      *analysis.Engine
	formatter   *report.Formatter
	analyzer    Analyzer
	syncer      SyncRunner
	runs        RunLister
	logger      *logger.Logger
}

func NewMarketHandler(
	db *database.DB,
	instruments contracts.InstrumentStore,
	quotes contracts.QuoteStore,
	engine *analysis.Engine,
	analyzer Analyzer,
	syncer SyncRunner,
	runs RunLister,
	log *logger.Logger,
) *MarketHandler {
	return &MarketHandler{
		db:          db,
		instruments: instruments,
		quotes:      quotes,
		engine:      engine,
		formatter:   report.NewFormatter(),
		analyzer:    analyzer,
		syncer:      syncer,
		runs:        runs,
		logger:      log,
	}
}

// Health reports service and database health.
// GET /health
func (h *MarketHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, _ := h.db.HealthCheck(r.Context())

	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, map[string]interface{}{
		"service":  "botbourse-api",
		"database": status,
	})
}

// Status returns the most recent pipeline runs.
// GET /api/status
func (h *MarketHandler) Status(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)

	runs, err := h.runs.Latest(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list pipeline runs")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve pipeline runs")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

// Opportunities scores the market as of now and returns the ranked list.
// GET /api/opportunities
func (h *MarketHandler) Opportunities(w http.ResponseWriter, r *http.Request) {
	run, err := h.analyzer.Analyze(r.Context(), time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Market analysis failed")
		respondError(w, http.StatusInternalServerError, "Market analysis failed")
		return
	}
	respondJSON(w, http.StatusOK, run)
}

// Instruments lists the active instrument registry.
// GET /api/instruments
func (h *MarketHandler) Instruments(w http.ResponseWriter, r *http.Request) {
	instruments, err := h.instruments.ListActive(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list instruments")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve instruments")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":       len(instruments),
		"instruments": instruments,
	})
}

// Series returns the recent quote series for one symbol.
// GET /api/instruments/{symbol}/series?limit=30
func (h *MarketHandler) Series(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	limit := queryInt(r, "limit", 30)

	series, err := h.quotes.SeriesFor(r.Context(), symbol, limit)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to load series")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve series")
		return
	}
	if len(series) == 0 {
		respondError(w, http.StatusNotFound, "No quotes for symbol "+symbol)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"count":  len(series),
		"quotes": series,
	})
}

// InvestorReport renders the long-term profile of one symbol.
// GET /api/instruments/{symbol}/report
func (h *MarketHandler) InvestorReport(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	series, err := h.quotes.SeriesFor(r.Context(), symbol, 0)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to load series")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve series")
		return
	}
	if len(series) == 0 {
		respondError(w, http.StatusNotFound, "No quotes for symbol "+symbol)
		return
	}

	snap := h.engine.Snapshot(symbol, series)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":     symbol,
		"indicators": snap,
		"report":     h.formatter.FormatInvestorReport(symbol, snap),
	})
}

// TriggerSync runs a sync cycle immediately.
// POST /api/sync
func (h *MarketHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	result, err := h.syncer.Run(r.Context(), time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Manual sync failed")
		respondError(w, http.StatusInternalServerError, "Sync failed: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"rows_inserted":  result.RowsInserted,
		"symbols_ok":     result.SymbolsOK,
		"symbols_failed": result.SymbolsFailed,
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
