package contracts

import (
	"context"
	"time"
)

// MarketDataSource is the external market-data collaborator. It may return
// an empty slice, a partial column set, or an error; callers treat all
// three as zero usable rows for that instrument.
type MarketDataSource interface {
	FetchHistory(ctx context.Context, symbol string, from, to time.Time) ([]Quote, error)
}

// InstrumentSource is the external instrument-list collaborator. The sync
// layer filters its output by symbol-length and blacklist rules.
type InstrumentSource interface {
	ListAvailable(ctx context.Context) ([]Listing, error)
}

// Notifier delivers a formatted text block to the notification channel.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// InstrumentStore is the durable instrument registry.
type InstrumentStore interface {
	ListActive(ctx context.Context) ([]Instrument, error)
	Upsert(ctx context.Context, symbol, name string) error
	Deactivate(ctx context.Context, symbol string) error
}

// QuoteStore is the durable, deduplicated quote time series.
type QuoteStore interface {
	// LatestDate returns the maximum trade date across all quotes;
	// ok is false when the store is empty.
	LatestDate(ctx context.Context) (latest time.Time, ok bool, err error)

	// InsertIfAbsent writes one quote unless (symbol, date) already exists.
	// A duplicate is a success-no-op, reported as inserted=false.
	InsertIfAbsent(ctx context.Context, quote Quote) (inserted bool, err error)

	// SeriesFor returns the full chronological series for a symbol, then
	// keeps only the most recent limit points when limit > 0.
	SeriesFor(ctx context.Context, symbol string, limit int) ([]Quote, error)

	// LatestSessionQuotes maps symbol to (close, volume) for one session.
	LatestSessionQuotes(ctx context.Context, date time.Time) (map[string]SessionQuote, error)

	// CorrectClose is the explicit correction path: it replaces the close
	// of a single existing quote and nothing else.
	CorrectClose(ctx context.Context, symbol string, date time.Time, close float64) error
}

// ExposureSource reports current portfolio exposure for the scorer's
// per-stock allocation cap.
type ExposureSource interface {
	// Exposure returns the total portfolio value and the value held per
	// symbol, priced at the latest stored close.
	Exposure(ctx context.Context) (total float64, bySymbol map[string]float64, err error)
}
