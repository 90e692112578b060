package contracts

import "time"

// Instrument is one tradable equity on the exchange. Instruments are owned
// by the registry: created on first sync, name refreshed on later syncs,
// never deleted (soft-deactivate only). Everything else references an
// instrument by symbol.
type Instrument struct {
	Symbol       string
	Name         string
	Sector       string
	Active       bool
	QualityScore int
	LastDividend float64 // most recent per-share dividend (MAD), 0 if unknown
	CreatedAt    time.Time
}

// Listing is one row of the instrument-list collaborator before filtering.
type Listing struct {
	Symbol string
	Name   string
}
