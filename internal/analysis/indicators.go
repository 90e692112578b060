package analysis

import (
	"math"
	"time"

	"github.com/adilezz/botbourse/internal/contracts"
	"github.com/adilezz/botbourse/internal/strategy"
	"github.com/adilezz/botbourse/pkg/logger"
)

// sessionsPerYear is the trading-day count used to annualize volatility
// and to step back whole years for the growth rate.
const sessionsPerYear = 252

// Engine computes the indicator snapshot for one instrument from its
// chronological quote series. Snapshots are derived on every run and
// never persisted.
type Engine struct {
	cfg    strategy.Analysis
	logger *logger.Logger
}

func NewEngine(cfg strategy.Analysis, log *logger.Logger) *Engine {
	return &Engine{cfg: cfg, logger: log}
}

// Snapshot derives all indicators from a series sorted by date ascending.
// Every indicator whose window exceeds the series length stays nil:
// undefined is never reported as zero or as a neutral default.
func (e *Engine) Snapshot(symbol string, series []contracts.Quote) *contracts.IndicatorSnapshot {
	if len(series) == 0 {
		return nil
	}

	last := series[len(series)-1]
	closes := make([]float64, len(series))
	volumes := make([]float64, len(series))
	for i, q := range series {
		closes[i] = q.Close
		volumes[i] = q.Volume
	}

	snap := &contracts.IndicatorSnapshot{
		Symbol:    symbol,
		AsOf:      last.Date,
		Close:     last.Close,
		CAGRYears: e.cfg.CAGRYears,
	}

	if len(series) >= 2 {
		snap.PrevClose = closes[len(closes)-2]
	}
	if len(series) >= 6 {
		snap.WeekClose = closes[len(closes)-6]
	}

	snap.RSI14 = rsi(closes, e.cfg.RSIPeriod)
	snap.SMA20 = sma(closes, e.cfg.SMAShort)
	snap.SMA50 = sma(closes, e.cfg.SMAMid)
	snap.SMA200 = sma(closes, e.cfg.SMALong)
	snap.AvgVolume20 = sma(volumes, e.cfg.VolumeWindow)
	snap.Volatility = annualizedVolatility(closes)
	snap.CAGR = cagr(closes, e.cfg.CAGRYears)

	return snap
}

// SnapshotAt derives indicators as of a past date by truncating the series
// to quotes on or before asOf. Used by the per-symbol report and the API.
func (e *Engine) SnapshotAt(symbol string, series []contracts.Quote, asOf time.Time) *contracts.IndicatorSnapshot {
	cut := len(series)
	for cut > 0 && series[cut-1].Date.After(asOf) {
		cut--
	}
	return e.Snapshot(symbol, series[:cut])
}

// sma returns the simple moving average of the last window values, or nil
// when fewer than window values exist.
func sma(values []float64, window int) *float64 {
	if window <= 0 || len(values) < window {
		return nil
	}

	var sum float64
	for _, v := range values[len(values)-window:] {
		sum += v
	}
	avg := sum / float64(window)
	return &avg
}

// rsi returns the relative strength index over the last period changes.
// A window with no losses saturates at exactly 100.
func rsi(closes []float64, period int) *float64 {
	if period <= 0 || len(closes) < period+1 {
		return nil
	}

	var gains, losses float64
	start := len(closes) - period
	for i := start; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		v := 100.0
		return &v
	}

	rs := avgGain / avgLoss
	v := 100 - (100 / (1 + rs))
	return &v
}

// annualizedVolatility is the standard deviation of daily returns over the
// most recent year of sessions, scaled by sqrt(252).
func annualizedVolatility(closes []float64) *float64 {
	if len(closes) < 3 {
		return nil
	}

	start := 0
	if len(closes) > sessionsPerYear+1 {
		start = len(closes) - sessionsPerYear - 1
	}

	var returns []float64
	for i := start + 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	if len(returns) < 2 {
		return nil
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)

	v := math.Sqrt(variance) * math.Sqrt(sessionsPerYear)
	return &v
}

// cagr is the compound annual growth rate against the observation exactly
// years*252 sessions back. Shorter series leave it undefined rather than
// approximating with the oldest available close.
func cagr(closes []float64, years int) *float64 {
	if years <= 0 {
		return nil
	}
	back := years * sessionsPerYear
	if len(closes) < back+1 {
		return nil
	}

	base := closes[len(closes)-1-back]
	if base <= 0 {
		return nil
	}

	v := math.Pow(closes[len(closes)-1]/base, 1/float64(years)) - 1
	return &v
}
