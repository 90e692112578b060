package selection

import (
	"fmt"

	"github.com/adilezz/botbourse/internal/contracts"
	"github.com/adilezz/botbourse/internal/strategy"
	"github.com/adilezz/botbourse/pkg/logger"
)

// Scorer turns one indicator snapshot into a signed score. Every rule is
// an independent additive contribution read from the strategy table;
// nothing here hardcodes a threshold or a weight.
type Scorer struct {
	cfg    strategy.Scoring
	logger *logger.Logger
}

func NewScorer(cfg strategy.Scoring, log *logger.Logger) *Scorer {
	return &Scorer{cfg: cfg, logger: log}
}

// ScoreInput bundles the per-instrument facts the rule table consumes.
type ScoreInput struct {
	Snapshot *contracts.IndicatorSnapshot
	Name     string
	Dividend float64 // last known per-share payout, 0 when unknown
	// Exposure is the symbol's projected share of total portfolio value
	// after a purchase, 0 when no portfolio is tracked.
	Exposure float64
}

// Score applies the rule table. Rules whose inputs are undefined for this
// instrument contribute nothing. Breaching the exposure cap does not add
// to the sum: it forces the final score to the configured sentinel so the
// instrument lands below any sane acceptance threshold.
func (s *Scorer) Score(in ScoreInput) contracts.Opportunity {
	snap := in.Snapshot
	score := 0
	var reasons []string

	if snap.SMA200 != nil {
		if snap.Close > *snap.SMA200 {
			score += s.cfg.TrendUpPoints
			reasons = append(reasons, "trend up")
		} else {
			score += s.cfg.TrendDownPoints
			reasons = append(reasons, "trend down")
		}
	}

	yield := 0.0
	if in.Dividend > 0 && snap.Close > 0 {
		yield = in.Dividend / snap.Close * 100
		if yield >= s.cfg.YieldMinPct {
			score += s.cfg.YieldPoints
			reasons = append(reasons, fmt.Sprintf("yield %.1f%%", yield))
		}
	}

	if snap.RSI14 != nil {
		switch {
		case *snap.RSI14 < s.cfg.RSIBuyBelow:
			score += s.cfg.OversoldPoints
			reasons = append(reasons, "oversold")
		case *snap.RSI14 > s.cfg.RSISellAbove:
			score += s.cfg.OverboughtPoints
			reasons = append(reasons, "overbought")
		}
	}

	if snap.SMA20 != nil && snap.SMA50 != nil && *snap.SMA50 > 0 {
		ratio := *snap.SMA20 / *snap.SMA50
		if ratio > 1 && ratio <= 1+s.cfg.GoldenCrossBand {
			score += s.cfg.GoldenCrossPoints
			reasons = append(reasons, "recent golden cross")
		}
	}

	if in.Exposure > s.cfg.MaxStockAllocation {
		score = s.cfg.ExposureCapPoints
		reasons = append(reasons, "exposure cap breached")
	}

	return contracts.Opportunity{
		Symbol:      snap.Symbol,
		Name:        in.Name,
		Close:       snap.Close,
		Score:       score,
		Yield:       yield,
		Reasons:     reasons,
		TargetPrice: targetPrice(snap),
	}
}

// targetPrice is the indicative objective shown in reports: the long
// moving average when price trades below it (reversion target), otherwise
// a fixed swing above the current close.
func targetPrice(snap *contracts.IndicatorSnapshot) float64 {
	if snap.SMA200 != nil && snap.Close < *snap.SMA200 {
		return *snap.SMA200
	}
	return snap.Close * 1.10
}
