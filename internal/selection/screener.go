package selection

import (
	"github.com/adilezz/botbourse/internal/contracts"
	"github.com/adilezz/botbourse/internal/strategy"
	"github.com/adilezz/botbourse/pkg/logger"
)

// Exclusion reasons, recorded per screened-out instrument.
const (
	ExcludeIlliquid      = "turnover below liquidity minimum"
	ExcludeShortHistory  = "insufficient history for required indicators"
	ExcludeNoSessionData = "no quotes available"
)

// Screener applies the pre-scoring gates. Instruments it drops never
// reach the scorer at all, regardless of how they would have scored.
type Screener struct {
	cfg    *strategy.Config
	logger *logger.Logger
}

func NewScreener(cfg *strategy.Config, log *logger.Logger) *Screener {
	return &Screener{cfg: cfg, logger: log}
}

// ScreenResult separates scoring candidates from exclusions.
type ScreenResult struct {
	Candidates []*contracts.IndicatorSnapshot
	Excluded   map[string]string // symbol -> reason
}

// Screen applies the liquidity gate and the required-indicator gate.
// The long moving average and RSI are required: without them the trend
// and momentum rules cannot be evaluated, so the instrument sits out
// this run instead of being scored on partial data.
func (s *Screener) Screen(snapshots []*contracts.IndicatorSnapshot) ScreenResult {
	result := ScreenResult{Excluded: make(map[string]string)}

	for _, snap := range snapshots {
		if snap == nil || snap.Close == 0 {
			continue
		}

		if snap.SMA200 == nil || snap.RSI14 == nil {
			result.Excluded[snap.Symbol] = ExcludeShortHistory
			continue
		}

		turnover, ok := snap.AvgTurnover20()
		if !ok {
			result.Excluded[snap.Symbol] = ExcludeShortHistory
			continue
		}
		if turnover < s.cfg.Liquidity.MinAvgTurnover {
			result.Excluded[snap.Symbol] = ExcludeIlliquid
			continue
		}

		result.Candidates = append(result.Candidates, snap)
	}

	s.logger.WithFields(map[string]interface{}{
		"candidates": len(result.Candidates),
		"excluded":   len(result.Excluded),
	}).Debug("Screening complete")
	return result
}
