package selection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adilezz/botbourse/internal/analysis"
	"github.com/adilezz/botbourse/internal/contracts"
	"github.com/adilezz/botbourse/internal/strategy"
	"github.com/adilezz/botbourse/pkg/logger"
)

func f(v float64) *float64 { return &v }

func snapshot(symbol string, close float64) *contracts.IndicatorSnapshot {
	return &contracts.IndicatorSnapshot{
		Symbol:      symbol,
		Close:       close,
		RSI14:       f(50),
		SMA20:       f(close),
		SMA50:       f(close * 1.1),
		SMA200:      f(close * 0.9),
		AvgVolume20: f(50_000),
	}
}

func newTestScorer() *Scorer {
	return NewScorer(strategy.Default().Scoring, logger.NewNop())
}

func TestScorer_TrendRules(t *testing.T) {
	s := newTestScorer()

	up := s.Score(ScoreInput{Snapshot: snapshot("IAM", 100)}) // close 100 > sma200 90
	assert.Equal(t, 2, up.Score)
	assert.Contains(t, up.Reasons, "trend up")

	down := snapshot("IAM", 100)
	down.SMA200 = f(120)
	res := s.Score(ScoreInput{Snapshot: down})
	assert.Equal(t, -5, res.Score)
	assert.Contains(t, res.Reasons, "trend down")
}

func TestScorer_YieldRule(t *testing.T) {
	s := newTestScorer()

	// 5 MAD payout on a 100 MAD close is a 5% yield, above the 3.5% floor
	res := s.Score(ScoreInput{Snapshot: snapshot("IAM", 100), Dividend: 5})
	assert.Equal(t, 5, res.Score) // +2 trend, +3 yield
	assert.InDelta(t, 5.0, res.Yield, 1e-9)

	// 2% yield stays unrewarded
	res = s.Score(ScoreInput{Snapshot: snapshot("IAM", 100), Dividend: 2})
	assert.Equal(t, 2, res.Score)
}

func TestScorer_RSIRules(t *testing.T) {
	s := newTestScorer()

	oversold := snapshot("IAM", 100)
	oversold.RSI14 = f(30)
	res := s.Score(ScoreInput{Snapshot: oversold})
	assert.Equal(t, 4, res.Score) // +2 trend, +2 oversold
	assert.Contains(t, res.Reasons, "oversold")

	overbought := snapshot("IAM", 100)
	overbought.RSI14 = f(75)
	res = s.Score(ScoreInput{Snapshot: overbought})
	assert.Equal(t, -1, res.Score) // +2 trend, -3 overbought
}

func TestScorer_GoldenCross(t *testing.T) {
	s := newTestScorer()

	snap := snapshot("IAM", 100)
	snap.SMA20 = f(101)
	snap.SMA50 = f(100) // ratio 1.01, inside the 2% band
	res := s.Score(ScoreInput{Snapshot: snap})
	assert.Equal(t, 4, res.Score)
	assert.Contains(t, res.Reasons, "recent golden cross")

	// a cross far in the past no longer counts
	snap.SMA20 = f(110)
	res = s.Score(ScoreInput{Snapshot: snap})
	assert.Equal(t, 2, res.Score)
}

func TestScorer_RulesAreAdditive(t *testing.T) {
	s := newTestScorer()

	snap := snapshot("IAM", 100)
	snap.RSI14 = f(30)   // oversold +2
	snap.SMA20 = f(101)  // golden cross +2
	snap.SMA50 = f(100)
	res := s.Score(ScoreInput{Snapshot: snap, Dividend: 5}) // yield +3

	assert.Equal(t, 9, res.Score, "trend, yield, oversold and cross all stack")
}

func TestScorer_ExposureCapForcesSentinel(t *testing.T) {
	s := newTestScorer()

	snap := snapshot("IAM", 100)
	snap.RSI14 = f(30)
	res := s.Score(ScoreInput{Snapshot: snap, Dividend: 5, Exposure: 0.25})

	cfg := strategy.Default()
	assert.Equal(t, -10, res.Score, "sentinel replaces the sum, not added to it")
	assert.Less(t, res.Score, cfg.Scoring.AcceptThreshold)
	assert.Contains(t, res.Reasons, "exposure cap breached")
}

func TestScreener_LiquidityGateExcludes(t *testing.T) {
	cfg := strategy.Default()
	screener := NewScreener(cfg, logger.NewNop())

	liquid := snapshot("IAM", 100)      // turnover 5,000,000
	illiquid := snapshot("SNA", 100)
	illiquid.AvgVolume20 = f(500)       // turnover 50,000 < 100,000 floor

	res := screener.Screen([]*contracts.IndicatorSnapshot{liquid, illiquid})

	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "IAM", res.Candidates[0].Symbol)
	assert.Equal(t, ExcludeIlliquid, res.Excluded["SNA"])
}

func TestScreener_ShortHistoryExcludes(t *testing.T) {
	screener := NewScreener(strategy.Default(), logger.NewNop())

	young := snapshot("NEW", 100)
	young.SMA200 = nil

	res := screener.Screen([]*contracts.IndicatorSnapshot{young})
	assert.Empty(t, res.Candidates)
	assert.Equal(t, ExcludeShortHistory, res.Excluded["NEW"])
}

func TestRank_TieBreaksBySymbol(t *testing.T) {
	cfg := strategy.Default()
	opps := []contracts.Opportunity{
		{Symbol: "ZZZ", Score: 7},
		{Symbol: "AAA", Score: 7},
		{Symbol: "MMM", Score: 9},
		{Symbol: "LOW", Score: 2}, // below acceptance threshold
	}

	ranked := Rank(opps, *cfg)
	require.Len(t, ranked, 3)
	assert.Equal(t, "MMM", ranked[0].Symbol)
	assert.Equal(t, "AAA", ranked[1].Symbol, "tie broken by symbol ascending")
	assert.Equal(t, "ZZZ", ranked[2].Symbol)
}

func TestRank_TopKCut(t *testing.T) {
	cfg := strategy.Default()
	var opps []contracts.Opportunity
	for _, sym := range []string{"AAA", "BBB", "CCC", "DDD", "EEE"} {
		opps = append(opps, contracts.Opportunity{Symbol: sym, Score: 5})
	}

	ranked := Rank(opps, *cfg)
	assert.Len(t, ranked, cfg.Report.TopK)
}

func TestRisks_CrashThresholds(t *testing.T) {
	cfg := strategy.Default().Risk

	dayCrash := &contracts.IndicatorSnapshot{Symbol: "BCP", Close: 95, PrevClose: 100}    // -5% day
	weekCrash := &contracts.IndicatorSnapshot{Symbol: "IAM", Close: 89, PrevClose: 90, WeekClose: 100} // -11% week
	calm := &contracts.IndicatorSnapshot{Symbol: "ATW", Close: 99, PrevClose: 100, WeekClose: 101}

	alerts := Risks([]*contracts.IndicatorSnapshot{calm, weekCrash, dayCrash},
		map[string]string{"BCP": "Banque Populaire"}, cfg)

	require.Len(t, alerts, 2)
	assert.Equal(t, "BCP", alerts[0].Symbol)
	assert.Equal(t, "Banque Populaire", alerts[0].Name)
	assert.InDelta(t, -5.0, alerts[0].DayChangePct, 1e-9)
	assert.Equal(t, "IAM", alerts[1].Symbol)
}

func TestAllocate_SplitWithRollover(t *testing.T) {
	ranked := []contracts.Opportunity{
		{Symbol: "AAA", Close: 120},
		{Symbol: "BBB", Close: 85},
	}

	allocations := Allocate(4000, ranked, []float64{0.6, 0.4})
	require.Len(t, allocations, 2)

	assert.Equal(t, 20, allocations[0].Shares) // floor(2400/120)
	assert.InDelta(t, 2400, allocations[0].Cost, 1e-9)
	assert.Equal(t, 18, allocations[1].Shares) // floor(1600/85)
	assert.InDelta(t, 1530, allocations[1].Cost, 1e-9)

	for _, a := range allocations {
		assert.GreaterOrEqual(t, a.Shares, 0)
	}
}

func TestAllocate_LeftoverRolls(t *testing.T) {
	ranked := []contracts.Opportunity{
		{Symbol: "AAA", Close: 1000}, // 60% of 1500 = 900, buys nothing
		{Symbol: "BBB", Close: 100},
	}

	allocations := Allocate(1500, ranked, []float64{0.6, 0.4})
	require.Len(t, allocations, 2)
	assert.Equal(t, 0, allocations[0].Shares)
	// 900 leftover + 600 = 1500 for the second pick
	assert.Equal(t, 15, allocations[1].Shares)
}

func TestAllocate_SinglePickTakesFullBudget(t *testing.T) {
	allocations := Allocate(4000, []contracts.Opportunity{{Symbol: "AAA", Close: 120}}, []float64{0.6, 0.4})
	require.Len(t, allocations, 1)
	assert.Equal(t, 33, allocations[0].Shares) // floor(4000/120)
}

func TestScenario_MonotonicRiseScoresTrendUp(t *testing.T) {
	// 250 ascending closes from 100 to 150: RSI saturates, close > SMA200
	engine := analysis.NewEngine(strategy.Default().Analysis, logger.NewNop())
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	series := make([]contracts.Quote, 250)
	for i := range series {
		series[i] = contracts.Quote{
			Symbol: "ATW",
			Date:   base.AddDate(0, 0, i),
			Close:  100 + 50*float64(i)/249,
			Volume: 10_000,
		}
	}

	snap := engine.Snapshot("ATW", series)
	require.NotNil(t, snap.RSI14)
	assert.InDelta(t, 100.0, *snap.RSI14, 1e-9)
	require.NotNil(t, snap.SMA200)
	assert.Greater(t, snap.Close, *snap.SMA200)

	screener := NewScreener(strategy.Default(), logger.NewNop())
	res := screener.Screen([]*contracts.IndicatorSnapshot{snap})
	require.Len(t, res.Candidates, 1, "liquid and fully formed, passes the gate")

	opp := newTestScorer().Score(ScoreInput{Snapshot: snap, Name: "Attijariwafa Bank"})
	assert.Contains(t, opp.Reasons, "trend up")
	assert.GreaterOrEqual(t, opp.Score, 2)
}
