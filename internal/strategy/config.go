package strategy

import "time"

// Config is the full strategy parameter set. Strategies are data, not
// code: every threshold and score weight the pipeline applies lives here,
// loaded once per run and immutable afterward.
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Analysis  Analysis  `yaml:"analysis" json:"analysis"`
	Scoring   Scoring   `yaml:"scoring" json:"scoring"`
	Liquidity Liquidity `yaml:"liquidity" json:"liquidity"`
	Risk      Risk      `yaml:"risk" json:"risk"`
	Report    Report    `yaml:"report" json:"report"`
}

// Meta identifies the strategy for audit trails
type Meta struct {
	StrategyID  string `yaml:"strategy_id" json:"strategy_id"`
	Description string `yaml:"description" json:"description"`
}

// Analysis holds indicator window lengths
type Analysis struct {
	RSIPeriod    int `yaml:"rsi_period" json:"rsi_period"`
	SMAShort     int `yaml:"sma_short" json:"sma_short"`
	SMAMid       int `yaml:"sma_mid" json:"sma_mid"`
	SMALong      int `yaml:"sma_long" json:"sma_long"`
	VolumeWindow int `yaml:"volume_window" json:"volume_window"`
	CAGRYears    int `yaml:"cagr_years" json:"cagr_years"`
	MinHistory   int `yaml:"min_history" json:"min_history"`
}

// Scoring holds the rule table: each rule is a condition threshold plus a
// signed point contribution. All rules are additive.
type Scoring struct {
	TrendUpPoints   int `yaml:"trend_up_points" json:"trend_up_points"`
	TrendDownPoints int `yaml:"trend_down_points" json:"trend_down_points"`

	YieldPoints int     `yaml:"yield_points" json:"yield_points"`
	YieldMinPct float64 `yaml:"yield_min_pct" json:"yield_min_pct"`

	OversoldPoints   int     `yaml:"oversold_points" json:"oversold_points"`
	RSIBuyBelow      float64 `yaml:"rsi_buy_below" json:"rsi_buy_below"`
	OverboughtPoints int     `yaml:"overbought_points" json:"overbought_points"`
	RSISellAbove     float64 `yaml:"rsi_sell_above" json:"rsi_sell_above"`

	GoldenCrossPoints int     `yaml:"golden_cross_points" json:"golden_cross_points"`
	GoldenCrossBand   float64 `yaml:"golden_cross_band" json:"golden_cross_band"`

	ExposureCapPoints   int     `yaml:"exposure_cap_points" json:"exposure_cap_points"`
	MaxStockAllocation  float64 `yaml:"max_stock_allocation" json:"max_stock_allocation"`
	MaxSectorAllocation float64 `yaml:"max_sector_allocation" json:"max_sector_allocation"`

	AcceptThreshold int `yaml:"accept_threshold" json:"accept_threshold"`
}

// Liquidity holds the gate applied before candidate generation
type Liquidity struct {
	// MinAvgTurnover is the minimum 20-session average turnover in MAD.
	// Instruments below it never enter scoring at all.
	MinAvgTurnover float64 `yaml:"min_avg_turnover" json:"min_avg_turnover"`
}

// Risk holds the crash-alert thresholds (percent, negative)
type Risk struct {
	DailyCrashPct  float64 `yaml:"daily_crash_pct" json:"daily_crash_pct"`
	WeeklyCrashPct float64 `yaml:"weekly_crash_pct" json:"weekly_crash_pct"`
}

// Report holds opportunity-list sizing and budget allocation
type Report struct {
	TopK            int       `yaml:"top_k" json:"top_k"`
	MonthlyBudget   float64   `yaml:"monthly_budget" json:"monthly_budget"`
	AllocationSplit []float64 `yaml:"allocation_split" json:"allocation_split"`
}

// Default returns the reproducible default rule set.
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID:  "casablanca_swing_v1",
			Description: "Long-term dividend and trend strategy for the Casablanca exchange",
		},
		Analysis: Analysis{
			RSIPeriod:    14,
			SMAShort:     20,
			SMAMid:       50,
			SMALong:      200,
			VolumeWindow: 20,
			CAGRYears:    3,
			MinHistory:   200,
		},
		Scoring: Scoring{
			TrendUpPoints:       2,
			TrendDownPoints:     -5,
			YieldPoints:         3,
			YieldMinPct:         3.5,
			OversoldPoints:      2,
			RSIBuyBelow:         35,
			OverboughtPoints:    -3,
			RSISellAbove:        70,
			GoldenCrossPoints:   2,
			GoldenCrossBand:     0.02,
			ExposureCapPoints:   -10,
			MaxStockAllocation:  0.20,
			MaxSectorAllocation: 0.30,
			AcceptThreshold:     4,
		},
		Liquidity: Liquidity{
			MinAvgTurnover: 100_000,
		},
		Risk: Risk{
			DailyCrashPct:  -4.0,
			WeeklyCrashPct: -10.0,
		},
		Report: Report{
			TopK:            3,
			MonthlyBudget:   4000,
			AllocationSplit: []float64{0.6, 0.4},
		},
	}
}

// DecisionSnapshot records which parameter set produced a run.
type DecisionSnapshot struct {
	ConfigHash string
	ConfigYAML string
	StrategyID string
	CreatedAt  time.Time
}
