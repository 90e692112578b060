package strategy

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads a strategy file, rejects unknown keys, fills unset sections
// from the defaults, and validates the result.
func Load(path string) (*Config, *DecisionSnapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read strategy file %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes YAML bytes into a Config. Unknown keys are an error so a
// typoed threshold fails loudly instead of silently using the default.
func Parse(raw []byte) (*Config, *DecisionSnapshot, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, nil, fmt.Errorf("decode strategy yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("validate strategy %q: %w", cfg.Meta.StrategyID, err)
	}

	sum := sha256.Sum256(raw)
	snap := &DecisionSnapshot{
		ConfigHash: hex.EncodeToString(sum[:]),
		ConfigYAML: string(raw),
		StrategyID: cfg.Meta.StrategyID,
		CreatedAt:  time.Now().UTC(),
	}
	return cfg, snap, nil
}

// Validate checks internal consistency of the parameter set.
func (c *Config) Validate() error {
	if c.Meta.StrategyID == "" {
		return fmt.Errorf("meta.strategy_id is required")
	}
	if c.Analysis.RSIPeriod < 2 {
		return fmt.Errorf("analysis.rsi_period must be >= 2, got %d", c.Analysis.RSIPeriod)
	}
	if c.Analysis.SMAShort <= 0 || c.Analysis.SMAMid <= 0 || c.Analysis.SMALong <= 0 {
		return fmt.Errorf("analysis sma windows must be positive")
	}
	if c.Analysis.SMAShort >= c.Analysis.SMAMid || c.Analysis.SMAMid >= c.Analysis.SMALong {
		return fmt.Errorf("analysis sma windows must be strictly increasing: %d/%d/%d",
			c.Analysis.SMAShort, c.Analysis.SMAMid, c.Analysis.SMALong)
	}
	if c.Analysis.VolumeWindow <= 0 {
		return fmt.Errorf("analysis.volume_window must be positive")
	}
	if c.Analysis.CAGRYears <= 0 {
		return fmt.Errorf("analysis.cagr_years must be positive")
	}
	if c.Scoring.RSIBuyBelow <= 0 || c.Scoring.RSIBuyBelow >= 100 {
		return fmt.Errorf("scoring.rsi_buy_below must be in (0, 100)")
	}
	if c.Scoring.RSISellAbove <= c.Scoring.RSIBuyBelow || c.Scoring.RSISellAbove >= 100 {
		return fmt.Errorf("scoring.rsi_sell_above must be in (rsi_buy_below, 100)")
	}
	if c.Scoring.GoldenCrossBand <= 0 || c.Scoring.GoldenCrossBand >= 1 {
		return fmt.Errorf("scoring.golden_cross_band must be in (0, 1)")
	}
	if c.Scoring.MaxStockAllocation <= 0 || c.Scoring.MaxStockAllocation > 1 {
		return fmt.Errorf("scoring.max_stock_allocation must be in (0, 1]")
	}
	if c.Liquidity.MinAvgTurnover < 0 {
		return fmt.Errorf("liquidity.min_avg_turnover must not be negative")
	}
	if c.Risk.DailyCrashPct >= 0 || c.Risk.WeeklyCrashPct >= 0 {
		return fmt.Errorf("risk crash thresholds must be negative percentages")
	}
	if c.Report.TopK <= 0 {
		return fmt.Errorf("report.top_k must be positive")
	}
	if c.Report.MonthlyBudget < 0 {
		return fmt.Errorf("report.monthly_budget must not be negative")
	}
	if len(c.Report.AllocationSplit) == 0 {
		return fmt.Errorf("report.allocation_split must not be empty")
	}
	var sum float64
	for i, f := range c.Report.AllocationSplit {
		if f <= 0 || f > 1 {
			return fmt.Errorf("report.allocation_split[%d] must be in (0, 1], got %v", i, f)
		}
		sum += f
	}
	if sum > 1.0000001 {
		return fmt.Errorf("report.allocation_split must sum to at most 1, got %v", sum)
	}
	return nil
}
