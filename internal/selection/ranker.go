package selection

import (
	"sort"

	"github.com/adilezz/botbourse/internal/contracts"
	"github.com/adilezz/botbourse/internal/strategy"
)

// Rank keeps opportunities at or above the acceptance threshold, sorts
// them by score descending with ties broken by symbol ascending, and cuts
// the list to the configured top-K. The tie-break keeps runs deterministic
// whatever order candidates arrived in.
func Rank(opportunities []contracts.Opportunity, cfg strategy.Config) []contracts.Opportunity {
	var accepted []contracts.Opportunity
	for _, opp := range opportunities {
		if opp.Score >= cfg.Scoring.AcceptThreshold {
			accepted = append(accepted, opp)
		}
	}

	sort.Slice(accepted, func(i, j int) bool {
		if accepted[i].Score != accepted[j].Score {
			return accepted[i].Score > accepted[j].Score
		}
		return accepted[i].Symbol < accepted[j].Symbol
	})

	if cfg.Report.TopK > 0 && len(accepted) > cfg.Report.TopK {
		accepted = accepted[:cfg.Report.TopK]
	}
	return accepted
}

// Risks surfaces instruments whose recent decline crossed a crash
// threshold. Independent of scoring: a top-ranked opportunity can appear
// here too. Output is sorted by symbol for determinism.
func Risks(snapshots []*contracts.IndicatorSnapshot, names map[string]string, cfg strategy.Risk) []contracts.RiskAlert {
	var alerts []contracts.RiskAlert
	for _, snap := range snapshots {
		if snap == nil {
			continue
		}

		var dayPct, weekPct float64
		crashed := false
		if day, ok := snap.DayChange(); ok {
			dayPct = day * 100
			if dayPct <= cfg.DailyCrashPct {
				crashed = true
			}
		}
		if week, ok := snap.WeekChange(); ok {
			weekPct = week * 100
			if weekPct <= cfg.WeeklyCrashPct {
				crashed = true
			}
		}

		if crashed {
			alerts = append(alerts, contracts.RiskAlert{
				Symbol:        snap.Symbol,
				Name:          names[snap.Symbol],
				DayChangePct:  dayPct,
				WeekChangePct: weekPct,
			})
		}
	}

	sort.Slice(alerts, func(i, j int) bool { return alerts[i].Symbol < alerts[j].Symbol })
	return alerts
}
