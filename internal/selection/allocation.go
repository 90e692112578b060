package selection

import (
	"math"

	"github.com/adilezz/botbourse/internal/contracts"
)

// Allocate splits a budget over the ranked opportunities using the
// configured fractions (60/40 for two picks by default). Each sub-budget
// buys a whole number of shares; the unspent remainder rolls into the
// next pick's sub-budget. A single pick receives the entire budget.
// Stateless: pure function of budget, ranked list and prices.
func Allocate(budget float64, ranked []contracts.Opportunity, split []float64) []contracts.Allocation {
	if budget <= 0 || len(ranked) == 0 {
		return nil
	}

	fractions := effectiveSplit(len(ranked), split)

	allocations := make([]contracts.Allocation, 0, len(fractions))
	leftover := 0.0
	for i, frac := range fractions {
		opp := ranked[i]
		subBudget := budget*frac + leftover
		if opp.Close <= 0 {
			leftover = subBudget
			continue
		}

		shares := int(math.Floor(subBudget / opp.Close))
		cost := float64(shares) * opp.Close
		leftover = subBudget - cost

		allocations = append(allocations, contracts.Allocation{
			Symbol: opp.Symbol,
			Price:  opp.Close,
			Shares: shares,
			Cost:   cost,
		})
	}
	return allocations
}

// effectiveSplit adapts the configured fractions to the number of picks:
// one pick takes everything, fewer picks than fractions renormalizes so
// the whole budget stays in play.
func effectiveSplit(picks int, split []float64) []float64 {
	if picks == 1 {
		return []float64{1.0}
	}
	if picks < len(split) {
		split = split[:picks]
	}

	var sum float64
	for _, f := range split {
		sum += f
	}
	if sum <= 0 {
		return nil
	}

	normalized := make([]float64, len(split))
	for i, f := range split {
		normalized[i] = f / sum
	}
	return normalized
}
