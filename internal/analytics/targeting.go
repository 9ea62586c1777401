package analytics

import (
	"sort"

	"github.com/astrocoach/insight/internal/models"
)

// TargetList is the outcome of a targeting query: freemium users most
// likely to convert, ranked by probability.
type TargetList struct {
	Candidates []models.UserScore `json:"candidates"`
	AvgProb    float64            `json:"avg_probability"`
}

// TargetCandidates selects freemium users whose conversion probability is at
// or above threshold, sorted descending and capped at limit (0 = unlimited).
// The input slice is not mutated.
func TargetCandidates(users []models.UserScore, threshold float64, limit int) TargetList {
	var candidates []models.UserScore
	for _, u := range users {
		if u.Premium || u.ConversionProbability < threshold {
			continue
		}
		candidates = append(candidates, u)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ConversionProbability > candidates[j].ConversionProbability
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	list := TargetList{Candidates: candidates}
	if len(candidates) > 0 {
		var sum float64
		for _, c := range candidates {
			sum += c.ConversionProbability
		}
		list.AvgProb = sum / float64(len(candidates))
	}
	return list
}

// AtRisk returns users at or above the churn threshold, sorted descending
// by churn probability. The input slice is not mutated.
func AtRisk(churn []models.ChurnScore, threshold float64) []models.ChurnScore {
	var out []models.ChurnScore
	for _, c := range churn {
		if c.ChurnProbability >= threshold {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ChurnProbability > out[j].ChurnProbability
	})
	return out
}

// DriverSummary is the ranked head of a signal table with its strongest
// positive and negative signals called out.
type DriverSummary struct {
	Drivers           []models.Signal `json:"drivers"`
	StrongestPositive string          `json:"strongest_positive,omitempty"`
	StrongestNegative string          `json:"strongest_negative,omitempty"`
}

// TopDrivers returns the first n signals of a ranked (descending
// coefficient) table. The strongest positive driver is the first with a
// positive coefficient; the strongest negative is the most negative one.
func TopDrivers(signals []models.Signal, n int) DriverSummary {
	drivers := signals
	if n > 0 && len(drivers) > n {
		drivers = drivers[:n]
	}

	summary := DriverSummary{Drivers: drivers}
	for _, s := range drivers {
		if s.Coefficient > 0 && summary.StrongestPositive == "" {
			summary.StrongestPositive = s.Name
		}
		if s.Coefficient < 0 {
			summary.StrongestNegative = s.Name // ranked descending: last hit is most negative
		}
	}
	return summary
}
