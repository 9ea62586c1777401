// Package analytics computes the derived business metrics insight surfaces:
// conversion lift, churn-risk share, demand trend, targeting candidates,
// and top-driver rankings. All functions are pure and operate on the
// in-memory tables loaded by the store layer.
package analytics

import (
	"github.com/astrocoach/insight/internal/models"
)

// ConversionLift compares the mean conversion probability of high-intent
// freemium users (probability >= threshold) against the freemium baseline.
// Returns 0 when there are no freemium users, no high-intent users, or the
// baseline mean is 0.
func ConversionLift(users []models.UserScore, threshold float64) float64 {
	var baselineSum, highSum float64
	var baselineN, highN int

	for _, u := range users {
		if u.Premium {
			continue
		}
		baselineSum += u.ConversionProbability
		baselineN++
		if u.ConversionProbability >= threshold {
			highSum += u.ConversionProbability
			highN++
		}
	}

	if baselineN == 0 || highN == 0 {
		return 0
	}
	baseline := baselineSum / float64(baselineN)
	if baseline == 0 {
		return 0
	}
	return (highSum / float64(highN)) / baseline
}

// TargetedLiftPercent converts a lift ratio into the campaign-efficiency
// percentage shown alongside it: (lift - 1) * 100.
func TargetedLiftPercent(lift float64) float64 {
	if lift == 0 {
		return 0
	}
	return (lift - 1) * 100
}

// ChurnRiskPercent returns the share (0-100) of premium users whose churn
// probability is at or above threshold. Premium membership comes from the
// conversion score table, joined on user ID. Returns 0 when no scored user
// is premium.
func ChurnRiskPercent(churn []models.ChurnScore, users []models.UserScore, threshold float64) float64 {
	premium := make(map[string]bool, len(users))
	for _, u := range users {
		if u.Premium {
			premium[u.UserID] = true
		}
	}

	var total, atRisk int
	for _, c := range churn {
		if !premium[c.UserID] {
			continue
		}
		total++
		if c.ChurnProbability >= threshold {
			atRisk++
		}
	}

	if total == 0 {
		return 0
	}
	return float64(atRisk) / float64(total) * 100
}

// Overview is the consolidated leadership view.
type Overview struct {
	TotalUsers          int     `json:"total_users"`
	PremiumUsers        int     `json:"premium_users"`
	ForecastDemand      float64 `json:"forecast_demand"`
	ConversionLift      float64 `json:"conversion_lift"`
	ChurnRiskPercent    float64 `json:"churn_risk_percent"`
	TargetedLiftPercent float64 `json:"targeted_lift_percent"`
}

// BuildOverview assembles the executive overview from the loaded tables.
func BuildOverview(users []models.UserScore, churn []models.ChurnScore, forecast []models.ForecastPoint, highIntentThreshold, churnThreshold float64) Overview {
	var premium int
	for _, u := range users {
		if u.Premium {
			premium++
		}
	}

	var demand float64
	for _, f := range forecast {
		demand += f.Predicted
	}

	lift := ConversionLift(users, highIntentThreshold)

	return Overview{
		TotalUsers:          len(users),
		PremiumUsers:        premium,
		ForecastDemand:      demand,
		ConversionLift:      lift,
		ChurnRiskPercent:    ChurnRiskPercent(churn, users, churnThreshold),
		TargetedLiftPercent: TargetedLiftPercent(lift),
	}
}
