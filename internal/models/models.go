// Package models defines the core domain types shared across insight:
// ranked behavioral signals, per-user model scores, and demand series.
package models

import (
	"time"
)

// Outcome identifies which upstream model a ranked signal table belongs to.
type Outcome string

const (
	OutcomeConversion Outcome = "conversion" // freemium -> premium conversion model
	OutcomeChurn      Outcome = "churn"      // premium churn model
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	return o == OutcomeConversion || o == OutcomeChurn
}

// Direction controls the sign convention of a what-if simulation.
type Direction string

const (
	// DirectionGrowth scores an outcome where a higher coefficient is better
	// (conversion likelihood). Impacts keep the coefficient's sign.
	DirectionGrowth Direction = "growth"

	// DirectionRiskReduction scores an outcome where a higher coefficient
	// denotes elevated risk (churn). Improving the behavior reduces the risk,
	// so impacts invert the coefficient's sign.
	DirectionRiskReduction Direction = "risk-reduction"
)

// DirectionFor returns the simulation direction for an outcome.
func DirectionFor(o Outcome) Direction {
	if o == OutcomeChurn {
		return DirectionRiskReduction
	}
	return DirectionGrowth
}

// Signal is one row of a ranked signal table: a behavioral feature and the
// trained coefficient indicating its estimated linear effect on the outcome.
// Names are unique within a table. Signals are immutable once loaded.
type Signal struct {
	Name        string  `json:"name"`
	Coefficient float64 `json:"coefficient"`
}

// UserScore is one scored user from the conversion model.
type UserScore struct {
	UserID                string  `json:"user_id"`
	ConversionProbability float64 `json:"conversion_probability"`
	Premium               bool    `json:"premium"`
}

// ChurnScore is one scored premium user from the churn model.
type ChurnScore struct {
	UserID           string  `json:"user_id"`
	ChurnProbability float64 `json:"churn_probability"`
}

// DemandPoint is one day of observed premium demand.
type DemandPoint struct {
	Date          time.Time `json:"date"`
	Subscriptions int64     `json:"subscriptions"`
}

// ForecastPoint is one day of forecast premium demand.
type ForecastPoint struct {
	Date      time.Time `json:"date"`
	Predicted float64   `json:"predicted"`
}
