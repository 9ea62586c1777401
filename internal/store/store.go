// Package store defines the Store interface for reading the analytics
// tables, with CSV, SQLite, and in-memory implementations.
package store

import (
	"context"
	"fmt"

	"github.com/astrocoach/insight/internal/models"
)

// Store provides read access to the six analytics tables.
// Implementations must be safe for concurrent use.
type Store interface {
	// RankedSignals returns the signal table for an outcome, in the ranked
	// order produced upstream.
	RankedSignals(ctx context.Context, outcome models.Outcome) ([]models.Signal, error)

	// UserScores returns all conversion-scored users.
	UserScores(ctx context.Context) ([]models.UserScore, error)

	// ChurnScores returns all churn-scored premium users.
	ChurnScores(ctx context.Context) ([]models.ChurnScore, error)

	// DailyDemand returns observed daily premium demand in date order.
	DailyDemand(ctx context.Context) ([]models.DemandPoint, error)

	// Forecast returns the demand forecast in date order.
	Forecast(ctx context.Context) ([]models.ForecastPoint, error)

	Close() error
}

func invalidOutcome(o models.Outcome) error {
	return fmt.Errorf("unknown outcome %q (valid: %s, %s)", o, models.OutcomeConversion, models.OutcomeChurn)
}
