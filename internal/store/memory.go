package store

import (
	"context"

	"github.com/astrocoach/insight/internal/dataset"
	"github.com/astrocoach/insight/internal/models"
)

// MemoryStore serves tables held in memory. Used in tests and anywhere a
// fixture needs to stand in for real data files.
type MemoryStore struct {
	Tables dataset.Tables
}

// NewMemoryStore creates a store around a fixed set of tables.
func NewMemoryStore(tables dataset.Tables) *MemoryStore {
	return &MemoryStore{Tables: tables}
}

func (s *MemoryStore) RankedSignals(ctx context.Context, outcome models.Outcome) ([]models.Signal, error) {
	switch outcome {
	case models.OutcomeConversion:
		return s.Tables.ConversionSignals, nil
	case models.OutcomeChurn:
		return s.Tables.ChurnSignals, nil
	default:
		return nil, invalidOutcome(outcome)
	}
}

func (s *MemoryStore) UserScores(ctx context.Context) ([]models.UserScore, error) {
	return s.Tables.UserScores, nil
}

func (s *MemoryStore) ChurnScores(ctx context.Context) ([]models.ChurnScore, error) {
	return s.Tables.ChurnScores, nil
}

func (s *MemoryStore) DailyDemand(ctx context.Context) ([]models.DemandPoint, error) {
	return s.Tables.DailyDemand, nil
}

func (s *MemoryStore) Forecast(ctx context.Context) ([]models.ForecastPoint, error) {
	return s.Tables.Forecast, nil
}

func (s *MemoryStore) Close() error { return nil }
