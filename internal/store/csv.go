package store

import (
	"context"
	"sync"

	"github.com/astrocoach/insight/internal/dataset"
	"github.com/astrocoach/insight/internal/models"
)

// CSVStore serves the analytics tables straight from the processed CSV
// directory. Tables are loaded once on first access and cached; the files
// are model exports that do not change during a run.
type CSVStore struct {
	dir string

	once    sync.Once
	tables  *dataset.Tables
	loadErr error
}

// NewCSVStore creates a store reading from dir. Loading is deferred to the
// first query so construction never touches the filesystem.
func NewCSVStore(dir string) *CSVStore {
	return &CSVStore{dir: dir}
}

func (s *CSVStore) load() (*dataset.Tables, error) {
	s.once.Do(func() {
		s.tables, s.loadErr = dataset.LoadDir(s.dir)
	})
	return s.tables, s.loadErr
}

func (s *CSVStore) RankedSignals(ctx context.Context, outcome models.Outcome) ([]models.Signal, error) {
	tables, err := s.load()
	if err != nil {
		return nil, err
	}
	switch outcome {
	case models.OutcomeConversion:
		return tables.ConversionSignals, nil
	case models.OutcomeChurn:
		return tables.ChurnSignals, nil
	default:
		return nil, invalidOutcome(outcome)
	}
}

func (s *CSVStore) UserScores(ctx context.Context) ([]models.UserScore, error) {
	tables, err := s.load()
	if err != nil {
		return nil, err
	}
	return tables.UserScores, nil
}

func (s *CSVStore) ChurnScores(ctx context.Context) ([]models.ChurnScore, error) {
	tables, err := s.load()
	if err != nil {
		return nil, err
	}
	return tables.ChurnScores, nil
}

func (s *CSVStore) DailyDemand(ctx context.Context) ([]models.DemandPoint, error) {
	tables, err := s.load()
	if err != nil {
		return nil, err
	}
	return tables.DailyDemand, nil
}

func (s *CSVStore) Forecast(ctx context.Context) ([]models.ForecastPoint, error) {
	tables, err := s.load()
	if err != nil {
		return nil, err
	}
	return tables.Forecast, nil
}

func (s *CSVStore) Close() error { return nil }
