// Package report composes the store, analytics, simulator, and narrative
// layers into the query surface shared by the CLI, the dashboard server,
// and the MCP server.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/astrocoach/insight/internal/analytics"
	"github.com/astrocoach/insight/internal/config"
	"github.com/astrocoach/insight/internal/logging"
	"github.com/astrocoach/insight/internal/models"
	"github.com/astrocoach/insight/internal/narrative"
	"github.com/astrocoach/insight/internal/simulate"
	"github.com/astrocoach/insight/internal/store"
)

// Uplift bounds for simulation requests. The simulator itself is linear in
// the uplift; the bounds keep requests inside the range the coefficients
// were estimated for.
const (
	MinUpliftPercent = 5
	MaxUpliftPercent = 50
)

// ErrUpliftRange is returned when a simulation uplift is outside bounds.
var ErrUpliftRange = fmt.Errorf("uplift must be between %d and %d percent", MinUpliftPercent, MaxUpliftPercent)

// Service answers analysis queries against a store.
type Service struct {
	store store.Store
	cfg   *config.Config
	sim   *simulate.Simulator
	runs  *logging.RunLogger
}

// NewService creates a service. runs may be nil to disable run tracing.
func NewService(st store.Store, cfg *config.Config, runs *logging.RunLogger) *Service {
	return &Service{
		store: st,
		cfg:   cfg,
		sim:   simulate.New(cfg.Confidence),
		runs:  runs,
	}
}

// Overview assembles the executive overview.
func (s *Service) Overview(ctx context.Context) (analytics.Overview, error) {
	users, err := s.store.UserScores(ctx)
	if err != nil {
		return analytics.Overview{}, err
	}
	churn, err := s.store.ChurnScores(ctx)
	if err != nil {
		return analytics.Overview{}, err
	}
	forecast, err := s.store.Forecast(ctx)
	if err != nil {
		return analytics.Overview{}, err
	}

	return analytics.BuildOverview(users, churn, forecast,
		s.cfg.Thresholds.HighIntent, s.cfg.Thresholds.ChurnRisk), nil
}

// Trend computes the demand trend within [from, to]. Zero times disable the
// corresponding bound.
func (s *Service) Trend(ctx context.Context, from, to time.Time) (analytics.Trend, error) {
	demand, err := s.store.DailyDemand(ctx)
	if err != nil {
		return analytics.Trend{}, err
	}
	return analytics.TrendSignal(demand, from, to), nil
}

// Drivers returns the top n ranked signals for an outcome. n <= 0 uses the
// configured default.
func (s *Service) Drivers(ctx context.Context, outcome models.Outcome, n int) (analytics.DriverSummary, error) {
	if n <= 0 {
		n = s.cfg.Thresholds.TopDrivers
	}
	signals, err := s.store.RankedSignals(ctx, outcome)
	if err != nil {
		return analytics.DriverSummary{}, err
	}
	return analytics.TopDrivers(signals, n), nil
}

// Targets returns freemium users most likely to convert. threshold <= 0 uses
// the configured high-intent threshold; limit 0 means unlimited.
func (s *Service) Targets(ctx context.Context, threshold float64, limit int) (analytics.TargetList, error) {
	if threshold <= 0 {
		threshold = s.cfg.Thresholds.HighIntent
	}
	users, err := s.store.UserScores(ctx)
	if err != nil {
		return analytics.TargetList{}, err
	}
	return analytics.TargetCandidates(users, threshold, limit), nil
}

// AtRisk returns premium users at or above the churn threshold.
// threshold <= 0 uses the configured churn-risk threshold.
func (s *Service) AtRisk(ctx context.Context, threshold float64) ([]models.ChurnScore, error) {
	if threshold <= 0 {
		threshold = s.cfg.Thresholds.ChurnRisk
	}
	churn, err := s.store.ChurnScores(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.AtRisk(churn, threshold), nil
}

// SimulationReport is a simulation result with its interpretation attached.
type SimulationReport struct {
	Outcome           models.Outcome           `json:"outcome"`
	Result            *simulate.Result         `json:"result"`
	Interpretation    narrative.Interpretation `json:"interpretation"`
	ConfidenceCaption string                   `json:"confidence_caption"`
}

// Simulate runs a what-if simulation against the ranked signal table for
// outcome and interprets the result.
func (s *Service) Simulate(ctx context.Context, outcome models.Outcome, req simulate.Request) (*SimulationReport, error) {
	if !outcome.Valid() {
		return nil, fmt.Errorf("unknown outcome %q", outcome)
	}
	if req.UpliftPercent < MinUpliftPercent || req.UpliftPercent > MaxUpliftPercent {
		return nil, ErrUpliftRange
	}

	signals, err := s.store.RankedSignals(ctx, outcome)
	if err != nil {
		return nil, err
	}

	result, err := s.sim.Simulate(signals, req, models.DirectionFor(outcome))
	if err != nil {
		if errors.Is(err, simulate.ErrEmptySelection) {
			return nil, err
		}
		return nil, fmt.Errorf("running simulation: %w", err)
	}

	s.runs.Log(logging.Run{
		Outcome:    string(outcome),
		Selected:   req.Selected,
		UpliftPct:  req.UpliftPercent,
		NetEffect:  result.NetEffect,
		Confidence: result.ConfidencePercent,
	})

	return &SimulationReport{
		Outcome:           outcome,
		Result:            result,
		Interpretation:    narrative.Interpret(result),
		ConfidenceCaption: narrative.BandCaption(result.Band),
	}, nil
}
