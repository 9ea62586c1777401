package report

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/astrocoach/insight/internal/config"
	"github.com/astrocoach/insight/internal/dataset"
	"github.com/astrocoach/insight/internal/models"
	"github.com/astrocoach/insight/internal/simulate"
	"github.com/astrocoach/insight/internal/store"
)

func testService() *Service {
	st := store.NewMemoryStore(dataset.Tables{
		ConversionSignals: []models.Signal{
			{Name: "session_count", Coefficient: 0.4},
			{Name: "days_inactive", Coefficient: -0.1},
		},
		ChurnSignals: []models.Signal{
			{Name: "support_tickets", Coefficient: 0.5},
		},
		UserScores: []models.UserScore{
			{UserID: "u1", ConversionProbability: 0.9, Premium: false},
			{UserID: "u2", ConversionProbability: 0.8, Premium: false},
			{UserID: "u3", ConversionProbability: 0.2, Premium: false},
			{UserID: "p1", ConversionProbability: 0.5, Premium: true},
		},
		ChurnScores: []models.ChurnScore{
			{UserID: "p1", ChurnProbability: 0.7},
		},
		DailyDemand: []models.DemandPoint{
			{Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Subscriptions: 2},
			{Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), Subscriptions: 8},
		},
		Forecast: []models.ForecastPoint{
			{Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), Predicted: 10},
			{Date: time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC), Predicted: 12},
		},
	})
	return NewService(st, config.Default(), nil)
}

func TestOverview(t *testing.T) {
	svc := testService()

	ov, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}

	if ov.TotalUsers != 4 || ov.PremiumUsers != 1 {
		t.Errorf("users = %d/%d, want 4/1", ov.TotalUsers, ov.PremiumUsers)
	}
	if ov.ForecastDemand != 22 {
		t.Errorf("forecast demand = %f, want 22", ov.ForecastDemand)
	}
	if ov.ChurnRiskPercent != 100 {
		t.Errorf("churn risk = %f, want 100 (the only premium user is at risk)", ov.ChurnRiskPercent)
	}
}

func TestTrend(t *testing.T) {
	svc := testService()

	trend, err := svc.Trend(context.Background(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Trend: %v", err)
	}
	if trend.Points != 2 {
		t.Errorf("points = %d, want 2", trend.Points)
	}
}

func TestDrivers_DefaultCount(t *testing.T) {
	svc := testService()

	drivers, err := svc.Drivers(context.Background(), models.OutcomeConversion, 0)
	if err != nil {
		t.Fatalf("Drivers: %v", err)
	}
	if len(drivers.Drivers) != 2 {
		t.Errorf("got %d drivers, want 2", len(drivers.Drivers))
	}
	if drivers.StrongestPositive != "session_count" {
		t.Errorf("strongest positive = %s", drivers.StrongestPositive)
	}
}

func TestDrivers_UnknownOutcome(t *testing.T) {
	svc := testService()
	if _, err := svc.Drivers(context.Background(), models.Outcome("retention"), 0); err == nil {
		t.Error("expected error for unknown outcome")
	}
}

func TestTargets_DefaultThreshold(t *testing.T) {
	svc := testService()

	targets, err := svc.Targets(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("Targets: %v", err)
	}
	// Default threshold 0.7: u1 (0.9) and u2 (0.8) qualify, premium p1 never.
	if len(targets.Candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(targets.Candidates))
	}
	if targets.Candidates[0].UserID != "u1" {
		t.Errorf("top candidate = %s, want u1", targets.Candidates[0].UserID)
	}
}

func TestAtRisk(t *testing.T) {
	svc := testService()

	atRisk, err := svc.AtRisk(context.Background(), 0)
	if err != nil {
		t.Fatalf("AtRisk: %v", err)
	}
	if len(atRisk) != 1 || atRisk[0].UserID != "p1" {
		t.Errorf("at risk = %+v", atRisk)
	}
}

func TestSimulate(t *testing.T) {
	svc := testService()

	rep, err := svc.Simulate(context.Background(), models.OutcomeConversion, simulate.Request{
		Selected:      []string{"session_count", "days_inactive"},
		UpliftPercent: 20,
	})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	if math.Abs(rep.Result.NetEffect-0.06) > 1e-9 {
		t.Errorf("net effect = %f, want 0.06", rep.Result.NetEffect)
	}
	if !rep.Interpretation.Favorable {
		t.Error("positive net growth should be favorable")
	}
	if rep.ConfidenceCaption == "" {
		t.Error("expected a confidence caption")
	}
}

func TestSimulate_UpliftBounds(t *testing.T) {
	svc := testService()
	ctx := context.Background()

	for _, uplift := range []float64{4.9, 50.1, 0, -10} {
		_, err := svc.Simulate(ctx, models.OutcomeConversion, simulate.Request{
			Selected:      []string{"session_count"},
			UpliftPercent: uplift,
		})
		if !errors.Is(err, ErrUpliftRange) {
			t.Errorf("uplift %f: expected ErrUpliftRange, got %v", uplift, err)
		}
	}

	// Bounds themselves are valid.
	for _, uplift := range []float64{5, 50} {
		if _, err := svc.Simulate(ctx, models.OutcomeConversion, simulate.Request{
			Selected:      []string{"session_count"},
			UpliftPercent: uplift,
		}); err != nil {
			t.Errorf("uplift %f should be accepted: %v", uplift, err)
		}
	}
}

func TestSimulate_EmptySelection(t *testing.T) {
	svc := testService()

	_, err := svc.Simulate(context.Background(), models.OutcomeChurn, simulate.Request{
		UpliftPercent: 10,
	})
	if !errors.Is(err, simulate.ErrEmptySelection) {
		t.Errorf("expected ErrEmptySelection, got %v", err)
	}
}

func TestSimulate_ChurnDirection(t *testing.T) {
	svc := testService()

	rep, err := svc.Simulate(context.Background(), models.OutcomeChurn, simulate.Request{
		Selected:      []string{"support_tickets"},
		UpliftPercent: 10,
	})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	if math.Abs(rep.Result.NetEffect-(-0.05)) > 1e-9 {
		t.Errorf("net effect = %f, want -0.05", rep.Result.NetEffect)
	}
	if !rep.Interpretation.Favorable {
		t.Error("reduced churn risk should be favorable")
	}
}
