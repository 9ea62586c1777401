package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/astrocoach/insight/internal/dataset"
	"github.com/astrocoach/insight/internal/models"
)

// Compile-time interface checks.
var (
	_ Store = (*CSVStore)(nil)
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

func fixtureTables() dataset.Tables {
	return dataset.Tables{
		ConversionSignals: []models.Signal{
			{Name: "session_count", Coefficient: 0.4},
			{Name: "days_inactive", Coefficient: -0.2},
		},
		ChurnSignals: []models.Signal{
			{Name: "support_tickets", Coefficient: 0.5},
		},
		UserScores: []models.UserScore{
			{UserID: "u1", ConversionProbability: 0.9, Premium: false},
			{UserID: "u2", ConversionProbability: 0.3, Premium: true},
		},
		ChurnScores: []models.ChurnScore{
			{UserID: "u2", ChurnProbability: 0.7},
		},
		DailyDemand: []models.DemandPoint{
			{Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Subscriptions: 12},
			{Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), Subscriptions: 15},
		},
		Forecast: []models.ForecastPoint{
			{Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), Predicted: 18.5},
		},
	}
}

func TestMemoryStore_RankedSignals(t *testing.T) {
	s := NewMemoryStore(fixtureTables())
	ctx := context.Background()

	conv, err := s.RankedSignals(ctx, models.OutcomeConversion)
	if err != nil {
		t.Fatalf("RankedSignals(conversion): %v", err)
	}
	if len(conv) != 2 || conv[0].Name != "session_count" {
		t.Errorf("conversion signals = %+v", conv)
	}

	churn, err := s.RankedSignals(ctx, models.OutcomeChurn)
	if err != nil {
		t.Fatalf("RankedSignals(churn): %v", err)
	}
	if len(churn) != 1 || churn[0].Name != "support_tickets" {
		t.Errorf("churn signals = %+v", churn)
	}

	if _, err := s.RankedSignals(ctx, models.Outcome("retention")); err == nil {
		t.Error("expected error for unknown outcome")
	}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warehouse.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	tables := fixtureTables()
	if err := s.ImportTables(ctx, &tables); err != nil {
		t.Fatalf("ImportTables: %v", err)
	}

	conv, err := s.RankedSignals(ctx, models.OutcomeConversion)
	if err != nil {
		t.Fatalf("RankedSignals: %v", err)
	}
	if len(conv) != 2 {
		t.Fatalf("got %d conversion signals, want 2", len(conv))
	}
	// Rank order must survive storage.
	if conv[0].Name != "session_count" || conv[1].Name != "days_inactive" {
		t.Errorf("signal order = %s, %s", conv[0].Name, conv[1].Name)
	}
	if conv[1].Coefficient != -0.2 {
		t.Errorf("coefficient = %f, want -0.2", conv[1].Coefficient)
	}

	users, err := s.UserScores(ctx)
	if err != nil {
		t.Fatalf("UserScores: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d user scores, want 2", len(users))
	}
	byID := map[string]models.UserScore{}
	for _, u := range users {
		byID[u.UserID] = u
	}
	if byID["u1"].Premium || !byID["u2"].Premium {
		t.Errorf("premium flags wrong: %+v", byID)
	}

	churn, err := s.ChurnScores(ctx)
	if err != nil {
		t.Fatalf("ChurnScores: %v", err)
	}
	if len(churn) != 1 || churn[0].ChurnProbability != 0.7 {
		t.Errorf("churn scores = %+v", churn)
	}

	demand, err := s.DailyDemand(ctx)
	if err != nil {
		t.Fatalf("DailyDemand: %v", err)
	}
	if len(demand) != 2 || demand[0].Subscriptions != 12 {
		t.Errorf("demand = %+v", demand)
	}
	if !demand[0].Date.Before(demand[1].Date) {
		t.Error("demand not in date order")
	}

	forecast, err := s.Forecast(ctx)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if len(forecast) != 1 || forecast[0].Predicted != 18.5 {
		t.Errorf("forecast = %+v", forecast)
	}
}

func TestSQLiteStore_ReimportReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warehouse.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	tables := fixtureTables()
	if err := s.ImportTables(ctx, &tables); err != nil {
		t.Fatalf("first import: %v", err)
	}

	// Second import with a shorter signal table must not leave stale rows.
	tables.ConversionSignals = []models.Signal{{Name: "new_signal", Coefficient: 0.1}}
	if err := s.ImportTables(ctx, &tables); err != nil {
		t.Fatalf("second import: %v", err)
	}

	conv, err := s.RankedSignals(ctx, models.OutcomeConversion)
	if err != nil {
		t.Fatalf("RankedSignals: %v", err)
	}
	if len(conv) != 1 || conv[0].Name != "new_signal" {
		t.Errorf("re-import left stale rows: %+v", conv)
	}
}

func TestCSVStore(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		dataset.FileDailyDemand:       "payment_date,premium_subscriptions\n2025-06-01,10\n",
		dataset.FileForecast:          "date,predicted_premium_subscriptions\n2025-07-01,12.5\n",
		dataset.FileConversionSignals: "feature,coefficient\nsession_count,0.4\n",
		dataset.FileChurnSignals:      "feature,coefficient\nsupport_tickets,0.5\n",
		dataset.FileUserScores:        "user_id,conversion_probability,isPremiumUserFlag\nu1,0.8,0\n",
		dataset.FileChurnScores:       "user_id,churn_probability\np1,0.7\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	s := NewCSVStore(dir)
	defer s.Close()

	ctx := context.Background()
	signals, err := s.RankedSignals(ctx, models.OutcomeConversion)
	if err != nil {
		t.Fatalf("RankedSignals: %v", err)
	}
	if len(signals) != 1 || signals[0].Name != "session_count" {
		t.Errorf("signals = %+v", signals)
	}

	users, err := s.UserScores(ctx)
	if err != nil {
		t.Fatalf("UserScores: %v", err)
	}
	if len(users) != 1 || users[0].UserID != "u1" {
		t.Errorf("users = %+v", users)
	}
}

func TestCSVStore_MissingDir(t *testing.T) {
	s := NewCSVStore(filepath.Join(t.TempDir(), "absent"))
	defer s.Close()

	if _, err := s.UserScores(context.Background()); err == nil {
		t.Error("expected load error for missing directory")
	}
	// Error must be sticky across calls.
	if _, err := s.ChurnScores(context.Background()); err == nil {
		t.Error("expected sticky load error")
	}
}
