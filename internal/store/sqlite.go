package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/astrocoach/insight/internal/dataset"
	"github.com/astrocoach/insight/internal/models"
)

const dateFormat = "2006-01-02"

// SQLiteStore serves the analytics tables from a SQLite warehouse built by
// `insight import`. Reads never re-parse CSVs, which matters for the
// dashboard and MCP servers where every request hits the store.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the warehouse at path and ensures the
// schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating warehouse directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening warehouse: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)

	if err := initSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing warehouse schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS signals (
		outcome     TEXT NOT NULL,
		rank        INTEGER NOT NULL,
		name        TEXT NOT NULL,
		coefficient REAL NOT NULL,
		PRIMARY KEY (outcome, rank)
	);
	CREATE TABLE IF NOT EXISTS user_scores (
		user_id                TEXT PRIMARY KEY,
		conversion_probability REAL NOT NULL,
		premium                INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS churn_scores (
		user_id           TEXT PRIMARY KEY,
		churn_probability REAL NOT NULL
	);
	CREATE TABLE IF NOT EXISTS daily_demand (
		date          TEXT PRIMARY KEY,
		subscriptions INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS forecast (
		date      TEXT PRIMARY KEY,
		predicted REAL NOT NULL
	);`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return err
	}
	return nil
}

// ImportTables loads a full set of CSV tables into the warehouse,
// replacing any rows with matching keys. The import runs in a single
// transaction so a failed run never leaves a half-written warehouse.
func (s *SQLiteStore) ImportTables(ctx context.Context, tables *dataset.Tables) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning import transaction: %w", err)
	}
	defer tx.Rollback()

	importSignals := func(outcome models.Outcome, signals []models.Signal) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM signals WHERE outcome = ?`, string(outcome)); err != nil {
			return err
		}
		for rank, sig := range signals {
			_, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO signals (outcome, rank, name, coefficient) VALUES (?, ?, ?, ?)`,
				string(outcome), rank, sig.Name, sig.Coefficient)
			if err != nil {
				return err
			}
		}
		return nil
	}

	if err := importSignals(models.OutcomeConversion, tables.ConversionSignals); err != nil {
		return fmt.Errorf("importing conversion signals: %w", err)
	}
	if err := importSignals(models.OutcomeChurn, tables.ChurnSignals); err != nil {
		return fmt.Errorf("importing churn signals: %w", err)
	}

	for _, u := range tables.UserScores {
		premium := 0
		if u.Premium {
			premium = 1
		}
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO user_scores (user_id, conversion_probability, premium) VALUES (?, ?, ?)`,
			u.UserID, u.ConversionProbability, premium)
		if err != nil {
			return fmt.Errorf("importing user scores: %w", err)
		}
	}

	for _, c := range tables.ChurnScores {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO churn_scores (user_id, churn_probability) VALUES (?, ?)`,
			c.UserID, c.ChurnProbability)
		if err != nil {
			return fmt.Errorf("importing churn scores: %w", err)
		}
	}

	for _, d := range tables.DailyDemand {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO daily_demand (date, subscriptions) VALUES (?, ?)`,
			d.Date.Format(dateFormat), d.Subscriptions)
		if err != nil {
			return fmt.Errorf("importing daily demand: %w", err)
		}
	}

	for _, f := range tables.Forecast {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO forecast (date, predicted) VALUES (?, ?)`,
			f.Date.Format(dateFormat), f.Predicted)
		if err != nil {
			return fmt.Errorf("importing forecast: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RankedSignals(ctx context.Context, outcome models.Outcome) ([]models.Signal, error) {
	if !outcome.Valid() {
		return nil, invalidOutcome(outcome)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, coefficient FROM signals WHERE outcome = ? ORDER BY rank`, string(outcome))
	if err != nil {
		return nil, fmt.Errorf("querying signals: %w", err)
	}
	defer rows.Close()

	var signals []models.Signal
	for rows.Next() {
		var sig models.Signal
		if err := rows.Scan(&sig.Name, &sig.Coefficient); err != nil {
			return nil, fmt.Errorf("scanning signal row: %w", err)
		}
		signals = append(signals, sig)
	}
	return signals, rows.Err()
}

func (s *SQLiteStore) UserScores(ctx context.Context) ([]models.UserScore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, conversion_probability, premium FROM user_scores`)
	if err != nil {
		return nil, fmt.Errorf("querying user scores: %w", err)
	}
	defer rows.Close()

	var scores []models.UserScore
	for rows.Next() {
		var u models.UserScore
		var premium int
		if err := rows.Scan(&u.UserID, &u.ConversionProbability, &premium); err != nil {
			return nil, fmt.Errorf("scanning user score row: %w", err)
		}
		u.Premium = premium != 0
		scores = append(scores, u)
	}
	return scores, rows.Err()
}

func (s *SQLiteStore) ChurnScores(ctx context.Context) ([]models.ChurnScore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, churn_probability FROM churn_scores`)
	if err != nil {
		return nil, fmt.Errorf("querying churn scores: %w", err)
	}
	defer rows.Close()

	var scores []models.ChurnScore
	for rows.Next() {
		var c models.ChurnScore
		if err := rows.Scan(&c.UserID, &c.ChurnProbability); err != nil {
			return nil, fmt.Errorf("scanning churn score row: %w", err)
		}
		scores = append(scores, c)
	}
	return scores, rows.Err()
}

func (s *SQLiteStore) DailyDemand(ctx context.Context) ([]models.DemandPoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, subscriptions FROM daily_demand ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("querying daily demand: %w", err)
	}
	defer rows.Close()

	var points []models.DemandPoint
	for rows.Next() {
		var dateStr string
		var p models.DemandPoint
		if err := rows.Scan(&dateStr, &p.Subscriptions); err != nil {
			return nil, fmt.Errorf("scanning demand row: %w", err)
		}
		d, err := time.Parse(dateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing demand date %q: %w", dateStr, err)
		}
		p.Date = d
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *SQLiteStore) Forecast(ctx context.Context) ([]models.ForecastPoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, predicted FROM forecast ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("querying forecast: %w", err)
	}
	defer rows.Close()

	var points []models.ForecastPoint
	for rows.Next() {
		var dateStr string
		var p models.ForecastPoint
		if err := rows.Scan(&dateStr, &p.Predicted); err != nil {
			return nil, fmt.Errorf("scanning forecast row: %w", err)
		}
		d, err := time.Parse(dateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing forecast date %q: %w", dateStr, err)
		}
		p.Date = d
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
