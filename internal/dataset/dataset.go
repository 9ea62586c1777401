// Package dataset loads the pre-computed analytics tables from CSV files.
// Parsing is columnar via Apache Arrow: column types are forced up front so a
// stray value cannot silently flip a probability column to strings, and rows
// are copied out of each record batch into the plain domain types.
package dataset

import (
	"bufio"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/csv"
	"github.com/astrocoach/insight/internal/models"
)

// Table file names within the data directory.
const (
	FileDailyDemand       = "daily_premium_demand.csv"
	FileForecast          = "premium_demand_forecast.csv"
	FileConversionSignals = "conversion_feature_importance.csv"
	FileChurnSignals      = "churn_feature_importance.csv"
	FileUserScores        = "user_conversion_scores.csv"
	FileChurnScores       = "premium_churn_scores.csv"
)

// ErrMissingColumn indicates a table lacks one of its required columns.
// A malformed table is fatal for loading; there is no row-level recovery
// from a schema mismatch.
var ErrMissingColumn = errors.New("required column missing")

// Tables holds all six loaded analytics tables.
type Tables struct {
	DailyDemand       []models.DemandPoint
	Forecast          []models.ForecastPoint
	ConversionSignals []models.Signal
	ChurnSignals      []models.Signal
	UserScores        []models.UserScore
	ChurnScores       []models.ChurnScore
}

// LoadDir loads all six tables from dir. Every table must be present and
// well-formed.
func LoadDir(dir string) (*Tables, error) {
	tables := &Tables{}

	loaders := []struct {
		file string
		load func(io.Reader) error
	}{
		{FileDailyDemand, func(r io.Reader) (err error) {
			tables.DailyDemand, err = ReadDemand(r)
			return
		}},
		{FileForecast, func(r io.Reader) (err error) {
			tables.Forecast, err = ReadForecast(r)
			return
		}},
		{FileConversionSignals, func(r io.Reader) (err error) {
			tables.ConversionSignals, err = ReadSignals(r)
			return
		}},
		{FileChurnSignals, func(r io.Reader) (err error) {
			tables.ChurnSignals, err = ReadSignals(r)
			return
		}},
		{FileUserScores, func(r io.Reader) (err error) {
			tables.UserScores, err = ReadUserScores(r)
			return
		}},
		{FileChurnScores, func(r io.Reader) (err error) {
			tables.ChurnScores, err = ReadChurnScores(r)
			return
		}},
	}

	for _, l := range loaders {
		f, err := os.Open(filepath.Join(dir, l.file))
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", l.file, err)
		}
		loadErr := l.load(f)
		f.Close()
		if loadErr != nil {
			return nil, fmt.Errorf("loading %s: %w", l.file, loadErr)
		}
	}

	return tables, nil
}

// ReadSignals reads a ranked signal table (feature, coefficient).
// Row order is preserved; the upstream export is already ranked by
// absolute coefficient.
func ReadSignals(r io.Reader) ([]models.Signal, error) {
	r, err := requireColumns(r, "feature", "coefficient")
	if err != nil {
		return nil, err
	}

	// Chunk size 1 selects the reader's row-at-a-time path, the only one in
	// arrow v17 that survives a header-only file: the batched paths call
	// NewRecord on a builder the inferring reader never created (nil deref in
	// csv/reader.go nextn/nextall when zero data rows are read).
	rdr := csv.NewInferringReader(r,
		csv.WithHeader(true),
		csv.WithChunk(1),
		csv.WithColumnTypes(map[string]arrow.DataType{
			"feature":     arrow.BinaryTypes.String,
			"coefficient": arrow.PrimitiveTypes.Float64,
		}),
	)
	defer rdr.Release()

	var signals []models.Signal
	for rdr.Next() {
		rec := rdr.Record()
		names, err := stringColumn(rec, "feature")
		if err != nil {
			return nil, err
		}
		coefs, err := float64Column(rec, "coefficient")
		if err != nil {
			return nil, err
		}
		for i := range names {
			signals = append(signals, models.Signal{Name: names[i], Coefficient: coefs[i]})
		}
	}
	if err := rdr.Err(); err != nil {
		return nil, fmt.Errorf("reading signal table: %w", err)
	}
	return signals, nil
}

// ReadUserScores reads the conversion score table
// (user_id, conversion_probability, isPremiumUserFlag).
func ReadUserScores(r io.Reader) ([]models.UserScore, error) {
	r, err := requireColumns(r, "user_id", "conversion_probability", "isPremiumUserFlag")
	if err != nil {
		return nil, err
	}

	rdr := csv.NewInferringReader(r,
		csv.WithHeader(true),
		csv.WithChunk(1024),
		csv.WithColumnTypes(map[string]arrow.DataType{
			"user_id":                arrow.BinaryTypes.String,
			"conversion_probability": arrow.PrimitiveTypes.Float64,
			"isPremiumUserFlag":      arrow.BinaryTypes.String,
		}),
	)
	defer rdr.Release()

	var scores []models.UserScore
	for rdr.Next() {
		rec := rdr.Record()
		ids, err := stringColumn(rec, "user_id")
		if err != nil {
			return nil, err
		}
		probs, err := float64Column(rec, "conversion_probability")
		if err != nil {
			return nil, err
		}
		flags, err := stringColumn(rec, "isPremiumUserFlag")
		if err != nil {
			return nil, err
		}
		for i := range ids {
			scores = append(scores, models.UserScore{
				UserID:                ids[i],
				ConversionProbability: probs[i],
				Premium:               parseFlag(flags[i]),
			})
		}
	}
	if err := rdr.Err(); err != nil {
		return nil, fmt.Errorf("reading user score table: %w", err)
	}
	return scores, nil
}

// ReadChurnScores reads the churn score table (user_id, churn_probability).
func ReadChurnScores(r io.Reader) ([]models.ChurnScore, error) {
	r, err := requireColumns(r, "user_id", "churn_probability")
	if err != nil {
		return nil, err
	}

	rdr := csv.NewInferringReader(r,
		csv.WithHeader(true),
		csv.WithChunk(1024),
		csv.WithColumnTypes(map[string]arrow.DataType{
			"user_id":           arrow.BinaryTypes.String,
			"churn_probability": arrow.PrimitiveTypes.Float64,
		}),
	)
	defer rdr.Release()

	var scores []models.ChurnScore
	for rdr.Next() {
		rec := rdr.Record()
		ids, err := stringColumn(rec, "user_id")
		if err != nil {
			return nil, err
		}
		probs, err := float64Column(rec, "churn_probability")
		if err != nil {
			return nil, err
		}
		for i := range ids {
			scores = append(scores, models.ChurnScore{UserID: ids[i], ChurnProbability: probs[i]})
		}
	}
	if err := rdr.Err(); err != nil {
		return nil, fmt.Errorf("reading churn score table: %w", err)
	}
	return scores, nil
}

// ReadDemand reads the observed demand table (payment_date, premium_subscriptions).
func ReadDemand(r io.Reader) ([]models.DemandPoint, error) {
	r, err := requireColumns(r, "payment_date", "premium_subscriptions")
	if err != nil {
		return nil, err
	}

	rdr := csv.NewInferringReader(r,
		csv.WithHeader(true),
		csv.WithChunk(1024),
		csv.WithColumnTypes(map[string]arrow.DataType{
			"payment_date":          arrow.BinaryTypes.String,
			"premium_subscriptions": arrow.PrimitiveTypes.Int64,
		}),
	)
	defer rdr.Release()

	var points []models.DemandPoint
	for rdr.Next() {
		rec := rdr.Record()
		dates, err := stringColumn(rec, "payment_date")
		if err != nil {
			return nil, err
		}
		subs, err := int64Column(rec, "premium_subscriptions")
		if err != nil {
			return nil, err
		}
		for i := range dates {
			d, err := parseDate(dates[i])
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", len(points)+1, err)
			}
			points = append(points, models.DemandPoint{Date: d, Subscriptions: subs[i]})
		}
	}
	if err := rdr.Err(); err != nil {
		return nil, fmt.Errorf("reading demand table: %w", err)
	}
	return points, nil
}

// ReadForecast reads the forecast table (date, predicted_premium_subscriptions).
func ReadForecast(r io.Reader) ([]models.ForecastPoint, error) {
	r, err := requireColumns(r, "date", "predicted_premium_subscriptions")
	if err != nil {
		return nil, err
	}

	rdr := csv.NewInferringReader(r,
		csv.WithHeader(true),
		csv.WithChunk(1024),
		csv.WithColumnTypes(map[string]arrow.DataType{
			"date":                            arrow.BinaryTypes.String,
			"predicted_premium_subscriptions": arrow.PrimitiveTypes.Float64,
		}),
	)
	defer rdr.Release()

	var points []models.ForecastPoint
	for rdr.Next() {
		rec := rdr.Record()
		dates, err := stringColumn(rec, "date")
		if err != nil {
			return nil, err
		}
		preds, err := float64Column(rec, "predicted_premium_subscriptions")
		if err != nil {
			return nil, err
		}
		for i := range dates {
			d, err := parseDate(dates[i])
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", len(points)+1, err)
			}
			points = append(points, models.ForecastPoint{Date: d, Predicted: preds[i]})
		}
	}
	if err := rdr.Err(); err != nil {
		return nil, fmt.Errorf("reading forecast table: %w", err)
	}
	return points, nil
}

// requireColumns validates the header row before the columnar reader sees
// the stream. The Arrow reader yields no record batch for a table with zero
// data rows, so a missing column in an otherwise empty file would load as an
// empty table instead of failing. Returns a reader that replays the header.
func requireColumns(r io.Reader, cols ...string) (io.Reader, error) {
	br := bufio.NewReader(r)
	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	fields, err := stdcsv.NewReader(strings.NewReader(line)).Read()
	if err != nil {
		return nil, fmt.Errorf("parsing header: %w", err)
	}
	present := make(map[string]bool, len(fields))
	for _, f := range fields {
		present[strings.TrimSpace(f)] = true
	}
	for _, c := range cols {
		if !present[c] {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	return io.MultiReader(strings.NewReader(line), br), nil
}

func fieldIndex(rec arrow.Record, name string) (int, error) {
	indices := rec.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	return indices[0], nil
}

func stringColumn(rec arrow.Record, name string) ([]string, error) {
	idx, err := fieldIndex(rec, name)
	if err != nil {
		return nil, err
	}
	col, ok := rec.Column(idx).(*array.String)
	if !ok {
		return nil, fmt.Errorf("column %s: expected string, got %s", name, rec.Column(idx).DataType())
	}
	out := make([]string, col.Len())
	for i := 0; i < col.Len(); i++ {
		if !col.IsNull(i) {
			out[i] = col.Value(i)
		}
	}
	return out, nil
}

func float64Column(rec arrow.Record, name string) ([]float64, error) {
	idx, err := fieldIndex(rec, name)
	if err != nil {
		return nil, err
	}
	col, ok := rec.Column(idx).(*array.Float64)
	if !ok {
		return nil, fmt.Errorf("column %s: expected float64, got %s", name, rec.Column(idx).DataType())
	}
	out := make([]float64, col.Len())
	for i := 0; i < col.Len(); i++ {
		if !col.IsNull(i) {
			out[i] = col.Value(i)
		}
	}
	return out, nil
}

func int64Column(rec arrow.Record, name string) ([]int64, error) {
	idx, err := fieldIndex(rec, name)
	if err != nil {
		return nil, err
	}
	col, ok := rec.Column(idx).(*array.Int64)
	if !ok {
		return nil, fmt.Errorf("column %s: expected int64, got %s", name, rec.Column(idx).DataType())
	}
	out := make([]int64, col.Len())
	for i := 0; i < col.Len(); i++ {
		if !col.IsNull(i) {
			out[i] = col.Value(i)
		}
	}
	return out, nil
}

// parseFlag accepts the boolean spellings seen in upstream exports:
// 0/1 integers, pandas True/False, and lowercase true/false.
func parseFlag(s string) bool {
	switch strings.TrimSpace(s) {
	case "1", "1.0", "true", "True", "TRUE":
		return true
	}
	return false
}

var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
