// Package export writes analysis results as CSV for downstream campaign
// tooling. Writers take an io.Writer so callers decide where output goes.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/astrocoach/insight/internal/models"
	"github.com/astrocoach/insight/internal/simulate"
)

// WriteTargets writes high-intent targeting candidates
// (user_id, conversion_probability).
func WriteTargets(w io.Writer, users []models.UserScore) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"user_id", "conversion_probability"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, u := range users {
		row := []string{u.UserID, formatFloat(u.ConversionProbability)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row for %s: %w", u.UserID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteAtRisk writes at-risk premium users (user_id, churn_probability).
func WriteAtRisk(w io.Writer, users []models.ChurnScore) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"user_id", "churn_probability"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, u := range users {
		row := []string{u.UserID, formatFloat(u.ChurnProbability)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row for %s: %w", u.UserID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSimulation writes the per-signal breakdown of a simulation
// (signal, coefficient, simulated_impact) with a trailing net-effect row.
func WriteSimulation(w io.Writer, result *simulate.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"signal", "coefficient", "simulated_impact"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, impact := range result.PerSignal {
		row := []string{impact.Name, formatFloat(impact.Coefficient), formatFloat(impact.SimulatedImpact)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row for %s: %w", impact.Name, err)
		}
	}
	if err := cw.Write([]string{"net_effect", "", formatFloat(result.NetEffect)}); err != nil {
		return fmt.Errorf("writing net effect: %w", err)
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
