// Package simulate implements the what-if impact simulator: given a ranked
// signal table, a selected subset of signals, and an assumed percentage
// uplift, it estimates the aggregate effect on the target outcome and
// derives a heuristic confidence score from the selection size.
package simulate

import (
	"errors"
	"math"

	"github.com/astrocoach/insight/internal/models"
)

// ErrEmptySelection is returned when a simulation is requested with no
// selected signals. This is a caller precondition failure: no computation
// is attempted and the caller must prompt for at least one selection.
var ErrEmptySelection = errors.New("simulation requires at least one selected signal")

// Request describes one simulation invocation. UpliftPercent is constrained
// to [5,50] by callers (CLI flag validation, HTTP handler, MCP schema); the
// simulator does not re-validate it.
type Request struct {
	Selected      []string `json:"selected"`
	UpliftPercent float64  `json:"uplift_percent"`
}

// SignalImpact is one retained signal with its simulated impact.
type SignalImpact struct {
	Name            string  `json:"name"`
	Coefficient     float64 `json:"coefficient"`
	SimulatedImpact float64 `json:"simulated_impact"`
}

// Result holds the outcome of one simulation. It is derived, never
// persisted: every parameter change recomputes from the signal table.
type Result struct {
	Direction models.Direction `json:"direction"`
	PerSignal []SignalImpact   `json:"per_signal"`

	// PositiveSum sums impacts strictly > 0, NegativeSum those strictly < 0.
	// Impacts of exactly zero contribute to neither.
	PositiveSum float64 `json:"positive_sum"`
	NegativeSum float64 `json:"negative_sum"`
	NetEffect   float64 `json:"net_effect"`

	ConfidencePercent float64        `json:"confidence_percent"`
	Band              ConfidenceBand `json:"confidence_band"`
	Category          Category       `json:"category"`
}

// Favorable reports whether the net effect moves the outcome in the desired
// direction. Growth simulations are favorable when the net effect is
// positive; risk-reduction simulations when it is negative (risk fell).
func (r *Result) Favorable() bool {
	if r.Direction == models.DirectionRiskReduction {
		return r.NetEffect < 0
	}
	return r.NetEffect > 0
}

// Simulator runs impact simulations against a ranked signal table.
type Simulator struct {
	confidence ConfidenceConfig
}

// New creates a simulator with the given confidence configuration.
func New(cfg ConfidenceConfig) *Simulator {
	return &Simulator{confidence: cfg.normalized()}
}

// Simulate filters signals to the selected names, computes sign-correct
// per-signal impacts, and aggregates them. Pure function of its inputs:
// identical inputs yield identical results.
//
// Selection is defined as the intersection with available names; selected
// names absent from the table are silently dropped. Output preserves the
// input ranked order and is never re-sorted by impact.
func (s *Simulator) Simulate(signals []models.Signal, req Request, dir models.Direction) (*Result, error) {
	if len(req.Selected) == 0 {
		return nil, ErrEmptySelection
	}

	selected := make(map[string]bool, len(req.Selected))
	for _, name := range req.Selected {
		selected[name] = true
	}

	sign := 1.0
	if dir == models.DirectionRiskReduction {
		// A positive churn coefficient denotes elevated risk; improving the
		// behavior is modeled as a negative contribution to risk.
		sign = -1.0
	}

	factor := req.UpliftPercent / 100.0

	result := &Result{Direction: dir}
	for _, sig := range signals {
		if !selected[sig.Name] {
			continue
		}
		impact := sign * sig.Coefficient * factor
		result.PerSignal = append(result.PerSignal, SignalImpact{
			Name:            sig.Name,
			Coefficient:     sig.Coefficient,
			SimulatedImpact: impact,
		})
		switch {
		case impact > 0:
			result.PositiveSum += impact
		case impact < 0:
			result.NegativeSum += impact
		}
	}

	result.NetEffect = result.PositiveSum + result.NegativeSum
	result.ConfidencePercent = Confidence(len(result.PerSignal), s.confidence)
	result.Band = BandFor(result.ConfidencePercent)
	result.Category = Categorize(result.PositiveSum, result.NegativeSum)

	return result, nil
}

// RoundNet returns the net effect rounded to 3 decimals for display.
func (r *Result) RoundNet() float64 {
	return math.Round(r.NetEffect*1000) / 1000
}
