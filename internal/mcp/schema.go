// Package mcp provides an MCP (Model Context Protocol) server for insight.
package mcp

import (
	"github.com/astrocoach/insight/internal/analytics"
	"github.com/astrocoach/insight/internal/models"
	"github.com/astrocoach/insight/internal/simulate"
)

// The jsonschema tags below carry the plain field description; the schema
// builder marks fields without omitempty as required on its own.

// OverviewInput defines the input for the insight_overview tool.
type OverviewInput struct{}

// OverviewOutput defines the output for the insight_overview tool.
type OverviewOutput struct {
	Overview analytics.Overview `json:"overview" jsonschema:"Executive overview metrics"`
}

// TrendInput defines the input for the insight_trend tool.
type TrendInput struct {
	From string `json:"from,omitempty" jsonschema:"Window start date (YYYY-MM-DD); omit for all data"`
	To   string `json:"to,omitempty" jsonschema:"Window end date (YYYY-MM-DD); omit for all data"`
}

// TrendOutput defines the output for the insight_trend tool.
type TrendOutput struct {
	Trend analytics.Trend `json:"trend" jsonschema:"Demand momentum within the window"`
}

// DriversInput defines the input for the insight_drivers tool.
type DriversInput struct {
	Outcome string `json:"outcome,omitempty" jsonschema:"Outcome model: 'conversion' (default) or 'churn'"`
	Count   int    `json:"count,omitempty" jsonschema:"Number of top drivers to return (default from config)"`
}

// DriversOutput defines the output for the insight_drivers tool.
type DriversOutput struct {
	Outcome string                  `json:"outcome" jsonschema:"Outcome model queried"`
	Drivers analytics.DriverSummary `json:"drivers" jsonschema:"Top ranked signals for the outcome"`
}

// TargetsInput defines the input for the insight_targets tool.
type TargetsInput struct {
	Threshold float64 `json:"threshold,omitempty" jsonschema:"Minimum conversion probability (0-1, default from config)"`
	Limit     int     `json:"limit,omitempty" jsonschema:"Maximum candidates to return (0 = unlimited)"`
}

// TargetsOutput defines the output for the insight_targets tool.
type TargetsOutput struct {
	Targets analytics.TargetList `json:"targets" jsonschema:"High-intent freemium users ranked by probability"`
	Count   int                  `json:"count" jsonschema:"Number of candidates"`
}

// ChurnRiskInput defines the input for the insight_churn_risk tool.
type ChurnRiskInput struct {
	Threshold float64 `json:"threshold,omitempty" jsonschema:"Minimum churn probability (0-1, default from config)"`
}

// ChurnRiskOutput defines the output for the insight_churn_risk tool.
type ChurnRiskOutput struct {
	AtRisk []models.ChurnScore `json:"at_risk" jsonschema:"Premium users at or above the threshold, most at risk first"`
	Count  int                 `json:"count" jsonschema:"Number of at-risk users"`
}

// SimulateInput defines the input for the insight_simulate tool.
// Selected and UpliftPercent are required (no omitempty).
type SimulateInput struct {
	Outcome       string   `json:"outcome,omitempty" jsonschema:"Outcome model: 'conversion' (default) or 'churn'"`
	Selected      []string `json:"selected" jsonschema:"Signal names to include in the what-if"`
	UpliftPercent float64  `json:"uplift_percent" jsonschema:"Assumed behavioral uplift in percent (5-50)"`
}

// SimulateOutput defines the output for the insight_simulate tool.
type SimulateOutput struct {
	Outcome           string                  `json:"outcome" jsonschema:"Outcome model simulated"`
	Result            *simulate.Result        `json:"result" jsonschema:"Per-signal impacts and aggregates"`
	Headline          string                  `json:"headline" jsonschema:"One-line interpretation"`
	Favorable         bool                    `json:"favorable" jsonschema:"Whether the net effect moves the outcome the desired way"`
	Guidance          []string                `json:"guidance" jsonschema:"Recommended follow-up actions"`
	ConfidenceCaption string                  `json:"confidence_caption" jsonschema:"How much to trust this run"`
	PerSignal         []simulate.SignalImpact `json:"per_signal" jsonschema:"Retained signals in ranked order"`
}
