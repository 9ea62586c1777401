// Package narrative maps structured simulation output to interpretive copy.
// Text is a pure lookup keyed by impact category and simulation direction,
// so every sentence the tool shows is independently testable.
package narrative

import (
	"fmt"

	"github.com/astrocoach/insight/internal/models"
	"github.com/astrocoach/insight/internal/simulate"
)

// Interpretation is the display-ready reading of a simulation.
type Interpretation struct {
	Category  simulate.Category `json:"category"`
	Favorable bool              `json:"favorable"`
	Headline  string            `json:"headline"`
	Guidance  []string          `json:"guidance"`
}

type narrativeKey struct {
	category  simulate.Category
	direction models.Direction
}

var headlines = map[narrativeKey]string{
	{simulate.CategoryAllPositive, models.DirectionGrowth}:        "Improving the selected behaviors could increase overall conversion likelihood.",
	{simulate.CategoryAllNegative, models.DirectionGrowth}:        "The selected behaviors are associated with lower conversion impact.",
	{simulate.CategoryMixed, models.DirectionGrowth}:              "The selected behaviors pull conversion in both directions; the net effect decides.",
	{simulate.CategoryNeutral, models.DirectionGrowth}:            "The selected behaviors show neutral impact on conversion.",
	{simulate.CategoryAllNegative, models.DirectionRiskReduction}: "Improving the selected behaviors could meaningfully reduce churn risk.",
	{simulate.CategoryAllPositive, models.DirectionRiskReduction}: "The selected behaviors show limited impact on churn reduction.",
	{simulate.CategoryMixed, models.DirectionRiskReduction}:       "The selected behaviors both reduce and add churn risk; the net effect decides.",
	{simulate.CategoryNeutral, models.DirectionRiskReduction}:     "The selected behaviors have a neutral effect on churn.",
}

var growthGuidance = map[bool][]string{
	true: {
		"Prioritize product changes around high-impact behaviors.",
		"Trigger campaigns when these actions occur.",
		"Track these events as leading revenue indicators.",
	},
	false: {
		"Treat these actions as experience enhancers, not growth levers.",
		"Avoid heavy spend on campaigns centered only on these behaviors.",
		"Combine them with high-intent signals for better ROI.",
	},
}

var retentionGuidance = map[bool][]string{
	true: {
		"Trigger loyalty offers when these behaviors decline.",
		"Build retention journeys around these actions.",
		"Monitor them as early churn-warning signals.",
	},
	false: {
		"Use these behaviors to improve satisfaction.",
		"Do not rely on them alone for churn prevention.",
		"Combine with pricing, support, and lifecycle strategies.",
	},
}

// Interpret produces the reading for a simulation result. Favorability is
// direction-aware: a growth run is favorable when net effect is positive, a
// risk-reduction run when net effect is negative (risk fell).
func Interpret(result *simulate.Result) Interpretation {
	headline, ok := headlines[narrativeKey{result.Category, result.Direction}]
	if !ok {
		headline = fmt.Sprintf("Simulation classified as %s.", result.Category)
	}

	guidance := growthGuidance
	if result.Direction == models.DirectionRiskReduction {
		guidance = retentionGuidance
	}

	favorable := result.Favorable()
	return Interpretation{
		Category:  result.Category,
		Favorable: favorable,
		Headline:  headline,
		Guidance:  guidance[favorable],
	}
}

// BandCaption returns the one-line confidence guide for a band.
func BandCaption(band simulate.ConfidenceBand) string {
	switch band {
	case simulate.BandLow:
		return "Low confidence: use for exploration, not execution."
	case simulate.BandModerate:
		return "Moderate confidence: directional guidance."
	default:
		return "High confidence: suitable for action."
	}
}
