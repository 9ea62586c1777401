package narrative

import (
	"strings"
	"testing"

	"github.com/astrocoach/insight/internal/models"
	"github.com/astrocoach/insight/internal/simulate"
)

func TestInterpret_GrowthFavorable(t *testing.T) {
	result := &simulate.Result{
		Direction:   models.DirectionGrowth,
		PositiveSum: 0.08,
		NegativeSum: -0.02,
		NetEffect:   0.06,
		Category:    simulate.CategoryMixed,
	}

	interp := Interpret(result)

	if !interp.Favorable {
		t.Error("positive net growth should be favorable")
	}
	if interp.Category != simulate.CategoryMixed {
		t.Errorf("category = %s, want mixed", interp.Category)
	}
	if len(interp.Guidance) == 0 {
		t.Fatal("expected guidance lines")
	}
	if !strings.Contains(interp.Guidance[0], "high-impact") {
		t.Errorf("favorable growth guidance unexpected: %q", interp.Guidance[0])
	}
}

func TestInterpret_RiskReductionFavorable(t *testing.T) {
	// Negative net effect means churn risk fell: favorable despite the sign.
	result := &simulate.Result{
		Direction:   models.DirectionRiskReduction,
		NegativeSum: -0.05,
		NetEffect:   -0.05,
		Category:    simulate.CategoryAllNegative,
	}

	interp := Interpret(result)

	if !interp.Favorable {
		t.Error("risk reduction with negative net effect should be favorable")
	}
	if !strings.Contains(interp.Headline, "reduce churn risk") {
		t.Errorf("headline unexpected: %q", interp.Headline)
	}
	if !strings.Contains(interp.Guidance[0], "loyalty") {
		t.Errorf("retention guidance unexpected: %q", interp.Guidance[0])
	}
}

func TestInterpret_RiskReductionUnfavorable(t *testing.T) {
	// Positive net effect in a risk-reduction run means risk rose.
	result := &simulate.Result{
		Direction:   models.DirectionRiskReduction,
		PositiveSum: 0.03,
		NetEffect:   0.03,
		Category:    simulate.CategoryAllPositive,
	}

	interp := Interpret(result)

	if interp.Favorable {
		t.Error("positive net effect in risk reduction should be unfavorable")
	}
	if !strings.Contains(interp.Headline, "limited impact") {
		t.Errorf("headline unexpected: %q", interp.Headline)
	}
}

func TestInterpret_EveryKeyCovered(t *testing.T) {
	categories := []simulate.Category{
		simulate.CategoryAllPositive,
		simulate.CategoryAllNegative,
		simulate.CategoryMixed,
		simulate.CategoryNeutral,
	}
	directions := []models.Direction{models.DirectionGrowth, models.DirectionRiskReduction}

	for _, cat := range categories {
		for _, dir := range directions {
			result := &simulate.Result{Direction: dir, Category: cat}
			interp := Interpret(result)
			if interp.Headline == "" {
				t.Errorf("no headline for (%s, %s)", cat, dir)
			}
		}
	}
}

func TestBandCaption(t *testing.T) {
	if !strings.Contains(BandCaption(simulate.BandLow), "exploration") {
		t.Error("low band caption missing exploration wording")
	}
	if !strings.Contains(BandCaption(simulate.BandModerate), "directional") {
		t.Error("moderate band caption missing directional wording")
	}
	if !strings.Contains(BandCaption(simulate.BandHigh), "action") {
		t.Error("high band caption missing action wording")
	}
}
