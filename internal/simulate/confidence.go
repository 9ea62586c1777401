package simulate

import "math"

// ConfidenceConfig configures the selection-coverage confidence heuristic.
// Two formula variants exist in the field data (base weight 0.5 and 0.6 with
// different pool sizes), so both knobs are configuration rather than
// constants.
type ConfidenceConfig struct {
	// BaseWeight is the confidence floor as a fraction (0.0-1.0). A single
	// selected signal already yields at least BaseWeight*100 percent.
	BaseWeight float64 `json:"base_weight" yaml:"base_weight"`

	// PoolSize is the selection count at which coverage saturates at 1.0.
	PoolSize int `json:"pool_size" yaml:"pool_size"`
}

// DefaultConfidenceConfig returns the default heuristic: 0.5 floor,
// saturating at 5 selected signals.
func DefaultConfidenceConfig() ConfidenceConfig {
	return ConfidenceConfig{
		BaseWeight: 0.5,
		PoolSize:   5,
	}
}

// normalized clamps the config into usable ranges.
func (c ConfidenceConfig) normalized() ConfidenceConfig {
	if c.BaseWeight < 0 {
		c.BaseWeight = 0
	}
	if c.BaseWeight > 1 {
		c.BaseWeight = 1
	}
	if c.PoolSize <= 0 {
		c.PoolSize = DefaultConfidenceConfig().PoolSize
	}
	return c
}

// Confidence computes the heuristic confidence percentage for a simulation
// that used numSelected signals:
//
//	confidence = round1(100 * (base + (1-base) * min(1, n/pool)))
//
// Monotone non-decreasing in numSelected and bounded in [base*100, 100].
// This is a coverage heuristic, not a statistical confidence interval.
func Confidence(numSelected int, cfg ConfidenceConfig) float64 {
	cfg = cfg.normalized()

	coverage := float64(numSelected) / float64(cfg.PoolSize)
	if coverage > 1 {
		coverage = 1
	}
	if coverage < 0 {
		coverage = 0
	}

	pct := 100 * (cfg.BaseWeight + (1-cfg.BaseWeight)*coverage)
	return math.Round(pct*10) / 10
}

// ConfidenceBand buckets a confidence percentage for display.
type ConfidenceBand string

const (
	BandLow      ConfidenceBand = "low"      // < 40: exploration, not execution
	BandModerate ConfidenceBand = "moderate" // [40, 70): directional guidance
	BandHigh     ConfidenceBand = "high"     // >= 70: suitable for action
)

// BandFor maps a confidence percentage to its display band. Boundaries are
// inclusive-low, exclusive-high; the top band is closed at 70 and above.
func BandFor(pct float64) ConfidenceBand {
	switch {
	case pct < 40:
		return BandLow
	case pct < 70:
		return BandModerate
	default:
		return BandHigh
	}
}
