package simulate

// Category classifies a simulation by the signs of its impact partitions.
// It replaces sign-branching narrative logic with a small decision table so
// interpretation text becomes a pure function of the category.
type Category string

const (
	// CategoryAllPositive: every non-zero impact was positive.
	CategoryAllPositive Category = "all-positive"

	// CategoryAllNegative: every non-zero impact was negative.
	CategoryAllNegative Category = "all-negative"

	// CategoryMixed: both positive and negative impacts are present.
	CategoryMixed Category = "mixed"

	// CategoryNeutral: no impact departed from zero.
	CategoryNeutral Category = "neutral"
)

// Categorize maps (sign of positiveSum, sign of negativeSum) to a category.
func Categorize(positiveSum, negativeSum float64) Category {
	hasPositive := positiveSum > 0
	hasNegative := negativeSum < 0

	switch {
	case hasPositive && hasNegative:
		return CategoryMixed
	case hasPositive:
		return CategoryAllPositive
	case hasNegative:
		return CategoryAllNegative
	default:
		return CategoryNeutral
	}
}
