package revenue

import "github.com/shopspring/decimal"

// =============================================================================
// WEIGHTED AVERAGE - Shared by every "all rooms" aggregate view
// =============================================================================
// The allocator's blended price, the breakdown's cross-room percentages,
// and the sensitivity portfolio view all reduce to the same weighted
// average. One implementation keeps the three views in agreement.

// WeightedValue pairs a value with its aggregation weight.
type WeightedValue struct {
	Value  decimal.Decimal
	Weight decimal.Decimal
}

// WeightedAverage returns sum(value x weight) / sum(weight), or zero when
// the total weight is zero.
func WeightedAverage(values []WeightedValue) decimal.Decimal {
	sum := decimal.Zero
	totalWeight := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v.Value.Mul(v.Weight))
		totalWeight = totalWeight.Add(v.Weight)
	}
	if totalWeight.IsZero() {
		return decimal.Zero
	}
	return sum.Div(totalWeight)
}
