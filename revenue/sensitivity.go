/*
sensitivity.go - Occupancy sweep projection

PURPOSE:
  Projects revenue variance (current pricing vs the stated target) across
  a sweep of hypothetical occupancy levels, 100% down to 30% in steps of
  10. The row matching the period's stored target occupancy is the
  anchor; when the target isn't a multiple of 10 it is inserted into the
  sweep so the anchor always exists.

SCALING FORMULA:
  revenueRequired = round(targetRevenue x occ / targetOccupancy) - linear
  scaling from the stored target. The reference computes it this way
  rather than from requiredAvgPrice x nights; the two differ slightly
  once intermediate rounding applies, and the stored-target scaling is
  authoritative. Do not "fix" this.

BANDS:
  Presentation-only classification of variance%:
    >= +10        strong positive
    [0, +10)      slight positive
    (-10, 0)      slight negative
    <= -10        strong negative

SEE ALSO:
  - allocator.go: Required average price for the anchor
*/
package revenue

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/bernardlodge/pricing-engine/pricing"
)

// =============================================================================
// VARIANCE ROWS
// =============================================================================

type Band string

const (
	BandStrongPositive Band = "strong_positive"
	BandSlightPositive Band = "slight_positive"
	BandSlightNegative Band = "slight_negative"
	BandStrongNegative Band = "strong_negative"
)

// BandFor classifies a variance percentage. Boundary values: exactly +10
// is strong positive, exactly 0 is slight positive, exactly -10 is
// strong negative.
func BandFor(variancePct decimal.Decimal) Band {
	ten := decimal.NewFromInt(10)
	switch {
	case variancePct.GreaterThanOrEqual(ten):
		return BandStrongPositive
	case variancePct.GreaterThanOrEqual(decimal.Zero):
		return BandSlightPositive
	case variancePct.GreaterThan(ten.Neg()):
		return BandSlightNegative
	default:
		return BandStrongNegative
	}
}

// VarianceRow is one occupancy level's projection.
type VarianceRow struct {
	Occupancy       decimal.Decimal
	Nights          int
	RevenueRequired pricing.Money
	RevenueCurrent  pricing.Money
	Variance        pricing.Money
	VariancePct     decimal.Decimal
	Band            Band
	IsTarget        bool
}

// =============================================================================
// ANALYZER
// =============================================================================

// DefaultLevels returns the standard sweep: 100, 90, ..., 30.
func DefaultLevels() []decimal.Decimal {
	levels := make([]decimal.Decimal, 0, 8)
	for occ := 100; occ >= 30; occ -= 10 {
		levels = append(levels, decimal.NewFromInt(int64(occ)))
	}
	return levels
}

// Analyze projects variance across the occupancy sweep. The stored target
// occupancy is inserted when absent so the anchor row always exists; the
// sweep stays sorted descending.
func Analyze(target RevenueTarget, availableNights int, currentAvgPrice pricing.Money, levels []decimal.Decimal) []VarianceRow {
	if len(levels) == 0 {
		levels = DefaultLevels()
	}

	sweep := make([]decimal.Decimal, len(levels))
	copy(sweep, levels)

	hasAnchor := false
	for _, occ := range sweep {
		if occ.Equal(target.TargetOccupancy) {
			hasAnchor = true
			break
		}
	}
	if !hasAnchor && target.TargetOccupancy.IsPositive() {
		sweep = append(sweep, target.TargetOccupancy)
	}
	sort.Slice(sweep, func(i, j int) bool { return sweep[i].GreaterThan(sweep[j]) })

	available := decimal.NewFromInt(int64(availableNights))
	rows := make([]VarianceRow, 0, len(sweep))

	for _, occ := range sweep {
		nights := available.Mul(occ).Div(hundred).Round(0)

		required := target.TargetRevenue.Zero()
		if target.TargetOccupancy.IsPositive() {
			required = target.TargetRevenue.Mul(occ).Div(target.TargetOccupancy).Round()
		}

		current := currentAvgPrice.Mul(nights)
		variance := current.Sub(required)

		variancePct := decimal.Zero
		if required.IsPositive() {
			variancePct = variance.Amount.Div(required.Amount).Mul(hundred)
		}

		rows = append(rows, VarianceRow{
			Occupancy:       occ,
			Nights:          int(nights.IntPart()),
			RevenueRequired: required,
			RevenueCurrent:  current,
			Variance:        variance,
			VariancePct:     variancePct,
			Band:            BandFor(variancePct),
			IsTarget:        occ.Equal(target.TargetOccupancy),
		})
	}
	return rows
}
