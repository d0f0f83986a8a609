/*
Package revenue implements revenue-target planning on top of the pricing
engine core.

PURPOSE:
  For a room and a named period (e.g., "Q1 2026"), an admin states a
  target occupancy and target revenue. This package turns those targets
  into night counts and required prices (allocator), splits the business
  across rate-type buckets that always sum to 100% (breakdown), and
  projects variance across hypothetical occupancy levels (sensitivity).

KEY CONCEPTS IN THIS FILE (types.go):
  - RevenueTarget: One row per (room, period) with occupancy/revenue goals
  - BreakdownRow: A rate-type bucket's share of the period's business
  - BlockedDate: Removes a night from a room's availability

RESIDUAL BUCKET:
  Exactly one breakdown row per target is the residual ("Rate card").
  Its share is always max(0, 100 - sum of the others); it is computed,
  never edited directly.

SEE ALSO:
  - allocator.go: Target nights and required average price
  - breakdown.go: Residual reconciliation
  - sensitivity.go: Occupancy sweep projection
*/
package revenue

import (
	"github.com/shopspring/decimal"

	"github.com/bernardlodge/pricing-engine/pricing"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type TargetID string

// =============================================================================
// REVENUE TARGET - Occupancy/revenue goal for one room and period
// =============================================================================

type RevenueTarget struct {
	ID         TargetID
	RoomTypeID pricing.RoomID
	Period     pricing.Period
	PeriodName string

	// TargetOccupancy is a percentage in [0, 100].
	TargetOccupancy decimal.Decimal

	TargetRevenue pricing.Money
}

// Validate checks the target's invariants.
func (t RevenueTarget) Validate() error {
	if !t.Period.IsValid() {
		return pricing.ErrInvalidPeriod
	}
	hundred := decimal.NewFromInt(100)
	if t.TargetOccupancy.IsNegative() || t.TargetOccupancy.GreaterThan(hundred) {
		return &OccupancyRangeError{Occupancy: t.TargetOccupancy}
	}
	return nil
}

// =============================================================================
// BREAKDOWN ROW - One rate-type bucket of a target's business
// =============================================================================

// RateTypeRateCard is the residual bucket. Every target's breakdown has
// exactly one row of this type; its share absorbs whatever the other
// buckets leave.
const RateTypeRateCard = "Rate card"

type BreakdownRow struct {
	ID       string
	TargetID TargetID

	// RateType is a small open enum: "Rate card" plus admin-defined
	// buckets (packages, coupon promotions, group bookings, ...).
	RateType string

	// TypeDetail carries e.g. a package or coupon code.
	TypeDetail string

	// PctBusiness is this bucket's share of allocated nights, 0-100.
	PctBusiness decimal.Decimal

	// Discount vs the Rate Card price, 0-100. Derived on reconcile and
	// persisted for display; never an independent input.
	Discount decimal.Decimal

	SortOrder  int
	IsResidual bool
}

// =============================================================================
// BLOCKED DATE - Removes a night from availability
// =============================================================================

type BlockedDate struct {
	RoomTypeID pricing.RoomID
	Date       pricing.StayDate
}
