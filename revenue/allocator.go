/*
allocator.go - Revenue target allocation

PURPOSE:
  Turns a revenue target (occupancy % + revenue for a room and period)
  into a night count and a required average nightly price.

ROUNDING CONTRACT:
  targetNights is rounded FIRST; requiredAvgPrice is then derived from
  the rounded night count. Deriving both independently from unrounded
  values is the documented source of rounding drift in the reference
  dashboard and must not be reintroduced.

AVAILABILITY:
  available nights = nights in period - blocked nights for the room.

SEE ALSO:
  - weighted.go: Blended all-rooms price
  - sensitivity.go: Uses Allocate for the anchor row
*/
package revenue

import (
	"github.com/shopspring/decimal"

	"github.com/bernardlodge/pricing-engine/pricing"
)

// =============================================================================
// ALLOCATION
// =============================================================================

// Allocation is the result of allocating one target over its available
// nights.
type Allocation struct {
	TargetNights     int
	RequiredAvgPrice pricing.Money
}

var hundred = decimal.NewFromInt(100)

// Allocate computes target nights and the required average price.
// targetNights = round(availableNights x occupancy/100); price is derived
// from the already-rounded night count.
func Allocate(target RevenueTarget, availableNights int) Allocation {
	nights := decimal.NewFromInt(int64(availableNights)).
		Mul(target.TargetOccupancy).
		Div(hundred).
		Round(0)
	targetNights := int(nights.IntPart())

	price := target.TargetRevenue.Zero()
	if targetNights > 0 {
		price = target.TargetRevenue.Div(nights).Round()
	}

	return Allocation{TargetNights: targetNights, RequiredAvgPrice: price}
}

// AvailableNights returns the sellable nights for a room in a period.
func AvailableNights(period pricing.Period, blockedNights int) int {
	n := period.Nights() - blockedNights
	if n < 0 {
		return 0
	}
	return n
}

// =============================================================================
// PORTFOLIO - "All rooms" aggregate
// =============================================================================

// PortfolioAllocation aggregates allocations across every room with a
// target in the period.
type PortfolioAllocation struct {
	TotalRevenue pricing.Money
	TotalNights  int

	// BlendedPrice is the revenue-weighted average required price:
	// sum(price_i x nights_i) / sum(nights_i). Not a simple average.
	BlendedPrice pricing.Money
}

// RoomAllocation pairs a target with its computed allocation.
type RoomAllocation struct {
	Target     RevenueTarget
	Allocation Allocation
}

// AllocatePortfolio allocates each target and blends the required price
// across rooms via the shared weighted-average utility.
func AllocatePortfolio(targets []RevenueTarget, availableNights map[pricing.RoomID]int) ([]RoomAllocation, PortfolioAllocation) {
	if len(targets) == 0 {
		return nil, PortfolioAllocation{}
	}

	rooms := make([]RoomAllocation, 0, len(targets))
	weighted := make([]WeightedValue, 0, len(targets))
	total := targets[0].TargetRevenue.Zero()
	totalNights := 0

	for _, t := range targets {
		alloc := Allocate(t, availableNights[t.RoomTypeID])
		rooms = append(rooms, RoomAllocation{Target: t, Allocation: alloc})

		total = total.Add(t.TargetRevenue)
		totalNights += alloc.TargetNights
		weighted = append(weighted, WeightedValue{
			Value:  alloc.RequiredAvgPrice.Amount,
			Weight: decimal.NewFromInt(int64(alloc.TargetNights)),
		})
	}

	blended := pricing.Money{Amount: WeightedAverage(weighted).Round(0), Currency: total.Currency}
	return rooms, PortfolioAllocation{
		TotalRevenue: total,
		TotalNights:  totalNights,
		BlendedPrice: blended,
	}
}
