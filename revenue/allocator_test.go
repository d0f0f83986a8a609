package revenue_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bernardlodge/pricing-engine/pricing"
	"github.com/bernardlodge/pricing-engine/revenue"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

// q1Target is a 60-night window (Feb 1 - Apr 1 inclusive).
func testTarget(occ float64, rev float64) revenue.RevenueTarget {
	return revenue.RevenueTarget{
		ID:         "target-1",
		RoomTypeID: "room-1",
		Period: pricing.Period{
			Start: pricing.NewStayDate(2026, time.February, 1),
			End:   pricing.NewStayDate(2026, time.April, 1),
		},
		PeriodName:      "Q1 2026",
		TargetOccupancy: decimal.NewFromFloat(occ),
		TargetRevenue:   pricing.NewMoney(rev, "GHS"),
	}
}

// =============================================================================
// ALLOCATION
// =============================================================================

func TestAllocate_NightsThenPrice(t *testing.T) {
	// GIVEN: 60 available nights, 70% occupancy, 105000 revenue
	// THEN: 42 target nights, 105000/42 = 2500 required price
	alloc := revenue.Allocate(testTarget(70, 105000), 60)

	assert.Equal(t, 42, alloc.TargetNights)
	assert.True(t, alloc.RequiredAvgPrice.Amount.Equal(decimal.NewFromInt(2500)),
		"expected 2500, got %s", alloc.RequiredAvgPrice.Amount)
}

func TestAllocate_PriceDerivedFromRoundedNights(t *testing.T) {
	// 31 nights x 55% = 17.05 -> 17 nights. The price divides by the
	// ROUNDED count: 50000/17 = 2941, not 50000/17.05.
	alloc := revenue.Allocate(testTarget(55, 50000), 31)

	assert.Equal(t, 17, alloc.TargetNights)
	assert.True(t, alloc.RequiredAvgPrice.Amount.Equal(decimal.NewFromInt(2941)),
		"expected 2941, got %s", alloc.RequiredAvgPrice.Amount)
}

func TestAllocate_HalfNightsRoundAwayFromZero(t *testing.T) {
	// 30 x 45% = 13.5 -> 14, matching the reference's Math.round.
	alloc := revenue.Allocate(testTarget(45, 42000), 30)
	assert.Equal(t, 14, alloc.TargetNights)
}

func TestAllocate_ZeroOccupancy(t *testing.T) {
	alloc := revenue.Allocate(testTarget(0, 105000), 60)

	assert.Equal(t, 0, alloc.TargetNights)
	assert.True(t, alloc.RequiredAvgPrice.IsZero(), "price must be zero when no nights are allocated")
}

func TestAvailableNights(t *testing.T) {
	period := pricing.Period{
		Start: pricing.NewStayDate(2026, time.February, 1),
		End:   pricing.NewStayDate(2026, time.February, 28),
	}
	require.Equal(t, 28, period.Nights())

	assert.Equal(t, 25, revenue.AvailableNights(period, 3))
	assert.Equal(t, 0, revenue.AvailableNights(period, 40), "blocked nights never push availability negative")
}

// =============================================================================
// PORTFOLIO
// =============================================================================

func TestAllocatePortfolio_BlendedPrice(t *testing.T) {
	// GIVEN: two rooms with different prices and weights
	//   room-1: 42 nights at 2500, room-2: 20 nights at 4000
	// THEN: blended = (42x2500 + 20x4000)/62 = 2984 (rounded)
	t1 := testTarget(70, 105000)
	t2 := testTarget(0, 80000)
	t2.ID = "target-2"
	t2.RoomTypeID = "room-2"
	t2.TargetOccupancy = decimal.NewFromInt(50)

	available := map[pricing.RoomID]int{"room-1": 60, "room-2": 40}
	rooms, portfolio := revenue.AllocatePortfolio([]revenue.RevenueTarget{t1, t2}, available)

	require.Len(t, rooms, 2)
	assert.Equal(t, 42, rooms[0].Allocation.TargetNights)
	assert.Equal(t, 20, rooms[1].Allocation.TargetNights)

	assert.Equal(t, 62, portfolio.TotalNights)
	assert.True(t, portfolio.TotalRevenue.Amount.Equal(decimal.NewFromInt(185000)))

	want := decimal.NewFromInt(42*2500 + 20*4000).
		Div(decimal.NewFromInt(62)).
		Round(0)
	assert.True(t, portfolio.BlendedPrice.Amount.Equal(want),
		"expected %s, got %s", want, portfolio.BlendedPrice.Amount)
}

func TestAllocatePortfolio_Empty(t *testing.T) {
	rooms, portfolio := revenue.AllocatePortfolio(nil, nil)
	assert.Nil(t, rooms)
	assert.Equal(t, 0, portfolio.TotalNights)
}

// =============================================================================
// WEIGHTED AVERAGE
// =============================================================================

func TestWeightedAverage(t *testing.T) {
	values := []revenue.WeightedValue{
		{Value: decimal.NewFromInt(10), Weight: decimal.NewFromInt(1)},
		{Value: decimal.NewFromInt(20), Weight: decimal.NewFromInt(3)},
	}
	// (10 + 60) / 4 = 17.5
	assert.True(t, revenue.WeightedAverage(values).Equal(decimal.NewFromFloat(17.5)))
}

func TestWeightedAverage_ZeroWeight(t *testing.T) {
	values := []revenue.WeightedValue{
		{Value: decimal.NewFromInt(10), Weight: decimal.Zero},
	}
	assert.True(t, revenue.WeightedAverage(values).IsZero())
}

// =============================================================================
// TARGET VALIDATION
// =============================================================================

func TestTargetValidate(t *testing.T) {
	valid := testTarget(70, 105000)
	assert.NoError(t, valid.Validate())

	overOcc := testTarget(120, 105000)
	var occErr *revenue.OccupancyRangeError
	assert.ErrorAs(t, overOcc.Validate(), &occErr)

	inverted := testTarget(70, 105000)
	inverted.Period.Start, inverted.Period.End = inverted.Period.End, inverted.Period.Start
	assert.ErrorIs(t, inverted.Validate(), pricing.ErrInvalidPeriod)
}
