package revenue_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bernardlodge/pricing-engine/pricing"
	"github.com/bernardlodge/pricing-engine/revenue"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

func pct(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// threeRows: residual + package 20% + coupon 10%.
func threeRows() []revenue.BreakdownRow {
	return []revenue.BreakdownRow{
		{ID: "rc", TargetID: "target-1", RateType: revenue.RateTypeRateCard, SortOrder: 0, IsResidual: true},
		{ID: "pkg", TargetID: "target-1", RateType: "Package", PctBusiness: pct(20), SortOrder: 1},
		{ID: "cpn", TargetID: "target-1", RateType: "Coupon", PctBusiness: pct(10), SortOrder: 2},
	}
}

func residualOf(t *testing.T, rows []revenue.BreakdownRow) revenue.BreakdownRow {
	t.Helper()
	for _, row := range rows {
		if row.IsResidual {
			return row
		}
	}
	t.Fatal("no residual row")
	return revenue.BreakdownRow{}
}

func pctSum(rows []revenue.BreakdownRow) decimal.Decimal {
	sum := decimal.Zero
	for _, row := range rows {
		sum = sum.Add(row.PctBusiness)
	}
	return sum
}

// =============================================================================
// RESIDUAL INVARIANT
// =============================================================================

func TestNormalizeResidual_AbsorbsRemainder(t *testing.T) {
	rows, err := revenue.NormalizeResidual(threeRows())
	require.NoError(t, err)

	assert.True(t, residualOf(t, rows).PctBusiness.Equal(pct(70)))
	assert.True(t, pctSum(rows).Equal(pct(100)))
}

func TestNormalizeResidual_FloorsAtZero(t *testing.T) {
	// Others sum to 130: the residual floors at 0, it never goes negative.
	rows := threeRows()
	rows[1].PctBusiness = pct(90)
	rows[2].PctBusiness = pct(40)

	normalized, err := revenue.NormalizeResidual(rows)
	require.NoError(t, err)

	assert.True(t, residualOf(t, normalized).PctBusiness.IsZero())
}

func TestNormalizeResidual_RejectsMalformedSets(t *testing.T) {
	noResidual := threeRows()[1:]
	_, err := revenue.NormalizeResidual(noResidual)
	assert.ErrorIs(t, err, revenue.ErrNoResidual)

	double := threeRows()
	double[1].IsResidual = true
	_, err = revenue.NormalizeResidual(double)
	assert.ErrorIs(t, err, revenue.ErrDuplicateResidual)

	outOfRange := threeRows()
	outOfRange[1].PctBusiness = pct(101)
	_, err = revenue.NormalizeResidual(outOfRange)
	var pctErr *revenue.PctRangeError
	assert.ErrorAs(t, err, &pctErr)
}

func TestNormalizeResidual_DoesNotMutateInput(t *testing.T) {
	rows := threeRows()
	_, err := revenue.NormalizeResidual(rows)
	require.NoError(t, err)

	assert.True(t, rows[0].PctBusiness.IsZero(), "input residual pct must stay untouched")
}

func TestNewBreakdown_SeedsFullResidual(t *testing.T) {
	rows := revenue.NewBreakdown("target-1", "rc")

	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsResidual)
	assert.Equal(t, revenue.RateTypeRateCard, rows[0].RateType)
	assert.True(t, rows[0].PctBusiness.Equal(pct(100)))
}

// =============================================================================
// EDIT SEQUENCES
// =============================================================================

func TestApplyEdit_RebalancesResidual(t *testing.T) {
	// GIVEN: residual 70 / package 20 / coupon 10
	// WHEN: package goes to 35
	// THEN: residual drops to 55, sum stays 100
	rows, err := revenue.ApplyEdit(threeRows(), "pkg", pct(35))
	require.NoError(t, err)

	assert.True(t, residualOf(t, rows).PctBusiness.Equal(pct(55)))
	assert.True(t, pctSum(rows).Equal(pct(100)))
}

func TestApplyEdit_SequencePreservesInvariant(t *testing.T) {
	rows := threeRows()
	var err error
	for _, step := range []struct {
		id  string
		pct int64
	}{
		{"pkg", 50}, {"cpn", 60}, {"pkg", 5}, {"cpn", 0},
	} {
		rows, err = revenue.ApplyEdit(rows, step.id, pct(step.pct))
		require.NoError(t, err)
		assert.True(t, pctSum(rows).Equal(pct(100)), "sum broke after edit %s=%d", step.id, step.pct)
		assert.False(t, residualOf(t, rows).PctBusiness.IsNegative())
	}
}

func TestApplyEdit_RejectsResidualAndUnknownRows(t *testing.T) {
	_, err := revenue.ApplyEdit(threeRows(), "rc", pct(50))
	assert.ErrorIs(t, err, revenue.ErrResidualEdit)

	_, err = revenue.ApplyEdit(threeRows(), "nope", pct(50))
	assert.ErrorIs(t, err, revenue.ErrRowNotFound)
}

func TestRemoveRow_ShareFlowsBackToResidual(t *testing.T) {
	rows, err := revenue.RemoveRow(threeRows(), "pkg")
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.True(t, residualOf(t, rows).PctBusiness.Equal(pct(90)))
}

func TestRemoveRow_RejectsResidual(t *testing.T) {
	_, err := revenue.RemoveRow(threeRows(), "rc")
	assert.ErrorIs(t, err, revenue.ErrResidualEdit)
}

// =============================================================================
// RECONCILIATION
// =============================================================================

func TestReconcile_DerivesDaysRevenuePrice(t *testing.T) {
	// GIVEN: 42 nights, 105000 revenue, residual 70/20/10 split
	rows, err := revenue.Reconcile(threeRows(), 42, pricing.NewMoney(105000, "GHS"))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	byID := map[string]revenue.ReconciledRow{}
	for _, row := range rows {
		byID[row.ID] = row
	}

	rc := byID["rc"]
	assert.Equal(t, 29, rc.Days) // round(42 x 0.7) = 29.4 -> 29
	assert.True(t, rc.Revenue.Amount.Equal(decimal.NewFromInt(73500)))
	assert.True(t, rc.Price.Amount.Equal(decimal.NewFromInt(2534))) // 73500/29
	assert.True(t, rc.Discount.IsZero())

	pkg := byID["pkg"]
	assert.Equal(t, 8, pkg.Days) // round(8.4)
	assert.True(t, pkg.Revenue.Amount.Equal(decimal.NewFromInt(21000)))
	assert.True(t, pkg.Price.Amount.Equal(decimal.NewFromInt(2625))) // 21000/8

	// Discounts compare against the residual's live price.
	// (2534 - 2625)/2534 x 100 = -3.59 -> -4
	assert.True(t, pkg.Discount.Equal(decimal.NewFromInt(-4)),
		"expected -4, got %s", pkg.Discount)
}

func TestReconcile_Idempotent(t *testing.T) {
	total := pricing.NewMoney(105000, "GHS")

	first, err := revenue.Reconcile(threeRows(), 42, total)
	require.NoError(t, err)

	asRows := make([]revenue.BreakdownRow, len(first))
	for i, row := range first {
		asRows[i] = row.BreakdownRow
	}
	second, err := revenue.Reconcile(asRows, 42, total)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.True(t, first[i].PctBusiness.Equal(second[i].PctBusiness))
		assert.Equal(t, first[i].Days, second[i].Days)
		assert.True(t, first[i].Price.Amount.Equal(second[i].Price.Amount))
		assert.True(t, first[i].Discount.Equal(second[i].Discount))
	}
}

func TestReconcile_ZeroDayRowHasZeroPrice(t *testing.T) {
	rows := threeRows()
	rows[2].PctBusiness = decimal.NewFromFloat(0.5) // round(42 x 0.005) = 0 days

	reconciled, err := revenue.Reconcile(rows, 42, pricing.NewMoney(105000, "GHS"))
	require.NoError(t, err)

	for _, row := range reconciled {
		if row.ID == "cpn" {
			assert.Equal(t, 0, row.Days)
			assert.True(t, row.Price.IsZero())
		}
	}
}

// =============================================================================
// CROSS-ROOM AGGREGATION
// =============================================================================

func TestAggregateAcrossRooms_RevenueWeighted(t *testing.T) {
	// GIVEN: room-1 (weight 100k) has Package at 20, room-2 (weight 50k)
	//        has no Package row
	// THEN: Package share = (20x100k + 0x50k)/150k = 13.33...
	perRoom := map[pricing.RoomID][]revenue.BreakdownRow{
		"room-1": {
			{ID: "a", RateType: revenue.RateTypeRateCard, PctBusiness: pct(80), IsResidual: true},
			{ID: "b", RateType: "Package", PctBusiness: pct(20)},
		},
		"room-2": {
			{ID: "c", RateType: revenue.RateTypeRateCard, PctBusiness: pct(100), IsResidual: true},
		},
	}
	weights := map[pricing.RoomID]decimal.Decimal{
		"room-1": decimal.NewFromInt(100000),
		"room-2": decimal.NewFromInt(50000),
	}

	shares := revenue.AggregateAcrossRooms(perRoom, weights)
	require.Len(t, shares, 2)

	byType := map[string]decimal.Decimal{}
	for _, s := range shares {
		byType[s.RateType] = s.Pct
	}

	want := pct(20).Mul(decimal.NewFromInt(100000)).Div(decimal.NewFromInt(150000))
	assert.True(t, byType["Package"].Equal(want), "expected %s, got %s", want, byType["Package"])

	wantRC := pct(80).Mul(decimal.NewFromInt(100000)).
		Add(pct(100).Mul(decimal.NewFromInt(50000))).
		Div(decimal.NewFromInt(150000))
	assert.True(t, byType[revenue.RateTypeRateCard].Equal(wantRC))
}
