/*
breakdown.go - Rate-type breakdown reconciliation

PURPOSE:
  A target's business splits across rate-type buckets (Rate card,
  packages, coupon promotions, group bookings, ...). The buckets must sum
  to exactly 100% at all times. The "Rate card" row is the residual: its
  share is recomputed as max(0, 100 - sum of the others) after every
  edit or delete, and is never edited directly.

DERIVATION ORDER:
  For each row: days from pct, revenue from pct, price from revenue/days.
  Price is derived from revenue, never multiplied forward, so editing a
  pct moves revenue and price together. Discounts are computed against
  the residual row's own reconciled price (the live Rate Card benchmark),
  never a stored field. The residual's discount is fixed at 0.

PERSISTENCE:
  Saving replaces the full row set (residual included) atomically; the
  residual is recomputed before the write so a sum != 100 can never be
  persisted. See store.go / ReplaceBreakdown.

SEE ALSO:
  - types.go: BreakdownRow
  - weighted.go: Cross-room aggregation
*/
package revenue

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/bernardlodge/pricing-engine/pricing"
)

// =============================================================================
// RECONCILED ROW - Breakdown row with derived quantities
// =============================================================================

type ReconciledRow struct {
	BreakdownRow

	Days    int
	Revenue pricing.Money
	Price   pricing.Money
}

// =============================================================================
// RESIDUAL NORMALIZATION
// =============================================================================

// NormalizeResidual enforces the residual invariant on a row set: exactly
// one residual row, every non-residual pct in [0, 100], and the residual
// absorbing max(0, 100 - sum of the others). Returns a copy; the input
// is not mutated. Rows come back ordered by SortOrder, residual first on
// ties.
func NormalizeResidual(rows []BreakdownRow) ([]BreakdownRow, error) {
	out := make([]BreakdownRow, len(rows))
	copy(out, rows)

	residualIdx := -1
	othersSum := decimal.Zero
	for i := range out {
		if out[i].IsResidual {
			if residualIdx >= 0 {
				return nil, ErrDuplicateResidual
			}
			residualIdx = i
			continue
		}
		pct := out[i].PctBusiness
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return nil, &PctRangeError{RowID: out[i].ID, Pct: pct}
		}
		othersSum = othersSum.Add(pct)
	}
	if residualIdx < 0 {
		return nil, ErrNoResidual
	}

	residual := hundred.Sub(othersSum)
	if residual.IsNegative() {
		residual = decimal.Zero
	}
	out[residualIdx].PctBusiness = residual
	out[residualIdx].Discount = decimal.Zero

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].IsResidual && !out[j].IsResidual
	})
	return out, nil
}

// NewBreakdown seeds a fresh row set for a target: a single residual
// "Rate card" row holding 100% of the business.
func NewBreakdown(targetID TargetID, residualID string) []BreakdownRow {
	return []BreakdownRow{{
		ID:          residualID,
		TargetID:    targetID,
		RateType:    RateTypeRateCard,
		PctBusiness: hundred,
		SortOrder:   0,
		IsResidual:  true,
	}}
}

// =============================================================================
// RECONCILE - Derive days, revenue, price, and discounts
// =============================================================================

// Reconcile normalizes the row set and derives per-row quantities from
// the period totals. Calling it repeatedly without edits yields identical
// rows: every derivation starts from the stored pct, never from a prior
// derived value.
func Reconcile(rows []BreakdownRow, totalNights int, totalRevenue pricing.Money) ([]ReconciledRow, error) {
	normalized, err := NormalizeResidual(rows)
	if err != nil {
		return nil, err
	}

	nights := decimal.NewFromInt(int64(totalNights))
	out := make([]ReconciledRow, len(normalized))
	var benchmark pricing.Money

	// Two passes: the residual's price is the discount benchmark for
	// every other row, so it is computed first.
	for i, row := range normalized {
		pctFrac := row.PctBusiness.Div(hundred)
		days := nights.Mul(pctFrac).Round(0)
		revenue := totalRevenue.Mul(pctFrac).Round()

		price := totalRevenue.Zero()
		if days.IsPositive() {
			price = revenue.Div(days).Round()
		}

		out[i] = ReconciledRow{
			BreakdownRow: row,
			Days:         int(days.IntPart()),
			Revenue:      revenue,
			Price:        price,
		}
		if row.IsResidual {
			benchmark = price
		}
	}

	for i := range out {
		if out[i].IsResidual {
			out[i].Discount = decimal.Zero
			continue
		}
		out[i].Discount = discountVs(benchmark, out[i].Price)
	}
	return out, nil
}

// discountVs returns the rounded percentage discount of price vs the
// benchmark, or 0 when the benchmark is not positive.
func discountVs(benchmark, price pricing.Money) decimal.Decimal {
	if !benchmark.IsPositive() {
		return decimal.Zero
	}
	return benchmark.Sub(price).Amount.
		Div(benchmark.Amount).
		Mul(hundred).
		Round(0)
}

// =============================================================================
// EDITS - Every mutation re-runs residual recomputation
// =============================================================================

// ApplyEdit sets a non-residual row's pct and rebalances the residual.
func ApplyEdit(rows []BreakdownRow, rowID string, newPct decimal.Decimal) ([]BreakdownRow, error) {
	if newPct.IsNegative() || newPct.GreaterThan(hundred) {
		return nil, &PctRangeError{RowID: rowID, Pct: newPct}
	}

	out := make([]BreakdownRow, len(rows))
	copy(out, rows)

	found := false
	for i := range out {
		if out[i].ID != rowID {
			continue
		}
		if out[i].IsResidual {
			return nil, ErrResidualEdit
		}
		out[i].PctBusiness = newPct
		found = true
		break
	}
	if !found {
		return nil, ErrRowNotFound
	}
	return NormalizeResidual(out)
}

// RemoveRow deletes a non-residual row; its share flows back into the
// residual.
func RemoveRow(rows []BreakdownRow, rowID string) ([]BreakdownRow, error) {
	out := make([]BreakdownRow, 0, len(rows))
	found := false
	for _, row := range rows {
		if row.ID == rowID {
			if row.IsResidual {
				return nil, ErrResidualEdit
			}
			found = true
			continue
		}
		out = append(out, row)
	}
	if !found {
		return nil, ErrRowNotFound
	}
	return NormalizeResidual(out)
}

// =============================================================================
// AGGREGATION - "All rooms" view
// =============================================================================

// AggregateShare is one rate type's share of the portfolio's business.
type AggregateShare struct {
	RateType string
	Pct      decimal.Decimal
}

// AggregateAcrossRooms computes each rate type's target-revenue-weighted
// average percentage across rooms. Rooms that have a target in the period
// but no row for a given type contribute 0 for that type, which is why
// every room's weight appears in every type's average.
func AggregateAcrossRooms(perRoom map[pricing.RoomID][]BreakdownRow, revenueWeights map[pricing.RoomID]decimal.Decimal) []AggregateShare {
	rateTypes := make([]string, 0)
	seen := make(map[string]bool)
	for _, rows := range perRoom {
		for _, row := range rows {
			if !seen[row.RateType] {
				seen[row.RateType] = true
				rateTypes = append(rateTypes, row.RateType)
			}
		}
	}
	sort.Strings(rateTypes)

	shares := make([]AggregateShare, 0, len(rateTypes))
	for _, rt := range rateTypes {
		values := make([]WeightedValue, 0, len(perRoom))
		for roomID, rows := range perRoom {
			pct := decimal.Zero
			for _, row := range rows {
				if row.RateType == rt {
					pct = row.PctBusiness
					break
				}
			}
			values = append(values, WeightedValue{Value: pct, Weight: revenueWeights[roomID]})
		}
		shares = append(shares, AggregateShare{RateType: rt, Pct: WeightedAverage(values)})
	}
	return shares
}
