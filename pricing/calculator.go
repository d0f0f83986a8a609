/*
calculator.go - Nightly rate calculation

PURPOSE:
  Computes one night's rate from a room's base price via a fixed sequence
  of bounded multipliers. This is the heart of the engine and the part
  whose arithmetic must be reproduced exactly: multiplier order, clamping
  after EVERY step, and final rounding.

PIPELINE (fixed order, clamp applied between steps):
  1. afterTier   = clamp(base x tierMult)     tier from historical occupancy
  2. afterPace   = clamp(afterTier x paceMult)  OTB vs expected booking curve
  3. afterTarget = clamp(afterPace x targetMult) MTD vs monthly goal
  4. rate = afterTarget, unless a manual override pins the price

  clamp(x) = max(base x minMult, min(base x maxMult, x)) with bounds from
  the month rule for the room's group (defaults 0.7 / 2.0).

WHY INTERMEDIATE CLAMPING MATTERS:
  With base 1000 and bounds [0.8, 1.5], tier 1.6 clamps to 1500 before a
  pace of 0.9 is applied: the result is 1350. Clamping only once at the
  end would give 1440. The reference clamps at each step; so do we.

MISSING SIGNALS:
  Any multiplier whose signal is unavailable degrades to identity and its
  meta fields stay nil. This is a visible no-op, not an error.

SEE ALSO:
  - types.go: PricingModel, MonthRule, ResponseRule
  - simulation.go: Multi-night orchestration
*/
package pricing

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// NIGHTLY RATE RESULT
// =============================================================================

// RateMeta explains how a night's rate was computed. Multiplier and
// signal fields are nil when the corresponding step was skipped because
// its signal was unavailable.
type RateMeta struct {
	TierMult   *decimal.Decimal
	PaceMult   *decimal.Decimal
	TargetMult *decimal.Decimal

	HistOcc     *decimal.Decimal
	MTDOcc      *decimal.Decimal
	OTBOcc      *decimal.Decimal
	ExpectedOTB *decimal.Decimal

	MonthMinMult decimal.Decimal
	MonthMaxMult decimal.Decimal

	LeadDays   int
	LeadWindow string
	TierName   string

	OverrideApplied bool
}

// NightlyRateResult is the transient per-night output of the calculator.
// It is computed per simulation call and not persisted.
type NightlyRateResult struct {
	Date StayDate
	Base Money
	Rate Money
	Meta RateMeta
}

// =============================================================================
// CLAMP
// =============================================================================

// Clamp holds a rate within [base x minMult, base x maxMult]. Idempotent:
// clamping a clamped value is a no-op.
func Clamp(x, base Money, minMult, maxMult decimal.Decimal) Money {
	floor := base.Mul(minMult)
	ceiling := base.Mul(maxMult)
	return x.Max(floor).Min(ceiling)
}

// =============================================================================
// RATE CALCULATOR
// =============================================================================

// CalculateRate computes the nightly rate for one room and stay date.
// The model is a read-only snapshot; signals come from the provider keyed
// by (room, date, leadDays); override is nil when no manual price exists.
func CalculateRate(room RoomType, date StayDate, model PricingModel, sig OccupancySignals, leadDays int, override *RateOverride) NightlyRateResult {
	base := room.BasePrice(date)
	rule := model.MonthRuleFor(room.Code, date.Month())

	meta := RateMeta{
		MonthMinMult: rule.MinMult,
		MonthMaxMult: rule.MaxMult,
		LeadDays:     leadDays,
		LeadWindow:   sig.LeadWindow,
	}
	if meta.LeadWindow == "" {
		meta.LeadWindow = LeadWindowFor(leadDays)
	}

	// Step 1: tier multiplier from the historical occupancy bucket.
	rate := base
	if sig.HistOcc != nil {
		meta.HistOcc = sig.HistOcc
		if tier := model.Tiers.Match(*sig.HistOcc); tier != nil {
			mult := tier.Multiplier
			meta.TierMult = &mult
			meta.TierName = tier.Name
			rate = Clamp(rate.Mul(mult), base, rule.MinMult, rule.MaxMult)
		}
	}

	// Step 2: pace multiplier, ahead of the expected booking curve means
	// price up, behind means price down.
	if sig.OTBOcc != nil && sig.ExpectedOTB != nil {
		meta.OTBOcc = sig.OTBOcc
		meta.ExpectedOTB = sig.ExpectedOTB
		mult := model.PaceRule.Multiplier(sig.OTBOcc.Sub(*sig.ExpectedOTB))
		meta.PaceMult = &mult
		rate = Clamp(rate.Mul(mult), base, rule.MinMult, rule.MaxMult)
	}

	// Step 3: target multiplier from month-to-date performance against
	// the month rule's occupancy goal.
	if sig.MTDOcc != nil && rule.MonthlyTargetOcc != nil {
		meta.MTDOcc = sig.MTDOcc
		mult := model.TargetRule.Multiplier(sig.MTDOcc.Sub(*rule.MonthlyTargetOcc))
		meta.TargetMult = &mult
		rate = Clamp(rate.Mul(mult), base, rule.MinMult, rule.MaxMult)
	}

	// Step 4: manual override pins the final price.
	if override != nil {
		meta.OverrideApplied = true
		rate = override.Price
	}

	return NightlyRateResult{
		Date: date,
		Base: base,
		Rate: rate.Round(),
		Meta: meta,
	}
}
