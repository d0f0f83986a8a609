/*
Package pricing provides the core dynamic pricing engine.

PURPOSE:
  This package contains the domain types and algorithms for computing
  nightly room rates. A rate starts from a room's base price and moves
  through a fixed sequence of bounded multipliers (tier, pace, target),
  each clamped to the month's floor/ceiling before the next is applied.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A currency amount backed by decimal.Decimal
  - RoomType: A bookable room category with weekday/weekend base prices
  - PricingModel: The complete multiplier configuration (tiers, month
    rules, pace/target response rules)
  - HistoryMode: Which historical occupancy series feeds the tier lookup

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Snapshot semantics: A PricingModel is passed by value into every
     calculation; it is never mutated mid-simulation
  3. Type Safety: Strong typing for IDs prevents mixing room/model IDs

USAGE:
  base := pricing.NewMoney(2000, "GHS")
  rule := model.MonthRuleFor(room.Code, date.Month())
  rate := pricing.CalculateRate(room, date, model, signals, leadDays, nil)

SEE ALSO:
  - calculator.go: The multiplier pipeline
  - signals.go: Occupancy signal inputs
  - stay.go: Day-level date arithmetic
*/
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Currency amount (exact decimal arithmetic)
// =============================================================================

type Money struct {
	Amount   decimal.Decimal
	Currency string
}

func NewMoney(value float64, currency string) Money {
	return Money{Amount: decimal.NewFromFloat(value), Currency: currency}
}

func NewMoneyFromInt(value int, currency string) Money {
	return Money{Amount: decimal.NewFromInt(int64(value)), Currency: currency}
}

func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (m Money) Zero() Money                  { return Money{Amount: decimal.Zero, Currency: m.Currency} }
func (m Money) Add(b Money) Money            { return Money{Amount: m.Amount.Add(b.Amount), Currency: m.Currency} }
func (m Money) Sub(b Money) Money            { return Money{Amount: m.Amount.Sub(b.Amount), Currency: m.Currency} }
func (m Money) Mul(s decimal.Decimal) Money  { return Money{Amount: m.Amount.Mul(s), Currency: m.Currency} }
func (m Money) Div(s decimal.Decimal) Money  { return Money{Amount: m.Amount.Div(s), Currency: m.Currency} }
func (m Money) IsZero() bool                 { return m.Amount.IsZero() }
func (m Money) IsPositive() bool             { return m.Amount.IsPositive() }
func (m Money) GreaterThan(b Money) bool     { return m.Amount.GreaterThan(b.Amount) }
func (m Money) LessThan(b Money) bool        { return m.Amount.LessThan(b.Amount) }
func (m Money) Min(b Money) Money            { if m.LessThan(b) { return m }; return b }
func (m Money) Max(b Money) Money            { if m.GreaterThan(b) { return m }; return b }

// Round returns the amount rounded to whole currency units
// (half away from zero, matching the reference dashboard's display math).
func (m Money) Round() Money {
	return Money{Amount: m.Amount.Round(0), Currency: m.Currency}
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type RoomID string
type ModelID string

// =============================================================================
// ROOM TYPE - Bookable room category (catalog-owned, read-only here)
// =============================================================================

type RoomType struct {
	ID           RoomID
	Code         string
	Name         string
	BaseWeekday  Money
	BaseWeekend  Money
	MaxOccupancy int
	Active       bool
}

// BasePrice returns the weekday or weekend base for the stay date.
// Friday and Saturday nights are weekend nights; checkout morning does
// not matter since rates are per night of stay.
func (r RoomType) BasePrice(date StayDate) Money {
	if date.IsWeekendNight() {
		return r.BaseWeekend
	}
	return r.BaseWeekday
}

// =============================================================================
// PRICING MODEL - Multiplier configuration (at most one active system-wide)
// =============================================================================

// HistoryMode selects which historical occupancy series the signal
// provider should use for the tier lookup.
type HistoryMode string

const (
	HistoryBasePrices       HistoryMode = "base_prices"
	HistoryLastYearSameMonth HistoryMode = "last_year_same_month"
	HistoryTrailing3YrAvg   HistoryMode = "trailing_3yr_avg"
)

// Tier maps a historical-occupancy bucket [MinOcc, MaxOcc) to a price
// multiplier. Occupancies are ratios in [0, 1].
type Tier struct {
	Name       string
	MinOcc     decimal.Decimal
	MaxOcc     decimal.Decimal
	Multiplier decimal.Decimal
}

// Contains reports whether the occupancy ratio falls in this bucket.
func (t Tier) Contains(occ decimal.Decimal) bool {
	return occ.GreaterThanOrEqual(t.MinOcc) && occ.LessThan(t.MaxOcc)
}

// TierTemplate is an ordered, non-overlapping set of occupancy buckets.
type TierTemplate struct {
	Tiers []Tier
}

// Match returns the tier containing the occupancy, or nil when no bucket
// matches (the tier step is then a no-op).
func (tt TierTemplate) Match(occ decimal.Decimal) *Tier {
	for i := range tt.Tiers {
		if tt.Tiers[i].Contains(occ) {
			return &tt.Tiers[i]
		}
	}
	return nil
}

// MonthRule bounds the rate for one room group and month. MinMult/MaxMult
// clamp every multiplier step; MonthlyTargetOcc feeds the target multiplier.
type MonthRule struct {
	RoomGroup        string
	Month            time.Month
	MinMult          decimal.Decimal
	MaxMult          decimal.Decimal
	MonthlyTargetOcc *decimal.Decimal // ratio in [0,1]; nil = no target step
}

// Default clamp bounds when a month has no explicit rule.
var (
	DefaultMinMult = decimal.NewFromFloat(0.7)
	DefaultMaxMult = decimal.NewFromFloat(2.0)
)

// ResponseRule is a bounded linear response: multiplier = 1 + Sensitivity
// times the signal delta, held within [MinMult, MaxMult]. Used for both
// the pace step (OTB vs expected curve) and the target step (MTD vs goal).
type ResponseRule struct {
	Sensitivity decimal.Decimal
	MinMult     decimal.Decimal
	MaxMult     decimal.Decimal
}

// Multiplier computes the bounded response for a signal delta.
func (rr ResponseRule) Multiplier(delta decimal.Decimal) decimal.Decimal {
	m := decimal.NewFromInt(1).Add(rr.Sensitivity.Mul(delta))
	if !rr.MinMult.IsZero() && m.LessThan(rr.MinMult) {
		m = rr.MinMult
	}
	if !rr.MaxMult.IsZero() && m.GreaterThan(rr.MaxMult) {
		m = rr.MaxMult
	}
	return m
}

// IdentityRule is a response rule that always yields 1.
func IdentityRule() ResponseRule {
	return ResponseRule{Sensitivity: decimal.Zero}
}

// PricingModel is the full multiplier configuration. Exactly one model is
// active system-wide at a time (enforced by the store, not here). Models
// are treated as immutable snapshots during calculation.
type PricingModel struct {
	ID          ModelID
	Name        string
	Active      bool
	HistoryMode HistoryMode
	Tiers       TierTemplate
	MonthRules  []MonthRule
	PaceRule    ResponseRule
	TargetRule  ResponseRule

	// RoomGroups maps room codes to month-rule groups. Rooms without an
	// entry fall into the "all" group.
	RoomGroups map[string]string
}

const DefaultRoomGroup = "all"

// GroupFor returns the month-rule group for a room code.
func (m PricingModel) GroupFor(roomCode string) string {
	if g, ok := m.RoomGroups[roomCode]; ok {
		return g
	}
	return DefaultRoomGroup
}

// MonthRuleFor returns the month rule for a room code and month, falling
// back to the "all" group and then to the default 0.7-2.0 bounds.
func (m PricingModel) MonthRuleFor(roomCode string, month time.Month) MonthRule {
	group := m.GroupFor(roomCode)
	var fallback *MonthRule
	for i := range m.MonthRules {
		r := &m.MonthRules[i]
		if r.Month != month {
			continue
		}
		if r.RoomGroup == group {
			return m.withRuleDefaults(*r)
		}
		if r.RoomGroup == DefaultRoomGroup && fallback == nil {
			fallback = r
		}
	}
	if fallback != nil {
		return m.withRuleDefaults(*fallback)
	}
	return MonthRule{
		RoomGroup: group,
		Month:     month,
		MinMult:   DefaultMinMult,
		MaxMult:   DefaultMaxMult,
	}
}

func (m PricingModel) withRuleDefaults(r MonthRule) MonthRule {
	if r.MinMult.IsZero() {
		r.MinMult = DefaultMinMult
	}
	if r.MaxMult.IsZero() {
		r.MaxMult = DefaultMaxMult
	}
	return r
}

// =============================================================================
// RATE OVERRIDE - Manual per-date price pin
// =============================================================================

// RateOverride pins a room's rate for one stay date, bypassing the
// multiplier pipeline entirely.
type RateOverride struct {
	RoomTypeID RoomID
	Date       StayDate
	Price      Money
}
