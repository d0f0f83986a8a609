/*
Package factory provides JSON to Go pricing-model conversion.

PURPOSE:
  Converts JSON model definitions into pricing.PricingModel values. This
  enables model configuration without code changes - revenue managers can
  define tier templates and month rules in JSON, stored alongside the
  model row, and the factory builds the proper Go structs with defaults
  and validation applied.

JSON SCHEMA:
  {
    "id": "standard-2026",
    "name": "Standard 2026",
    "history_mode": "last_year_same_month",
    "tiers": [
      {"name": "low",  "min_occ": 0.0, "max_occ": 0.5, "multiplier": 0.9},
      {"name": "mid",  "min_occ": 0.5, "max_occ": 0.8, "multiplier": 1.0},
      {"name": "peak", "min_occ": 0.8, "max_occ": 1.01, "multiplier": 1.2}
    ],
    "month_rules": [
      {"room_group": "all", "month": 12, "min_mult": 0.8, "max_mult": 1.8,
       "monthly_target_occ": 0.75}
    ],
    "pace_rule":   {"sensitivity": 0.5, "min_mult": 0.85, "max_mult": 1.25},
    "target_rule": {"sensitivity": 0.3, "min_mult": 0.9,  "max_mult": 1.15},
    "room_groups": {"CHL": "chalet", "STD": "all"}
  }

DEFAULTS:
  - Missing month-rule bounds: 0.7 / 2.0
  - Missing pace/target rule: identity (the step is a permanent no-op)
  - Missing history_mode: base_prices

VALIDATION:
  Tier buckets must be well-formed (min < max, positive multiplier) and
  non-overlapping; month-rule bounds must satisfy min <= max; months must
  be 1-12. Errors name the offending field.

SEE ALSO:
  - pricing/types.go: PricingModel definition
  - api/handlers.go: Stores ModelJSON as the model's config blob
*/
package factory

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bernardlodge/pricing-engine/pricing"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ModelJSON is the JSON representation of a pricing model.
type ModelJSON struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	HistoryMode string            `json:"history_mode,omitempty"`
	Tiers       []TierJSON        `json:"tiers"`
	MonthRules  []MonthRuleJSON   `json:"month_rules,omitempty"`
	PaceRule    *ResponseJSON     `json:"pace_rule,omitempty"`
	TargetRule  *ResponseJSON     `json:"target_rule,omitempty"`
	RoomGroups  map[string]string `json:"room_groups,omitempty"`
}

// TierJSON represents one historical-occupancy bucket.
type TierJSON struct {
	Name       string  `json:"name"`
	MinOcc     float64 `json:"min_occ"`
	MaxOcc     float64 `json:"max_occ"`
	Multiplier float64 `json:"multiplier"`
}

// MonthRuleJSON represents clamp bounds and the monthly goal for one
// room group and month.
type MonthRuleJSON struct {
	RoomGroup        string   `json:"room_group,omitempty"`
	Month            int      `json:"month"`
	MinMult          float64  `json:"min_mult,omitempty"`
	MaxMult          float64  `json:"max_mult,omitempty"`
	MonthlyTargetOcc *float64 `json:"monthly_target_occ,omitempty"`
}

// ResponseJSON represents a bounded linear response rule.
type ResponseJSON struct {
	Sensitivity float64 `json:"sensitivity"`
	MinMult     float64 `json:"min_mult,omitempty"`
	MaxMult     float64 `json:"max_mult,omitempty"`
}

// =============================================================================
// VALIDATION ERROR
// =============================================================================

// ValidationError names the config field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid model config: %s: %s", e.Field, e.Message)
}

// =============================================================================
// MODEL FACTORY
// =============================================================================

// ModelFactory converts JSON model configs to Go structs.
type ModelFactory struct{}

func NewModelFactory() *ModelFactory {
	return &ModelFactory{}
}

// ParseModel parses a JSON string into a validated PricingModel.
func (f *ModelFactory) ParseModel(jsonStr string) (*pricing.PricingModel, error) {
	var mj ModelJSON
	if err := json.Unmarshal([]byte(jsonStr), &mj); err != nil {
		return nil, fmt.Errorf("failed to parse model JSON: %w", err)
	}
	return f.FromJSON(mj)
}

// FromJSON converts ModelJSON to a validated PricingModel.
func (f *ModelFactory) FromJSON(mj ModelJSON) (*pricing.PricingModel, error) {
	if mj.ID == "" {
		return nil, &ValidationError{Field: "id", Message: "required"}
	}
	if mj.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "required"}
	}

	mode, err := parseHistoryMode(mj.HistoryMode)
	if err != nil {
		return nil, err
	}

	tiers, err := parseTiers(mj.Tiers)
	if err != nil {
		return nil, err
	}

	rules, err := parseMonthRules(mj.MonthRules)
	if err != nil {
		return nil, err
	}

	model := &pricing.PricingModel{
		ID:          pricing.ModelID(mj.ID),
		Name:        mj.Name,
		HistoryMode: mode,
		Tiers:       pricing.TierTemplate{Tiers: tiers},
		MonthRules:  rules,
		PaceRule:    parseResponse(mj.PaceRule),
		TargetRule:  parseResponse(mj.TargetRule),
		RoomGroups:  mj.RoomGroups,
	}
	return model, nil
}

// ToJSON converts a PricingModel back to its JSON config form for
// storage and API responses.
func (f *ModelFactory) ToJSON(model pricing.PricingModel) ModelJSON {
	mj := ModelJSON{
		ID:          string(model.ID),
		Name:        model.Name,
		HistoryMode: string(model.HistoryMode),
		RoomGroups:  model.RoomGroups,
	}
	for _, t := range model.Tiers.Tiers {
		minOcc, _ := t.MinOcc.Float64()
		maxOcc, _ := t.MaxOcc.Float64()
		mult, _ := t.Multiplier.Float64()
		mj.Tiers = append(mj.Tiers, TierJSON{Name: t.Name, MinOcc: minOcc, MaxOcc: maxOcc, Multiplier: mult})
	}
	for _, r := range model.MonthRules {
		minMult, _ := r.MinMult.Float64()
		maxMult, _ := r.MaxMult.Float64()
		rj := MonthRuleJSON{RoomGroup: r.RoomGroup, Month: int(r.Month), MinMult: minMult, MaxMult: maxMult}
		if r.MonthlyTargetOcc != nil {
			occ, _ := r.MonthlyTargetOcc.Float64()
			rj.MonthlyTargetOcc = &occ
		}
		mj.MonthRules = append(mj.MonthRules, rj)
	}
	mj.PaceRule = responseJSON(model.PaceRule)
	mj.TargetRule = responseJSON(model.TargetRule)
	return mj
}

// =============================================================================
// PARSERS
// =============================================================================

func parseHistoryMode(s string) (pricing.HistoryMode, error) {
	switch pricing.HistoryMode(s) {
	case "":
		return pricing.HistoryBasePrices, nil
	case pricing.HistoryBasePrices, pricing.HistoryLastYearSameMonth, pricing.HistoryTrailing3YrAvg:
		return pricing.HistoryMode(s), nil
	default:
		return "", &ValidationError{Field: "history_mode", Message: "unknown mode " + s}
	}
}

func parseTiers(tiers []TierJSON) ([]pricing.Tier, error) {
	out := make([]pricing.Tier, 0, len(tiers))
	for i, tj := range tiers {
		field := fmt.Sprintf("tiers[%d]", i)
		if tj.MinOcc < 0 || tj.MaxOcc <= tj.MinOcc {
			return nil, &ValidationError{Field: field, Message: "requires 0 <= min_occ < max_occ"}
		}
		if tj.Multiplier <= 0 {
			return nil, &ValidationError{Field: field, Message: "multiplier must be positive"}
		}
		out = append(out, pricing.Tier{
			Name:       tj.Name,
			MinOcc:     decimal.NewFromFloat(tj.MinOcc),
			MaxOcc:     decimal.NewFromFloat(tj.MaxOcc),
			Multiplier: decimal.NewFromFloat(tj.Multiplier),
		})
	}

	// Buckets must not overlap; ordering by min_occ makes the check local.
	sorted := make([]pricing.Tier, len(out))
	copy(sorted, out)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinOcc.LessThan(sorted[j].MinOcc) })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].MinOcc.LessThan(sorted[i-1].MaxOcc) {
			return nil, &ValidationError{
				Field:   "tiers",
				Message: fmt.Sprintf("buckets %q and %q overlap", sorted[i-1].Name, sorted[i].Name),
			}
		}
	}
	return sorted, nil
}

func parseMonthRules(rules []MonthRuleJSON) ([]pricing.MonthRule, error) {
	out := make([]pricing.MonthRule, 0, len(rules))
	for i, rj := range rules {
		field := fmt.Sprintf("month_rules[%d]", i)
		if rj.Month < 1 || rj.Month > 12 {
			return nil, &ValidationError{Field: field, Message: "month must be 1-12"}
		}

		rule := pricing.MonthRule{
			RoomGroup: rj.RoomGroup,
			Month:     time.Month(rj.Month),
			MinMult:   pricing.DefaultMinMult,
			MaxMult:   pricing.DefaultMaxMult,
		}
		if rule.RoomGroup == "" {
			rule.RoomGroup = pricing.DefaultRoomGroup
		}
		if rj.MinMult != 0 {
			rule.MinMult = decimal.NewFromFloat(rj.MinMult)
		}
		if rj.MaxMult != 0 {
			rule.MaxMult = decimal.NewFromFloat(rj.MaxMult)
		}
		if rule.MinMult.GreaterThan(rule.MaxMult) {
			return nil, &ValidationError{Field: field, Message: "min_mult exceeds max_mult"}
		}
		if rj.MonthlyTargetOcc != nil {
			occ := *rj.MonthlyTargetOcc
			if occ < 0 || occ > 1 {
				return nil, &ValidationError{Field: field, Message: "monthly_target_occ must be a ratio in [0,1]"}
			}
			d := decimal.NewFromFloat(occ)
			rule.MonthlyTargetOcc = &d
		}
		out = append(out, rule)
	}
	return out, nil
}

func parseResponse(rj *ResponseJSON) pricing.ResponseRule {
	if rj == nil {
		return pricing.IdentityRule()
	}
	rule := pricing.ResponseRule{Sensitivity: decimal.NewFromFloat(rj.Sensitivity)}
	if rj.MinMult != 0 {
		rule.MinMult = decimal.NewFromFloat(rj.MinMult)
	}
	if rj.MaxMult != 0 {
		rule.MaxMult = decimal.NewFromFloat(rj.MaxMult)
	}
	return rule
}

func responseJSON(rule pricing.ResponseRule) *ResponseJSON {
	if rule.Sensitivity.IsZero() && rule.MinMult.IsZero() && rule.MaxMult.IsZero() {
		return nil
	}
	sens, _ := rule.Sensitivity.Float64()
	minMult, _ := rule.MinMult.Float64()
	maxMult, _ := rule.MaxMult.Float64()
	return &ResponseJSON{Sensitivity: sens, MinMult: minMult, MaxMult: maxMult}
}
