package factory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bernardlodge/pricing-engine/factory"
	"github.com/bernardlodge/pricing-engine/pricing"
)

const validConfig = `{
	"id": "standard-2026",
	"name": "Standard 2026",
	"history_mode": "last_year_same_month",
	"tiers": [
		{"name": "low",  "min_occ": 0.0, "max_occ": 0.5,  "multiplier": 0.9},
		{"name": "peak", "min_occ": 0.8, "max_occ": 1.01, "multiplier": 1.2},
		{"name": "mid",  "min_occ": 0.5, "max_occ": 0.8,  "multiplier": 1.0}
	],
	"month_rules": [
		{"room_group": "all", "month": 12, "min_mult": 0.85, "max_mult": 1.8, "monthly_target_occ": 0.8},
		{"month": 1}
	],
	"pace_rule":   {"sensitivity": 0.5, "min_mult": 0.85, "max_mult": 1.25},
	"room_groups": {"CHL": "chalet"}
}`

func TestParseModel_Valid(t *testing.T) {
	f := factory.NewModelFactory()

	model, err := f.ParseModel(validConfig)
	require.NoError(t, err)

	assert.Equal(t, pricing.ModelID("standard-2026"), model.ID)
	assert.Equal(t, pricing.HistoryLastYearSameMonth, model.HistoryMode)

	// Tiers come back sorted by min_occ.
	require.Len(t, model.Tiers.Tiers, 3)
	assert.Equal(t, "low", model.Tiers.Tiers[0].Name)
	assert.Equal(t, "mid", model.Tiers.Tiers[1].Name)
	assert.Equal(t, "peak", model.Tiers.Tiers[2].Name)

	assert.Equal(t, "chalet", model.GroupFor("CHL"))
	assert.Equal(t, pricing.DefaultRoomGroup, model.GroupFor("STD"))
}

func TestParseModel_MonthRuleDefaults(t *testing.T) {
	f := factory.NewModelFactory()
	model, err := f.ParseModel(validConfig)
	require.NoError(t, err)

	// Explicit December rule keeps its bounds.
	december := model.MonthRuleFor("STD", time.December)
	assert.True(t, december.MinMult.Equal(decimal.NewFromFloat(0.85)))
	require.NotNil(t, december.MonthlyTargetOcc)
	assert.True(t, december.MonthlyTargetOcc.Equal(decimal.NewFromFloat(0.8)))

	// The bare January rule picks up the 0.7/2.0 defaults and the default
	// room group.
	january := model.MonthRuleFor("STD", time.January)
	assert.True(t, january.MinMult.Equal(pricing.DefaultMinMult))
	assert.True(t, january.MaxMult.Equal(pricing.DefaultMaxMult))
	assert.Nil(t, january.MonthlyTargetOcc)
}

func TestParseModel_MissingRulesAreIdentity(t *testing.T) {
	f := factory.NewModelFactory()

	model, err := f.ParseModel(`{"id": "m", "name": "M", "tiers": []}`)
	require.NoError(t, err)

	// No pace/target rule: the multiplier is a permanent 1.0.
	assert.True(t, model.TargetRule.Multiplier(decimal.NewFromFloat(0.3)).Equal(decimal.NewFromInt(1)))
	assert.Equal(t, pricing.HistoryBasePrices, model.HistoryMode)
}

func TestParseModel_Invalid(t *testing.T) {
	f := factory.NewModelFactory()

	cases := map[string]string{
		"missing id":       `{"name": "M"}`,
		"missing name":     `{"id": "m"}`,
		"bad history mode": `{"id": "m", "name": "M", "history_mode": "psychic"}`,
		"inverted bucket":  `{"id": "m", "name": "M", "tiers": [{"min_occ": 0.6, "max_occ": 0.5, "multiplier": 1}]}`,
		"zero multiplier":  `{"id": "m", "name": "M", "tiers": [{"min_occ": 0, "max_occ": 0.5, "multiplier": 0}]}`,
		"overlapping tiers": `{"id": "m", "name": "M", "tiers": [
			{"name": "a", "min_occ": 0.0, "max_occ": 0.6, "multiplier": 1},
			{"name": "b", "min_occ": 0.5, "max_occ": 1.0, "multiplier": 1.1}]}`,
		"month out of range": `{"id": "m", "name": "M", "tiers": [], "month_rules": [{"month": 13}]}`,
		"inverted bounds":    `{"id": "m", "name": "M", "tiers": [], "month_rules": [{"month": 3, "min_mult": 1.5, "max_mult": 1.2}]}`,
		"target occ > 1":     `{"id": "m", "name": "M", "tiers": [], "month_rules": [{"month": 3, "monthly_target_occ": 1.5}]}`,
	}

	for name, config := range cases {
		_, err := f.ParseModel(config)
		require.Error(t, err, name)
		var vErr *factory.ValidationError
		assert.ErrorAs(t, err, &vErr, name)
	}
}

func TestToJSON_RoundTrips(t *testing.T) {
	f := factory.NewModelFactory()

	model, err := f.ParseModel(validConfig)
	require.NoError(t, err)

	back, err := f.FromJSON(f.ToJSON(*model))
	require.NoError(t, err)

	assert.Equal(t, model.ID, back.ID)
	assert.Equal(t, model.HistoryMode, back.HistoryMode)
	require.Len(t, back.Tiers.Tiers, 3)
	assert.True(t, back.Tiers.Tiers[2].Multiplier.Equal(decimal.NewFromFloat(1.2)))
	assert.True(t, back.PaceRule.Sensitivity.Equal(decimal.NewFromFloat(0.5)))
}
