/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Provides pre-built scenarios that populate the database with realistic
  data for testing and demos. Each scenario creates rooms, a pricing
  model, and (where relevant) targets, breakdowns, and signals that
  demonstrate specific features.

AVAILABLE SCENARIOS:
  lodge-catalog:   Rooms + an active model, no targets. Simulation-ready.
  q1-planning:     Q1 revenue targets with rate-type breakdowns
  december-peak:   High season with blocked dates and a manual override

HOW SCENARIOS WORK:
 1. Create room types
 2. Create and activate a pricing model via the factory
 3. Optionally create targets, breakdown rows, blocked dates, overrides
 4. Seed static occupancy signals when the handler's provider supports it

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "q1-planning"}

NOTE:
  Scenario loads are upserts, not resets. Loading twice is harmless.

SEE ALSO:
  - handlers.go: writeJSON/writeError helpers
  - factory/model.go: Model JSON definitions
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bernardlodge/pricing-engine/pricing"
	"github.com/bernardlodge/pricing-engine/revenue"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "lodge-catalog",
		Name:        "Lodge Catalog",
		Description: "Three room types with an active pricing model, ready to simulate",
	},
	{
		ID:          "q1-planning",
		Name:        "Q1 Planning",
		Description: "Q1 2026 revenue targets with rate-type breakdowns per room",
	},
	{
		ID:          "december-peak",
		Name:        "December Peak",
		Description: "High-season December targets with blocked dates and a pinned rate",
	},
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns all available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the most recently loaded scenario.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": h.currentScenario})
}

// LoadScenario populates the database with a demo scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	var err error
	switch req.ScenarioID {
	case "lodge-catalog":
		err = h.loadLodgeCatalog(ctx)
	case "q1-planning":
		err = h.loadQ1Planning(ctx)
	case "december-peak":
		err = h.loadDecemberPeak(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario_id": req.ScenarioID})
}

// =============================================================================
// LOADERS
// =============================================================================

// demoRooms is the shared lodge catalog used by every scenario.
var demoRooms = []pricing.RoomType{
	{
		ID:           "room-std",
		Code:         "STD",
		Name:         "Standard Room",
		BaseWeekday:  pricing.NewMoney(1400, "GHS"),
		BaseWeekend:  pricing.NewMoney(1600, "GHS"),
		MaxOccupancy: 2,
		Active:       true,
	},
	{
		ID:           "room-chl",
		Code:         "CHL",
		Name:         "Garden Chalet",
		BaseWeekday:  pricing.NewMoney(2000, "GHS"),
		BaseWeekend:  pricing.NewMoney(2400, "GHS"),
		MaxOccupancy: 3,
		Active:       true,
	},
	{
		ID:           "room-exe",
		Code:         "EXE",
		Name:         "Executive Suite",
		BaseWeekday:  pricing.NewMoney(3200, "GHS"),
		BaseWeekend:  pricing.NewMoney(3800, "GHS"),
		MaxOccupancy: 4,
		Active:       true,
	},
}

const demoModelConfig = `{
	"id": "standard-2026",
	"name": "Standard 2026",
	"history_mode": "last_year_same_month",
	"tiers": [
		{"name": "low",  "min_occ": 0.0, "max_occ": 0.5,  "multiplier": 0.9},
		{"name": "mid",  "min_occ": 0.5, "max_occ": 0.8,  "multiplier": 1.0},
		{"name": "peak", "min_occ": 0.8, "max_occ": 1.01, "multiplier": 1.2}
	],
	"month_rules": [
		{"room_group": "all",    "month": 12, "min_mult": 0.85, "max_mult": 1.8, "monthly_target_occ": 0.8},
		{"room_group": "all",    "month": 1,  "min_mult": 0.7,  "max_mult": 1.5, "monthly_target_occ": 0.6},
		{"room_group": "chalet", "month": 12, "min_mult": 0.9,  "max_mult": 2.0, "monthly_target_occ": 0.85}
	],
	"pace_rule":   {"sensitivity": 0.5, "min_mult": 0.85, "max_mult": 1.25},
	"target_rule": {"sensitivity": 0.3, "min_mult": 0.9,  "max_mult": 1.15},
	"room_groups": {"CHL": "chalet"}
}`

// loadLodgeCatalog seeds rooms and an active model, plus default signals
// when the handler's provider is a static one.
func (h *Handler) loadLodgeCatalog(ctx context.Context) error {
	for _, room := range demoRooms {
		if err := h.Store.SaveRoom(ctx, room); err != nil {
			return err
		}
	}

	model, err := h.Factory.ParseModel(demoModelConfig)
	if err != nil {
		return err
	}
	if err := h.Store.SaveModel(ctx, *model); err != nil {
		return err
	}
	if err := h.Store.SetActiveModel(ctx, model.ID); err != nil {
		return err
	}

	// Steady mid-tier signals: slightly ahead of pace, on target.
	if static, ok := h.Signals.(*pricing.StaticSignals); ok {
		static.Default = &pricing.OccupancySignals{
			HistOcc:     pricing.Ratio(0.65),
			MTDOcc:      pricing.Ratio(0.6),
			OTBOcc:      pricing.Ratio(0.45),
			ExpectedOTB: pricing.Ratio(0.4),
		}
	}
	return nil
}

// loadQ1Planning seeds the catalog plus Q1 2026 targets with non-trivial
// breakdowns.
func (h *Handler) loadQ1Planning(ctx context.Context) error {
	if err := h.loadLodgeCatalog(ctx); err != nil {
		return err
	}

	period := pricing.Period{
		Start: pricing.NewStayDate(2026, 1, 1),
		End:   pricing.NewStayDate(2026, 3, 31),
	}
	goals := []struct {
		roomID  pricing.RoomID
		occ     float64
		revenue float64
	}{
		{"room-std", 70, 105000},
		{"room-chl", 65, 140000},
		{"room-exe", 55, 180000},
	}

	for _, g := range goals {
		target := revenue.RevenueTarget{
			ID:              revenue.TargetID("target-q1-" + string(g.roomID)),
			RoomTypeID:      g.roomID,
			Period:          period,
			PeriodName:      "Q1 2026",
			TargetOccupancy: decimal.NewFromFloat(g.occ),
			TargetRevenue:   pricing.NewMoney(g.revenue, "GHS"),
		}
		if err := h.Store.SaveTarget(ctx, target); err != nil {
			return err
		}

		rows := []revenue.BreakdownRow{
			{
				ID:         uuid.NewString(),
				TargetID:   target.ID,
				RateType:   revenue.RateTypeRateCard,
				SortOrder:  0,
				IsResidual: true,
			},
			{
				ID:          uuid.NewString(),
				TargetID:    target.ID,
				RateType:    "Package",
				TypeDetail:  "Romantic getaway",
				PctBusiness: decimal.NewFromInt(20),
				SortOrder:   1,
			},
			{
				ID:          uuid.NewString(),
				TargetID:    target.ID,
				RateType:    "Coupon",
				TypeDetail:  "NEWYEAR15",
				PctBusiness: decimal.NewFromInt(10),
				SortOrder:   2,
			},
		}
		if err := h.Store.ReplaceBreakdown(ctx, target.ID, rows); err != nil {
			return err
		}
	}
	return nil
}

// loadDecemberPeak seeds December targets, renovation blocks on the
// chalet, and a pinned New Year's Eve rate.
func (h *Handler) loadDecemberPeak(ctx context.Context) error {
	if err := h.loadLodgeCatalog(ctx); err != nil {
		return err
	}

	period := pricing.Period{
		Start: pricing.NewStayDate(2026, 12, 1),
		End:   pricing.NewStayDate(2026, 12, 31),
	}
	for _, g := range []struct {
		roomID  pricing.RoomID
		occ     float64
		revenue float64
	}{
		{"room-std", 85, 48000},
		{"room-chl", 90, 72000},
	} {
		target := revenue.RevenueTarget{
			ID:              revenue.TargetID("target-dec-" + string(g.roomID)),
			RoomTypeID:      g.roomID,
			Period:          period,
			PeriodName:      "December 2026",
			TargetOccupancy: decimal.NewFromFloat(g.occ),
			TargetRevenue:   pricing.NewMoney(g.revenue, "GHS"),
		}
		if err := h.Store.SaveTarget(ctx, target); err != nil {
			return err
		}
		seed := revenue.NewBreakdown(target.ID, uuid.NewString())
		if err := h.Store.ReplaceBreakdown(ctx, target.ID, seed); err != nil {
			return err
		}
	}

	// Chalet closed for maintenance the first three nights of the month.
	for day := 1; day <= 3; day++ {
		bd := revenue.BlockedDate{RoomTypeID: "room-chl", Date: pricing.NewStayDate(2026, 12, day)}
		if err := h.Store.SaveBlockedDate(ctx, bd); err != nil {
			return err
		}
	}

	// New Year's Eve is sold at a fixed event rate.
	override := pricing.RateOverride{
		RoomTypeID: "room-exe",
		Date:       pricing.NewStayDate(2026, 12, 31),
		Price:      pricing.NewMoney(6000, "GHS"),
	}
	return h.Store.SaveOverride(ctx, override)
}
