/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Amounts cross the wire as JSON numbers in whole currency units plus a
  currency code. Internal math stays decimal; floats appear only at the
  serialization boundary.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/model.go: ModelJSON config schema
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/bernardlodge/pricing-engine/factory"
	"github.com/bernardlodge/pricing-engine/pricing"
	"github.com/bernardlodge/pricing-engine/revenue"
)

// =============================================================================
// ROOM TYPES
// =============================================================================

// RoomDTO represents a room type in API responses.
type RoomDTO struct {
	ID           string  `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	BaseWeekday  float64 `json:"base_weekday"`
	BaseWeekend  float64 `json:"base_weekend"`
	Currency     string  `json:"currency"`
	MaxOccupancy int     `json:"max_occupancy"`
	Active       bool    `json:"active"`
}

// CreateRoomRequest is the request to create or update a room type.
type CreateRoomRequest struct {
	ID           string  `json:"id,omitempty"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	BaseWeekday  float64 `json:"base_weekday"`
	BaseWeekend  float64 `json:"base_weekend"`
	Currency     string  `json:"currency"`
	MaxOccupancy int     `json:"max_occupancy,omitempty"`
}

// =============================================================================
// PRICING MODELS
// =============================================================================

// ModelDTO represents a pricing model in API responses. The config is the
// same JSON shape admins submit.
type ModelDTO struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Active bool              `json:"active"`
	Config factory.ModelJSON `json:"config"`
}

// CreateModelRequest is the request to create a pricing model.
type CreateModelRequest struct {
	Config factory.ModelJSON `json:"config"`
}

// =============================================================================
// SIMULATION
// =============================================================================

// SimulateRequest asks for nightly rates over a stay.
type SimulateRequest struct {
	RoomID   string `json:"room_id"`
	CheckIn  string `json:"check_in"`  // YYYY-MM-DD
	CheckOut string `json:"check_out"` // YYYY-MM-DD, exclusive
}

// NightDTO is one night's computed rate with its explanation.
type NightDTO struct {
	Date         string   `json:"date"`
	Base         float64  `json:"base"`
	Rate         float64  `json:"rate"`
	LeadDays     int      `json:"lead_days"`
	LeadWindow   string   `json:"lead_window"`
	TierName     string   `json:"tier_name,omitempty"`
	TierMult     *float64 `json:"tier_mult,omitempty"`
	PaceMult     *float64 `json:"pace_mult,omitempty"`
	TargetMult   *float64 `json:"target_mult,omitempty"`
	MonthMinMult float64  `json:"month_min_mult"`
	MonthMaxMult float64  `json:"month_max_mult"`
	Override     bool     `json:"override_applied,omitempty"`
}

// SimulationDTO is the full response for one simulated stay.
type SimulationDTO struct {
	RoomID    string     `json:"room_id"`
	RoomCode  string     `json:"room_code"`
	ModelID   string     `json:"model_id"`
	ModelName string     `json:"model_name"`
	CheckIn   string     `json:"check_in"`
	CheckOut  string     `json:"check_out"`
	Currency  string     `json:"currency"`
	Nights    []NightDTO `json:"nights"`
	Total     float64    `json:"total"`
}

// =============================================================================
// REVENUE TARGETS
// =============================================================================

// TargetRowRequest is one room's goals inside a period submission.
type TargetRowRequest struct {
	RoomTypeID      string  `json:"room_type_id"`
	TargetOccupancy float64 `json:"target_occupancy"` // 0-100
	TargetRevenue   float64 `json:"target_revenue"`
	Currency        string  `json:"currency,omitempty"`
}

// CreateTargetsRequest creates one named period with per-room targets.
type CreateTargetsRequest struct {
	PeriodName string             `json:"period_name"`
	Start      string             `json:"start"`
	End        string             `json:"end"`
	Rooms      []TargetRowRequest `json:"rooms"`
}

// DeletePeriodRequest removes every room's target for a period.
type DeletePeriodRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TargetDTO represents a revenue target in API responses.
type TargetDTO struct {
	ID              string  `json:"id"`
	RoomTypeID      string  `json:"room_type_id"`
	PeriodName      string  `json:"period_name"`
	Start           string  `json:"start"`
	End             string  `json:"end"`
	TargetOccupancy float64 `json:"target_occupancy"`
	TargetRevenue   float64 `json:"target_revenue"`
	Currency        string  `json:"currency"`
}

// PeriodDTO summarizes one named target period.
type PeriodDTO struct {
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
	Rooms int    `json:"rooms"`
}

// AllocationDTO is the computed allocation for one target.
type AllocationDTO struct {
	TargetID         string  `json:"target_id"`
	PeriodNights     int     `json:"period_nights"`
	BlockedNights    int     `json:"blocked_nights"`
	AvailableNights  int     `json:"available_nights"`
	TargetNights     int     `json:"target_nights"`
	RequiredAvgPrice float64 `json:"required_avg_price"`
	Currency         string  `json:"currency"`
}

// PortfolioDTO is the "all rooms" aggregate for a period.
type PortfolioDTO struct {
	TotalRevenue float64 `json:"total_revenue"`
	TotalNights  int     `json:"total_nights"`
	BlendedPrice float64 `json:"blended_price"`
	Currency     string  `json:"currency"`
}

// TargetListDTO pairs the period's targets with the portfolio view.
type TargetListDTO struct {
	Targets   []TargetDTO   `json:"targets"`
	Portfolio *PortfolioDTO `json:"portfolio,omitempty"`
}

// =============================================================================
// BREAKDOWN
// =============================================================================

// BreakdownRowDTO is one rate-type bucket with its derived quantities.
type BreakdownRowDTO struct {
	ID          string  `json:"id"`
	RateType    string  `json:"rate_type"`
	TypeDetail  string  `json:"type_detail,omitempty"`
	PctBusiness float64 `json:"pct_business"`
	Discount    float64 `json:"discount"`
	SortOrder   int     `json:"sort_order"`
	IsResidual  bool    `json:"is_residual"`
	Days        int     `json:"days"`
	Revenue     float64 `json:"revenue"`
	Price       float64 `json:"price"`
}

// BreakdownDTO is the reconciled row set for one target.
type BreakdownDTO struct {
	TargetID    string            `json:"target_id"`
	TotalNights int               `json:"total_nights"`
	Rows        []BreakdownRowDTO `json:"rows"`
}

// SaveBreakdownRowRequest is one submitted bucket. The residual's pct is
// ignored and recomputed server-side.
type SaveBreakdownRowRequest struct {
	ID          string  `json:"id,omitempty"`
	RateType    string  `json:"rate_type"`
	TypeDetail  string  `json:"type_detail,omitempty"`
	PctBusiness float64 `json:"pct_business"`
	SortOrder   int     `json:"sort_order"`
	IsResidual  bool    `json:"is_residual"`
}

// SaveBreakdownRequest replaces a target's full row set.
type SaveBreakdownRequest struct {
	Rows []SaveBreakdownRowRequest `json:"rows"`
}

// PreviewEditRequest applies an edit in memory without persisting:
// set a row's pct, or remove a row.
type PreviewEditRequest struct {
	RowID  string   `json:"row_id"`
	Pct    *float64 `json:"pct,omitempty"`
	Remove bool     `json:"remove,omitempty"`
}

// =============================================================================
// SENSITIVITY
// =============================================================================

// SensitivityRowDTO is one occupancy level's projection.
type SensitivityRowDTO struct {
	Occupancy       float64 `json:"occupancy"`
	Nights          int     `json:"nights"`
	RevenueRequired float64 `json:"revenue_required"`
	RevenueCurrent  float64 `json:"revenue_current"`
	Variance        float64 `json:"variance"`
	VariancePct     float64 `json:"variance_pct"`
	Band            string  `json:"band"`
	IsTarget        bool    `json:"is_target"`
}

// SensitivityDTO is the occupancy sweep for one target.
type SensitivityDTO struct {
	TargetID        string              `json:"target_id"`
	CurrentAvgPrice float64             `json:"current_avg_price"`
	Currency        string              `json:"currency"`
	Rows            []SensitivityRowDTO `json:"rows"`
}

// =============================================================================
// BLOCKED DATES AND OVERRIDES
// =============================================================================

// BlockedDateDTO represents one unsellable night.
type BlockedDateDTO struct {
	RoomTypeID string `json:"room_type_id"`
	Date       string `json:"date"`
}

// OverrideDTO represents a manual per-date price pin.
type OverrideDTO struct {
	RoomTypeID string  `json:"room_type_id"`
	Date       string  `json:"date"`
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
}

// =============================================================================
// SCENARIOS AND ERRORS
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects the scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func money(m pricing.Money) float64 {
	f, _ := m.Amount.Float64()
	return f
}

func dec(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func decPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f, _ := d.Float64()
	return &f
}

func toRoomDTO(r pricing.RoomType) RoomDTO {
	return RoomDTO{
		ID:           string(r.ID),
		Code:         r.Code,
		Name:         r.Name,
		BaseWeekday:  money(r.BaseWeekday),
		BaseWeekend:  money(r.BaseWeekend),
		Currency:     r.BaseWeekday.Currency,
		MaxOccupancy: r.MaxOccupancy,
		Active:       r.Active,
	}
}

func toTargetDTO(t revenue.RevenueTarget) TargetDTO {
	return TargetDTO{
		ID:              string(t.ID),
		RoomTypeID:      string(t.RoomTypeID),
		PeriodName:      t.PeriodName,
		Start:           t.Period.Start.String(),
		End:             t.Period.End.String(),
		TargetOccupancy: dec(t.TargetOccupancy),
		TargetRevenue:   money(t.TargetRevenue),
		Currency:        t.TargetRevenue.Currency,
	}
}

func toNightDTO(n pricing.NightlyRateResult) NightDTO {
	return NightDTO{
		Date:         n.Date.String(),
		Base:         money(n.Base),
		Rate:         money(n.Rate),
		LeadDays:     n.Meta.LeadDays,
		LeadWindow:   n.Meta.LeadWindow,
		TierName:     n.Meta.TierName,
		TierMult:     decPtr(n.Meta.TierMult),
		PaceMult:     decPtr(n.Meta.PaceMult),
		TargetMult:   decPtr(n.Meta.TargetMult),
		MonthMinMult: dec(n.Meta.MonthMinMult),
		MonthMaxMult: dec(n.Meta.MonthMaxMult),
		Override:     n.Meta.OverrideApplied,
	}
}

func toBreakdownRowDTO(r revenue.ReconciledRow) BreakdownRowDTO {
	return BreakdownRowDTO{
		ID:          r.ID,
		RateType:    r.RateType,
		TypeDetail:  r.TypeDetail,
		PctBusiness: dec(r.PctBusiness),
		Discount:    dec(r.Discount),
		SortOrder:   r.SortOrder,
		IsResidual:  r.IsResidual,
		Days:        r.Days,
		Revenue:     money(r.Revenue),
		Price:       money(r.Price),
	}
}
