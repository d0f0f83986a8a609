/*
handlers.go - HTTP API handlers for the pricing engine

PURPOSE:
  Exposes the pricing and revenue-planning engine via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to domain
  logic.

ENDPOINTS:
  Rooms:
    GET    /api/rooms                   List room types
    POST   /api/rooms                   Create/update room type
    GET    /api/rooms/{id}              Get room type

  Models:
    GET    /api/models                  List pricing models
    POST   /api/models                  Create model from JSON config
    GET    /api/models/{id}             Get model
    POST   /api/models/{id}/activate    Make this the one active model

  Simulation:
    POST   /api/simulate                Nightly rates for a stay

  Targets:
    GET    /api/targets                 Targets + portfolio for a period
    POST   /api/targets                 Create one period's targets
    GET    /api/targets/periods         List named periods
    DELETE /api/targets/periods         Delete a period (atomic)
    GET    /api/targets/{id}/allocation
    GET    /api/targets/{id}/breakdown
    PUT    /api/targets/{id}/breakdown  Full replace, residual recomputed
    POST   /api/targets/{id}/breakdown/preview
    GET    /api/targets/{id}/sensitivity?current_avg_price=

  Availability:
    GET/POST/DELETE /api/blocked-dates
    GET/POST/DELETE /api/overrides

  Scenarios:
    GET    /api/scenarios               List demo scenarios
    POST   /api/scenarios/load          Load a demo scenario

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (residual edits, duplicate residual)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bernardlodge/pricing-engine/factory"
	"github.com/bernardlodge/pricing-engine/pricing"
	"github.com/bernardlodge/pricing-engine/revenue"
	"github.com/bernardlodge/pricing-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Factory *factory.ModelFactory
	Signals pricing.SignalProvider

	sim *pricing.Simulator

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store and signal
// provider. A nil provider means no signals: simulations return clamped
// base prices.
func NewHandler(store *sqlite.Store, signals pricing.SignalProvider) *Handler {
	if signals == nil {
		signals = pricing.NoSignals{}
	}
	return &Handler{
		Store:   store,
		Factory: factory.NewModelFactory(),
		Signals: signals,
		sim: &pricing.Simulator{
			Catalog:       store,
			Models:        store,
			Overrides:     store,
			Signals:       signals,
			SignalTimeout: 2 * time.Second,
		},
	}
}

// SetSignalTimeout adjusts the per-night signal lookup deadline.
func (h *Handler) SetSignalTimeout(d time.Duration) {
	h.sim.SignalTimeout = d
}

// =============================================================================
// ROOM HANDLERS
// =============================================================================

// ListRooms returns all room types.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Store.ListRooms(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rooms", err)
		return
	}

	dtos := make([]RoomDTO, len(rooms))
	for i, room := range rooms {
		dtos[i] = toRoomDTO(room)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRoom returns a single room type.
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	id := pricing.RoomID(chi.URLParam(r, "id"))

	room, err := h.Store.Room(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "Failed to get room")
		return
	}
	writeJSON(w, http.StatusOK, toRoomDTO(*room))
}

// CreateRoom creates or updates a room type.
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Code == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "code and name are required", nil)
		return
	}
	if req.BaseWeekday <= 0 || req.BaseWeekend <= 0 {
		writeError(w, http.StatusBadRequest, "base prices must be positive", nil)
		return
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.MaxOccupancy == 0 {
		req.MaxOccupancy = 2
	}
	room := pricing.RoomType{
		ID:           pricing.RoomID(req.ID),
		Code:         req.Code,
		Name:         req.Name,
		BaseWeekday:  pricing.NewMoney(req.BaseWeekday, req.Currency),
		BaseWeekend:  pricing.NewMoney(req.BaseWeekend, req.Currency),
		MaxOccupancy: req.MaxOccupancy,
		Active:       true,
	}

	if err := h.Store.SaveRoom(r.Context(), room); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save room", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRoomDTO(room))
}

// =============================================================================
// MODEL HANDLERS
// =============================================================================

// ListModels returns all pricing models.
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.Store.ListModels(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list models", err)
		return
	}

	dtos := make([]ModelDTO, len(models))
	for i, m := range models {
		dtos[i] = ModelDTO{
			ID:     string(m.ID),
			Name:   m.Name,
			Active: m.Active,
			Config: h.Factory.ToJSON(m),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetModel returns a single pricing model.
func (h *Handler) GetModel(w http.ResponseWriter, r *http.Request) {
	id := pricing.ModelID(chi.URLParam(r, "id"))

	model, err := h.Store.Model(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "Failed to get model")
		return
	}
	writeJSON(w, http.StatusOK, ModelDTO{
		ID:     string(model.ID),
		Name:   model.Name,
		Active: model.Active,
		Config: h.Factory.ToJSON(*model),
	})
}

// CreateModel creates a pricing model from its JSON config.
func (h *Handler) CreateModel(w http.ResponseWriter, r *http.Request) {
	var req CreateModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	model, err := h.Factory.FromJSON(req.Config)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid model config", err)
		return
	}

	if err := h.Store.SaveModel(r.Context(), *model); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save model", err)
		return
	}
	writeJSON(w, http.StatusCreated, ModelDTO{
		ID:     string(model.ID),
		Name:   model.Name,
		Config: h.Factory.ToJSON(*model),
	})
}

// ActivateModel makes a model the single active one.
func (h *Handler) ActivateModel(w http.ResponseWriter, r *http.Request) {
	id := pricing.ModelID(chi.URLParam(r, "id"))

	if err := h.Store.SetActiveModel(r.Context(), id); err != nil {
		writeDomainError(w, err, "Failed to activate model")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "active", "model_id": string(id)})
}

// =============================================================================
// SIMULATION
// =============================================================================

// Simulate computes nightly rates for a stay.
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	checkIn, err := pricing.ParseStayDate(req.CheckIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid check_in format (use YYYY-MM-DD)", err)
		return
	}
	checkOut, err := pricing.ParseStayDate(req.CheckOut)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid check_out format (use YYYY-MM-DD)", err)
		return
	}

	result, err := h.sim.Simulate(r.Context(), pricing.RoomID(req.RoomID), checkIn, checkOut)
	if err != nil {
		writeDomainError(w, err, "Simulation failed")
		return
	}

	dto := SimulationDTO{
		RoomID:    string(result.RoomID),
		RoomCode:  result.RoomCode,
		ModelID:   string(result.ModelID),
		ModelName: result.ModelName,
		CheckIn:   result.CheckIn.String(),
		CheckOut:  result.CheckOut.String(),
		Currency:  result.Total.Currency,
		Total:     money(result.Total),
	}
	for _, night := range result.Nights {
		dto.Nights = append(dto.Nights, toNightDTO(night))
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// TARGET HANDLERS
// =============================================================================

// ListPeriods returns the distinct named periods with targets.
func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.Store.ListPeriods(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list periods", err)
		return
	}

	dtos := make([]PeriodDTO, len(periods))
	for i, p := range periods {
		dtos[i] = PeriodDTO{
			Name:  p.Name,
			Start: p.Period.Start.String(),
			End:   p.Period.End.String(),
			Rooms: p.Rooms,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListTargets returns the period's targets plus the all-rooms portfolio.
// GET /api/targets?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handler) ListTargets(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	targets, err := h.Store.ListTargets(r.Context(), period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list targets", err)
		return
	}

	out := TargetListDTO{Targets: make([]TargetDTO, len(targets))}
	for i, t := range targets {
		out.Targets[i] = toTargetDTO(t)
	}

	if len(targets) > 0 {
		available := make(map[pricing.RoomID]int, len(targets))
		for _, t := range targets {
			blocked, err := h.Store.BlockedNights(r.Context(), t.RoomTypeID, period)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "Failed to count blocked nights", err)
				return
			}
			available[t.RoomTypeID] = revenue.AvailableNights(period, blocked)
		}
		_, portfolio := revenue.AllocatePortfolio(targets, available)
		out.Portfolio = &PortfolioDTO{
			TotalRevenue: money(portfolio.TotalRevenue),
			TotalNights:  portfolio.TotalNights,
			BlendedPrice: money(portfolio.BlendedPrice),
			Currency:     portfolio.TotalRevenue.Currency,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateTargets creates one named period with per-room targets and seeds
// each target's breakdown with a 100% "Rate card" residual.
func (h *Handler) CreateTargets(w http.ResponseWriter, r *http.Request) {
	var req CreateTargetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.PeriodName == "" {
		writeError(w, http.StatusBadRequest, "period_name is required", nil)
		return
	}
	if len(req.Rooms) == 0 {
		writeError(w, http.StatusBadRequest, "at least one room target is required", nil)
		return
	}

	period, err := parsePeriod(req.Start, req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	created := make([]TargetDTO, 0, len(req.Rooms))
	for _, row := range req.Rooms {
		roomID := pricing.RoomID(row.RoomTypeID)
		room, err := h.Store.Room(r.Context(), roomID)
		if err != nil {
			writeDomainError(w, err, "Unknown room in target rows")
			return
		}

		currency := row.Currency
		if currency == "" {
			currency = room.BaseWeekday.Currency
		}
		target := revenue.RevenueTarget{
			ID:              revenue.TargetID(uuid.NewString()),
			RoomTypeID:      roomID,
			Period:          period,
			PeriodName:      req.PeriodName,
			TargetOccupancy: decimal.NewFromFloat(row.TargetOccupancy),
			TargetRevenue:   pricing.NewMoney(row.TargetRevenue, currency),
		}

		if err := h.Store.SaveTarget(r.Context(), target); err != nil {
			writeDomainError(w, err, "Failed to save target")
			return
		}
		seed := revenue.NewBreakdown(target.ID, uuid.NewString())
		if err := h.Store.ReplaceBreakdown(r.Context(), target.ID, seed); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to seed breakdown", err)
			return
		}
		created = append(created, toTargetDTO(target))
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeletePeriod removes every room's target for a period atomically.
func (h *Handler) DeletePeriod(w http.ResponseWriter, r *http.Request) {
	var req DeletePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	period, err := parsePeriod(req.Start, req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	if err := h.Store.DeletePeriod(r.Context(), period); err != nil {
		writeDomainError(w, err, "Failed to delete period")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetAllocation returns the computed night count and required price for
// one target.
func (h *Handler) GetAllocation(w http.ResponseWriter, r *http.Request) {
	target, blocked, ok := h.loadTarget(w, r)
	if !ok {
		return
	}

	availableNights := revenue.AvailableNights(target.Period, blocked)
	alloc := revenue.Allocate(*target, availableNights)

	writeJSON(w, http.StatusOK, AllocationDTO{
		TargetID:         string(target.ID),
		PeriodNights:     target.Period.Nights(),
		BlockedNights:    blocked,
		AvailableNights:  availableNights,
		TargetNights:     alloc.TargetNights,
		RequiredAvgPrice: money(alloc.RequiredAvgPrice),
		Currency:         target.TargetRevenue.Currency,
	})
}

// =============================================================================
// BREAKDOWN HANDLERS
// =============================================================================

// GetBreakdown returns the target's reconciled rate-type rows.
func (h *Handler) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	target, blocked, ok := h.loadTarget(w, r)
	if !ok {
		return
	}
	rows, err := h.Store.Breakdown(r.Context(), target.ID)
	if err != nil {
		writeDomainError(w, err, "Failed to load breakdown")
		return
	}
	if len(rows) == 0 {
		rows = revenue.NewBreakdown(target.ID, uuid.NewString())
	}
	h.writeReconciled(w, target, blocked, rows)
}

// SaveBreakdown replaces the target's full row set. The residual share is
// recomputed server-side before persisting.
func (h *Handler) SaveBreakdown(w http.ResponseWriter, r *http.Request) {
	target, blocked, ok := h.loadTarget(w, r)
	if !ok {
		return
	}

	var req SaveBreakdownRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rows := make([]revenue.BreakdownRow, 0, len(req.Rows))
	for _, row := range req.Rows {
		id := row.ID
		if id == "" {
			id = uuid.NewString()
		}
		rows = append(rows, revenue.BreakdownRow{
			ID:          id,
			TargetID:    target.ID,
			RateType:    row.RateType,
			TypeDetail:  row.TypeDetail,
			PctBusiness: decimal.NewFromFloat(row.PctBusiness),
			SortOrder:   row.SortOrder,
			IsResidual:  row.IsResidual,
		})
	}

	if err := h.Store.ReplaceBreakdown(r.Context(), target.ID, rows); err != nil {
		writeDomainError(w, err, "Failed to save breakdown")
		return
	}

	saved, err := h.Store.Breakdown(r.Context(), target.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload breakdown", err)
		return
	}
	h.writeReconciled(w, target, blocked, saved)
}

// PreviewBreakdown applies an edit (pct change or row removal) in memory
// and returns the reconciled result without persisting.
func (h *Handler) PreviewBreakdown(w http.ResponseWriter, r *http.Request) {
	target, blocked, ok := h.loadTarget(w, r)
	if !ok {
		return
	}

	var req PreviewEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rows, err := h.Store.Breakdown(r.Context(), target.ID)
	if err != nil {
		writeDomainError(w, err, "Failed to load breakdown")
		return
	}

	var edited []revenue.BreakdownRow
	if req.Remove {
		edited, err = revenue.RemoveRow(rows, req.RowID)
	} else {
		if req.Pct == nil {
			writeError(w, http.StatusBadRequest, "pct is required unless remove is set", nil)
			return
		}
		pct := decimal.NewFromFloat(*req.Pct)
		edited, err = revenue.ApplyEdit(rows, req.RowID, pct)
	}
	if err != nil {
		writeDomainError(w, err, "Edit rejected")
		return
	}
	h.writeReconciled(w, target, blocked, edited)
}

// writeReconciled reconciles rows against the target's allocation and
// writes the breakdown response.
func (h *Handler) writeReconciled(w http.ResponseWriter, target *revenue.RevenueTarget, blocked int, rows []revenue.BreakdownRow) {
	availableNights := revenue.AvailableNights(target.Period, blocked)
	alloc := revenue.Allocate(*target, availableNights)

	reconciled, err := revenue.Reconcile(rows, alloc.TargetNights, target.TargetRevenue)
	if err != nil {
		writeDomainError(w, err, "Reconciliation failed")
		return
	}

	dto := BreakdownDTO{
		TargetID:    string(target.ID),
		TotalNights: alloc.TargetNights,
		Rows:        make([]BreakdownRowDTO, len(reconciled)),
	}
	for i, row := range reconciled {
		dto.Rows[i] = toBreakdownRowDTO(row)
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// SENSITIVITY
// =============================================================================

// GetSensitivity projects revenue variance across the occupancy sweep.
// GET /api/targets/{id}/sensitivity?current_avg_price=2600
func (h *Handler) GetSensitivity(w http.ResponseWriter, r *http.Request) {
	target, blocked, ok := h.loadTarget(w, r)
	if !ok {
		return
	}

	priceStr := r.URL.Query().Get("current_avg_price")
	priceVal, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || priceVal < 0 {
		writeError(w, http.StatusBadRequest, "current_avg_price must be a non-negative number", err)
		return
	}
	currentAvgPrice := pricing.NewMoney(priceVal, target.TargetRevenue.Currency)

	availableNights := revenue.AvailableNights(target.Period, blocked)
	rows := revenue.Analyze(*target, availableNights, currentAvgPrice, nil)

	dto := SensitivityDTO{
		TargetID:        string(target.ID),
		CurrentAvgPrice: priceVal,
		Currency:        target.TargetRevenue.Currency,
		Rows:            make([]SensitivityRowDTO, len(rows)),
	}
	for i, row := range rows {
		dto.Rows[i] = SensitivityRowDTO{
			Occupancy:       dec(row.Occupancy),
			Nights:          row.Nights,
			RevenueRequired: money(row.RevenueRequired),
			RevenueCurrent:  money(row.RevenueCurrent),
			Variance:        money(row.Variance),
			VariancePct:     dec(row.VariancePct),
			Band:            string(row.Band),
			IsTarget:        row.IsTarget,
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// BLOCKED DATES
// =============================================================================

// ListBlockedDates returns a room's blocked dates in a period.
// GET /api/blocked-dates?room_id=&start=&end=
func (h *Handler) ListBlockedDates(w http.ResponseWriter, r *http.Request) {
	roomID := pricing.RoomID(r.URL.Query().Get("room_id"))
	period, err := parsePeriod(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	dates, err := h.Store.ListBlockedDates(r.Context(), roomID, period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list blocked dates", err)
		return
	}

	dtos := make([]BlockedDateDTO, len(dates))
	for i, bd := range dates {
		dtos[i] = BlockedDateDTO{RoomTypeID: string(bd.RoomTypeID), Date: bd.Date.String()}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateBlockedDate marks a night as unsellable.
func (h *Handler) CreateBlockedDate(w http.ResponseWriter, r *http.Request) {
	var req BlockedDateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := pricing.ParseStayDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	bd := revenue.BlockedDate{RoomTypeID: pricing.RoomID(req.RoomTypeID), Date: date}
	if err := h.Store.SaveBlockedDate(r.Context(), bd); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save blocked date", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// DeleteBlockedDate unblocks a night.
// DELETE /api/blocked-dates?room_id=&date=
func (h *Handler) DeleteBlockedDate(w http.ResponseWriter, r *http.Request) {
	date, err := pricing.ParseStayDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	bd := revenue.BlockedDate{
		RoomTypeID: pricing.RoomID(r.URL.Query().Get("room_id")),
		Date:       date,
	}
	if err := h.Store.DeleteBlockedDate(r.Context(), bd); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete blocked date", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// OVERRIDES
// =============================================================================

// ListOverrides returns a room's rate overrides in a period.
// GET /api/overrides?room_id=&start=&end=
func (h *Handler) ListOverrides(w http.ResponseWriter, r *http.Request) {
	roomID := pricing.RoomID(r.URL.Query().Get("room_id"))
	period, err := parsePeriod(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	overrides, err := h.Store.ListOverrides(r.Context(), roomID, period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list overrides", err)
		return
	}

	dtos := make([]OverrideDTO, len(overrides))
	for i, ov := range overrides {
		dtos[i] = OverrideDTO{
			RoomTypeID: string(ov.RoomTypeID),
			Date:       ov.Date.String(),
			Price:      money(ov.Price),
			Currency:   ov.Price.Currency,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateOverride pins a room's rate for one date.
func (h *Handler) CreateOverride(w http.ResponseWriter, r *http.Request) {
	var req OverrideDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := pricing.ParseStayDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	if req.Price <= 0 {
		writeError(w, http.StatusBadRequest, "price must be positive", nil)
		return
	}

	ov := pricing.RateOverride{
		RoomTypeID: pricing.RoomID(req.RoomTypeID),
		Date:       date,
		Price:      pricing.NewMoney(req.Price, req.Currency),
	}
	if err := h.Store.SaveOverride(r.Context(), ov); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save override", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// DeleteOverride removes a pinned rate.
// DELETE /api/overrides?room_id=&date=
func (h *Handler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	date, err := pricing.ParseStayDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	roomID := pricing.RoomID(r.URL.Query().Get("room_id"))

	if err := h.Store.DeleteOverride(r.Context(), roomID, date); err != nil {
		writeDomainError(w, err, "Failed to delete override")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadTarget resolves the {id} URL param to a target and its blocked
// night count. Writes the error response itself on failure.
func (h *Handler) loadTarget(w http.ResponseWriter, r *http.Request) (*revenue.RevenueTarget, int, bool) {
	id := revenue.TargetID(chi.URLParam(r, "id"))

	target, err := h.Store.Target(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "Failed to load target")
		return nil, 0, false
	}

	blocked, err := h.Store.BlockedNights(r.Context(), target.RoomTypeID, target.Period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count blocked nights", err)
		return nil, 0, false
	}
	return target, blocked, true
}

func parsePeriod(start, end string) (pricing.Period, error) {
	s, err := pricing.ParseStayDate(start)
	if err != nil {
		return pricing.Period{}, err
	}
	e, err := pricing.ParseStayDate(end)
	if err != nil {
		return pricing.Period{}, err
	}
	p := pricing.Period{Start: s, End: e}
	if !p.IsValid() {
		return pricing.Period{}, pricing.ErrInvalidPeriod
	}
	return p, nil
}

// writeDomainError maps domain errors to HTTP statuses: client input 400,
// missing entities 404, residual conflicts 409, everything else 500.
func writeDomainError(w http.ResponseWriter, err error, message string) {
	switch {
	case pricing.IsNotFound(err) || revenue.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, revenue.ErrResidualEdit) ||
		errors.Is(err, revenue.ErrNoResidual) ||
		errors.Is(err, revenue.ErrDuplicateResidual):
		writeError(w, http.StatusConflict, message, err)
	case pricing.IsClientError(err) || revenue.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
