/*
handlers_test.go - End-to-end tests for the HTTP API

Each test drives the full stack: router, handlers, domain logic, and a
":memory:" SQLite store, usually seeded through the scenario loaders.
*/
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bernardlodge/pricing-engine/pricing"
	"github.com/bernardlodge/pricing-engine/store/sqlite"
)

// =============================================================================
// TEST INFRASTRUCTURE
// =============================================================================

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return NewRouter(NewHandler(store, pricing.NewStaticSignals()))
}

// do sends a JSON request through the router and returns the recorder.
func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func loadScenario(t *testing.T, router http.Handler, id string) {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

// =============================================================================
// SCENARIOS AND SIMULATION
// =============================================================================

func TestScenarios_ListAndLoad(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]ScenarioDTO](t, rec), 3)

	loadScenario(t, router, "lodge-catalog")

	rec = do(t, router, http.MethodGet, "/api/scenarios/current", nil)
	assert.Equal(t, "lodge-catalog", decode[map[string]string](t, rec)["scenario_id"])

	rec = do(t, router, http.MethodGet, "/api/rooms", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]RoomDTO](t, rec), 3)

	rec = do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimulate_EndToEnd(t *testing.T) {
	router := newTestRouter(t)
	loadScenario(t, router, "lodge-catalog")

	rec := do(t, router, http.MethodPost, "/api/simulate", SimulateRequest{
		RoomID:   "room-std",
		CheckIn:  "2026-06-10",
		CheckOut: "2026-06-12",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	sim := decode[SimulationDTO](t, rec)
	assert.Equal(t, "STD", sim.RoomCode)
	assert.Equal(t, "Standard 2026", sim.ModelName)
	require.Len(t, sim.Nights, 2)
	assert.Greater(t, sim.Total, 0.0)
	// The scenario's default signals drive the mid tier (1.0 multiplier).
	assert.Equal(t, "mid", sim.Nights[0].TierName)
}

func TestSimulate_ErrorMapping(t *testing.T) {
	router := newTestRouter(t)
	loadScenario(t, router, "lodge-catalog")

	// Unknown room: 404.
	rec := do(t, router, http.MethodPost, "/api/simulate", SimulateRequest{
		RoomID: "ghost", CheckIn: "2026-06-10", CheckOut: "2026-06-12",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Inverted stay range: 400.
	rec = do(t, router, http.MethodPost, "/api/simulate", SimulateRequest{
		RoomID: "room-std", CheckIn: "2026-06-12", CheckOut: "2026-06-10",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed date: 400.
	rec = do(t, router, http.MethodPost, "/api/simulate", SimulateRequest{
		RoomID: "room-std", CheckIn: "June 10", CheckOut: "2026-06-12",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimulate_NoActiveModel(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/rooms", CreateRoomRequest{
		Code: "STD", Name: "Standard", BaseWeekday: 2000, BaseWeekend: 2400, Currency: "GHS",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	room := decode[RoomDTO](t, rec)

	rec = do(t, router, http.MethodPost, "/api/simulate", SimulateRequest{
		RoomID: room.ID, CheckIn: "2026-06-10", CheckOut: "2026-06-12",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// MODELS
// =============================================================================

func TestModels_CreateValidateActivate(t *testing.T) {
	router := newTestRouter(t)

	config := CreateModelRequest{}
	require.NoError(t, json.Unmarshal([]byte(demoModelConfig), &config.Config))

	rec := do(t, router, http.MethodPost, "/api/models", config)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[ModelDTO](t, rec)
	assert.False(t, created.Active)

	rec = do(t, router, http.MethodPost, "/api/models/"+created.ID+"/activate", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/models/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[ModelDTO](t, rec).Active)

	// Invalid config is rejected with the offending field named.
	rec = do(t, router, http.MethodPost, "/api/models", map[string]any{
		"config": map[string]any{
			"id": "bad", "name": "Bad",
			"tiers": []map[string]any{{"min_occ": 0.6, "max_occ": 0.5, "multiplier": 1}},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Activating a ghost model: 404.
	rec = do(t, router, http.MethodPost, "/api/models/ghost/activate", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// TARGETS, BREAKDOWN, SENSITIVITY
// =============================================================================

func TestTargetLifecycle(t *testing.T) {
	router := newTestRouter(t)
	loadScenario(t, router, "lodge-catalog")

	// Create a Q1 period for two rooms.
	rec := do(t, router, http.MethodPost, "/api/targets", CreateTargetsRequest{
		PeriodName: "Q1 2026",
		Start:      "2026-01-01",
		End:        "2026-03-31",
		Rooms: []TargetRowRequest{
			{RoomTypeID: "room-std", TargetOccupancy: 70, TargetRevenue: 105000},
			{RoomTypeID: "room-chl", TargetOccupancy: 60, TargetRevenue: 120000},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[[]TargetDTO](t, rec)
	require.Len(t, created, 2)
	stdTarget := created[0]

	// The period shows up with both rooms and a portfolio.
	rec = do(t, router, http.MethodGet, "/api/targets/periods", nil)
	periods := decode[[]PeriodDTO](t, rec)
	require.Len(t, periods, 1)
	assert.Equal(t, 2, periods[0].Rooms)

	rec = do(t, router, http.MethodGet, "/api/targets?start=2026-01-01&end=2026-03-31", nil)
	list := decode[TargetListDTO](t, rec)
	require.Len(t, list.Targets, 2)
	require.NotNil(t, list.Portfolio)
	assert.Equal(t, 225000.0, list.Portfolio.TotalRevenue)

	// Allocation: 90 nights x 70% = 63; round(105000/63) = 1667.
	rec = do(t, router, http.MethodGet, "/api/targets/"+stdTarget.ID+"/allocation", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	alloc := decode[AllocationDTO](t, rec)
	assert.Equal(t, 90, alloc.PeriodNights)
	assert.Equal(t, 63, alloc.TargetNights)
	assert.Equal(t, 1667.0, alloc.RequiredAvgPrice)

	// Fresh targets carry a single 100% residual row.
	rec = do(t, router, http.MethodGet, "/api/targets/"+stdTarget.ID+"/breakdown", nil)
	breakdown := decode[BreakdownDTO](t, rec)
	require.Len(t, breakdown.Rows, 1)
	assert.True(t, breakdown.Rows[0].IsResidual)
	assert.Equal(t, 100.0, breakdown.Rows[0].PctBusiness)

	// Deleting the period removes everything atomically.
	rec = do(t, router, http.MethodDelete, "/api/targets/periods", DeletePeriodRequest{
		Start: "2026-01-01", End: "2026-03-31",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/targets/"+stdTarget.ID+"/allocation", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBreakdown_SaveAndPreview(t *testing.T) {
	router := newTestRouter(t)
	loadScenario(t, router, "q1-planning")

	targetID := "target-q1-room-std"

	// The scenario seeds residual 70 / package 20 / coupon 10.
	rec := do(t, router, http.MethodGet, "/api/targets/"+targetID+"/breakdown", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	breakdown := decode[BreakdownDTO](t, rec)
	require.Len(t, breakdown.Rows, 3)
	assert.Equal(t, 70.0, breakdown.Rows[0].PctBusiness)
	assert.True(t, breakdown.Rows[0].IsResidual)

	// Replace: package grows to 35, the residual absorbs the change.
	rec = do(t, router, http.MethodPut, "/api/targets/"+targetID+"/breakdown", SaveBreakdownRequest{
		Rows: []SaveBreakdownRowRequest{
			{RateType: "Rate card", IsResidual: true, SortOrder: 0},
			{RateType: "Package", PctBusiness: 35, SortOrder: 1},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decode[BreakdownDTO](t, rec)
	require.Len(t, saved.Rows, 2)
	assert.Equal(t, 65.0, saved.Rows[0].PctBusiness)

	// Preview an edit without persisting it.
	pkgID := saved.Rows[1].ID
	pct := 50.0
	rec = do(t, router, http.MethodPost, "/api/targets/"+targetID+"/breakdown/preview", PreviewEditRequest{
		RowID: pkgID, Pct: &pct,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	preview := decode[BreakdownDTO](t, rec)
	assert.Equal(t, 50.0, preview.Rows[0].PctBusiness)

	rec = do(t, router, http.MethodGet, "/api/targets/"+targetID+"/breakdown", nil)
	persisted := decode[BreakdownDTO](t, rec)
	assert.Equal(t, 65.0, persisted.Rows[0].PctBusiness, "preview must not persist")

	// Editing the residual directly is a conflict.
	residualID := persisted.Rows[0].ID
	rec = do(t, router, http.MethodPost, "/api/targets/"+targetID+"/breakdown/preview", PreviewEditRequest{
		RowID: residualID, Pct: &pct,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// A row set without a residual is a conflict too.
	rec = do(t, router, http.MethodPut, "/api/targets/"+targetID+"/breakdown", SaveBreakdownRequest{
		Rows: []SaveBreakdownRowRequest{{RateType: "Package", PctBusiness: 35}},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSensitivity_Endpoint(t *testing.T) {
	router := newTestRouter(t)
	loadScenario(t, router, "q1-planning")

	targetID := "target-q1-room-std"

	rec := do(t, router, http.MethodGet,
		fmt.Sprintf("/api/targets/%s/sensitivity?current_avg_price=%d", targetID, 1800), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	dto := decode[SensitivityDTO](t, rec)
	require.Len(t, dto.Rows, 8) // 70 sits in the default sweep

	var anchorSeen bool
	for _, row := range dto.Rows {
		if row.IsTarget {
			anchorSeen = true
			assert.Equal(t, 70.0, row.Occupancy)
			assert.Equal(t, 105000.0, row.RevenueRequired)
		}
		assert.NotEmpty(t, row.Band)
	}
	assert.True(t, anchorSeen)

	// Missing price parameter: 400.
	rec = do(t, router, http.MethodGet, "/api/targets/"+targetID+"/sensitivity", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// BLOCKED DATES AND OVERRIDES
// =============================================================================

func TestBlockedDates_Endpoints(t *testing.T) {
	router := newTestRouter(t)
	loadScenario(t, router, "lodge-catalog")

	rec := do(t, router, http.MethodPost, "/api/blocked-dates", BlockedDateDTO{
		RoomTypeID: "room-std", Date: "2026-02-10",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodGet,
		"/api/blocked-dates?room_id=room-std&start=2026-02-01&end=2026-02-28", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]BlockedDateDTO](t, rec), 1)

	rec = do(t, router, http.MethodDelete,
		"/api/blocked-dates?room_id=room-std&date=2026-02-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet,
		"/api/blocked-dates?room_id=room-std&start=2026-02-01&end=2026-02-28", nil)
	assert.Len(t, decode[[]BlockedDateDTO](t, rec), 0)
}

func TestOverrides_Endpoints(t *testing.T) {
	router := newTestRouter(t)
	loadScenario(t, router, "lodge-catalog")

	rec := do(t, router, http.MethodPost, "/api/overrides", OverrideDTO{
		RoomTypeID: "room-std", Date: "2026-06-10", Price: 999, Currency: "GHS",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// The pinned night shows up in simulation.
	rec = do(t, router, http.MethodPost, "/api/simulate", SimulateRequest{
		RoomID: "room-std", CheckIn: "2026-06-10", CheckOut: "2026-06-11",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	sim := decode[SimulationDTO](t, rec)
	require.Len(t, sim.Nights, 1)
	assert.True(t, sim.Nights[0].Override)
	assert.Equal(t, 999.0, sim.Nights[0].Rate)

	rec = do(t, router, http.MethodDelete, "/api/overrides?room_id=room-std&date=2026-06-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/overrides?room_id=room-std&date=2026-06-10", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
