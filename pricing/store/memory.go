// Package store provides in-memory implementations of the persistence
// interfaces, used by tests and demo scenarios.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/bernardlodge/pricing-engine/pricing"
	"github.com/bernardlodge/pricing-engine/revenue"
)

// =============================================================================
// MEMORY STORE - Implements every store interface (for testing/dev)
// =============================================================================

type Memory struct {
	mu sync.RWMutex

	rooms     map[pricing.RoomID]pricing.RoomType
	models    map[pricing.ModelID]pricing.PricingModel
	overrides map[overrideKey]pricing.RateOverride

	targets    map[revenue.TargetID]revenue.RevenueTarget
	breakdowns map[revenue.TargetID][]revenue.BreakdownRow
	blocked    map[blockedKey]bool
}

type overrideKey struct {
	Room pricing.RoomID
	Date string
}

type blockedKey struct {
	Room pricing.RoomID
	Date string
}

var (
	_ pricing.CatalogStore     = (*Memory)(nil)
	_ pricing.ModelStore       = (*Memory)(nil)
	_ pricing.OverrideStore    = (*Memory)(nil)
	_ revenue.TargetStore      = (*Memory)(nil)
	_ revenue.BlockedDateStore = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{
		rooms:      make(map[pricing.RoomID]pricing.RoomType),
		models:     make(map[pricing.ModelID]pricing.PricingModel),
		overrides:  make(map[overrideKey]pricing.RateOverride),
		targets:    make(map[revenue.TargetID]revenue.RevenueTarget),
		breakdowns: make(map[revenue.TargetID][]revenue.BreakdownRow),
		blocked:    make(map[blockedKey]bool),
	}
}

// =============================================================================
// CATALOG STORE
// =============================================================================

func (m *Memory) Room(_ context.Context, id pricing.RoomID) (*pricing.RoomType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	room, ok := m.rooms[id]
	if !ok {
		return nil, &pricing.RoomNotFoundError{RoomID: id}
	}
	return &room, nil
}

func (m *Memory) ListRooms(_ context.Context) ([]pricing.RoomType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rooms := make([]pricing.RoomType, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Code < rooms[j].Code })
	return rooms, nil
}

func (m *Memory) SaveRoom(_ context.Context, room pricing.RoomType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[room.ID] = room
	return nil
}

// =============================================================================
// MODEL STORE
// =============================================================================

func (m *Memory) Model(_ context.Context, id pricing.ModelID) (*pricing.PricingModel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	model, ok := m.models[id]
	if !ok {
		return nil, pricing.ErrModelNotFound
	}
	return &model, nil
}

func (m *Memory) ListModels(_ context.Context) ([]pricing.PricingModel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	models := make([]pricing.PricingModel, 0, len(m.models))
	for _, model := range m.models {
		models = append(models, model)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })
	return models, nil
}

func (m *Memory) SaveModel(_ context.Context, model pricing.PricingModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Saving preserves the stored active flag; only SetActiveModel may
	// toggle it.
	if existing, ok := m.models[model.ID]; ok {
		model.Active = existing.Active
	} else {
		model.Active = false
	}
	m.models[model.ID] = model
	return nil
}

func (m *Memory) ActiveModel(_ context.Context) (*pricing.PricingModel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, model := range m.models {
		if model.Active {
			active := model
			return &active, nil
		}
	}
	return nil, pricing.ErrNoActiveModel
}

func (m *Memory) SetActiveModel(_ context.Context, id pricing.ModelID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.models[id]; !ok {
		return pricing.ErrModelNotFound
	}
	for mid, model := range m.models {
		model.Active = mid == id
		m.models[mid] = model
	}
	return nil
}

// =============================================================================
// OVERRIDE STORE
// =============================================================================

func (m *Memory) Override(_ context.Context, roomID pricing.RoomID, date pricing.StayDate) (*pricing.RateOverride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ov, ok := m.overrides[overrideKey{Room: roomID, Date: date.String()}]
	if !ok {
		return nil, nil
	}
	return &ov, nil
}

func (m *Memory) ListOverrides(_ context.Context, roomID pricing.RoomID, period pricing.Period) ([]pricing.RateOverride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []pricing.RateOverride
	for _, ov := range m.overrides {
		if ov.RoomTypeID == roomID && period.Contains(ov.Date) {
			out = append(out, ov)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *Memory) SaveOverride(_ context.Context, ov pricing.RateOverride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[overrideKey{Room: ov.RoomTypeID, Date: ov.Date.String()}] = ov
	return nil
}

func (m *Memory) DeleteOverride(_ context.Context, roomID pricing.RoomID, date pricing.StayDate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := overrideKey{Room: roomID, Date: date.String()}
	if _, ok := m.overrides[k]; !ok {
		return pricing.ErrOverrideNotFound
	}
	delete(m.overrides, k)
	return nil
}

// =============================================================================
// TARGET STORE
// =============================================================================

func (m *Memory) Target(_ context.Context, id revenue.TargetID) (*revenue.RevenueTarget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.targets[id]
	if !ok {
		return nil, revenue.ErrTargetNotFound
	}
	return &t, nil
}

func (m *Memory) TargetFor(_ context.Context, roomID pricing.RoomID, period pricing.Period) (*revenue.RevenueTarget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, t := range m.targets {
		if t.RoomTypeID == roomID && t.Period.Start.Equal(period.Start) && t.Period.End.Equal(period.End) {
			target := t
			return &target, nil
		}
	}
	return nil, revenue.ErrTargetNotFound
}

func (m *Memory) ListTargets(_ context.Context, period pricing.Period) ([]revenue.RevenueTarget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []revenue.RevenueTarget
	for _, t := range m.targets {
		if t.Period.Start.Equal(period.Start) && t.Period.End.Equal(period.End) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomTypeID < out[j].RoomTypeID })
	return out, nil
}

func (m *Memory) ListPeriods(_ context.Context) ([]revenue.PeriodInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type pkey struct{ start, end string }
	infos := make(map[pkey]*revenue.PeriodInfo)
	for _, t := range m.targets {
		k := pkey{start: t.Period.Start.String(), end: t.Period.End.String()}
		if info, ok := infos[k]; ok {
			info.Rooms++
			continue
		}
		infos[k] = &revenue.PeriodInfo{Name: t.PeriodName, Period: t.Period, Rooms: 1}
	}

	out := make([]revenue.PeriodInfo, 0, len(infos))
	for _, info := range infos {
		out = append(out, *info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Start.Before(out[j].Period.Start) })
	return out, nil
}

func (m *Memory) SaveTarget(_ context.Context, target revenue.RevenueTarget) error {
	if err := target.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// One row per (room, period): replace any existing target for the key.
	for id, t := range m.targets {
		if id != target.ID && t.RoomTypeID == target.RoomTypeID &&
			t.Period.Start.Equal(target.Period.Start) && t.Period.End.Equal(target.Period.End) {
			delete(m.targets, id)
			delete(m.breakdowns, id)
		}
	}
	m.targets[target.ID] = target
	return nil
}

func (m *Memory) DeletePeriod(_ context.Context, period pricing.Period) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := false
	for id, t := range m.targets {
		if t.Period.Start.Equal(period.Start) && t.Period.End.Equal(period.End) {
			delete(m.targets, id)
			delete(m.breakdowns, id)
			found = true
		}
	}
	if !found {
		return revenue.ErrPeriodNotFound
	}
	return nil
}

func (m *Memory) Breakdown(_ context.Context, targetID revenue.TargetID) ([]revenue.BreakdownRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.targets[targetID]; !ok {
		return nil, revenue.ErrTargetNotFound
	}
	rows := make([]revenue.BreakdownRow, len(m.breakdowns[targetID]))
	copy(rows, m.breakdowns[targetID])
	return rows, nil
}

// ReplaceBreakdown swaps the full row set under one lock acquisition,
// which makes the delete-then-insert naturally atomic in memory.
func (m *Memory) ReplaceBreakdown(_ context.Context, targetID revenue.TargetID, rows []revenue.BreakdownRow) error {
	normalized, err := revenue.NormalizeResidual(rows)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.targets[targetID]; !ok {
		return revenue.ErrTargetNotFound
	}
	stored := make([]revenue.BreakdownRow, len(normalized))
	copy(stored, normalized)
	for i := range stored {
		stored[i].TargetID = targetID
	}
	m.breakdowns[targetID] = stored
	return nil
}

// =============================================================================
// BLOCKED DATE STORE
// =============================================================================

func (m *Memory) BlockedNights(_ context.Context, roomID pricing.RoomID, period pricing.Period) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for k := range m.blocked {
		if k.Room != roomID {
			continue
		}
		if d, err := pricing.ParseStayDate(k.Date); err == nil && period.Contains(d) {
			count++
		}
	}
	return count, nil
}

func (m *Memory) ListBlockedDates(_ context.Context, roomID pricing.RoomID, period pricing.Period) ([]revenue.BlockedDate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []revenue.BlockedDate
	for k := range m.blocked {
		if k.Room != roomID {
			continue
		}
		if d, err := pricing.ParseStayDate(k.Date); err == nil && period.Contains(d) {
			out = append(out, revenue.BlockedDate{RoomTypeID: roomID, Date: d})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *Memory) SaveBlockedDate(_ context.Context, bd revenue.BlockedDate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocked[blockedKey{Room: bd.RoomTypeID, Date: bd.Date.String()}] = true
	return nil
}

func (m *Memory) DeleteBlockedDate(_ context.Context, bd revenue.BlockedDate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blocked, blockedKey{Room: bd.RoomTypeID, Date: bd.Date.String()})
	return nil
}
