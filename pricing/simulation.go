/*
simulation.go - Multi-night rate simulation

PURPOSE:
  Orchestrates CalculateRate across a stay: resolves the room and the
  active model once (consistent snapshot), fetches signals per night with
  a bounded deadline, applies manual overrides, and sums the total.

FAILURE SEMANTICS:
  - Missing room, no active model, check_out <= check_in: fatal, the call
    is rejected with no partial result.
  - Missing/slow signals for a night: non-fatal, that night's multipliers
    degrade to identity and the meta fields stay nil.

CONCURRENCY:
  A Simulator is safe for concurrent use: each Simulate call reads its
  model snapshot up front and shares no mutable state with other calls.

SEE ALSO:
  - calculator.go: Per-night math
  - store.go: Catalog/model/override interfaces
*/
package pricing

import (
	"context"
	"time"
)

// =============================================================================
// SIMULATOR
// =============================================================================

// Simulator runs multi-night rate simulations against the configured
// stores and signal provider.
type Simulator struct {
	Catalog   CatalogStore
	Models    ModelStore
	Overrides OverrideStore
	Signals   SignalProvider

	// SignalTimeout bounds each per-night signal lookup. A provider that
	// cannot answer in time is treated as having no signals for that
	// night. Zero means no bound.
	SignalTimeout time.Duration

	// Now supplies "today" for lead-day math. Nil means Today().
	Now func() StayDate
}

// SimulationResult aggregates the per-night results for one stay.
type SimulationResult struct {
	RoomID    RoomID
	RoomCode  string
	ModelID   ModelID
	ModelName string
	CheckIn   StayDate
	CheckOut  StayDate
	Nights    []NightlyRateResult
	Total     Money
}

// NightCount returns the number of simulated nights.
func (r *SimulationResult) NightCount() int { return len(r.Nights) }

// Simulate computes nightly rates for [checkIn, checkOut). Check-out is
// exclusive: a Jan 10 to Jan 12 stay is two nights.
func (s *Simulator) Simulate(ctx context.Context, roomID RoomID, checkIn, checkOut StayDate) (*SimulationResult, error) {
	if !checkIn.Before(checkOut) {
		return nil, &StayRangeError{CheckIn: checkIn, CheckOut: checkOut}
	}

	room, err := s.Catalog.Room(ctx, roomID)
	if err != nil {
		return nil, err
	}

	// Snapshot the active model once; concurrent config edits must not
	// be observed mid-calculation.
	model, err := s.Models.ActiveModel(ctx)
	if err != nil {
		return nil, err
	}

	today := Today()
	if s.Now != nil {
		today = s.Now()
	}

	result := &SimulationResult{
		RoomID:    room.ID,
		RoomCode:  room.Code,
		ModelID:   model.ID,
		ModelName: model.Name,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Total:     room.BaseWeekday.Zero(),
	}

	for date := checkIn; date.Before(checkOut); date = date.AddDays(1) {
		leadDays := date.LeadDays(today)

		sig := s.fetchSignals(ctx, roomID, date, leadDays, model.HistoryMode)

		var override *RateOverride
		if s.Overrides != nil {
			// Override lookup errors are treated as "no override"; the
			// pinned price is a convenience, not a correctness input.
			if ov, err := s.Overrides.Override(ctx, roomID, date); err == nil {
				override = ov
			}
		}

		night := CalculateRate(*room, date, *model, sig, leadDays, override)
		result.Nights = append(result.Nights, night)
		result.Total = result.Total.Add(night.Rate)
	}

	return result, nil
}

// fetchSignals queries the provider under the configured deadline.
// Any failure degrades to empty signals (identity multipliers).
func (s *Simulator) fetchSignals(ctx context.Context, roomID RoomID, date StayDate, leadDays int, mode HistoryMode) OccupancySignals {
	if s.Signals == nil {
		return OccupancySignals{LeadWindow: LeadWindowFor(leadDays)}
	}

	if s.SignalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.SignalTimeout)
		defer cancel()
	}

	sig, err := s.Signals.Signals(ctx, roomID, date, leadDays, mode)
	if err != nil {
		return OccupancySignals{LeadWindow: LeadWindowFor(leadDays)}
	}
	return sig
}
