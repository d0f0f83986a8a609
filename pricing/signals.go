/*
signals.go - Occupancy and pace signal inputs

PURPOSE:
  The rate calculator is parameterized by four occupancy signals supplied
  by an external provider (historical, month-to-date, on-the-books, and
  the expected-OTB curve value for the date's lead time). This file
  defines the signal shapes, the provider interface, and lead-time
  bucketing.

MISSING SIGNALS:
  A missing signal is NOT an error. The corresponding multiplier step
  degrades to identity (1.0) and its meta fields stay nil so callers can
  tell "signal unavailable" apart from "signal exactly neutral".

LEAD WINDOWS:
  Lead days (stay date minus today) are bucketed into named windows:
    0-3    last-minute
    4-14   short
    15-45  mid
    46+    advance

SEE ALSO:
  - calculator.go: Consumes OccupancySignals
  - simulation.go: Bounds each provider call with a deadline
*/
package pricing

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// =============================================================================
// OCCUPANCY SIGNALS - Per (room, date) inputs to the multiplier pipeline
// =============================================================================

// OccupancySignals carries the occupancy ratios for one room and stay
// date. All ratios are in [0, 1]. A nil field means the signal is
// unavailable and the dependent multiplier step is skipped.
type OccupancySignals struct {
	// HistOcc is the historical occupancy for the date, per the active
	// model's HistoryMode. Feeds the tier lookup.
	HistOcc *decimal.Decimal

	// MTDOcc is month-to-date occupancy. Feeds the target multiplier.
	MTDOcc *decimal.Decimal

	// OTBOcc is on-the-books occupancy for the date, as of now.
	OTBOcc *decimal.Decimal

	// ExpectedOTB is the expected on-the-books ratio for the date's lead
	// time. Feeds the pace multiplier together with OTBOcc.
	ExpectedOTB *decimal.Decimal

	// LeadWindow is the provider's bucket label for the lead time. When
	// empty, LeadWindowFor is used instead.
	LeadWindow string
}

// SignalProvider supplies occupancy signals for a room and stay date.
// Implementations typically query a reservations database or a cached
// booking-curve table.
type SignalProvider interface {
	Signals(ctx context.Context, roomID RoomID, date StayDate, leadDays int, mode HistoryMode) (OccupancySignals, error)
}

// =============================================================================
// LEAD WINDOWS
// =============================================================================

const (
	LeadWindowLastMinute = "last-minute"
	LeadWindowShort      = "short"
	LeadWindowMid        = "mid"
	LeadWindowAdvance    = "advance"
)

// LeadWindowFor buckets lead days into a named window.
func LeadWindowFor(leadDays int) string {
	switch {
	case leadDays <= 3:
		return LeadWindowLastMinute
	case leadDays <= 14:
		return LeadWindowShort
	case leadDays <= 45:
		return LeadWindowMid
	default:
		return LeadWindowAdvance
	}
}

// =============================================================================
// PROVIDERS
// =============================================================================

// NoSignals is a provider that never has data. Every multiplier step
// becomes a no-op, so simulations return clamped base prices.
type NoSignals struct{}

func (NoSignals) Signals(_ context.Context, _ RoomID, _ StayDate, leadDays int, _ HistoryMode) (OccupancySignals, error) {
	return OccupancySignals{LeadWindow: LeadWindowFor(leadDays)}, nil
}

// StaticSignals is a fixed in-memory provider keyed by (room, date).
// Used by tests and demo scenarios.
type StaticSignals struct {
	mu      sync.RWMutex
	byKey   map[staticKey]OccupancySignals
	Default *OccupancySignals // returned when no per-date entry exists
}

type staticKey struct {
	Room RoomID
	Date string
}

func NewStaticSignals() *StaticSignals {
	return &StaticSignals{byKey: make(map[staticKey]OccupancySignals)}
}

// Set registers the signals for one room and date.
func (s *StaticSignals) Set(roomID RoomID, date StayDate, sig OccupancySignals) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byKey[staticKey{Room: roomID, Date: date.String()}] = sig
}

func (s *StaticSignals) Signals(_ context.Context, roomID RoomID, date StayDate, leadDays int, _ HistoryMode) (OccupancySignals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sig, ok := s.byKey[staticKey{Room: roomID, Date: date.String()}]
	if !ok {
		if s.Default != nil {
			sig = *s.Default
		} else {
			sig = OccupancySignals{}
		}
	}
	if sig.LeadWindow == "" {
		sig.LeadWindow = LeadWindowFor(leadDays)
	}
	return sig, nil
}

// Ratio is a convenience constructor for signal pointers.
func Ratio(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}
