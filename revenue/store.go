/*
store.go - Persistence interface for targets, breakdowns, and blocked dates

PURPOSE:
  Defines how the revenue domain reads and writes its persisted rows.
  Only point lookups and range scans by room id and period key are
  required.

TRANSACTIONAL CONTRACT:
  - ReplaceBreakdown is delete-then-insert of the FULL row set for one
    target, as a single atomic unit. A failure mid-sequence must not
    leave the target with partial rows.
  - DeletePeriod removes every room's target for a period, with their
    breakdown rows, atomically.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - pricing/store/memory.go: In-memory for testing
*/
package revenue

import (
	"context"

	"github.com/bernardlodge/pricing-engine/pricing"
)

// TargetStore persists revenue targets and their breakdown rows.
type TargetStore interface {
	// Target returns a target by id, or ErrTargetNotFound.
	Target(ctx context.Context, id TargetID) (*RevenueTarget, error)

	// TargetFor returns the one target for (room, period), or
	// ErrTargetNotFound. The (room, period) pair is unique.
	TargetFor(ctx context.Context, roomID pricing.RoomID, period pricing.Period) (*RevenueTarget, error)

	// ListTargets returns all targets whose period matches exactly.
	ListTargets(ctx context.Context, period pricing.Period) ([]RevenueTarget, error)

	// ListPeriods returns the distinct named periods with targets.
	ListPeriods(ctx context.Context) ([]PeriodInfo, error)

	// SaveTarget inserts or updates a target (one row per room+period).
	SaveTarget(ctx context.Context, target RevenueTarget) error

	// DeletePeriod atomically removes every target for the period along
	// with their breakdown rows.
	DeletePeriod(ctx context.Context, period pricing.Period) error

	// Breakdown returns the persisted rows for a target, in sort order.
	// The residual is an ordinary persisted row, not recomputed on read.
	Breakdown(ctx context.Context, targetID TargetID) ([]BreakdownRow, error)

	// ReplaceBreakdown atomically replaces the target's full row set.
	ReplaceBreakdown(ctx context.Context, targetID TargetID, rows []BreakdownRow) error
}

// BlockedDateStore persists per-room blocked dates.
type BlockedDateStore interface {
	// BlockedNights counts blocked dates for the room within the period.
	BlockedNights(ctx context.Context, roomID pricing.RoomID, period pricing.Period) (int, error)

	// ListBlockedDates returns blocked dates for a room within a period.
	ListBlockedDates(ctx context.Context, roomID pricing.RoomID, period pricing.Period) ([]BlockedDate, error)

	// SaveBlockedDate inserts a blocked date (idempotent on duplicates).
	SaveBlockedDate(ctx context.Context, bd BlockedDate) error

	// DeleteBlockedDate removes a blocked date.
	DeleteBlockedDate(ctx context.Context, bd BlockedDate) error
}

// PeriodInfo summarizes a named target period.
type PeriodInfo struct {
	Name   string
	Period pricing.Period
	Rooms  int
}
