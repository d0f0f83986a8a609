/*
store.go - Persistence interfaces for the pricing catalog

PURPOSE:
  Defines the interface between the engine and the database. The engine
  only needs point lookups and range scans by room id, date, and period;
  it never defines the store's schema beyond the entity shapes.

KEY INTERFACES:
  CatalogStore:  Room types (read-mostly catalog)
  ModelStore:    Pricing models, including the single-active invariant
  OverrideStore: Manual per-date rate overrides

SINGLE-ACTIVE INVARIANT:
  At most one pricing model has Active=true at any time. SetActiveModel
  must clear every other active flag in the same transaction; readers get
  a consistent snapshot per call.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - pricing/store/memory.go: In-memory for testing

SEE ALSO:
  - simulation.go: Consumes these interfaces
  - revenue/store.go: Target/breakdown persistence
*/
package pricing

import "context"

// =============================================================================
// CATALOG STORE - Room types
// =============================================================================

type CatalogStore interface {
	// Room returns the room type, or ErrRoomNotFound.
	Room(ctx context.Context, id RoomID) (*RoomType, error)

	// ListRooms returns all room types ordered by code.
	ListRooms(ctx context.Context) ([]RoomType, error)

	// SaveRoom inserts or updates a room type.
	SaveRoom(ctx context.Context, room RoomType) error
}

// =============================================================================
// MODEL STORE - Pricing models (single-active invariant lives here)
// =============================================================================

type ModelStore interface {
	// Model returns the pricing model, or ErrModelNotFound.
	Model(ctx context.Context, id ModelID) (*PricingModel, error)

	// ListModels returns all pricing models.
	ListModels(ctx context.Context) ([]PricingModel, error)

	// SaveModel inserts or updates a model. Saving never toggles the
	// active flag; use SetActiveModel for that.
	SaveModel(ctx context.Context, model PricingModel) error

	// ActiveModel returns the single active model, or ErrNoActiveModel.
	ActiveModel(ctx context.Context) (*PricingModel, error)

	// SetActiveModel activates one model and deactivates every other in
	// a single atomic step.
	SetActiveModel(ctx context.Context, id ModelID) error
}

// =============================================================================
// OVERRIDE STORE - Manual per-date rate pins
// =============================================================================

type OverrideStore interface {
	// Override returns the override for (room, date), or nil when none
	// exists. Absence is not an error on this lookup path.
	Override(ctx context.Context, roomID RoomID, date StayDate) (*RateOverride, error)

	// ListOverrides returns overrides for a room within a period.
	ListOverrides(ctx context.Context, roomID RoomID, period Period) ([]RateOverride, error)

	// SaveOverride inserts or replaces an override.
	SaveOverride(ctx context.Context, ov RateOverride) error

	// DeleteOverride removes an override, or ErrOverrideNotFound.
	DeleteOverride(ctx context.Context, roomID RoomID, date StayDate) error
}
