/*
errors.go - Centralized error types for the pricing engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages (revenue, api) wrap these errors with more context.

ERROR CATEGORIES:
  1. Input errors - Missing rooms/models, malformed stay ranges (fatal)
  2. Signal errors - Unavailable occupancy signals (non-fatal, degrade)
  3. Store errors - Persistence failures

USAGE:
  if errors.Is(err, pricing.ErrNoActiveModel) {
      // no simulation possible until an admin activates a model
  }
*/
package pricing

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrRoomNotFound is returned when a referenced room type doesn't exist.
	ErrRoomNotFound = errors.New("room type not found")

	// ErrModelNotFound is returned when a referenced pricing model doesn't exist.
	ErrModelNotFound = errors.New("pricing model not found")

	// ErrNoActiveModel is returned when no pricing model is active. A
	// simulation cannot run without one; this is a fatal input error.
	ErrNoActiveModel = errors.New("no active pricing model")

	// ErrInvalidStayRange is returned when check_out is not after check_in.
	ErrInvalidStayRange = errors.New("invalid stay range: check_out must be after check_in")

	// ErrInvalidPeriod is returned when a target period is malformed.
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrSignalUnavailable marks a missing occupancy signal. Never fatal:
	// the affected multiplier degrades to identity. Exposed so providers
	// can report partial data explicitly.
	ErrSignalUnavailable = errors.New("occupancy signal unavailable")

	// ErrOverrideNotFound is returned when a rate override doesn't exist.
	ErrOverrideNotFound = errors.New("rate override not found")

	// ErrStoreRequired is returned when an operation requires a store
	// capability the configured implementation doesn't offer.
	ErrStoreRequired = errors.New("operation requires extended store interface")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RoomNotFoundError names the missing room so callers can report the
// specific entity, as the failure contract requires.
type RoomNotFoundError struct {
	RoomID RoomID
}

func (e *RoomNotFoundError) Error() string {
	return fmt.Sprintf("room type not found: %s", e.RoomID)
}

func (e *RoomNotFoundError) Unwrap() error { return ErrRoomNotFound }

// StayRangeError reports a malformed check-in/check-out pair.
type StayRangeError struct {
	CheckIn  StayDate
	CheckOut StayDate
}

func (e *StayRangeError) Error() string {
	return fmt.Sprintf("invalid stay range: check_in %s, check_out %s", e.CheckIn, e.CheckOut)
}

func (e *StayRangeError) Unwrap() error { return ErrInvalidStayRange }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidStayRange) ||
		errors.Is(err, ErrInvalidPeriod)
}

// IsNotFound returns true if the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrModelNotFound) ||
		errors.Is(err, ErrNoActiveModel) ||
		errors.Is(err, ErrOverrideNotFound)
}
