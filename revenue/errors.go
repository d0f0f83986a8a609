package revenue

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrTargetNotFound is returned when a referenced revenue target doesn't exist.
	ErrTargetNotFound = errors.New("revenue target not found")

	// ErrPeriodNotFound is returned when no targets exist for a period.
	ErrPeriodNotFound = errors.New("no targets for period")

	// ErrRowNotFound is returned when a breakdown row id is unknown.
	ErrRowNotFound = errors.New("breakdown row not found")

	// ErrResidualEdit is returned on attempts to edit or delete the
	// residual "Rate card" row directly. Its share is computed, not set.
	ErrResidualEdit = errors.New("residual rate-type row cannot be edited directly")

	// ErrNoResidual is returned when a breakdown set arrives without a
	// residual row to absorb the remainder.
	ErrNoResidual = errors.New("breakdown has no residual row")

	// ErrDuplicateResidual is returned when more than one row claims to
	// be the residual.
	ErrDuplicateResidual = errors.New("breakdown has multiple residual rows")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// OccupancyRangeError reports a target occupancy outside [0, 100].
type OccupancyRangeError struct {
	Occupancy decimal.Decimal
}

func (e *OccupancyRangeError) Error() string {
	return fmt.Sprintf("target occupancy out of range [0,100]: %s", e.Occupancy)
}

// PctRangeError reports a breakdown percentage outside [0, 100].
type PctRangeError struct {
	RowID string
	Pct   decimal.Decimal
}

func (e *PctRangeError) Error() string {
	return fmt.Sprintf("pct_business out of range [0,100] for row %s: %s", e.RowID, e.Pct)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	var occErr *OccupancyRangeError
	var pctErr *PctRangeError
	return errors.Is(err, ErrResidualEdit) ||
		errors.Is(err, ErrNoResidual) ||
		errors.Is(err, ErrDuplicateResidual) ||
		errors.As(err, &occErr) ||
		errors.As(err, &pctErr)
}

// IsNotFound returns true if the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTargetNotFound) ||
		errors.Is(err, ErrPeriodNotFound) ||
		errors.Is(err, ErrRowNotFound)
}
