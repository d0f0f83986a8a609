package pricing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bernardlodge/pricing-engine/pricing"
	"github.com/bernardlodge/pricing-engine/pricing/store"
)

// =============================================================================
// TEST INFRASTRUCTURE
// =============================================================================

// newSimulator seeds a memory store with the test room and an active
// model, and pins "today" for deterministic lead-day math.
func newSimulator(t *testing.T, signals pricing.SignalProvider) (*pricing.Simulator, *store.Memory) {
	t.Helper()
	ctx := context.Background()

	mem := store.NewMemory()
	require.NoError(t, mem.SaveRoom(ctx, testRoom()))
	require.NoError(t, mem.SaveModel(ctx, testModel(1.2)))
	require.NoError(t, mem.SetActiveModel(ctx, "model-1"))

	return &pricing.Simulator{
		Catalog:   mem,
		Models:    mem,
		Overrides: mem,
		Signals:   signals,
		Now:       func() pricing.StayDate { return pricing.NewStayDate(2026, time.June, 1) },
	}, mem
}

// blockedProvider never answers before the context deadline.
type blockedProvider struct{}

func (blockedProvider) Signals(ctx context.Context, _ pricing.RoomID, _ pricing.StayDate, _ int, _ pricing.HistoryMode) (pricing.OccupancySignals, error) {
	<-ctx.Done()
	return pricing.OccupancySignals{}, ctx.Err()
}

// =============================================================================
// SIMULATION
// =============================================================================

func TestSimulate_NightCountAndTotal(t *testing.T) {
	// GIVEN: a June 10 -> June 12 stay (Wed, Thu nights) with no signals
	// THEN: two nights at the weekday base, check-out excluded
	sim, _ := newSimulator(t, pricing.NoSignals{})

	result, err := sim.Simulate(context.Background(),
		"room-1",
		pricing.NewStayDate(2026, time.June, 10),
		pricing.NewStayDate(2026, time.June, 12))
	require.NoError(t, err)

	require.Equal(t, 2, result.NightCount())
	assert.True(t, result.Total.Amount.Equal(decimal.NewFromInt(4000)))
	assert.Equal(t, "STD", result.RoomCode)
	assert.Equal(t, "Test Model", result.ModelName)
}

func TestSimulate_WeekendNightsPricedHigher(t *testing.T) {
	// June 11-14 covers Thu (weekday), Fri and Sat (weekend) nights.
	sim, _ := newSimulator(t, pricing.NoSignals{})

	result, err := sim.Simulate(context.Background(),
		"room-1",
		pricing.NewStayDate(2026, time.June, 11),
		pricing.NewStayDate(2026, time.June, 14))
	require.NoError(t, err)

	require.Equal(t, 3, result.NightCount())
	assert.True(t, result.Total.Amount.Equal(decimal.NewFromInt(2000+2400+2400)))
}

func TestSimulate_InvalidStayRange(t *testing.T) {
	sim, _ := newSimulator(t, pricing.NoSignals{})

	checkIn := pricing.NewStayDate(2026, time.June, 12)
	checkOut := pricing.NewStayDate(2026, time.June, 10)

	_, err := sim.Simulate(context.Background(), "room-1", checkIn, checkOut)
	assert.ErrorIs(t, err, pricing.ErrInvalidStayRange)

	// Zero nights is also invalid.
	_, err = sim.Simulate(context.Background(), "room-1", checkIn, checkIn)
	assert.ErrorIs(t, err, pricing.ErrInvalidStayRange)
}

func TestSimulate_UnknownRoomIsFatal(t *testing.T) {
	sim, _ := newSimulator(t, pricing.NoSignals{})

	_, err := sim.Simulate(context.Background(),
		"no-such-room",
		pricing.NewStayDate(2026, time.June, 10),
		pricing.NewStayDate(2026, time.June, 12))

	assert.ErrorIs(t, err, pricing.ErrRoomNotFound)
	var notFound *pricing.RoomNotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, pricing.RoomID("no-such-room"), notFound.RoomID)
}

func TestSimulate_NoActiveModelIsFatal(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.SaveRoom(ctx, testRoom()))

	sim := &pricing.Simulator{Catalog: mem, Models: mem, Signals: pricing.NoSignals{}}

	_, err := sim.Simulate(ctx, "room-1",
		pricing.NewStayDate(2026, time.June, 10),
		pricing.NewStayDate(2026, time.June, 12))
	assert.ErrorIs(t, err, pricing.ErrNoActiveModel)
}

func TestSimulate_SlowProviderDegradesToIdentity(t *testing.T) {
	// GIVEN: a provider that never answers inside the deadline
	// THEN: the simulation still succeeds with base prices and nil meta
	sim, _ := newSimulator(t, blockedProvider{})
	sim.SignalTimeout = 10 * time.Millisecond

	result, err := sim.Simulate(context.Background(),
		"room-1",
		pricing.NewStayDate(2026, time.June, 10),
		pricing.NewStayDate(2026, time.June, 11))
	require.NoError(t, err)

	require.Equal(t, 1, result.NightCount())
	night := result.Nights[0]
	assert.True(t, night.Rate.Amount.Equal(decimal.NewFromInt(2000)))
	assert.Nil(t, night.Meta.TierMult)
	assert.Nil(t, night.Meta.PaceMult)
}

func TestSimulate_SignalsDriveRates(t *testing.T) {
	signals := pricing.NewStaticSignals()
	signals.Default = &pricing.OccupancySignals{
		HistOcc:     pricing.Ratio(0.85),
		MTDOcc:      pricing.Ratio(0.6),
		OTBOcc:      pricing.Ratio(0.5),
		ExpectedOTB: pricing.Ratio(0.4),
	}
	sim, _ := newSimulator(t, signals)

	result, err := sim.Simulate(context.Background(),
		"room-1",
		pricing.NewStayDate(2026, time.June, 10),
		pricing.NewStayDate(2026, time.June, 11))
	require.NoError(t, err)

	// 2000 x 1.2 x 1.05 x 0.95 = 2394
	assert.True(t, result.Total.Amount.Equal(decimal.NewFromInt(2394)),
		"expected 2394, got %s", result.Total.Amount)
}

func TestSimulate_OverrideApplied(t *testing.T) {
	sim, mem := newSimulator(t, pricing.NoSignals{})

	date := pricing.NewStayDate(2026, time.June, 10)
	require.NoError(t, mem.SaveOverride(context.Background(), pricing.RateOverride{
		RoomTypeID: "room-1",
		Date:       date,
		Price:      pricing.NewMoney(999, "GHS"),
	}))

	result, err := sim.Simulate(context.Background(), "room-1", date, date.AddDays(2))
	require.NoError(t, err)

	// First night pinned, second night at base.
	assert.True(t, result.Nights[0].Meta.OverrideApplied)
	assert.True(t, result.Nights[0].Rate.Amount.Equal(decimal.NewFromInt(999)))
	assert.False(t, result.Nights[1].Meta.OverrideApplied)
	assert.True(t, result.Nights[1].Rate.Amount.Equal(decimal.NewFromInt(2000)))
}

func TestSimulate_LeadDaysFromPinnedToday(t *testing.T) {
	sim, _ := newSimulator(t, pricing.NoSignals{})

	result, err := sim.Simulate(context.Background(),
		"room-1",
		pricing.NewStayDate(2026, time.June, 3),
		pricing.NewStayDate(2026, time.June, 5))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Nights[0].Meta.LeadDays)
	assert.Equal(t, pricing.LeadWindowLastMinute, result.Nights[0].Meta.LeadWindow)
	assert.Equal(t, 3, result.Nights[1].Meta.LeadDays)
}
