package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitter-service/internal/models"
)

func TestCheckConflict_CleanDay(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	fitter := addFitter(store, "Dave")

	for _, period := range []models.TimePeriod{models.PeriodAM, models.PeriodPM, models.PeriodAllDay} {
		result, err := svc.CheckConflict(ctx, fitter, date(2025, time.March, 10), period)
		require.NoError(t, err)
		assert.False(t, result.Conflict)
		assert.Equal(t, models.ConflictNone, result.Kind)
		assert.Empty(t, result.Message)
	}
}

func TestCheckConflict_FullDayWinsOverHalfDay(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	fitter := addFitter(store, "Dave")
	day := date(2025, time.March, 10)
	addBooking(store, fitter, day, models.PeriodAM, "J1")
	addBooking(store, fitter, day, models.PeriodPM, "J2")

	// even an AM request classifies as full-day when both halves are gone
	result, err := svc.CheckConflict(ctx, fitter, day, models.PeriodAM)
	require.NoError(t, err)
	assert.Equal(t, models.ConflictFullDayBooked, result.Kind)
	assert.Equal(t, "fitter fully booked on this date", result.Message)
}

func TestCheckConflict_HalfDay(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	fitter := addFitter(store, "Dave")
	day := date(2025, time.March, 10)
	addBooking(store, fitter, day, models.PeriodAM, "J1")

	result, err := svc.CheckConflict(ctx, fitter, day, models.PeriodAM)
	require.NoError(t, err)
	assert.True(t, result.Conflict)
	assert.Equal(t, models.ConflictHalfDayBooked, result.Kind)
	assert.Equal(t, "fitter already has a morning job", result.Message)

	// the free afternoon is not a conflict
	result, err = svc.CheckConflict(ctx, fitter, day, models.PeriodPM)
	require.NoError(t, err)
	assert.False(t, result.Conflict)
	assert.Equal(t, models.ConflictNone, result.Kind)
}

func TestCheckConflict_AfternoonMessage(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	fitter := addFitter(store, "Dave")
	day := date(2025, time.March, 10)
	addBooking(store, fitter, day, models.PeriodPM, "J1")

	result, err := svc.CheckConflict(ctx, fitter, day, models.PeriodPM)
	require.NoError(t, err)
	assert.Equal(t, models.ConflictHalfDayBooked, result.Kind)
	assert.Equal(t, "fitter already has an afternoon job", result.Message)
}

func TestCheckConflict_PartialVsAllDay(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	fitter := addFitter(store, "Dave")
	day := date(2025, time.March, 10)
	addBooking(store, fitter, day, models.PeriodAM, "J1")

	result, err := svc.CheckConflict(ctx, fitter, day, models.PeriodAllDay)
	require.NoError(t, err)
	assert.Equal(t, models.ConflictPartialVsAllDay, result.Kind)
	assert.Equal(t, "fitter is partially booked; an all-day job would conflict", result.Message)
}

func TestCheckConflict_UnspecifiedPeriodCheckedAsAllDay(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	fitter := addFitter(store, "Dave")
	day := date(2025, time.March, 10)
	addBooking(store, fitter, day, models.PeriodPM, "J1")

	result, err := svc.CheckConflict(ctx, fitter, day, models.PeriodUnspecified)
	require.NoError(t, err)
	assert.Equal(t, models.ConflictPartialVsAllDay, result.Kind)
}

func TestCheckConflict_LeaveIsFullDay(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	fitter := addFitter(store, "Dave")
	day := date(2025, time.March, 10)
	addLeave(store, fitter, day, day, models.LeaveSick)

	result, err := svc.CheckConflict(ctx, fitter, day, models.PeriodAM)
	require.NoError(t, err)
	assert.Equal(t, models.ConflictFullDayBooked, result.Kind)
}

// Every (occupancy, period) combination yields exactly one of the four kinds,
// and NONE appears only when the requested period is genuinely free.
func TestCheckConflict_Exhaustive(t *testing.T) {
	bookings := []models.TimePeriod{
		models.PeriodUnspecified, // no booking marker, handled below
		models.PeriodAM,
		models.PeriodPM,
		models.PeriodAllDay,
	}
	requests := []models.TimePeriod{models.PeriodAM, models.PeriodPM, models.PeriodAllDay}
	kinds := map[models.ConflictKind]bool{
		models.ConflictNone:            true,
		models.ConflictFullDayBooked:   true,
		models.ConflictHalfDayBooked:   true,
		models.ConflictPartialVsAllDay: true,
	}

	for i, booked := range bookings {
		for _, requested := range requests {
			svc, store := newTestService()
			fitter := addFitter(store, "Dave")
			day := date(2025, time.March, 10)

			hasBooking := i > 0
			if hasBooking {
				addBooking(store, fitter, day, booked, "J1")
			}

			result, err := svc.CheckConflict(context.Background(), fitter, day, requested)
			require.NoError(t, err)
			assert.True(t, kinds[result.Kind], "unknown kind %q", result.Kind)
			assert.Equal(t, result.Conflict, result.Kind != models.ConflictNone)

			overlap := hasBooking && (booked == models.PeriodAllDay ||
				requested == models.PeriodAllDay || booked == requested)
			assert.Equal(t, overlap, result.Conflict,
				"booked=%q requested=%q", booked, requested)
		}
	}
}
