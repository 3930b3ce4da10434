package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitter-service/internal/models"
	"fitter-service/internal/service"
)

func TestHalfDayOccupied_LeaveBlocksBothHalves(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	fitter := addFitter(store, "Dave")
	addLeave(store, fitter, date(2025, time.March, 10), date(2025, time.March, 12), models.LeaveHoliday)

	for _, period := range []models.TimePeriod{models.PeriodAM, models.PeriodPM} {
		occupied, err := svc.HalfDayOccupied(ctx, fitter, date(2025, time.March, 11), period)
		require.NoError(t, err)
		assert.True(t, occupied, "leave must block %s", period)
	}

	// day after the leave ends is clear again
	occupied, err := svc.HalfDayOccupied(ctx, fitter, date(2025, time.March, 13), models.PeriodAM)
	require.NoError(t, err)
	assert.False(t, occupied)
}

func TestHalfDayOccupied_UnspecifiedBookingBlocksWholeDay(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	fitter := addFitter(store, "Dave")
	addBooking(store, fitter, date(2025, time.March, 10), models.PeriodUnspecified, "J42")

	am, err := svc.HalfDayOccupied(ctx, fitter, date(2025, time.March, 10), models.PeriodAM)
	require.NoError(t, err)
	pm, err := svc.HalfDayOccupied(ctx, fitter, date(2025, time.March, 10), models.PeriodPM)
	require.NoError(t, err)

	assert.True(t, am)
	assert.True(t, pm)
}

func TestHalfDayOccupied_HalfDayBookingLeavesOtherHalfFree(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	fitter := addFitter(store, "Dave")
	addBooking(store, fitter, date(2025, time.March, 10), models.PeriodAM, "J42")

	am, err := svc.HalfDayOccupied(ctx, fitter, date(2025, time.March, 10), models.PeriodAM)
	require.NoError(t, err)
	pm, err := svc.HalfDayOccupied(ctx, fitter, date(2025, time.March, 10), models.PeriodPM)
	require.NoError(t, err)

	assert.True(t, am)
	assert.False(t, pm)
}

func TestHalfDayOccupied_IgnoresQuotationsAndCancelled(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	fitter := addFitter(store, "Dave")
	day := date(2025, time.March, 10)

	store.SeedJob(&models.JobBooking{
		OrderNumber: "Q1", Status: models.JobQuotation,
		FitterID: &fitter, FittingDate: &day, TimePeriod: models.PeriodAM,
	})
	store.SeedJob(&models.JobBooking{
		OrderNumber: "C1", Status: models.JobCancelled,
		FitterID: &fitter, FittingDate: &day, TimePeriod: models.PeriodPM,
	})

	am, err := svc.HalfDayOccupied(ctx, fitter, day, models.PeriodAM)
	require.NoError(t, err)
	pm, err := svc.HalfDayOccupied(ctx, fitter, day, models.PeriodPM)
	require.NoError(t, err)

	assert.False(t, am)
	assert.False(t, pm)
}

func TestComputeAvailability_SingleFitter(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	fitter := addFitter(store, "Dave")
	other := addFitter(store, "Steve")

	addBooking(store, fitter, date(2025, time.March, 10), models.PeriodAM, "J100")
	addBooking(store, fitter, date(2025, time.March, 11), models.PeriodAllDay, "J101")
	// another fitter's job must not leak into Dave's calendar
	addBooking(store, other, date(2025, time.March, 12), models.PeriodAM, "J200")

	days, err := svc.ComputeAvailability(ctx, &fitter, date(2025, time.March, 10), 3, models.PeriodUnspecified)
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.False(t, days[0].AmAvailable)
	assert.True(t, days[0].PmAvailable)
	assert.False(t, days[0].AllDayBooked)
	require.Len(t, days[0].Jobs, 1)
	assert.Equal(t, "J100", days[0].Jobs[0].OrderNumber)

	assert.False(t, days[1].AmAvailable)
	assert.False(t, days[1].PmAvailable)
	assert.True(t, days[1].AllDayBooked)

	assert.True(t, days[2].AmAvailable)
	assert.True(t, days[2].PmAvailable)
	assert.Empty(t, days[2].Jobs)
	assert.Equal(t, "Wednesday", days[2].DayName)
}

func TestComputeAvailability_DistinctHalvesMakeFullDay(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	fitter := addFitter(store, "Dave")
	addBooking(store, fitter, date(2025, time.March, 10), models.PeriodAM, "J100")
	addBooking(store, fitter, date(2025, time.March, 10), models.PeriodPM, "J101")

	days, err := svc.ComputeAvailability(ctx, &fitter, date(2025, time.March, 10), 1, models.PeriodUnspecified)
	require.NoError(t, err)
	require.Len(t, days, 1)

	assert.True(t, days[0].AllDayBooked)
	assert.Len(t, days[0].Jobs, 2)
}

func TestComputeAvailability_DefaultWindow(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	fitter := addFitter(store, "Dave")

	days, err := svc.ComputeAvailability(ctx, &fitter, date(2025, time.March, 10), 0, models.PeriodUnspecified)
	require.NoError(t, err)
	assert.Len(t, days, service.DefaultWindowDays)
}

func TestComputeAvailability_Idempotent(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	fitter := addFitter(store, "Dave")
	addFitter(store, "Steve")
	addBooking(store, fitter, date(2025, time.March, 10), models.PeriodAM, "J100")
	addLeave(store, fitter, date(2025, time.March, 12), date(2025, time.March, 14), models.LeaveSick)

	first, err := svc.ComputeAvailability(ctx, nil, date(2025, time.March, 10), 7, models.PeriodAM)
	require.NoError(t, err)
	second, err := svc.ComputeAvailability(ctx, nil, date(2025, time.March, 10), 7, models.PeriodAM)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeAvailability_AnyFitterPicksLowestFreeID(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	f1 := addFitter(store, "Dave")
	f2 := addFitter(store, "Steve")
	f3 := addFitter(store, "Jim")

	day := date(2025, time.March, 12)
	addBooking(store, f1, day, models.PeriodAM, "J1")
	addBooking(store, f2, day, models.PeriodAllDay, "J2")

	days, err := svc.ComputeAvailability(ctx, nil, day, 1, models.PeriodAM)
	require.NoError(t, err)
	require.Len(t, days, 1)

	require.NotNil(t, days[0].AvailableFitterID)
	assert.Equal(t, f3, *days[0].AvailableFitterID)
	assert.True(t, days[0].AmAvailable)
	assert.Len(t, days[0].Jobs, 2)
}

func TestComputeAvailability_AnyFitterNobodyFree(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	f1 := addFitter(store, "Dave")
	f2 := addFitter(store, "Steve")

	day := date(2025, time.March, 12)
	addBooking(store, f1, day, models.PeriodAllDay, "J1")
	addLeave(store, f2, day, day, models.LeaveHoliday)

	days, err := svc.ComputeAvailability(ctx, nil, day, 1, models.PeriodAM)
	require.NoError(t, err)
	require.Len(t, days, 1)

	assert.Nil(t, days[0].AvailableFitterID)
	assert.False(t, days[0].AmAvailable)
	assert.False(t, days[0].PmAvailable)
	assert.True(t, days[0].AllDayBooked)
}

func TestComputeAvailability_AnyFitterNoFilterNeedsWholeDay(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	f1 := addFitter(store, "Dave")
	f2 := addFitter(store, "Steve")

	day := date(2025, time.March, 12)
	addBooking(store, f1, day, models.PeriodPM, "J1")

	// no filter: the whole day must be free, so the PM-booked fitter is
	// skipped even though their morning is open
	days, err := svc.ComputeAvailability(ctx, nil, day, 1, models.PeriodUnspecified)
	require.NoError(t, err)

	require.NotNil(t, days[0].AvailableFitterID)
	assert.Equal(t, f2, *days[0].AvailableFitterID)
}

func TestIsFitterOnLeave(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	fitter := addFitter(store, "Dave")
	addLeave(store, fitter, date(2025, time.July, 1), date(2025, time.July, 14), models.LeaveHoliday)

	on, err := svc.IsFitterOnLeave(ctx, fitter, date(2025, time.July, 14))
	require.NoError(t, err)
	assert.True(t, on)

	on, err = svc.IsFitterOnLeave(ctx, fitter, date(2025, time.July, 15))
	require.NoError(t, err)
	assert.False(t, on)
}

func TestBookingsOn_FiltersByDateAndFitter(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	fitter := addFitter(store, "Dave")
	other := addFitter(store, "Steve")

	addBooking(store, fitter, date(2025, time.March, 10), models.PeriodAM, "J100")
	addBooking(store, fitter, date(2025, time.March, 11), models.PeriodAM, "J101")
	addBooking(store, other, date(2025, time.March, 10), models.PeriodAM, "J200")

	jobs, err := svc.BookingsOn(ctx, fitter, date(2025, time.March, 10))
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "J100", jobs[0].OrderNumber)
}
