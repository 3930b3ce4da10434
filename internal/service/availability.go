package service

import (
	"context"
	"fmt"
	"time"

	"fitter-service/internal/models"
	"fitter-service/pkg/response"
)

// DefaultWindowDays is how far ahead availability looks when the caller
// does not say.
const DefaultWindowDays = 14

// dayOccupancy is the per-fitter, per-date occupancy projection built from
// one fresh read of leave records and active bookings.
type dayOccupancy struct {
	amBooked bool
	pmBooked bool
	onLeave  bool
	jobs     []*models.JobBooking
}

func (o *dayOccupancy) amFree() bool { return !o.amBooked && !o.onLeave }
func (o *dayOccupancy) pmFree() bool { return !o.pmBooked && !o.onLeave }

type occKey struct {
	fitterID int64
	date     time.Time
}

// occupancyIndex maps (fitter, date) to what is already booked there.
// Leave blocks both halves of every covered day regardless of period.
type occupancyIndex map[occKey]*dayOccupancy

func (idx occupancyIndex) at(fitterID int64, date time.Time) *dayOccupancy {
	key := occKey{fitterID: fitterID, date: models.DateOnly(date)}
	occ, ok := idx[key]
	if !ok {
		occ = &dayOccupancy{}
		idx[key] = occ
	}
	return occ
}

func buildOccupancy(leave []*models.LeaveRecord, bookings []*models.JobBooking, start time.Time, days int) occupancyIndex {
	idx := occupancyIndex{}
	startDay := models.DateOnly(start)

	for _, rec := range leave {
		for d := 0; d < days; d++ {
			day := startDay.AddDate(0, 0, d)
			if rec.Covers(day) {
				idx.at(rec.FitterID, day).onLeave = true
			}
		}
	}

	for _, job := range bookings {
		if job.FittingDate == nil || job.FitterID == nil || !job.Status.Active() {
			continue
		}

		occ := idx.at(*job.FitterID, *job.FittingDate)
		occ.jobs = append(occ.jobs, job)
		if job.TimePeriod.BlocksHalf(models.PeriodAM) {
			occ.amBooked = true
		}
		if job.TimePeriod.BlocksHalf(models.PeriodPM) {
			occ.pmBooked = true
		}
	}

	return idx
}

// IsFitterOnLeave reports whether any leave record covers the date.
func (s *Service) IsFitterOnLeave(ctx context.Context, fitterID int64, date time.Time) (bool, error) {
	const op = "service.IsFitterOnLeave"

	records, err := s.store.LeaveForRange(ctx, &fitterID, models.DateOnly(date), 1)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return len(records) > 0, nil
}

// BookingsOn returns the fitter's active bookings scheduled for the date.
// Quotations and cancelled jobs never count.
func (s *Service) BookingsOn(ctx context.Context, fitterID int64, date time.Time) ([]*models.JobBooking, error) {
	const op = "service.BookingsOn"

	bookings, err := s.store.BookingsForRange(ctx, &fitterID, models.DateOnly(date), 1)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookings, nil
}

// HalfDayOccupied reports whether the fitter's AM or PM half is taken on the
// date. A booking with no time period blocks both halves, and leave blocks
// the whole day regardless of period.
func (s *Service) HalfDayOccupied(ctx context.Context, fitterID int64, date time.Time, period models.TimePeriod) (bool, error) {
	const op = "service.HalfDayOccupied"

	occ, err := s.fitterDay(ctx, fitterID, date)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	switch period {
	case models.PeriodAM:
		return !occ.amFree(), nil
	case models.PeriodPM:
		return !occ.pmFree(), nil
	default:
		return false, fmt.Errorf("%s: %w", op, &response.ValidationError{Message: "period must be am or pm"})
	}
}

func (s *Service) fitterDay(ctx context.Context, fitterID int64, date time.Time) (*dayOccupancy, error) {
	day := models.DateOnly(date)

	leave, err := s.store.LeaveForRange(ctx, &fitterID, day, 1)
	if err != nil {
		return nil, err
	}

	bookings, err := s.store.BookingsForRange(ctx, &fitterID, day, 1)
	if err != nil {
		return nil, err
	}

	return buildOccupancy(leave, bookings, day, 1).at(fitterID, day), nil
}

// ComputeAvailability builds the day-by-day calendar for the window.
//
// With a fitter id the booleans are that fitter's own halves and only their
// bookings are attached. With fitterID nil every configured fitter is
// considered: the booleans mean at least one fitter has that half free, all
// of the day's bookings are attached, and AvailableFitterID is the first
// fitter (ascending id, so repeated calls pick the same one) whose requested
// period is free. An absent period filter in that mode asks for both halves.
func (s *Service) ComputeAvailability(ctx context.Context, fitterID *int64, start time.Time, days int, periodFilter models.TimePeriod) ([]*models.AvailabilityDay, error) {
	const op = "service.ComputeAvailability"

	if days <= 0 {
		days = DefaultWindowDays
	}

	startDay := models.DateOnly(start)

	leave, err := s.store.LeaveForRange(ctx, fitterID, startDay, days)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bookings, err := s.store.BookingsForRange(ctx, fitterID, startDay, days)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	idx := buildOccupancy(leave, bookings, startDay, days)

	var fitters []*models.Fitter
	var jobsByDate map[time.Time][]*models.JobBooking
	if fitterID == nil {
		fitters, err = s.store.ListFitters(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		// Orphaned fitter ids still show their bookings on the calendar.
		jobsByDate = make(map[time.Time][]*models.JobBooking)
		for _, job := range bookings {
			if job.FittingDate == nil || !job.Status.Active() {
				continue
			}
			day := models.DateOnly(*job.FittingDate)
			jobsByDate[day] = append(jobsByDate[day], job)
		}
	}

	result := make([]*models.AvailabilityDay, 0, days)

	for d := 0; d < days; d++ {
		day := startDay.AddDate(0, 0, d)

		availDay := &models.AvailabilityDay{
			Date:    day,
			DayName: day.Weekday().String(),
		}

		if fitterID != nil {
			occ := idx.at(*fitterID, day)
			availDay.AmAvailable = occ.amFree()
			availDay.PmAvailable = occ.pmFree()
			availDay.Jobs = jobRefs(occ.jobs)
		} else {
			availDay.Jobs = jobRefs(jobsByDate[day])
			anyFitterDay(availDay, idx, fitters, day, periodFilter)
		}

		availDay.AllDayBooked = !availDay.AmAvailable && !availDay.PmAvailable

		result = append(result, availDay)
	}

	return result, nil
}

func anyFitterDay(availDay *models.AvailabilityDay, idx occupancyIndex, fitters []*models.Fitter, day time.Time, periodFilter models.TimePeriod) {
	for _, fitter := range fitters {
		occ := idx.at(fitter.ID, day)

		if occ.amFree() {
			availDay.AmAvailable = true
		}
		if occ.pmFree() {
			availDay.PmAvailable = true
		}

		if availDay.AvailableFitterID == nil && periodSatisfied(occ, periodFilter) {
			id := fitter.ID
			availDay.AvailableFitterID = &id
		}
	}
}

// periodSatisfied reports whether the fitter's day leaves room for the
// requested period. No filter means the whole day must be free.
func periodSatisfied(occ *dayOccupancy, periodFilter models.TimePeriod) bool {
	switch periodFilter {
	case models.PeriodAM:
		return occ.amFree()
	case models.PeriodPM:
		return occ.pmFree()
	default:
		return occ.amFree() && occ.pmFree()
	}
}

func jobRefs(jobs []*models.JobBooking) []models.JobRef {
	if len(jobs) == 0 {
		return nil
	}

	refs := make([]models.JobRef, 0, len(jobs))
	for _, job := range jobs {
		refs = append(refs, models.JobRef{
			OrderNumber: job.OrderNumber,
			TimePeriod:  job.TimePeriod,
			FitterID:    job.FitterID,
		})
	}
	return refs
}
