package service

import (
	"context"
	"fmt"
	"time"

	"fitter-service/internal/models"
)

// CheckConflict classifies what booking the fitter for the date and period
// would collide with. It never blocks anything itself; the conversion state
// machine decides whether the caller's override lets it proceed.
//
// Rules are evaluated in order, first match wins:
//  1. whole day already taken            -> FULL_DAY_BOOKED
//  2. requested AM half taken            -> HALF_DAY_BOOKED
//  3. requested PM half taken            -> HALF_DAY_BOOKED
//  4. all-day request vs any taken half  -> PARTIAL_VS_ALL_DAY
//
// An unspecified period is checked as all-day, matching the booking index's
// conservative reading of jobs with no time on them.
func (s *Service) CheckConflict(ctx context.Context, fitterID int64, date time.Time, period models.TimePeriod) (*models.ConflictResult, error) {
	const op = "service.CheckConflict"

	occ, err := s.fitterDay(ctx, fitterID, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return classifyConflict(occ, period), nil
}

func classifyConflict(occ *dayOccupancy, period models.TimePeriod) *models.ConflictResult {
	amFree := occ.amFree()
	pmFree := occ.pmFree()

	switch {
	case !amFree && !pmFree:
		return &models.ConflictResult{
			Conflict: true,
			Kind:     models.ConflictFullDayBooked,
			Message:  "fitter fully booked on this date",
		}
	case period == models.PeriodAM && !amFree:
		return &models.ConflictResult{
			Conflict: true,
			Kind:     models.ConflictHalfDayBooked,
			Message:  "fitter already has a morning job",
		}
	case period == models.PeriodPM && !pmFree:
		return &models.ConflictResult{
			Conflict: true,
			Kind:     models.ConflictHalfDayBooked,
			Message:  "fitter already has an afternoon job",
		}
	case (period == models.PeriodAllDay || period == models.PeriodUnspecified) && (!amFree || !pmFree):
		return &models.ConflictResult{
			Conflict: true,
			Kind:     models.ConflictPartialVsAllDay,
			Message:  "fitter is partially booked; an all-day job would conflict",
		}
	default:
		return &models.ConflictResult{Kind: models.ConflictNone}
	}
}
