package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitter-service/api"
	"fitter-service/internal/models"
	"fitter-service/pkg/response"
)

const convertLockTTL = 10 * time.Second

// ConversionRequest is the resolved input to the quote→job transition.
type ConversionRequest struct {
	QuoteID            int64
	FitterID           int64
	FittingDate        *time.Time
	FittingDateUnknown bool
	TimePeriod         models.TimePeriod
	OverrideConflict   bool
}

// ConvertQuote promotes a quotation record into a scheduled job.
//
// The transition is one-way and all-or-nothing: validation or an
// unoverridden conflict returns an error with no state written. When a
// concrete date is given the (fitter, date, period) tuple is locked and the
// conflict check re-run inside the lock, so two operators racing the same
// slot cannot both commit; the promotion itself is a compare-and-swap on
// the quotation status.
func (s *Service) ConvertQuote(ctx context.Context, req *ConversionRequest) (*api.JobResponse, error) {
	const op = "service.ConvertQuote"

	job, err := s.store.GetJob(ctx, req.QuoteID)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if job.Status != models.JobQuotation {
		return nil, fmt.Errorf("%s: %w", op, &response.ValidationError{
			Message: fmt.Sprintf("job %d is not a quotation (status %s)", job.ID, job.Status),
		})
	}

	if req.FitterID == 0 {
		return nil, fmt.Errorf("%s: %w", op, &response.ValidationError{Message: "a fitter must be selected"})
	}

	// Conversion needs a currently-known fitter even though historical
	// records tolerate dangling ids.
	if _, err := s.store.GetFitter(ctx, req.FitterID); err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, &response.ValidationError{Message: "selected fitter is not configured"})
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if req.FittingDateUnknown {
		req.FittingDate = nil
		req.TimePeriod = models.PeriodUnspecified
	} else if req.FittingDate == nil {
		return nil, fmt.Errorf("%s: %w", op, &response.ValidationError{
			Message: "a fitting date is required unless it is flagged as unknown",
		})
	}

	if req.FittingDate != nil {
		day := models.DateOnly(*req.FittingDate)
		req.FittingDate = &day

		lockKey := fmt.Sprintf("convert:%d:%s:%s", req.FitterID, day.Format("2006-01-02"), lockPeriod(req.TimePeriod))

		locked, err := s.locker.Lock(ctx, lockKey, convertLockTTL)
		if err != nil {
			return nil, fmt.Errorf("%s: lock error: %w", op, err)
		}
		if !locked {
			return nil, fmt.Errorf("%s: %w", op, response.ErrLocked)
		}
		defer func() {
			_ = s.locker.Unlock(ctx, lockKey)
		}()

		conflict, err := s.CheckConflict(ctx, req.FitterID, day, req.TimePeriod)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if conflict.Conflict && !req.OverrideConflict {
			return nil, fmt.Errorf("%s: %w", op, &response.ConflictError{
				Kind:    string(conflict.Kind),
				Message: conflict.Message,
			})
		}
	}

	schedule := &models.JobSchedule{
		FitterID:           req.FitterID,
		FittingDate:        req.FittingDate,
		FittingDateUnknown: req.FittingDateUnknown,
		TimePeriod:         req.TimePeriod,
	}

	affected, err := s.store.PromoteQuote(ctx, req.QuoteID, schedule)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// The promotion updates only rows still in quotation status, so zero
	// rows means somebody converted or cancelled the quote since we read it.
	if affected == 0 {
		return nil, fmt.Errorf("%s: %w", op, &response.ValidationError{
			Message: fmt.Sprintf("job %d is no longer a quotation", req.QuoteID),
		})
	}

	return s.GetJob(ctx, req.QuoteID)
}

// lockPeriod widens unspecified periods to the all-day key, the same slot
// the conflict check treats them as occupying.
func lockPeriod(period models.TimePeriod) models.TimePeriod {
	if period == models.PeriodUnspecified {
		return models.PeriodAllDay
	}
	return period
}
