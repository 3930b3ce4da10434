package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitter-service/api"
	"fitter-service/internal/lock"
	"fitter-service/internal/models"
	"fitter-service/pkg/response"
)

type Service struct {
	store  Store
	locker lock.Locker
}

func NewService(store Store, locker lock.Locker) *Service {
	return &Service{store: store, locker: locker}
}

// Store is the external record store boundary. Every availability or
// conflict computation re-reads it fresh; there is no caching layer.
type Store interface {
	// Fitters
	CreateFitter(ctx context.Context, fitter *models.Fitter) (int64, error)
	GetFitter(ctx context.Context, id int64) (*models.Fitter, error)
	ListFitters(ctx context.Context) ([]*models.Fitter, error)
	DeleteFitter(ctx context.Context, id int64) error

	// Leave
	CreateLeave(ctx context.Context, rec *models.LeaveRecord) (int64, error)
	GetLeave(ctx context.Context, id int64) (*models.LeaveRecord, error)
	DeleteLeave(ctx context.Context, id int64) error
	LeaveForRange(ctx context.Context, fitterID *int64, start time.Time, days int) ([]*models.LeaveRecord, error)

	// Jobs
	CreateQuote(ctx context.Context, job *models.JobBooking) (int64, error)
	GetJob(ctx context.Context, id int64) (*models.JobBooking, error)
	BookingsForRange(ctx context.Context, fitterID *int64, start time.Time, days int) ([]*models.JobBooking, error)
	PromoteQuote(ctx context.Context, quoteID int64, schedule *models.JobSchedule) (int64, error)
}

// Fitters

func (s *Service) CreateFitter(ctx context.Context, req *api.FitterRequest) (*api.FitterResponse, error) {
	const op = "service.CreateFitter"

	if req.Name == "" {
		return nil, fmt.Errorf("%s: %w", op, &response.ValidationError{Message: "fitter name is required"})
	}

	fitter := &models.Fitter{
		Name:  req.Name,
		Color: req.Color,
	}

	id, err := s.store.CreateFitter(ctx, fitter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &api.FitterResponse{ID: id, Name: fitter.Name, Color: fitter.Color}, nil
}

func (s *Service) ListFitters(ctx context.Context) ([]*api.FitterResponse, error) {
	const op = "service.ListFitters"

	fitters, err := s.store.ListFitters(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.FitterResponse, 0, len(fitters))
	for _, fitter := range fitters {
		result = append(result, &api.FitterResponse{
			ID:    fitter.ID,
			Name:  fitter.Name,
			Color: fitter.Color,
		})
	}

	return result, nil
}

func (s *Service) DeleteFitter(ctx context.Context, id int64) error {
	const op = "service.DeleteFitter"

	// No cascade: historical bookings and leave keep their fitter_id and
	// render as "Unknown Fitter" from now on.
	err := s.store.DeleteFitter(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Leave

func (s *Service) CreateLeave(ctx context.Context, req *api.LeaveRequest) (*api.LeaveResponse, error) {
	const op = "service.CreateLeave"

	if req.FitterID == 0 {
		return nil, fmt.Errorf("%s: %w", op, &response.ValidationError{Message: "fitter_id is required"})
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid start_date: %w", op, &response.ValidationError{Message: "start_date must be YYYY-MM-DD"})
	}

	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid end_date: %w", op, &response.ValidationError{Message: "end_date must be YYYY-MM-DD"})
	}

	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%s: %w", op, &response.ValidationError{Message: "end_date is before start_date"})
	}

	category, ok := models.ParseLeaveCategory(req.Category)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, &response.ValidationError{Message: "category must be one of holiday, sick, unavailable, other"})
	}

	rec := &models.LeaveRecord{
		FitterID:  req.FitterID,
		StartDate: models.DateOnly(startDate),
		EndDate:   models.DateOnly(endDate),
		Category:  category,
		Reason:    req.Reason,
	}

	id, err := s.store.CreateLeave(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rec.ID = id

	return leaveResponse(rec), nil
}

func (s *Service) ListLeave(ctx context.Context, fitterID *int64, start time.Time, days int) ([]*api.LeaveResponse, error) {
	const op = "service.ListLeave"

	if days <= 0 {
		days = DefaultWindowDays
	}

	records, err := s.store.LeaveForRange(ctx, fitterID, models.DateOnly(start), days)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.LeaveResponse, 0, len(records))
	for _, rec := range records {
		result = append(result, leaveResponse(rec))
	}

	return result, nil
}

func (s *Service) DeleteLeave(ctx context.Context, id int64) error {
	const op = "service.DeleteLeave"

	err := s.store.DeleteLeave(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func leaveResponse(rec *models.LeaveRecord) *api.LeaveResponse {
	return &api.LeaveResponse{
		ID:        rec.ID,
		FitterID:  rec.FitterID,
		StartDate: rec.StartDate.Format("2006-01-02"),
		EndDate:   rec.EndDate.Format("2006-01-02"),
		Category:  string(rec.Category),
		Reason:    rec.Reason,
	}
}

// Quotes / jobs

func (s *Service) CreateQuote(ctx context.Context, req *api.QuoteCreateRequest) (*api.JobResponse, error) {
	const op = "service.CreateQuote"

	if req.OrderNumber == "" {
		return nil, fmt.Errorf("%s: %w", op, &response.ValidationError{Message: "order_number is required"})
	}

	job := &models.JobBooking{
		OrderNumber:  req.OrderNumber,
		CustomerName: req.CustomerName,
		Status:       models.JobQuotation,
	}

	id, err := s.store.CreateQuote(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetJob(ctx, id)
}

func (s *Service) GetJob(ctx context.Context, id int64) (*api.JobResponse, error) {
	const op = "service.GetJob"

	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := &api.JobResponse{
		ID:                 job.ID,
		OrderNumber:        job.OrderNumber,
		CustomerName:       job.CustomerName,
		Status:             string(job.Status),
		FitterID:           job.FitterID,
		FittingDateUnknown: job.FittingDateUnknown,
		TimePeriod:         string(job.TimePeriod),
	}

	if job.FittingDate != nil {
		resp.FittingDate = job.FittingDate.Format("2006-01-02")
	}

	if job.FitterID != nil {
		resp.FitterName = s.fitterName(ctx, *job.FitterID)
	}

	return resp, nil
}

// fitterName tolerates dangling fitter ids on historical records.
func (s *Service) fitterName(ctx context.Context, id int64) string {
	fitter, err := s.store.GetFitter(ctx, id)
	if err != nil {
		return models.UnknownFitterName
	}

	return fitter.Name
}
