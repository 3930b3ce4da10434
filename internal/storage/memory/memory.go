// Package memory is an in-memory implementation of the service store used
// by tests and local experiments. It mirrors the postgres store's contract,
// including ascending-id ordering and the compare-and-swap promotion.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"fitter-service/internal/models"
	"fitter-service/pkg/response"
)

type Storage struct {
	mu sync.RWMutex

	fitters map[int64]*models.Fitter
	leave   map[int64]*models.LeaveRecord
	jobs    map[int64]*models.JobBooking

	nextFitterID int64
	nextLeaveID  int64
	nextJobID    int64
}

func New() *Storage {
	return &Storage{
		fitters: make(map[int64]*models.Fitter),
		leave:   make(map[int64]*models.LeaveRecord),
		jobs:    make(map[int64]*models.JobBooking),
	}
}

// #### fitters ####

func (s *Storage) CreateFitter(_ context.Context, fitter *models.Fitter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextFitterID++
	f := *fitter
	f.ID = s.nextFitterID
	s.fitters[f.ID] = &f

	return f.ID, nil
}

func (s *Storage) GetFitter(_ context.Context, id int64) (*models.Fitter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fitter, ok := s.fitters[id]
	if !ok {
		return nil, response.ErrNotFound
	}

	f := *fitter
	return &f, nil
}

func (s *Storage) ListFitters(_ context.Context) ([]*models.Fitter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fitters := make([]*models.Fitter, 0, len(s.fitters))
	for _, fitter := range s.fitters {
		f := *fitter
		fitters = append(fitters, &f)
	}

	sort.Slice(fitters, func(i, j int) bool { return fitters[i].ID < fitters[j].ID })

	return fitters, nil
}

func (s *Storage) DeleteFitter(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.fitters[id]; !ok {
		return response.ErrNotFound
	}

	delete(s.fitters, id)

	return nil
}

// #### leave ####

func (s *Storage) CreateLeave(_ context.Context, rec *models.LeaveRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextLeaveID++
	r := *rec
	r.ID = s.nextLeaveID
	r.StartDate = models.DateOnly(r.StartDate)
	r.EndDate = models.DateOnly(r.EndDate)
	s.leave[r.ID] = &r

	return r.ID, nil
}

func (s *Storage) GetLeave(_ context.Context, id int64) (*models.LeaveRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.leave[id]
	if !ok {
		return nil, response.ErrNotFound
	}

	r := *rec
	return &r, nil
}

func (s *Storage) DeleteLeave(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.leave[id]; !ok {
		return response.ErrNotFound
	}

	delete(s.leave, id)

	return nil
}

func (s *Storage) LeaveForRange(_ context.Context, fitterID *int64, start time.Time, days int) ([]*models.LeaveRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	windowStart := models.DateOnly(start)
	windowEnd := windowStart.AddDate(0, 0, days-1)

	var records []*models.LeaveRecord
	for _, rec := range s.leave {
		if fitterID != nil && rec.FitterID != *fitterID {
			continue
		}
		if rec.StartDate.After(windowEnd) || rec.EndDate.Before(windowStart) {
			continue
		}

		r := *rec
		records = append(records, &r)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	return records, nil
}

// #### jobs ####

func (s *Storage) CreateQuote(_ context.Context, job *models.JobBooking) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextJobID++
	j := *job
	j.ID = s.nextJobID
	j.Status = models.JobQuotation
	s.jobs[j.ID] = &j

	return j.ID, nil
}

// SeedJob inserts a job in any status, for test fixtures that need existing
// bookings on the calendar.
func (s *Storage) SeedJob(job *models.JobBooking) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextJobID++
	j := *job
	j.ID = s.nextJobID
	if j.FittingDate != nil {
		d := models.DateOnly(*j.FittingDate)
		j.FittingDate = &d
	}
	s.jobs[j.ID] = &j

	return j.ID
}

func (s *Storage) GetJob(_ context.Context, id int64) (*models.JobBooking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, response.ErrNotFound
	}

	j := *job
	return &j, nil
}

func (s *Storage) BookingsForRange(_ context.Context, fitterID *int64, start time.Time, days int) ([]*models.JobBooking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	windowStart := models.DateOnly(start)
	windowEnd := windowStart.AddDate(0, 0, days-1)

	var jobs []*models.JobBooking
	for _, job := range s.jobs {
		if !job.Status.Active() || job.FittingDate == nil {
			continue
		}
		if fitterID != nil && (job.FitterID == nil || *job.FitterID != *fitterID) {
			continue
		}
		if job.FittingDate.Before(windowStart) || job.FittingDate.After(windowEnd) {
			continue
		}

		j := *job
		jobs = append(jobs, &j)
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })

	return jobs, nil
}

func (s *Storage) PromoteQuote(_ context.Context, quoteID int64, schedule *models.JobSchedule) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[quoteID]
	if !ok || job.Status != models.JobQuotation {
		return 0, nil
	}

	job.Status = models.JobPending
	fitterID := schedule.FitterID
	job.FitterID = &fitterID
	job.FittingDateUnknown = schedule.FittingDateUnknown
	job.TimePeriod = schedule.TimePeriod

	if schedule.FittingDate != nil {
		d := models.DateOnly(*schedule.FittingDate)
		job.FittingDate = &d
	} else {
		job.FittingDate = nil
	}

	return 1, nil
}
