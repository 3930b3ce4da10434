package service_test

import (
	"context"
	"time"

	"fitter-service/internal/models"
	"fitter-service/internal/service"
	"fitter-service/internal/storage/memory"
)

// test doubles for the locker seam

type nopLocker struct{}

func (nopLocker) Lock(context.Context, string, time.Duration) (bool, error) { return true, nil }
func (nopLocker) Unlock(context.Context, string) error                      { return nil }

// refusingLocker simulates a concurrent conversion holding the slot.
type refusingLocker struct{}

func (refusingLocker) Lock(context.Context, string, time.Duration) (bool, error) { return false, nil }
func (refusingLocker) Unlock(context.Context, string) error                      { return nil }

// recordingLocker captures the keys taken so tests can assert lock scope.
type recordingLocker struct {
	keys []string
}

func (l *recordingLocker) Lock(_ context.Context, key string, _ time.Duration) (bool, error) {
	l.keys = append(l.keys, key)
	return true, nil
}

func (l *recordingLocker) Unlock(context.Context, string) error { return nil }

func newTestService() (*service.Service, *memory.Storage) {
	store := memory.New()
	return service.NewService(store, nopLocker{}), store
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func addFitter(store *memory.Storage, name string) int64 {
	id, _ := store.CreateFitter(context.Background(), &models.Fitter{Name: name})
	return id
}

func addLeave(store *memory.Storage, fitterID int64, from, to time.Time, cat models.LeaveCategory) {
	_, _ = store.CreateLeave(context.Background(), &models.LeaveRecord{
		FitterID:  fitterID,
		StartDate: from,
		EndDate:   to,
		Category:  cat,
	})
}

func addBooking(store *memory.Storage, fitterID int64, day time.Time, period models.TimePeriod, orderNumber string) int64 {
	d := day
	return store.SeedJob(&models.JobBooking{
		OrderNumber: orderNumber,
		Status:      models.JobPending,
		FitterID:    &fitterID,
		FittingDate: &d,
		TimePeriod:  period,
	})
}
