package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fitter-service/internal/models"
)

func TestTimePeriod_BlocksHalf(t *testing.T) {
	cases := []struct {
		period models.TimePeriod
		am     bool
		pm     bool
	}{
		{models.PeriodAM, true, false},
		{models.PeriodPM, false, true},
		{models.PeriodAllDay, true, true},
		{models.PeriodUnspecified, true, true},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.am, tc.period.BlocksHalf(models.PeriodAM), "%q vs am", tc.period)
		assert.Equal(t, tc.pm, tc.period.BlocksHalf(models.PeriodPM), "%q vs pm", tc.period)
	}
}

func TestParseTimePeriod(t *testing.T) {
	for _, valid := range []string{"am", "pm", "all_day", ""} {
		_, ok := models.ParseTimePeriod(valid)
		assert.True(t, ok, valid)
	}

	_, ok := models.ParseTimePeriod("morning")
	assert.False(t, ok)
}

func TestJobStatus_Active(t *testing.T) {
	assert.False(t, models.JobQuotation.Active())
	assert.False(t, models.JobCancelled.Active())
	assert.True(t, models.JobPending.Active())
	assert.True(t, models.JobCompleted.Active())
}

func TestLeaveRecord_Covers(t *testing.T) {
	rec := &models.LeaveRecord{
		StartDate: time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.July, 14, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, rec.Covers(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, rec.Covers(time.Date(2025, time.July, 14, 23, 0, 0, 0, time.UTC)))
	assert.False(t, rec.Covers(time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)))
	assert.False(t, rec.Covers(time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)))
}

func TestDateOnly_NormalizesZone(t *testing.T) {
	loc := time.FixedZone("BST", 3600)
	stamp := time.Date(2025, time.March, 10, 18, 30, 0, 0, loc)

	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), models.DateOnly(stamp))
}
