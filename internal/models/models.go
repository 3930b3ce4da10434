package models

import "time"

// TimePeriod is the half-day slot a job occupies. The zero value means the
// time was never specified on the job; such bookings are treated as taking
// the whole day, since their real duration is unknown.
type TimePeriod string

const (
	PeriodAM          TimePeriod = "am"
	PeriodPM          TimePeriod = "pm"
	PeriodAllDay      TimePeriod = "all_day"
	PeriodUnspecified TimePeriod = ""
)

func ParseTimePeriod(s string) (TimePeriod, bool) {
	switch TimePeriod(s) {
	case PeriodAM, PeriodPM, PeriodAllDay, PeriodUnspecified:
		return TimePeriod(s), true
	default:
		return PeriodUnspecified, false
	}
}

// BlocksHalf reports whether a booking with this period occupies the given
// half of the day. half must be PeriodAM or PeriodPM.
func (p TimePeriod) BlocksHalf(half TimePeriod) bool {
	switch p {
	case PeriodAllDay, PeriodUnspecified:
		return true
	default:
		return p == half
	}
}

type LeaveCategory string

const (
	LeaveHoliday     LeaveCategory = "holiday"
	LeaveSick        LeaveCategory = "sick"
	LeaveUnavailable LeaveCategory = "unavailable"
	LeaveOther       LeaveCategory = "other"
)

func ParseLeaveCategory(s string) (LeaveCategory, bool) {
	switch LeaveCategory(s) {
	case LeaveHoliday, LeaveSick, LeaveUnavailable, LeaveOther:
		return LeaveCategory(s), true
	default:
		return "", false
	}
}

type JobStatus string

const (
	JobQuotation JobStatus = "quotation"
	JobPending   JobStatus = "pending"
	JobCompleted JobStatus = "completed"
	JobCancelled JobStatus = "cancelled"
)

// Active reports whether the job counts against a fitter's availability.
// Quotations are not booked yet and cancelled jobs free their slot.
func (s JobStatus) Active() bool {
	return s != JobQuotation && s != JobCancelled
}

type Fitter struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Color string `db:"color"`
}

// UnknownFitterName is rendered for fitter ids that no longer resolve.
// Historical bookings and leave keep their ids when a fitter is deleted.
const UnknownFitterName = "Unknown Fitter"

// LeaveRecord marks a fitter unavailable from StartDate to EndDate
// inclusive. Records are never edited in place; edits are delete+recreate.
type LeaveRecord struct {
	ID        int64         `db:"id"`
	FitterID  int64         `db:"fitter_id"`
	StartDate time.Time     `db:"start_date"`
	EndDate   time.Time     `db:"end_date"`
	Category  LeaveCategory `db:"availability_type"`
	Reason    string        `db:"reason"`
}

func (l *LeaveRecord) Covers(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(l.StartDate)) && !d.After(DateOnly(l.EndDate))
}

// JobBooking is the slice of the job record the scheduling engine reads and
// writes: status, fitter assignment and fitting date/period. A booking with
// no fitting date contributes nothing to any day's availability.
type JobBooking struct {
	ID                 int64      `db:"id"`
	OrderNumber        string     `db:"order_number"`
	CustomerName       string     `db:"customer_name"`
	Status             JobStatus  `db:"status"`
	FitterID           *int64     `db:"fitter_id"`
	FittingDate        *time.Time `db:"fitting_date"`
	FittingDateUnknown bool       `db:"fitting_date_unknown"`
	TimePeriod         TimePeriod `db:"fitting_time_period"`
}

// JobSchedule is the field set written when a quotation is promoted to a
// scheduled job.
type JobSchedule struct {
	FitterID           int64
	FittingDate        *time.Time
	FittingDateUnknown bool
	TimePeriod         TimePeriod
}

// JobRef is the display projection of a booking attached to a calendar day.
type JobRef struct {
	OrderNumber string
	TimePeriod  TimePeriod
	FitterID    *int64
}

// AvailabilityDay is computed per request, never persisted. In any-fitter
// mode the booleans mean "at least one fitter has that half free" and
// AvailableFitterID carries the lowest-id fitter matching the requested
// period, nil when nobody is free.
type AvailabilityDay struct {
	Date              time.Time
	DayName           string
	AmAvailable       bool
	PmAvailable       bool
	AllDayBooked      bool
	Jobs              []JobRef
	AvailableFitterID *int64
}

type ConflictKind string

const (
	ConflictNone            ConflictKind = "NONE"
	ConflictFullDayBooked   ConflictKind = "FULL_DAY_BOOKED"
	ConflictHalfDayBooked   ConflictKind = "HALF_DAY_BOOKED"
	ConflictPartialVsAllDay ConflictKind = "PARTIAL_VS_ALL_DAY"
)

// ConflictResult is advisory: the conversion state machine decides whether
// to proceed, the resolver only classifies.
type ConflictResult struct {
	Conflict bool
	Kind     ConflictKind
	Message  string
}

// DateOnly normalizes a timestamp to midnight UTC so calendar dates compare
// by equality regardless of the clock time or zone they arrived with.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
