package api

// Fitters

type FitterRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type FitterResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Leave

type LeaveRequest struct {
	FitterID  int64  `json:"fitter_id"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
	Category  string `json:"category"`
	Reason    string `json:"reason,omitempty"`
}

type LeaveResponse struct {
	ID        int64  `json:"id"`
	FitterID  int64  `json:"fitter_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Category  string `json:"category"`
	Reason    string `json:"reason,omitempty"`
}

// Quotes / jobs

type QuoteCreateRequest struct {
	OrderNumber  string `json:"order_number"`
	CustomerName string `json:"customer_name,omitempty"`
}

type ConvertQuoteRequest struct {
	FitterID           int64  `json:"fitter_id"`
	FittingDate        string `json:"fitting_date,omitempty"` // YYYY-MM-DD
	FittingDateUnknown bool   `json:"fitting_date_unknown,omitempty"`
	TimePeriod         string `json:"time_period,omitempty"` // am|pm|all_day
	OverrideConflict   bool   `json:"override_conflict,omitempty"`
}

type JobResponse struct {
	ID                 int64  `json:"id"`
	OrderNumber        string `json:"order_number"`
	CustomerName       string `json:"customer_name,omitempty"`
	Status             string `json:"status"`
	FitterID           *int64 `json:"fitter_id,omitempty"`
	FitterName         string `json:"fitter_name,omitempty"`
	FittingDate        string `json:"fitting_date,omitempty"`
	FittingDateUnknown bool   `json:"fitting_date_unknown,omitempty"`
	TimePeriod         string `json:"time_period,omitempty"`
}

// Availability

type JobRefResponse struct {
	OrderNumber string `json:"order_number"`
	TimePeriod  string `json:"time_period,omitempty"`
	FitterID    *int64 `json:"fitter_id,omitempty"`
}

type AvailabilityDayResponse struct {
	Date              string           `json:"date"`
	DayName           string           `json:"day_name"`
	AmAvailable       bool             `json:"am_available"`
	PmAvailable       bool             `json:"pm_available"`
	AllDayBooked      bool             `json:"all_day_booked"`
	Jobs              []JobRefResponse `json:"jobs,omitempty"`
	AvailableFitterID *int64           `json:"available_fitter_id,omitempty"`
}

// Conflict

type ConflictResponse struct {
	Conflict bool   `json:"conflict"`
	Kind     string `json:"kind"`
	Message  string `json:"message,omitempty"`
}
