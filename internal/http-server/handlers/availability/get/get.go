package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"fitter-service/api"
	"fitter-service/internal/models"
	"fitter-service/pkg/response"
	"fitter-service/pkg/sl"
)

type AvailabilityComputer interface {
	ComputeAvailability(ctx context.Context, fitterID *int64, start time.Time, days int, periodFilter models.TimePeriod) ([]*models.AvailabilityDay, error)
}

type Response struct {
	response.Response
	Days []api.AvailabilityDayResponse `json:"days,omitempty"`
}

func New(log *slog.Logger, computer AvailabilityComputer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.availability.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var fitterID *int64
		if v := r.URL.Query().Get("fitter_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				log.Error("invalid fitter_id", sl.Err(err))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "fitter_id must be an integer"))
				return
			}
			fitterID = &id
		}

		start := time.Now()
		if v := r.URL.Query().Get("start_date"); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				log.Error("invalid start_date", sl.Err(err))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "start_date must be YYYY-MM-DD"))
				return
			}
			start = t
		}

		days := 0
		if v := r.URL.Query().Get("days"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				log.Error("invalid days")
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "days must be a positive integer"))
				return
			}
			days = n
		}

		period, ok := models.ParseTimePeriod(r.URL.Query().Get("time_period"))
		if !ok || period == models.PeriodAllDay {
			log.Error("invalid time_period")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "time_period must be am or pm"))
			return
		}

		daysOut, err := computer.ComputeAvailability(r.Context(), fitterID, start, days, period)

		if errors.Is(err, response.ErrValidation) {
			log.Error("invalid availability request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), validationMessage(err)))
			return
		}

		if err != nil {
			log.Error("Failed to compute availability", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to compute availability"))
			return
		}

		log.Info("Availability computed", slog.Int("days", len(daysOut)))

		render.JSON(w, r, Response{
			Days: daysResponse(daysOut),
		})
	}
}

func validationMessage(err error) string {
	var ve *response.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return "invalid request"
}

func daysResponse(days []*models.AvailabilityDay) []api.AvailabilityDayResponse {
	result := make([]api.AvailabilityDayResponse, 0, len(days))
	for _, day := range days {
		resp := api.AvailabilityDayResponse{
			Date:              day.Date.Format("2006-01-02"),
			DayName:           day.DayName,
			AmAvailable:       day.AmAvailable,
			PmAvailable:       day.PmAvailable,
			AllDayBooked:      day.AllDayBooked,
			AvailableFitterID: day.AvailableFitterID,
		}
		for _, job := range day.Jobs {
			resp.Jobs = append(resp.Jobs, api.JobRefResponse{
				OrderNumber: job.OrderNumber,
				TimePeriod:  string(job.TimePeriod),
				FitterID:    job.FitterID,
			})
		}
		result = append(result, resp)
	}
	return result
}
