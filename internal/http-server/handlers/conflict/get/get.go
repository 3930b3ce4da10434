package get

import (
	"context"
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

type ConflictChecker interface {
	CheckConflict(ctx context.Context, fitterID int64, date time.Time, period models.TimePeriod) (*models.ConflictResult, error)
}

type Response struct {
	response.Response
	api.ConflictResponse
}

func New(log *slog.Logger, checker ConflictChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.conflict.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		fitterID, err := strconv.ParseInt(r.URL.Query().Get("fitter_id"), 10, 64)
		if err != nil {
			log.Error("invalid fitter_id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "fitter_id must be an integer"))
			return
		}

		date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
		if err != nil {
			log.Error("invalid date", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "date must be YYYY-MM-DD"))
			return
		}

		period, ok := models.ParseTimePeriod(r.URL.Query().Get("time_period"))
		if !ok || period == models.PeriodUnspecified {
			log.Error("invalid time_period")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "time_period must be am, pm or all_day"))
			return
		}

		result, err := checker.CheckConflict(r.Context(), fitterID, date, period)

		if err != nil {
			log.Error("Failed to check conflict", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to check conflict"))
			return
		}

		log.Info("Conflict checked", slog.String("kind", string(result.Kind)))

		render.JSON(w, r, Response{
			ConflictResponse: api.ConflictResponse{
				Conflict: result.Conflict,
				Kind:     string(result.Kind),
				Message:  result.Message,
			},
		})
	}
}
