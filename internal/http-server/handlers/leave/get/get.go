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
	"fitter-service/pkg/response"
	"fitter-service/pkg/sl"
)

type LeaveLister interface {
	ListLeave(ctx context.Context, fitterID *int64, start time.Time, days int) ([]*api.LeaveResponse, error)
}

type Response struct {
	response.Response
	Leave []api.LeaveResponse `json:"leave"`
}

func New(log *slog.Logger, lister LeaveLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.leave.get.New"

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

		records, err := lister.ListLeave(r.Context(), fitterID, start, days)

		if err != nil {
			log.Error("Failed to list leave", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list leave"))
			return
		}

		log.Info("Leave retrieved", slog.Int("count", len(records)))

		result := make([]api.LeaveResponse, len(records))
		for i, rec := range records {
			result[i] = *rec
		}

		render.JSON(w, r, Response{
			Leave: result,
		})
	}
}
