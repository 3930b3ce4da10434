package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fitter-service/api"
	"fitter-service/pkg/response"
	"fitter-service/pkg/sl"
)

type JobGetter interface {
	GetJob(ctx context.Context, id int64) (*api.JobResponse, error)
}

type Response struct {
	response.Response
	Job *api.JobResponse `json:"job,omitempty"`
}

func New(log *slog.Logger, getter JobGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.jobs.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("invalid job id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "job id must be an integer"))
			return
		}

		job, err := getter.GetJob(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("job not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "job not found"))
			return
		}

		if err != nil {
			log.Error("Failed to get job", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get job"))
			return
		}

		log.Info("Job retrieved", slog.Int64("id", job.ID))

		render.JSON(w, r, Response{
			Job: job,
		})
	}
}
