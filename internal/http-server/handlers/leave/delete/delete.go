package delete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fitter-service/pkg/response"
	"fitter-service/pkg/sl"
)

type LeaveDeleter interface {
	DeleteLeave(ctx context.Context, id int64) error
}

func New(log *slog.Logger, deleter LeaveDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.leave.delete.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("invalid leave id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "leave id must be an integer"))
			return
		}

		err = deleter.DeleteLeave(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("leave record not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "leave record not found"))
			return
		}

		if err != nil {
			log.Error("Failed to delete leave", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to delete leave"))
			return
		}

		log.Info("Leave deleted", slog.Int64("id", id))

		render.JSON(w, r, response.Response{})
	}
}
