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

type FitterDeleter interface {
	DeleteFitter(ctx context.Context, id int64) error
}

func New(log *slog.Logger, deleter FitterDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.fitters.delete.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("invalid fitter id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "fitter id must be an integer"))
			return
		}

		err = deleter.DeleteFitter(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("fitter not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "fitter not found"))
			return
		}

		if err != nil {
			log.Error("Failed to delete fitter", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to delete fitter"))
			return
		}

		log.Info("Fitter deleted", slog.Int64("id", id))

		render.JSON(w, r, response.Response{})
	}
}
