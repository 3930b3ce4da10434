package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"fitter-service/api"
	"fitter-service/pkg/response"
	"fitter-service/pkg/sl"
)

type FitterLister interface {
	ListFitters(ctx context.Context) ([]*api.FitterResponse, error)
}

type Response struct {
	response.Response
	Fitters []api.FitterResponse `json:"fitters"`
}

func New(log *slog.Logger, lister FitterLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.fitters.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		fitters, err := lister.ListFitters(r.Context())

		if err != nil {
			log.Error("Failed to list fitters", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list fitters"))
			return
		}

		log.Info("Fitters retrieved", slog.Int("count", len(fitters)))

		result := make([]api.FitterResponse, len(fitters))
		for i, fitter := range fitters {
			result[i] = *fitter
		}

		render.JSON(w, r, Response{
			Fitters: result,
		})
	}
}
