package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"fitter-service/api"
	"fitter-service/pkg/response"
	"fitter-service/pkg/sl"
)

type FitterCreator interface {
	CreateFitter(ctx context.Context, req *api.FitterRequest) (*api.FitterResponse, error)
}

type Request struct {
	api.FitterRequest
}

type Response struct {
	response.Response
	Fitter *api.FitterResponse `json:"fitter,omitempty"`
}

func New(log *slog.Logger, creator FitterCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.fitters.create.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		fitter, err := creator.CreateFitter(r.Context(), &req.FitterRequest)

		if errors.Is(err, response.ErrValidation) {
			var ve *response.ValidationError
			msg := "invalid request"
			if errors.As(err, &ve) {
				msg = ve.Message
			}
			log.Error("fitter rejected", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), msg))
			return
		}

		if err != nil {
			log.Error("Failed to create fitter", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create fitter"))
			return
		}

		log.Info("Fitter created", slog.Int64("id", fitter.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Fitter: fitter,
		})
	}
}
