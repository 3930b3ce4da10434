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

type QuoteCreator interface {
	CreateQuote(ctx context.Context, req *api.QuoteCreateRequest) (*api.JobResponse, error)
}

type Request struct {
	api.QuoteCreateRequest
}

type Response struct {
	response.Response
	Job *api.JobResponse `json:"job,omitempty"`
}

func New(log *slog.Logger, creator QuoteCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.quotes.create.New"

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

		job, err := creator.CreateQuote(r.Context(), &req.QuoteCreateRequest)

		if errors.Is(err, response.ErrValidation) {
			var ve *response.ValidationError
			msg := "invalid request"
			if errors.As(err, &ve) {
				msg = ve.Message
			}
			log.Error("quote rejected", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), msg))
			return
		}

		if err != nil {
			log.Error("Failed to create quote", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create quote"))
			return
		}

		log.Info("Quote created", slog.Int64("id", job.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Job: job,
		})
	}
}
