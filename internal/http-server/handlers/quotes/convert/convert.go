package convert

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fitter-service/api"
	"fitter-service/internal/models"
	"fitter-service/internal/service"
	"fitter-service/pkg/response"
	"fitter-service/pkg/sl"
)

type QuoteConverter interface {
	ConvertQuote(ctx context.Context, req *service.ConversionRequest) (*api.JobResponse, error)
}

type Request struct {
	api.ConvertQuoteRequest
}

type Response struct {
	response.Response
	Job      *api.JobResponse      `json:"job,omitempty"`
	Conflict *api.ConflictResponse `json:"conflict,omitempty"`
}

func New(log *slog.Logger, converter QuoteConverter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.quotes.convert.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		quoteID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("invalid quote id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "quote id must be an integer"))
			return
		}

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		period, ok := models.ParseTimePeriod(req.TimePeriod)
		if !ok {
			log.Error("invalid time_period")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "time_period must be am, pm or all_day"))
			return
		}

		var fittingDate *time.Time
		if req.FittingDate != "" {
			t, err := time.Parse("2006-01-02", req.FittingDate)
			if err != nil {
				log.Error("invalid fitting_date", sl.Err(err))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "fitting_date must be YYYY-MM-DD"))
				return
			}
			fittingDate = &t
		}

		job, err := converter.ConvertQuote(r.Context(), &service.ConversionRequest{
			QuoteID:            quoteID,
			FitterID:           req.FitterID,
			FittingDate:        fittingDate,
			FittingDateUnknown: req.FittingDateUnknown,
			TimePeriod:         period,
			OverrideConflict:   req.OverrideConflict,
		})

		var conflictErr *response.ConflictError
		if errors.As(err, &conflictErr) {
			log.Info("conversion blocked by conflict", slog.String("kind", conflictErr.Kind))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, Response{
				Response: response.Error(string(response.CONFLICT), conflictErr.Message),
				Conflict: &api.ConflictResponse{
					Conflict: true,
					Kind:     conflictErr.Kind,
					Message:  conflictErr.Message,
				},
			})
			return
		}

		if errors.Is(err, response.ErrValidation) {
			var ve *response.ValidationError
			msg := "invalid request"
			if errors.As(err, &ve) {
				msg = ve.Message
			}
			log.Error("conversion rejected", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), msg))
			return
		}

		if errors.Is(err, response.ErrLocked) {
			log.Error("conversion is locked")
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(string(response.LOCKED), "another conversion for this slot is in progress"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("quote not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "quote not found"))
			return
		}

		if err != nil {
			log.Error("Failed to convert quote", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to convert quote"))
			return
		}

		log.Info("Quote converted", slog.Int64("id", job.ID), slog.String("status", job.Status))

		render.JSON(w, r, Response{
			Job: job,
		})
	}
}
