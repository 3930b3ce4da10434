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

type LeaveCreator interface {
	CreateLeave(ctx context.Context, req *api.LeaveRequest) (*api.LeaveResponse, error)
}

type Request struct {
	api.LeaveRequest
}

type Response struct {
	response.Response
	Leave *api.LeaveResponse `json:"leave,omitempty"`
}

func New(log *slog.Logger, creator LeaveCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.leave.create.New"

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

		leave, err := creator.CreateLeave(r.Context(), &req.LeaveRequest)

		if errors.Is(err, response.ErrValidation) {
			var ve *response.ValidationError
			msg := "invalid request"
			if errors.As(err, &ve) {
				msg = ve.Message
			}
			log.Error("leave rejected", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), msg))
			return
		}

		if err != nil {
			log.Error("Failed to create leave", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create leave"))
			return
		}

		log.Info("Leave created", slog.Int64("id", leave.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Leave: leave,
		})
	}
}
