package batchstatus

import (
	"roombook-gateway/api"
	"roombook-gateway/internal/service"
	"roombook-gateway/pkg/response"
	"roombook-gateway/pkg/sl"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type BatchStatusUpdater interface {
	BatchUpdateStatus(ctx context.Context, ids []int64, status string) ([]api.Schedule, error)
}

type Request struct {
	api.BatchStatusUpdateRequest
}

type Response struct {
	response.Response
	Updated   int            `json:"updated"`
	Schedules []api.Schedule `json:"schedules"`
}

func New(log *slog.Logger, updater BatchStatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedules.batchstatus.New"

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

		if err := validator.New().Struct(req.BatchStatusUpdateRequest); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		schedules, err := updater.BatchUpdateStatus(r.Context(), req.IDs, req.Status)

		if errors.Is(err, service.ErrBadStatus) {
			log.Error("Unknown status", slog.String("status", req.Status))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), service.ErrBadStatus.Error()))
			return
		}

		if err != nil {
			log.Error("Failed to batch update status", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.UPSTREAM), "failed to update statuses"))
			return
		}

		log.Info("Statuses updated", slog.Int("count", len(schedules)))
		render.JSON(w, r, Response{
			Updated:   len(schedules),
			Schedules: schedules,
		})
	}
}
