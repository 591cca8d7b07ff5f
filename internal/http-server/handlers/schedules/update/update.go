package update

import (
	"roombook-gateway/api"
	"roombook-gateway/internal/service"
	"roombook-gateway/internal/upstream"
	"roombook-gateway/pkg/response"
	"roombook-gateway/pkg/sl"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type ScheduleUpdater interface {
	UpdateSchedule(ctx context.Context, id int64, req *api.ScheduleUpdateRequest) (*api.Schedule, error)
}

type Request struct {
	api.ScheduleUpdateRequest
}

type Response struct {
	response.Response
	Schedule api.Schedule `json:"schedule"`
}

func New(log *slog.Logger, updater ScheduleUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedules.update.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("Invalid schedule id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "id must be an integer"))
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

		if err := validator.New().Struct(req.ScheduleUpdateRequest); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		schedule, err := updater.UpdateSchedule(r.Context(), id, &req.ScheduleUpdateRequest)

		if errors.Is(err, service.ErrInvalidInterval) {
			log.Error("Invalid time interval")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), service.ErrInvalidInterval.Error()))
			return
		}

		if upstream.IsNotFound(err) {
			log.Error("Schedule not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "schedule not found"))
			return
		}

		if upstream.IsConflict(err) {
			log.Warn("Booking conflict on update", slog.Int64("id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.CONFLICT), conflictMessage(err)))
			return
		}

		if err != nil {
			log.Error("Failed to update schedule", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.UPSTREAM), "failed to update schedule"))
			return
		}

		log.Info("Schedule updated", slog.Int64("id", id))
		render.JSON(w, r, Response{Schedule: *schedule})
	}
}

func conflictMessage(err error) string {
	var se *upstream.StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}
