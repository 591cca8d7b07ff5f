package create

import (
	"roombook-gateway/api"
	"roombook-gateway/internal/conflict"
	"roombook-gateway/internal/http-server/session"
	"roombook-gateway/internal/models"
	"roombook-gateway/internal/service"
	"roombook-gateway/internal/upstream"
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

type ScheduleCreator interface {
	CreateSchedule(ctx context.Context, sess models.Session, req *api.ScheduleCreateRequest) (*api.Schedule, error)
}

type Request struct {
	api.ScheduleCreateRequest
}

type Response struct {
	response.Response
	Schedule api.Schedule `json:"schedule"`
}

type ConflictResponse struct {
	response.Response
	api.ConflictResponse
}

func New(log *slog.Logger, creator ScheduleCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedules.create.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		sess, ok := session.FromContext(r.Context())
		if !ok {
			log.Error("No requester session")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error(string(response.UNAUTHORIZED), "requester identity is missing"))
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

		if err := validator.New().Struct(req.ScheduleCreateRequest); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		schedule, err := creator.CreateSchedule(r.Context(), sess, &req.ScheduleCreateRequest)

		if errors.Is(err, service.ErrInvalidInterval) {
			log.Error("Invalid time interval")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), service.ErrInvalidInterval.Error()))
			return
		}

		if upstream.IsConflict(err) {
			details := conflictDetails(err)
			log.Warn("Booking conflict", slog.String("summary", details.Summary))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, ConflictResponse{
				Response: response.Error(string(response.CONFLICT), details.Summary),
				ConflictResponse: api.ConflictResponse{
					Summary:   details.Summary,
					Conflicts: details.Conflicts,
				},
			})
			return
		}

		if err != nil {
			log.Error("Failed to create schedule", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.UPSTREAM), "failed to create schedule"))
			return
		}

		log.Info("Schedule created", slog.Int64("id", schedule.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Schedule: *schedule})
	}
}

func conflictDetails(err error) conflict.Details {
	var se *upstream.StatusError
	if errors.As(err, &se) {
		return conflict.Parse(se.Message)
	}
	return conflict.Parse(err.Error())
}
