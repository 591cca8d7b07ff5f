package recurring

import (
	"roombook-gateway/api"
	"roombook-gateway/internal/conflict"
	"roombook-gateway/internal/http-server/session"
	"roombook-gateway/internal/models"
	"roombook-gateway/internal/recurrence"
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

type RecurringCreator interface {
	CreateRecurring(ctx context.Context, sess models.Session, req *api.RecurringCreateRequest) ([]api.Schedule, error)
}

type Request struct {
	api.RecurringCreateRequest
}

type Response struct {
	response.Response
	Created   int            `json:"created"`
	Schedules []api.Schedule `json:"schedules"`
}

type ConflictResponse struct {
	response.Response
	api.ConflictResponse
}

// New submits a recurring booking request. The pattern is validated here
// before anything goes over the wire; date expansion and availability
// checking stay with the booking backend. A 409 from the backend is parsed
// into its summary and per-occurrence conflict lines.
func New(log *slog.Logger, creator RecurringCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedules.recurring.New"

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

		if err := validator.New().Struct(req.RecurringCreateRequest); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		schedules, err := creator.CreateRecurring(r.Context(), sess, &req.RecurringCreateRequest)

		switch {
		case errors.Is(err, recurrence.ErrNoWeekdays),
			errors.Is(err, recurrence.ErrInvertedRange),
			errors.Is(err, recurrence.ErrBadWeekday),
			errors.Is(err, service.ErrInvalidInterval):
			log.Error("Invalid recurrence pattern", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), patternMessage(err)))
			return
		}

		if upstream.IsConflict(err) {
			details := conflictDetails(err)
			log.Warn("Recurring booking conflict",
				slog.String("summary", details.Summary),
				slog.Int("conflicts", len(details.Conflicts)),
			)
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
			log.Error("Failed to create recurring schedules", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.UPSTREAM), "failed to create recurring schedules"))
			return
		}

		log.Info("Recurring schedules created", slog.Int("count", len(schedules)))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Created:   len(schedules),
			Schedules: schedules,
		})
	}
}

// patternMessage strips the op-chain prefix so the UI gets the bare
// human-readable cause.
func patternMessage(err error) string {
	for _, known := range []error{
		recurrence.ErrNoWeekdays,
		recurrence.ErrInvertedRange,
		recurrence.ErrBadWeekday,
		service.ErrInvalidInterval,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}

func conflictDetails(err error) conflict.Details {
	var se *upstream.StatusError
	if errors.As(err, &se) {
		return conflict.Parse(se.Message)
	}
	return conflict.Parse(err.Error())
}
