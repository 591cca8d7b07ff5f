package get

import (
	"roombook-gateway/api"
	"roombook-gateway/internal/upstream"
	"roombook-gateway/pkg/response"
	"roombook-gateway/pkg/sl"
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type ScheduleLister interface {
	ListSchedulesWithBuilding(ctx context.Context) ([]api.ScheduleWithBuilding, error)
	ListSchedulesByEmail(ctx context.Context, email string) ([]api.Schedule, error)
}

type ScheduleGetter interface {
	GetSchedule(ctx context.Context, id int64) (*api.Schedule, error)
}

type ListResponse struct {
	response.Response
	Schedules []api.ScheduleWithBuilding `json:"schedules"`
}

type EmailListResponse struct {
	response.Response
	Schedules []api.Schedule `json:"schedules"`
}

type Response struct {
	response.Response
	Schedule api.Schedule `json:"schedule"`
}

// New lists every schedule joined with its room's building. With an email
// query parameter it lists that requester's schedules instead.
func New(log *slog.Logger, lister ScheduleLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedules.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if email := r.URL.Query().Get("email"); email != "" {
			schedules, err := lister.ListSchedulesByEmail(r.Context(), email)
			if err != nil {
				log.Error("Failed to list schedules by email", sl.Err(err))
				w.WriteHeader(http.StatusBadGateway)
				render.JSON(w, r, response.Error(string(response.UPSTREAM), "failed to list schedules"))
				return
			}

			log.Info("Schedules listed by email", slog.Int("count", len(schedules)))
			render.JSON(w, r, EmailListResponse{Schedules: schedules})
			return
		}

		schedules, err := lister.ListSchedulesWithBuilding(r.Context())
		if err != nil {
			log.Error("Failed to list schedules", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.UPSTREAM), "failed to list schedules"))
			return
		}

		log.Info("Schedules listed", slog.Int("count", len(schedules)))
		render.JSON(w, r, ListResponse{Schedules: schedules})
	}
}

func NewByID(log *slog.Logger, getter ScheduleGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedules.get.NewByID"

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

		schedule, err := getter.GetSchedule(r.Context(), id)

		if upstream.IsNotFound(err) {
			log.Error("Schedule not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "schedule not found"))
			return
		}

		if err != nil {
			log.Error("Failed to get schedule", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.UPSTREAM), "failed to get schedule"))
			return
		}

		log.Info("Schedule fetched", slog.Int64("id", id))
		render.JSON(w, r, Response{Schedule: *schedule})
	}
}
