package status

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
)

type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id int64, status string) (*api.Schedule, error)
}

type Response struct {
	response.Response
	Schedule api.Schedule `json:"schedule"`
}

// New moves one schedule through the approval workflow. The target status
// comes as a query parameter.
func New(log *slog.Logger, updater StatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedules.status.New"

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

		newStatus := r.URL.Query().Get("status")
		if newStatus == "" {
			log.Error("status is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "status is required"))
			return
		}

		schedule, err := updater.UpdateStatus(r.Context(), id, newStatus)

		if errors.Is(err, service.ErrBadStatus) {
			log.Error("Unknown status", slog.String("status", newStatus))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), service.ErrBadStatus.Error()))
			return
		}

		if upstream.IsNotFound(err) {
			log.Error("Schedule not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "schedule not found"))
			return
		}

		if err != nil {
			log.Error("Failed to update status", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.UPSTREAM), "failed to update status"))
			return
		}

		log.Info("Status updated", slog.Int64("id", id), slog.String("status", newStatus))
		render.JSON(w, r, Response{Schedule: *schedule})
	}
}
