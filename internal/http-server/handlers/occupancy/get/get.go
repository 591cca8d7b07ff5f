package get

import (
	"roombook-gateway/api"
	"roombook-gateway/pkg/response"
	"roombook-gateway/pkg/sl"
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type OccupancyProvider interface {
	RoomOccupancy(ctx context.Context, roomID int64, date string) (*api.OccupancyResponse, error)
}

type Response struct {
	response.Response
	api.OccupancyResponse
}

// New renders the half-hour occupancy grid for one room on one date. The
// date query parameter is required and must be YYYY-MM-DD.
func New(log *slog.Logger, provider OccupancyProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.occupancy.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		roomID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("Invalid room id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "room id must be an integer"))
			return
		}

		date := r.URL.Query().Get("date")
		if date == "" {
			log.Error("date is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "date is required"))
			return
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			log.Error("Invalid date", slog.String("date", date))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "date must be YYYY-MM-DD"))
			return
		}

		grid, err := provider.RoomOccupancy(r.Context(), roomID, date)

		if err != nil {
			log.Error("Failed to build occupancy grid", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.UPSTREAM), "failed to build occupancy grid"))
			return
		}

		log.Info("Occupancy grid built",
			slog.Int64("room_id", roomID),
			slog.String("date", date),
		)

		render.JSON(w, r, Response{OccupancyResponse: *grid})
	}
}
