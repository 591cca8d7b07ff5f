package get

import (
	"roombook-gateway/api"
	"roombook-gateway/pkg/response"
	"roombook-gateway/pkg/sl"
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type RoomProvider interface {
	ListRooms(ctx context.Context) ([]api.Room, error)
}

type AvailableRoomFinder interface {
	FindAvailableRooms(ctx context.Context, date, startTime, endTime string) ([]api.Room, error)
}

type BuildingProvider interface {
	ListBuildings(ctx context.Context) ([]string, error)
}

type ListResponse struct {
	response.Response
	Rooms []api.Room `json:"rooms"`
}

type BuildingsResponse struct {
	response.Response
	Buildings []string `json:"buildings"`
}

func New(log *slog.Logger, provider RoomProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.rooms.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		rooms, err := provider.ListRooms(r.Context())
		if err != nil {
			log.Error("Failed to list rooms", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.UPSTREAM), "failed to list rooms"))
			return
		}

		log.Info("Rooms listed", slog.Int("count", len(rooms)))
		render.JSON(w, r, ListResponse{Rooms: rooms})
	}
}

// NewAvailable lists rooms free for the given date and time window. All
// three query parameters are required.
func NewAvailable(log *slog.Logger, finder AvailableRoomFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.rooms.get.NewAvailable"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		q := r.URL.Query()
		date, startTime, endTime := q.Get("date"), q.Get("startTime"), q.Get("endTime")
		if date == "" || startTime == "" || endTime == "" {
			log.Error("Missing availability query parameters")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "date, startTime and endTime are required"))
			return
		}

		rooms, err := finder.FindAvailableRooms(r.Context(), date, startTime, endTime)
		if err != nil {
			log.Error("Failed to find available rooms", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.UPSTREAM), "failed to find available rooms"))
			return
		}

		log.Info("Available rooms found", slog.Int("count", len(rooms)))
		render.JSON(w, r, ListResponse{Rooms: rooms})
	}
}

func NewBuildings(log *slog.Logger, provider BuildingProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.rooms.get.NewBuildings"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		buildings, err := provider.ListBuildings(r.Context())
		if err != nil {
			log.Error("Failed to list buildings", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.UPSTREAM), "failed to list buildings"))
			return
		}

		log.Info("Buildings listed", slog.Int("count", len(buildings)))
		render.JSON(w, r, BuildingsResponse{Buildings: buildings})
	}
}
