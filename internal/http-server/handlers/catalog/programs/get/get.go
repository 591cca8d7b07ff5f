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

type ProgramProvider interface {
	ListPrograms(ctx context.Context) ([]api.Program, error)
	ProgramsByDepartment(ctx context.Context, departmentID int64) ([]api.Program, error)
}

type ProgramGetter interface {
	GetProgram(ctx context.Context, id int64) (*api.Program, error)
}

type ListResponse struct {
	response.Response
	Programs []api.Program `json:"programs"`
}

type Response struct {
	response.Response
	Program api.Program `json:"program"`
}

// New lists programs, optionally scoped to one department via the
// departmentId query parameter.
func New(log *slog.Logger, provider ProgramProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.catalog.programs.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var (
			programs []api.Program
			err      error
		)

		if raw := r.URL.Query().Get("departmentId"); raw != "" {
			departmentID, parseErr := strconv.ParseInt(raw, 10, 64)
			if parseErr != nil {
				log.Error("Invalid department id", sl.Err(parseErr))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "departmentId must be an integer"))
				return
			}
			programs, err = provider.ProgramsByDepartment(r.Context(), departmentID)
		} else {
			programs, err = provider.ListPrograms(r.Context())
		}

		if err != nil {
			log.Error("Failed to list programs", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.UPSTREAM), "failed to list programs"))
			return
		}

		log.Info("Programs listed", slog.Int("count", len(programs)))
		render.JSON(w, r, ListResponse{Programs: programs})
	}
}

func NewByID(log *slog.Logger, getter ProgramGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.catalog.programs.get.NewByID"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("Invalid program id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "id must be an integer"))
			return
		}

		program, err := getter.GetProgram(r.Context(), id)

		if upstream.IsNotFound(err) {
			log.Error("Program not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "program not found"))
			return
		}

		if err != nil {
			log.Error("Failed to get program", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.UPSTREAM), "failed to get program"))
			return
		}

		log.Info("Program fetched", slog.Int64("id", id))
		render.JSON(w, r, Response{Program: *program})
	}
}
