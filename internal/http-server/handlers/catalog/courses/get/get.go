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

type CourseProvider interface {
	ListCourses(ctx context.Context) ([]api.Course, error)
	CoursesByProgram(ctx context.Context, programID int64) ([]api.Course, error)
}

type CourseGetter interface {
	GetCourse(ctx context.Context, id int64) (*api.Course, error)
}

type ListResponse struct {
	response.Response
	Courses []api.Course `json:"courses"`
}

type Response struct {
	response.Response
	Course api.Course `json:"course"`
}

// New lists courses, optionally scoped to one program via the programId
// query parameter.
func New(log *slog.Logger, provider CourseProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.catalog.courses.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var (
			courses []api.Course
			err     error
		)

		if raw := r.URL.Query().Get("programId"); raw != "" {
			programID, parseErr := strconv.ParseInt(raw, 10, 64)
			if parseErr != nil {
				log.Error("Invalid program id", sl.Err(parseErr))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "programId must be an integer"))
				return
			}
			courses, err = provider.CoursesByProgram(r.Context(), programID)
		} else {
			courses, err = provider.ListCourses(r.Context())
		}

		if err != nil {
			log.Error("Failed to list courses", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.UPSTREAM), "failed to list courses"))
			return
		}

		log.Info("Courses listed", slog.Int("count", len(courses)))
		render.JSON(w, r, ListResponse{Courses: courses})
	}
}

func NewByID(log *slog.Logger, getter CourseGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.catalog.courses.get.NewByID"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("Invalid course id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "id must be an integer"))
			return
		}

		course, err := getter.GetCourse(r.Context(), id)

		if upstream.IsNotFound(err) {
			log.Error("Course not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "course not found"))
			return
		}

		if err != nil {
			log.Error("Failed to get course", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.UPSTREAM), "failed to get course"))
			return
		}

		log.Info("Course fetched", slog.Int64("id", id))
		render.JSON(w, r, Response{Course: *course})
	}
}
