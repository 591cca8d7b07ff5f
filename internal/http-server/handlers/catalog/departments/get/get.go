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

type DepartmentProvider interface {
	ListDepartments(ctx context.Context) ([]api.Department, error)
}

type ListResponse struct {
	response.Response
	Departments []api.Department `json:"departments"`
}

func New(log *slog.Logger, provider DepartmentProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.catalog.departments.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		departments, err := provider.ListDepartments(r.Context())
		if err != nil {
			log.Error("Failed to list departments", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.UPSTREAM), "failed to list departments"))
			return
		}

		log.Info("Departments listed", slog.Int("count", len(departments)))
		render.JSON(w, r, ListResponse{Departments: departments})
	}
}
