package batchdelete

import (
	"roombook-gateway/api"
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

type BatchDeleter interface {
	BatchDelete(ctx context.Context, ids []int64) error
}

type Request struct {
	api.BatchDeleteRequest
}

func New(log *slog.Logger, deleter BatchDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedules.batchdelete.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		if err := validator.New().Struct(req.BatchDeleteRequest); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		if err := deleter.BatchDelete(r.Context(), req.IDs); err != nil {
			log.Error("Failed to batch delete schedules", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.UPSTREAM), "failed to delete schedules"))
			return
		}

		log.Info("Schedules deleted", slog.Int("count", len(req.IDs)))
		w.WriteHeader(http.StatusNoContent)
	}
}
