package main

import (
	"roombook-gateway/internal/cache"
	"roombook-gateway/internal/config"
	courseGet "roombook-gateway/internal/http-server/handlers/catalog/courses/get"
	departmentGet "roombook-gateway/internal/http-server/handlers/catalog/departments/get"
	programGet "roombook-gateway/internal/http-server/handlers/catalog/programs/get"
	occupancyGet "roombook-gateway/internal/http-server/handlers/occupancy/get"
	roomGet "roombook-gateway/internal/http-server/handlers/rooms/get"
	scheduleBatchDelete "roombook-gateway/internal/http-server/handlers/schedules/batchdelete"
	scheduleBatchStatus "roombook-gateway/internal/http-server/handlers/schedules/batchstatus"
	scheduleCreate "roombook-gateway/internal/http-server/handlers/schedules/create"
	scheduleDelete "roombook-gateway/internal/http-server/handlers/schedules/delete"
	scheduleGet "roombook-gateway/internal/http-server/handlers/schedules/get"
	scheduleRecurring "roombook-gateway/internal/http-server/handlers/schedules/recurring"
	scheduleStatus "roombook-gateway/internal/http-server/handlers/schedules/status"
	scheduleUpdate "roombook-gateway/internal/http-server/handlers/schedules/update"
	"roombook-gateway/internal/http-server/session"
	svc "roombook-gateway/internal/service"
	"roombook-gateway/internal/upstream"
	"roombook-gateway/pkg/handlers/slogpretty"
	"roombook-gateway/pkg/middleware/mwlogger"
	"roombook-gateway/pkg/sl"
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-Id, X-User-Name, X-User-Email")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting booking gateway", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	client := upstream.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)

	var responseCache cache.Cache
	if cfg.Cache.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(cfg.Cache.RedisAddr)
		if err != nil {
			log.Error("Failed to init redis cache", sl.Err(err))
			os.Exit(1)
		}
		responseCache = redisCache
		log.Info("Response cache enabled", slog.String("addr", cfg.Cache.RedisAddr))
	} else {
		log.Info("Response cache disabled")
	}

	service := svc.NewService(client, responseCache, cfg.Cache.TTL, cfg.EditResetsStatus)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)
	router.Use(session.Middleware)

	// Schedules
	router.Get("/api/schedules", scheduleGet.New(log, service))
	router.Get("/api/schedules/{id}", scheduleGet.NewByID(log, service))
	router.Post("/api/schedules", scheduleCreate.New(log, service))
	router.Post("/api/schedules/recurring", scheduleRecurring.New(log, service))
	router.Put("/api/schedules/{id}", scheduleUpdate.New(log, service))
	router.Patch("/api/schedules/{id}/status", scheduleStatus.New(log, service))
	router.Patch("/api/schedules/status", scheduleBatchStatus.New(log, service))
	router.Delete("/api/schedules/{id}", scheduleDelete.New(log, service))
	router.Delete("/api/schedules", scheduleBatchDelete.New(log, service))

	// Rooms
	router.Get("/api/rooms", roomGet.New(log, service))
	router.Get("/api/rooms/available", roomGet.NewAvailable(log, service))
	router.Get("/api/rooms/buildings", roomGet.NewBuildings(log, service))
	router.Get("/api/rooms/{id}/occupancy", occupancyGet.New(log, service))

	// Catalog
	router.Get("/api/courses", courseGet.New(log, service))
	router.Get("/api/courses/{id}", courseGet.NewByID(log, service))
	router.Get("/api/departments", departmentGet.New(log, service))
	router.Get("/api/programs", programGet.New(log, service))
	router.Get("/api/programs/{id}", programGet.NewByID(log, service))

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if responseCache != nil {
		if err := responseCache.Close(); err != nil {
			log.Error("Failed to close response cache", sl.Err(err))
		} else {
			log.Info("Response cache closed")
		}
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
