package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"guardops/config"
	"guardops/database"
	"guardops/handlers"
	"guardops/metrics"
	"guardops/middleware"
	"guardops/scheduling"
)

func main() {
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if cfg.LogFormat == "console" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	middleware.SetJWTSecret(cfg.JWTSecret)

	if err := database.Init(cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}

	metrics.Register()

	engine := scheduling.New(database.GetDB(), logger)

	assignmentHandler := handlers.NewAssignmentHandler(engine, logger)
	scheduleHandler := handlers.NewScheduleHandler(engine, logger)
	attendanceHandler := handlers.NewAttendanceHandler(engine, logger)
	auditHandler := handlers.NewAuditHandler(engine, logger)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.RequestLogger(logger))

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.TenantAuth)

		// Assignment manager
		r.Post("/assignments", assignmentHandler.Assign)
		r.Post("/assignments/{id}/close", assignmentHandler.Close)
		r.Get("/guards/{id}/assignment", assignmentHandler.CheckExisting)

		// Rotation series and monthly pauta
		r.Post("/series/paint", scheduleHandler.PaintSeries)
		r.Get("/schedule/month", scheduleHandler.GetMonth)
		r.Put("/schedule/cell", scheduleHandler.UpsertCell)
		r.Get("/schedule/export", scheduleHandler.ExportMonth)

		// Attendance and extra shifts
		r.Get("/attendance/day", attendanceHandler.DaySheet)
		r.Patch("/attendance/{id}", attendanceHandler.Update)
		r.Get("/extra-shifts", attendanceHandler.ListExtraShifts)
		r.Get("/extra-shifts/export/csv", attendanceHandler.ExportCSV)

		// Approval lifecycle
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(middleware.RoleSupervisor, middleware.RoleAdmin))
			r.Post("/extra-shifts/{id}/approve", attendanceHandler.Approve)
			r.Post("/extra-shifts/{id}/reject", attendanceHandler.Reject)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(middleware.RoleAdmin))
			r.Post("/extra-shifts/{id}/pay", attendanceHandler.Pay)
		})

		r.Get("/audit", auditHandler.Trail)
	})

	logger.Info().Str("port", cfg.ServerPort).Msg("server starting")
	if err := http.ListenAndServe(":"+cfg.ServerPort, router); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
