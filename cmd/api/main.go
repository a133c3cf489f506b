// Package main is the entry point for the itinerary planner API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/robfig/cron/v3"

	"github.com/homiapp/planner-api/internal/bridge"
	"github.com/homiapp/planner-api/internal/config"
	"github.com/homiapp/planner-api/internal/geo"
	"github.com/homiapp/planner-api/internal/handler"
	"github.com/homiapp/planner-api/internal/middleware"
	"github.com/homiapp/planner-api/internal/persist"
	"github.com/homiapp/planner-api/internal/photo"
	"github.com/homiapp/planner-api/internal/service"
	"github.com/homiapp/planner-api/internal/store"
	"github.com/homiapp/planner-api/migrations"
)

// saveTimeout bounds each snapshot write to the persistence backend.
const saveTimeout = 5 * time.Second

// maxBodyBytes caps request bodies; multipart photo batches are the largest.
const maxBodyBytes = 64 << 20

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Snapshot backend -------------------------------------------------
	var snapshots persist.SnapshotStore
	var fileStore *persist.FileStore

	switch cfg.SnapshotBackend {
	case config.BackendFile:
		fileStore = persist.NewFileStore(cfg.SnapshotFile)
		snapshots = fileStore
		slog.Info("using file snapshot backend", "path", cfg.SnapshotFile)

	case config.BackendPostgres:
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pool.Ping(context.Background()); err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		if err := migrate(cfg.DatabaseURL); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		snapshots = persist.NewPGStore(pool)
		slog.Info("using postgres snapshot backend")
	}

	// --- State ------------------------------------------------------------
	// Every mutation pushes the full snapshot to the backend. Write errors
	// are logged rather than propagated: the in-memory state is already
	// committed and the next mutation will retry the save.
	persistHook := func(snap store.Snapshot) {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := snapshots.Save(ctx, snap); err != nil {
			slog.Error("snapshot save failed", "error", err)
		}
	}

	loadCtx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	snap, found, err := snapshots.Load(loadCtx)
	cancel()
	if err != nil {
		slog.Error("failed to load snapshot", "error", err)
		os.Exit(1)
	}

	var trips *store.TripStore
	if found {
		trips = store.Restore(snap, persistHook)
		slog.Info("restored snapshot", "trips", len(snap.Trips))
	} else {
		trips = store.New(persistHook)
		slog.Info("starting with empty state")
	}

	// --- Services ---------------------------------------------------------
	geocoder := geo.NewClient(cfg.GeocoderBaseURL, nil)
	tripSvc := service.NewTripService(trips, nil)
	activitySvc := service.NewActivityService(trips)
	exportSvc := service.NewExportService(trips)
	mapBridge := bridge.New(geocoder, trips)
	pipeline := photo.NewPipeline(trips)

	// --- Scheduled backups ------------------------------------------------
	if cfg.BackupSchedule != "" && fileStore != nil {
		c := cron.New()
		if _, err := c.AddFunc(cfg.BackupSchedule, func() {
			if err := fileStore.Backup(); err != nil {
				slog.Error("snapshot backup failed", "error", err)
			} else {
				slog.Info("snapshot backup written")
			}
		}); err != nil {
			slog.Error("invalid backup schedule", "schedule", cfg.BackupSchedule, "error", err)
			os.Exit(1)
		}
		c.Start()
		defer c.Stop()
		slog.Info("scheduled snapshot backups", "schedule", cfg.BackupSchedule)
	}

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID → RealIP → Logger → Recoverer → CORS → body cap.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))

	api := handler.NewServer(tripSvc, activitySvc, exportSvc, pipeline, mapBridge, geocoder)
	r.Mount("/", api.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies pending goose migrations from the embedded FS.
func migrate(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}
