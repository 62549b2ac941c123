package app

import (
	"context"
	"fmt"

	"tripmate/internal/config"
	"tripmate/internal/database"
	"tripmate/internal/events"
	handlers "tripmate/internal/handler"
	"tripmate/internal/logger"
	"tripmate/internal/repository"
	"tripmate/internal/service"
	"tripmate/internal/storage"
)

type App struct {
	DB       *database.DB
	Repo     *repository.Repository
	Services *service.Service
	Handlers *handlers.Handlers
	Bus      *events.Bus
	cfg      *config.Config
}

// New connects to PostgreSQL, applies migrations and wires every layer.
// Image storage is optional: without MinIO, uploads answer 500 and the rest keeps working.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.ConnectDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.RunMigrations(ctx); err != nil {
		db.CloseDB()
		return nil, err
	}

	var objects storage.Storage
	minioClient, err := storage.NewMinIOClient(ctx, cfg)
	if err != nil {
		logger.Log.WithError(err).Warn("image storage unavailable, uploads disabled")
	} else {
		objects = minioClient
	}

	repo := repository.NewRepository(db.DB)
	bus := events.NewBus()
	services := service.NewService(database.NewTransactionManager(db.DB), repo, cfg, objects, bus)

	return &App{
		DB:       db,
		Repo:     repo,
		Services: services,
		Handlers: handlers.NewHandlers(services, cfg),
		Bus:      bus,
		cfg:      cfg,
	}, nil
}

// StartWorker subscribes the notification retry worker. The returned channel
// closes once the worker has drained after ctx is cancelled.
func (a *App) StartWorker(ctx context.Context) (<-chan struct{}, error) {
	worker := events.NewRetryWorker(a.Bus, a.Services.Notification, a.cfg.Notifications)
	done, err := worker.Start(ctx)
	if err != nil {
		return nil, fmt.Errorf("start retry worker: %w", err)
	}
	return done, nil
}

func (a *App) Close() {
	if err := a.Bus.Close(); err != nil {
		logger.Log.WithError(err).Warn("close event bus")
	}
	if err := a.DB.CloseDB(); err != nil {
		logger.Log.WithError(err).Warn("close database")
	}
}
