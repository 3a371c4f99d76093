// Package main is the entry point for the plant tour station service.
// It initializes the station database, the remote CRM client, and the HTTP
// API the tour UI drives.
package main

import (
	"github.com/apex/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/config"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/database"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/handlers"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/remote"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/repository"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/services"
)

func main() {
	cfg := config.Load()

	var dbCfg *database.Config
	if cfg.DatabaseURL != "" {
		dbCfg = &database.Config{URL: cfg.DatabaseURL, MaxConns: 25, MinConns: 5}
	}
	if err := database.Connect(dbCfg); err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer database.Close()

	if err := database.RunMigrations(); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	// Remote store client. With no credentials configured the token provider
	// reports ErrNoToken and every save stages offline until a sync after
	// credentials arrive.
	tokens := remote.NewClientCredentialsProvider(
		cfg.TokenURL, cfg.ClientID, cfg.ClientSecret, cfg.Scope)
	store := remote.NewClient(cfg.RemoteBaseURL, tokens)

	tourRepo := repository.NewTourRepository()
	queueRepo := repository.NewQueueRepository()

	inspections := services.NewInspectionService(tourRepo, queueRepo, store)
	syncService := services.NewSyncService(tourRepo, queueRepo, store)

	tourHandler := handlers.NewTourHandler(inspections)
	syncHandler := handlers.NewSyncHandler(syncService)
	exportHandler := handlers.NewExportHandler(inspections)

	app := fiber.New()

	app.Use(recover.New())
	app.Use(handlers.RequestLogger())

	api := app.Group("/api")

	api.Post("/tours", tourHandler.StartTour)
	api.Get("/tours/:id", tourHandler.GetTour)
	api.Get("/tours/:id/pending", tourHandler.Pending)
	api.Post("/tours/:id/complete", tourHandler.CompleteTour)

	// Cycle capture and reconciled state
	api.Post("/tours/:id/cycles/:cycle", tourHandler.SaveCycle)
	api.Get("/tours/:id/cycles", tourHandler.CycleOverview)

	// Scoring
	api.Get("/tours/:id/summary", tourHandler.Summary)
	api.Get("/tours/:id/summary/export", exportHandler.ExportSummary)

	// Offline queue
	api.Post("/tours/:id/offline", syncHandler.EnterOffline)
	api.Post("/tours/:id/sync", syncHandler.Sync)
	api.Delete("/tours/:id/queue", syncHandler.Cancel)

	log.WithField("port", cfg.Port).Info("plant tour station starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
