package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/campuslife/campus-climate/internal/api/http"
	"github.com/campuslife/campus-climate/internal/climate"
	"github.com/campuslife/campus-climate/internal/config"
	"github.com/campuslife/campus-climate/internal/scheduler"
	signalsrc "github.com/campuslife/campus-climate/internal/signal"
	"github.com/campuslife/campus-climate/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Guideline tables are validated here; an incomplete table refuses to run.
	table, thresholds, err := cfg.LoadGuidelines()
	if err != nil {
		log.Fatalf("failed to load temperature guidelines: %v", err)
	}

	// Durable sqlite store when DB_PATH is set, in-memory otherwise.
	var climateStore climate.Store
	if cfg.DBPath != "" {
		s, err := store.OpenSQLite(cfg.DBPath)
		if err != nil {
			log.Fatalf("failed to open store: %v", err)
		}
		climateStore = s
	} else {
		log.Println("INFO: DB_PATH not set, using in-memory store")
		climateStore = store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	}

	// Shared HTTP client for outbound aggregator calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	signals := signalsrc.NewAggregatorClient(httpClient, cfg.AggregatorURL)

	// Core engine computing the hourly temperature readings.
	engine := climate.NewEngine(table, climateStore, signals, nil, climate.EngineConfig{
		BaselineDays:    cfg.BaselineDays,
		Retention:       cfg.ReadingRetention,
		LabelThresholds: thresholds,
	})

	// Scheduler driving hourly analysis and the daily reset.
	sched := scheduler.New(engine, cfg.Timezone, cfg.TickTimeout)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "campus-climate",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "campus-climate",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, engine)

	// Start server with graceful shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
