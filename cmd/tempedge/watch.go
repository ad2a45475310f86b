package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/tempedge/internal/api/http"
	"github.com/i474232898/tempedge/internal/scheduler"
)

// newServer builds the read-only JSON view over the report store.
func (a *app) newServer() *fiber.App {
	server := fiber.New(fiber.Config{
		AppName:               appName,
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
	if a.cfg.AppEnv == "dev" {
		server.Use(logger.New())
	}
	server.Use(recover.New())

	server.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  appName,
			"stations": a.store.Stations(),
		})
	})

	httpapi.RegisterRoutes(server, a.service, a.cfg)
	return server
}

func (a *app) watch(ctx context.Context, args []string) error {
	fs := newFlagSet("watch")
	stationIDs := fs.StringSliceP("station", "s", nil, "station ids (default all configured)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	stations, err := a.cfg.SelectStations(*stationIDs)
	if err != nil {
		return err
	}

	// Scheduler that periodically scans and stores reports.
	sched := scheduler.New(stations, a.cfg.FetchInterval, a.service, a.logger)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	server := a.newServer()
	go func() {
		a.logger.Info("listening", "port", a.cfg.Port)
		if err := server.Listen(":" + a.cfg.Port); err != nil {
			a.logger.Error("fiber server stopped", "err", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		a.logger.Warn("error during shutdown", "err", err)
	}
	return nil
}
