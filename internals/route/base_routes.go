package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	database "gymku_backend/internals/databases"
	routeDetails "gymku_backend/internals/route/details"
)

func BaseRoutes(app *fiber.App, d routeDetails.Deps) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Gymku API jalan 🚀")
	})

	app.Get("/health", healthHandler(d))

	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	// file upload lokal disajikan langsung; OSS punya URL publik sendiri
	if d.Cfg != nil && d.Cfg.Storage.Driver == "local" {
		app.Static(d.Cfg.Storage.PublicBase, d.Cfg.Storage.LocalDir, fiber.Static{MaxAge: 3600})
	}
}

func healthHandler(d routeDetails.Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		if err := database.Ping(d.DB); err != nil {
			dbStatus = "Database connection error"
			serverStatus = "DOWN"
			httpStatus = fiber.StatusServiceUnavailable
		}

		env := ""
		if d.Cfg != nil {
			env = d.Cfg.AppEnv
		}
		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"environment":    env,
		})
	}
}
