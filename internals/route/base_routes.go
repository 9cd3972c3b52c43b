package routes

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"academykit_backend/internals/container"
	database "academykit_backend/internals/databases"
)

func BaseRoutes(app *fiber.App, a *container.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(a.Config.App.Name + " API")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		dbStatus, serverStatus, httpStatus := "Connected", "OK", fiber.StatusOK
		if err := database.Ping(ctx, a.DB); err != nil {
			dbStatus, serverStatus, httpStatus = "Database connection error", "DOWN", fiber.StatusServiceUnavailable
		}
		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(a.StartedAt).Seconds()),
			"environment":    a.Config.App.Env,
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if !strings.EqualFold(strings.TrimSpace(a.Config.Storage.Provider), "oss") {
		app.Static(a.Config.Storage.PublicPath, a.Config.Storage.LocalDir, fiber.Static{
			Browse: false,
			MaxAge: 3600,
		})
	}
}
