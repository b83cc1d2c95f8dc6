package routes

import (
	"context"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"

	database "workshop_backend/internals/databases"
)

func BaseRoutes(app *fiber.App, deps Deps) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Workshop registration API is running 🚀")
	})

	// load balancer probe
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
}

func HealthRoutes(api fiber.Router, deps Deps) {
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	api.Get("/health/detailed", func(c *fiber.Ctx) error {
		return detailedHealth(c, deps)
	})
}

func detailedHealth(c *fiber.Ctx, deps Deps) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status, httpStatus := "OK", fiber.StatusOK

	dbStatus := "connected"
	if deps.DB == nil {
		dbStatus, status, httpStatus = "not configured", "DOWN", fiber.StatusServiceUnavailable
	} else if err := database.Ping(ctx, deps.DB); err != nil {
		dbStatus, status, httpStatus = "error: "+err.Error(), "DOWN", fiber.StatusServiceUnavailable
	}

	whatsapp := fiber.Map{"status": "disconnected", "enabled": false}
	if deps.WhatsApp != nil {
		whatsapp = fiber.Map{
			"status":     deps.WhatsApp.ConnectionStatus(),
			"state":      deps.WhatsApp.State(),
			"enabled":    deps.WhatsApp.Enabled(),
			"queueDepth": deps.WhatsApp.QueueDepth(ctx),
		}
	}

	var outboxPending any
	if deps.Outbox != nil && dbStatus == "connected" {
		if n, err := deps.Outbox.CountPending(ctx); err == nil {
			outboxPending = n
		}
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	env := ""
	if deps.Config != nil {
		env = deps.Config.Server.Environment
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":        status,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"environment":   env,
		"uptimeSeconds": int(time.Since(deps.StartedAt).Seconds()),
		"memory": fiber.Map{
			"allocBytes":     mem.Alloc,
			"sysBytes":       mem.Sys,
			"heapInUseBytes": mem.HeapInuse,
			"numGC":          mem.NumGC,
			"goroutines":     runtime.NumGoroutine(),
		},
		"database":      dbStatus,
		"whatsapp":      whatsapp,
		"outboxPending": outboxPending,
	})
}
