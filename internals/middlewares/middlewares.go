package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"workshop_backend/internals/configs"
	"workshop_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the global chain in order: recover, request id,
// access log, CORS, compression, etag and the global rate limiter.
func SetupMiddlewares(app *fiber.App, cfg *configs.Config) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestID(cfg.Server.RequestBudget))
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware(cfg.Server.CorsOrigins))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(GlobalRateLimiter())
}
