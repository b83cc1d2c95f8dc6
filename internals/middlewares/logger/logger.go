package logger

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	log "github.com/sirupsen/logrus"
)

// LoggerMiddleware writes one access line per request through logrus.
func LoggerMiddleware() fiber.Handler {
	return logger.New(logger.Config{
		Output:     log.StandardLogger().WriterLevel(log.InfoLevel),
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Format:     "${ip} ${locals:reqid} ${method} ${path} ${status} ${latency}\n",
	})
}
