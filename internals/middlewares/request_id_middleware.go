package middlewares

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// RequestID tags every request with X-Request-ID (kept from the caller when present),
// bounds the handler's context by budget and logs the outcome.
func RequestID(budget time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)

		start := time.Now()
		if budget > 0 {
			ctx, cancel := context.WithTimeout(c.UserContext(), budget)
			defer cancel()
			c.SetUserContext(ctx)
		}

		err := c.Next()

		entry := log.WithFields(log.Fields{
			"request_id": id,
			"method":     c.Method(),
			"path":       c.OriginalURL(),
			"status":     c.Response().StatusCode(),
			"duration":   time.Since(start).String(),
			"ip":         c.IP(),
		})
		if err != nil {
			entry = entry.WithError(err)
		}
		entry.Debug("request")
		return err
	}
}
