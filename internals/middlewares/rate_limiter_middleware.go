package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "workshop_backend/internals/helpers"
)

func ipLimiter(max int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// GlobalRateLimiter applies to every route.
func GlobalRateLimiter() fiber.Handler {
	return ipLimiter(100, time.Minute, "Too many requests. Please try again later.")
}

// LoginRateLimiter guards the admin password check.
func LoginRateLimiter() fiber.Handler {
	return ipLimiter(5, time.Minute, "Too many login attempts. Please wait a moment.")
}

// RegisterRateLimiter guards the public registration form.
func RegisterRateLimiter() fiber.Handler {
	return ipLimiter(10, 10*time.Minute, "Too many registrations from this address. Please try again in a few minutes.")
}
