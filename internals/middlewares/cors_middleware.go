package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	authMiddleware "workshop_backend/internals/middlewares/auth"
)

// CorsMiddleware allows the configured front-end origins, including the admin headers.
func CorsMiddleware(origins []string) fiber.Handler {
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			allowed = append(allowed, o)
		}
	}
	return cors.New(cors.Config{
		AllowOrigins: strings.Join(allowed, ","),
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: strings.Join([]string{
			"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID",
			authMiddleware.HeaderAdminKey, authMiddleware.HeaderAdminPassword,
		}, ", "),
		ExposeHeaders:    "X-Request-ID",
		AllowCredentials: false,
	})
}
