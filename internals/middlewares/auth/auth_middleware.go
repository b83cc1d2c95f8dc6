// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const (
	HeaderAdminKey      = "X-Admin-Key"
	HeaderAdminPassword = "Admin-Password"
)

// AdminValidator checks a candidate shared secret.
type AdminValidator interface {
	Validate(candidate string) error
}

// RequireAdmin guards a route with the shared admin secret, taken from
// X-Admin-Key or admin-password (the header the content editor sends).
func RequireAdmin(v AdminValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := strings.TrimSpace(c.Get(HeaderAdminKey))
		if key == "" {
			key = strings.TrimSpace(c.Get(HeaderAdminPassword))
		}
		if key == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Admin API key is required")
		}
		if err := v.Validate(key); err != nil {
			log.WithFields(log.Fields{
				"ip":   c.IP(),
				"path": c.Path(),
			}).Warn("rejected admin request")
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid admin API key")
		}
		c.Locals("is_admin", true)
		return c.Next()
	}
}

func IsAdmin(c *fiber.Ctx) bool {
	v, _ := c.Locals("is_admin").(bool)
	return v
}
