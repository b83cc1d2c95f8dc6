package route

import (
	"github.com/gofiber/fiber/v2"

	authController "workshop_backend/internals/features/auth/controller"
	"workshop_backend/internals/middlewares"
	authMiddleware "workshop_backend/internals/middlewares/auth"
)

func AuthRoutes(router fiber.Router, admin authMiddleware.AdminValidator) {
	ctrl := authController.NewAuthController(admin)

	auth := router.Group("/auth")
	auth.Post("/admin", middlewares.LoginRateLimiter(), ctrl.AdminLogin)
}
