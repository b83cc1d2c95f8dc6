package route

import (
	"github.com/gofiber/fiber/v2"

	"workshop_backend/internals/features/registrations/controller"
	"workshop_backend/internals/middlewares"
	authMiddleware "workshop_backend/internals/middlewares/auth"
)

// RegistrationRoutes: the public form and payment confirmation, plus the admin views.
func RegistrationRoutes(api fiber.Router, svc controller.Registrations, admin authMiddleware.AdminValidator) {
	ctrl := controller.NewRegistrationController(svc)
	guard := authMiddleware.RequireAdmin(admin)

	reg := api.Group("/registrations")

	// public
	reg.Post("/", middlewares.RegisterRateLimiter(), ctrl.CreateRegistration) // ➕ new registration
	reg.Post("/update-registration", ctrl.UpdatePayment)                     // 💳 legacy form, id in body
	reg.Patch("/:id", ctrl.UpdatePayment)                                    // 💳 payment confirmation
	reg.Post("/:id", ctrl.UpdatePayment)
	reg.Get("/:id/screenshot", ctrl.GetScreenshot) // 🖼️

	// admin
	reg.Get("/", guard, ctrl.ListRegistrations)
	reg.Get("/:id/notifications", guard, ctrl.ListNotifications)
	reg.Get("/:id", guard, ctrl.GetRegistration)
	reg.Put("/:id", guard, ctrl.AdminUpdateRegistration)
	reg.Delete("/:id", guard, ctrl.DeleteRegistration)
}
