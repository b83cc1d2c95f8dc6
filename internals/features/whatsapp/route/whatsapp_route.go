package route

import (
	"github.com/gofiber/fiber/v2"

	whatsappController "workshop_backend/internals/features/whatsapp/controller"
	whatsappService "workshop_backend/internals/features/whatsapp/service"
	authMiddleware "workshop_backend/internals/middlewares/auth"
)

func WhatsAppRoutes(router fiber.Router, svc *whatsappService.Service, admin authMiddleware.AdminValidator) {
	ctrl := whatsappController.NewWhatsAppController(svc)

	wa := router.Group("/whatsapp")
	wa.Get("/status", ctrl.GetStatus)
	wa.Post("/generate-link/:phone", ctrl.GenerateLink)

	// 🔐 sending from the business number is admin only
	wa.Post("/send/:phone", authMiddleware.RequireAdmin(admin), ctrl.SendMessage)
}
