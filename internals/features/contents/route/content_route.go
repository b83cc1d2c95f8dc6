package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"workshop_backend/internals/features/contents/controller"
	authMiddleware "workshop_backend/internals/middlewares/auth"
)

// ContentRoutes: reads are public, writes need the admin secret.
func ContentRoutes(api fiber.Router, db *gorm.DB, admin authMiddleware.AdminValidator) {
	ctrl := controller.NewContentController(db)

	content := api.Group("/content")
	content.Get("/", ctrl.ListContents)     // 📄 all blocks
	content.Get("/:divId", ctrl.GetContent) // 🔍 one block

	guard := authMiddleware.RequireAdmin(admin)
	content.Post("/", guard, ctrl.CreateContent)          // ➕
	content.Put("/:divId", guard, ctrl.UpdateContent)     // ✏️
	content.Delete("/:divId", guard, ctrl.DeleteContent) // ❌
}
