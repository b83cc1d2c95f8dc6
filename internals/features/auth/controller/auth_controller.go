package controller

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"workshop_backend/internals/features/auth/dto"
	helper "workshop_backend/internals/helpers"
	authMiddleware "workshop_backend/internals/middlewares/auth"
)

type AuthController struct {
	Admin authMiddleware.AdminValidator
}

func NewAuthController(admin authMiddleware.AdminValidator) *AuthController {
	return &AuthController{Admin: admin}
}

// POST /api/auth/admin
func (ac *AuthController) AdminLogin(c *fiber.Ctx) error {
	var req dto.AdminAuthRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validator().Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if err := ac.Admin.Validate(req.Password); err != nil {
		log.WithField("ip", c.IP()).Warn("admin login rejected")
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid admin password")
	}
	return c.JSON(dto.AdminAuthResponse{Success: true})
}
