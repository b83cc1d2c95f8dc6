package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"workshop_backend/internals/features/whatsapp/dto"
	whatsappService "workshop_backend/internals/features/whatsapp/service"
	helper "workshop_backend/internals/helpers"
)

type WhatsAppController struct {
	Service *whatsappService.Service
}

func NewWhatsAppController(svc *whatsappService.Service) *WhatsAppController {
	return &WhatsAppController{Service: svc}
}

// GET /api/whatsapp/status
func (wc *WhatsAppController) GetStatus(c *fiber.Ctx) error {
	return c.JSON(dto.StatusResponse{
		Status:      wc.Service.ConnectionStatus(),
		State:       string(wc.Service.State()),
		Enabled:     wc.Service.Enabled(),
		QueueDepth:  wc.Service.QueueDepth(c.UserContext()),
		CountryCode: wc.Service.CountryCode(),
	})
}

func (wc *WhatsAppController) parseMessage(c *fiber.Ctx) (string, string, error) {
	phone := strings.TrimSpace(c.Params("phone"))
	var req dto.MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "Message is required")
	}
	if err := helper.Validator().Struct(req); err != nil {
		return "", "", err
	}
	if whatsappService.NormalizePhone(phone, wc.Service.CountryCode()) == "" {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "Phone number is invalid")
	}
	return phone, req.Message, nil
}

// POST /api/whatsapp/generate-link/:phone
func (wc *WhatsAppController) GenerateLink(c *fiber.Ctx) error {
	phone, message, err := wc.parseMessage(c)
	if err != nil {
		return err
	}
	return c.JSON(dto.LinkResponse{Success: true, Link: wc.Service.LinkFor(phone, message)})
}

// POST /api/whatsapp/send/:phone
func (wc *WhatsAppController) SendMessage(c *fiber.Ctx) error {
	phone, message, err := wc.parseMessage(c)
	if err != nil {
		return err
	}

	res, err := wc.Service.Send(c.UserContext(), phone, message)
	if errors.Is(err, whatsappService.ErrInvalidPhone) {
		return fiber.NewError(fiber.StatusBadRequest, "Phone number is invalid")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Failed to send WhatsApp message")
	}
	return c.JSON(fiber.Map{"success": true, "result": res})
}
