package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"workshop_backend/internals/features/contents/dto"
	"workshop_backend/internals/features/contents/model"
	helper "workshop_backend/internals/helpers"
)

type ContentController struct {
	DB *gorm.DB
}

func NewContentController(db *gorm.DB) *ContentController {
	return &ContentController{DB: db}
}

func notFound(divID string) error {
	return fiber.NewError(fiber.StatusNotFound, "Content with divId "+divID+" not found")
}

func (ctrl *ContentController) find(c *fiber.Ctx, divID string) (model.ContentModel, error) {
	var row model.ContentModel
	err := ctrl.DB.WithContext(c.UserContext()).
		Where("content_div_id = ?", divID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return row, notFound(divID)
	}
	if err != nil {
		return row, fiber.NewError(fiber.StatusInternalServerError, "Failed to retrieve content")
	}
	return row, nil
}

// ======================
// List (public)
// ======================
func (ctrl *ContentController) ListContents(c *fiber.Ctx) error {
	var rows []model.ContentModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Order("content_id ASC").
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to retrieve content")
	}
	return c.JSON(dto.ToContentDTOs(rows))
}

// ======================
// Get by divId (public)
// ======================
func (ctrl *ContentController) GetContent(c *fiber.Ctx) error {
	row, err := ctrl.find(c, strings.TrimSpace(c.Params("divId")))
	if err != nil {
		return err
	}
	return c.JSON(dto.ToContentDTO(row))
}

// ======================
// Create (admin)
// ======================
func (ctrl *ContentController) CreateContent(c *fiber.Ctx) error {
	var body dto.CreateContentRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	body.Normalize()
	if err := helper.Validator().Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	row := body.ToModel()
	if err := ctrl.DB.WithContext(c.UserContext()).Create(&row).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return fiber.NewError(fiber.StatusConflict, "Content with divId "+row.ContentDivID+" already exists")
		}
		log.WithError(err).WithField("div_id", row.ContentDivID).Error("create content failed")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create content")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.ToContentDTO(row))
}

// ======================
// Update (admin, partial)
// ======================
func (ctrl *ContentController) UpdateContent(c *fiber.Ctx) error {
	divID := strings.TrimSpace(c.Params("divId"))

	var body dto.UpdateContentRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	body.Normalize()
	if err := helper.Validator().Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	row, err := ctrl.find(c, divID)
	if err != nil {
		return err
	}
	body.ApplyTo(&row)

	if err := ctrl.DB.WithContext(c.UserContext()).Save(&row).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return fiber.NewError(fiber.StatusConflict, "Content with divId "+row.ContentDivID+" already exists")
		}
		log.WithError(err).WithField("div_id", divID).Error("update content failed")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update content")
	}

	return c.JSON(dto.ToContentDTO(row))
}

// ======================
// Delete (admin)
// ======================
func (ctrl *ContentController) DeleteContent(c *fiber.Ctx) error {
	divID := strings.TrimSpace(c.Params("divId"))

	res := ctrl.DB.WithContext(c.UserContext()).
		Where("content_div_id = ?", divID).
		Delete(&model.ContentModel{})
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete content")
	}
	if res.RowsAffected == 0 {
		return notFound(divID)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
