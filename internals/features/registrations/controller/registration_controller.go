package controller

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	notifDTO "workshop_backend/internals/features/notifications/dto"
	notifModel "workshop_backend/internals/features/notifications/model"
	"workshop_backend/internals/features/registrations/dto"
	"workshop_backend/internals/features/registrations/model"
	"workshop_backend/internals/features/registrations/repository"
	"workshop_backend/internals/features/registrations/service"
	helper "workshop_backend/internals/helpers"
)

const screenshotField = "paymentScreenshot"

// Registrations is what the HTTP layer needs from the registration service.
type Registrations interface {
	Create(ctx context.Context, req dto.CreateRegistrationRequest, shot *service.Screenshot) (*model.RegistrationModel, error)
	UpdatePayment(ctx context.Context, id string, status *string, shot *service.Screenshot) (*model.RegistrationModel, error)
	AdminUpdate(ctx context.Context, id string, req dto.AdminUpdateRegistrationRequest, shot *service.Screenshot) (*model.RegistrationModel, error)
	List(ctx context.Context, f repository.ListFilter, offset, limit int) ([]model.RegistrationModel, int64, error)
	Get(ctx context.Context, id string) (*model.RegistrationModel, error)
	Remove(ctx context.Context, id string) error
	Screenshot(ctx context.Context, id string) (*service.Screenshot, error)
	Notifications(ctx context.Context, id string) ([]notifModel.OutboxModel, error)
	ScreenshotURL(id string) string
}

type RegistrationController struct {
	Service Registrations
}

func NewRegistrationController(svc Registrations) *RegistrationController {
	return &RegistrationController{Service: svc}
}

func (rc *RegistrationController) toDTO(m *model.RegistrationModel) dto.RegistrationDTO {
	return dto.ToRegistrationDTO(*m, rc.Service.ScreenshotURL)
}

// fail maps service errors onto HTTP errors; anything unknown is logged and becomes a 500.
func fail(err error, action string) error {
	switch {
	case errors.Is(err, service.ErrRegistrationNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Registration not found")
	case errors.Is(err, service.ErrScreenshotNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Payment screenshot not found")
	case errors.Is(err, service.ErrInvalidStatusTransition):
		return fiber.NewError(fiber.StatusConflict, "Payment status cannot be changed back to pending")
	case errors.Is(err, service.ErrScreenshotTooLarge):
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "Payment screenshot must be 5 MB or smaller")
	case errors.Is(err, service.ErrScreenshotUnsupported):
		return fiber.NewError(fiber.StatusUnsupportedMediaType, "Payment screenshot must be a PNG, JPEG, GIF or WebP image")
	case errors.Is(err, service.ErrScreenshotEmpty):
		return fiber.NewError(fiber.StatusBadRequest, "Payment screenshot is empty")
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusGatewayTimeout, "Request timed out")
	}
	log.WithError(err).Error(action + " failed")
	return fiber.NewError(fiber.StatusInternalServerError, "Failed to "+action)
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm)
}

// readScreenshot returns the normalized upload, or nil when the request carries none.
func readScreenshot(c *fiber.Ctx) (*service.Screenshot, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid multipart form")
	}
	files := form.File[screenshotField]
	if len(files) == 0 {
		return nil, nil
	}
	fh := files[0]
	if fh.Size > service.MaxScreenshotBytes {
		return nil, service.ErrScreenshotTooLarge
	}
	raw, err := readAll(fh)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Failed to read payment screenshot")
	}
	return service.NormalizeScreenshot(raw)
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, service.MaxScreenshotBytes+1))
}

// formDates picks up preferredDates[] keys, which the form decoder does not map.
func formDates(c *fiber.Ctx) []string {
	if !isMultipart(c) {
		return nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	if v := form.Value["preferredDates[]"]; len(v) > 0 {
		return v
	}
	return nil
}

// =========================
// Public
// =========================

// POST /api/registrations
func (rc *RegistrationController) CreateRegistration(c *fiber.Ctx) error {
	var req dto.CreateRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if len(req.PreferredDates) == 0 {
		req.PreferredDates = formDates(c)
	}
	req.Normalize()
	if err := helper.Validator().Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	shot, err := readScreenshot(c)
	if err != nil {
		return fail(err, "create registration")
	}

	m, err := rc.Service.Create(c.UserContext(), req, shot)
	if err != nil {
		return fail(err, "create registration")
	}
	return helper.JsonCreated(c, "Registration submitted", rc.toDTO(m))
}

// PATCH|POST /api/registrations/:id and POST /api/registrations/update-registration
func (rc *RegistrationController) UpdatePayment(c *fiber.Ctx) error {
	var req dto.UpdateRegistrationRequest
	if len(c.Body()) > 0 || isMultipart(c) {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}
	req.Normalize()
	if err := helper.Validator().Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		id = req.ID
	}
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Registration id is required")
	}

	shot, err := readScreenshot(c)
	if err != nil {
		return fail(err, "update registration")
	}
	if req.PaymentStatus == nil && shot == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Nothing to update: send paymentStatus or paymentScreenshot")
	}

	m, err := rc.Service.UpdatePayment(c.UserContext(), id, req.PaymentStatus, shot)
	if err != nil {
		return fail(err, "update registration")
	}
	return helper.JsonUpdated(c, "Registration updated", rc.toDTO(m))
}

// GET /api/registrations/:id/screenshot
func (rc *RegistrationController) GetScreenshot(c *fiber.Ctx) error {
	shot, err := rc.Service.Screenshot(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(err, "load payment screenshot")
	}
	c.Set(fiber.HeaderContentType, shot.ContentType)
	c.Set(fiber.HeaderCacheControl, "private, max-age=300")
	return c.Send(shot.Data)
}

// =========================
// Admin
// =========================

// GET /api/registrations?paymentStatus=&q=&page=&per_page=
func (rc *RegistrationController) ListRegistrations(c *fiber.Ctx) error {
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}
	q.PaymentStatus = strings.ToLower(strings.TrimSpace(q.PaymentStatus))
	if err := helper.Validator().Struct(q); err != nil {
		return helper.ValidationError(c, err)
	}

	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := rc.Service.List(c.UserContext(), repository.ListFilter{
		PaymentStatus: q.PaymentStatus,
		Search:        q.Search,
	}, p.Offset, p.Limit)
	if err != nil {
		return fail(err, "list registrations")
	}
	return helper.JsonList(c, "ok", dto.ToRegistrationDTOs(rows, rc.Service.ScreenshotURL), helper.BuildPagination(total, p))
}

// GET /api/registrations/:id
func (rc *RegistrationController) GetRegistration(c *fiber.Ctx) error {
	m, err := rc.Service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(err, "load registration")
	}
	return helper.JsonOK(c, "ok", rc.toDTO(m))
}

// PUT /api/registrations/:id
func (rc *RegistrationController) AdminUpdateRegistration(c *fiber.Ctx) error {
	var req dto.AdminUpdateRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.PreferredDates == nil {
		req.PreferredDates = formDates(c)
	}
	req.Normalize()
	if err := helper.Validator().Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	shot, err := readScreenshot(c)
	if err != nil {
		return fail(err, "update registration")
	}

	m, err := rc.Service.AdminUpdate(c.UserContext(), c.Params("id"), req, shot)
	if err != nil {
		return fail(err, "update registration")
	}
	return helper.JsonUpdated(c, "Registration updated", rc.toDTO(m))
}

// DELETE /api/registrations/:id
func (rc *RegistrationController) DeleteRegistration(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := rc.Service.Remove(c.UserContext(), id); err != nil {
		return fail(err, "delete registration")
	}
	return helper.JsonDeleted(c, "Registration deleted", fiber.Map{"id": id})
}

// GET /api/registrations/:id/notifications
func (rc *RegistrationController) ListNotifications(c *fiber.Ctx) error {
	rows, err := rc.Service.Notifications(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(err, "load notifications")
	}
	return helper.JsonOK(c, "ok", notifDTO.ToOutboxDTOs(rows))
}
