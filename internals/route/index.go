package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"workshop_backend/internals/configs"
	authRoute "workshop_backend/internals/features/auth/route"
	contentRoute "workshop_backend/internals/features/contents/route"
	regController "workshop_backend/internals/features/registrations/controller"
	regRoute "workshop_backend/internals/features/registrations/route"
	whatsappRoute "workshop_backend/internals/features/whatsapp/route"
	whatsappService "workshop_backend/internals/features/whatsapp/service"
	authMiddleware "workshop_backend/internals/middlewares/auth"
)

// OutboxCounter reports how many notification intents are still pending.
type OutboxCounter interface {
	CountPending(ctx context.Context) (int64, error)
}

// Deps is everything the HTTP surface is built from.
type Deps struct {
	Config        *configs.Config
	DB            *gorm.DB
	Admin         authMiddleware.AdminValidator
	Registrations regController.Registrations
	WhatsApp      *whatsappService.Service
	Outbox        OutboxCounter
	StartedAt     time.Time
}

func SetupRoutes(app *fiber.App, deps Deps) {
	if deps.StartedAt.IsZero() {
		deps.StartedAt = time.Now()
	}

	log.Info("setting up base routes")
	BaseRoutes(app, deps)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	log.Info("mounting api routes")
	HealthRoutes(api, deps)
	authRoute.AuthRoutes(api, deps.Admin)
	whatsappRoute.WhatsAppRoutes(api, deps.WhatsApp, deps.Admin)
	contentRoute.ContentRoutes(api, deps.DB, deps.Admin)
	regRoute.RegistrationRoutes(api, deps.Registrations, deps.Admin)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Route "+c.Method()+" "+c.Path()+" not found")
	})
}
