package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"workshop_backend/internals/configs"
	database "workshop_backend/internals/databases"
	authService "workshop_backend/internals/features/auth/service"
	"workshop_backend/internals/features/notifications/events"
	"workshop_backend/internals/features/notifications/mailer"
	notifRepo "workshop_backend/internals/features/notifications/repository"
	notifService "workshop_backend/internals/features/notifications/service"
	regRepo "workshop_backend/internals/features/registrations/repository"
	regService "workshop_backend/internals/features/registrations/service"
	whatsappService "workshop_backend/internals/features/whatsapp/service"
	helper "workshop_backend/internals/helpers"
	"workshop_backend/internals/middlewares"
	routes "workshop_backend/internals/route"
	"workshop_backend/internals/seeds"
)

func main() {
	if err := run(); err != nil {
		log.WithError(err).Fatal("server stopped with error")
	}
}

func run() error {
	startedAt := time.Now()

	cfg, err := configs.LoadEnv()
	if err != nil {
		return err
	}
	configs.SetupLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 🔌 DB connect + pool + migrations + warm-up
	db, err := database.ConnectDB(cfg.Database, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer database.Close(db)
	if err := database.TunePool(db, cfg.Database); err != nil {
		return err
	}
	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(cfg.Database.DSN()); err != nil {
			return err
		}
	}
	if err := seeds.RunAllSeeds(db, cfg.Database.SeedContentsFile); err != nil {
		return err
	}
	database.WarmUpQueries(db)

	// 📨 WhatsApp: Cloud API when configured, pending queue in redis when available
	var queue whatsappService.Queue = whatsappService.NewMemoryQueue(cfg.WhatsApp.QueueSize)
	rdb, err := database.ConnectRedis(ctx, cfg.Redis)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, WhatsApp queue stays in memory")
	} else if rdb != nil {
		defer rdb.Close()
		queue = whatsappService.NewRedisQueue(rdb, cfg.WhatsApp.PendingQueueKey(), cfg.WhatsApp.QueueSize)
		log.WithField("key", cfg.WhatsApp.PendingQueueKey()).Info("WhatsApp pending queue backed by redis")
	}

	var transport whatsappService.Transport
	if cfg.WhatsApp.Enabled() {
		transport = whatsappService.NewCloudTransport(cfg.WhatsApp.APIURL, cfg.WhatsApp.PhoneNumberID, cfg.WhatsApp.AccessToken, cfg.WhatsApp.Timeout)
		log.WithFields(log.Fields{
			"client_id":    cfg.WhatsApp.ClientID,
			"phone_number": cfg.WhatsApp.PhoneNumber,
		}).Info("WhatsApp Cloud API configured")
	}
	wa := whatsappService.NewService(transport, queue, whatsappService.Options{
		CountryCode:       cfg.WhatsApp.DefaultCountryCode,
		MaxAttempts:       cfg.WhatsApp.MaxAttempts,
		ReconnectInterval: cfg.WhatsApp.ReconnectInterval,
		ConnectTimeout:    cfg.WhatsApp.Timeout,
	})

	// 🔔 notifications
	publisher, err := events.New(ctx, cfg.Kafka)
	if err != nil {
		log.WithError(err).Warn("kafka unavailable, domain events disabled")
		publisher = events.NoopPublisher{}
	}
	defer publisher.Close()

	outbox := notifRepo.NewOutboxRepository(db)
	// an SMTP session outlives the send context, keep it inside the outbox lease
	if cfg.SMTP.Timeout <= 0 || cfg.SMTP.Timeout > cfg.Outbox.SendTimeout {
		cfg.SMTP.Timeout = cfg.Outbox.SendTimeout
	}
	dispatcher := notifService.NewDispatcher(outbox, mailer.New(cfg.SMTP), wa, publisher, notifService.Options{
		MaxAttempts: cfg.Outbox.MaxAttempts,
		BaseDelay:   cfg.Outbox.BaseDelay,
		MaxDelay:    cfg.Outbox.MaxDelay,
		SendTimeout: cfg.Outbox.SendTimeout,
	})
	worker, err := notifService.NewWorker(outbox, dispatcher, cfg.Outbox)
	if err != nil {
		return err
	}

	skipAdmin := cfg.IsDevelopment() && cfg.SMTP.AdminEmail == configs.PlaceholderAdminEmail
	if skipAdmin {
		log.Warn("ADMIN_EMAIL is the placeholder address, admin notices are skipped in development")
	}
	planner := notifService.NewPlanner(notifService.PlannerConfig{
		AdminEmail: cfg.SMTP.AdminEmail,
		SkipAdmin:  skipAdmin,
		BackendURL: cfg.Server.BackendURL,
		Events:     events.Enabled(publisher),
		Lease:      notifService.InlineLease(cfg.Outbox),
	})

	// 📝 registrations
	registrations := regService.NewRegistrationService(
		regService.NewGormRegistrationTx(db),
		regRepo.NewRegistrationRepository(db),
		outbox,
		planner,
		dispatcher,
		regService.Options{InlineDispatch: cfg.Outbox.InlineDispatch},
	)

	admin := authService.NewAdminAuthenticator(cfg.Admin.Password, cfg.Admin.PasswordHash)

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ErrorHandler:          helper.ErrorHandler,
		BodyLimit:             cfg.Server.BodyLimit,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		IdleTimeout:           cfg.Server.IdleTimeout,
		ProxyHeader:           fiber.HeaderXForwardedFor,
	})
	middlewares.SetupMiddlewares(app, cfg)
	routes.SetupRoutes(app, routes.Deps{
		Config:        cfg,
		DB:            db,
		Admin:         admin,
		Registrations: registrations,
		WhatsApp:      wa,
		Outbox:        outbox,
		StartedAt:     startedAt,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("port", cfg.Server.Port).Info("listening")
		if err := app.Listen("0.0.0.0:" + cfg.Server.Port); err != nil {
			return err
		}
		return nil
	})
	g.Go(func() error { return wa.Run(gctx) })
	g.Go(func() error { return worker.Run(gctx) })

	// graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
