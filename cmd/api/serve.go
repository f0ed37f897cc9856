package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/school-portal/internal/api/http"
	"github.com/spec-kit/school-portal/internal/api/http/handlers"
	"github.com/spec-kit/school-portal/internal/auth"
	"github.com/spec-kit/school-portal/internal/mail"
	"github.com/spec-kit/school-portal/internal/service"
	"github.com/spec-kit/school-portal/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, logger := loadConfigAndLogger()
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	c, err := newContainer(ctx, cfg, logger, cfg.Postgres.RunMigrations)
	if err != nil {
		logger.Error("failed to start", zap.Error(err))
		return err
	}
	defer c.close()

	if err := c.seed.Run(ctx, nil); err != nil {
		logger.Error("failed to seed reference data", zap.Error(err))
		return err
	}

	mailWorker, err := startMailWorker(c)
	if err != nil {
		logger.Error("failed to start mail worker", zap.Error(err))
		return err
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.App.BodyLimitBytes,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, c.metrics, httptransport.MiddlewareConfig{
		Timeout:      cfg.App.RequestTimeout(),
		AllowOrigins: cfg.App.CORSAllowOrigins,
	})
	httptransport.RegisterRoutes(app, routeConfig(c))

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	var metricsApp *fiber.App
	if cfg.App.MetricsAddr != "" {
		metricsApp = httptransport.NewMetricsApp(c.metrics.Handler())
		go func() {
			if err := metricsApp.Listen(cfg.App.MetricsAddr); err != nil {
				logger.Fatal("metrics listen", zap.Error(err))
			}
		}()
		logger.Info("metrics listener started", zap.String("addr", cfg.App.MetricsAddr))
	}

	waitForShutdown(logger)

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if metricsApp != nil {
		if err := metricsApp.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Warn("metrics shutdown", zap.Error(err))
		}
	}
	if err := mailWorker.Shutdown(shutdownCtx); err != nil {
		logger.Warn("mail worker shutdown", zap.Error(err))
	}
	return nil
}

func startMailWorker(c *container) (*worker.MailWorker, error) {
	var sender mail.Sender
	if c.cfg.Mail.Enabled() {
		smtpSender, err := mail.NewSMTPSender(c.cfg.Mail)
		if err != nil {
			return nil, err
		}
		sender = smtpSender
	} else {
		c.logger.Warn("SMTP_HOST not provided; outbound mail is logged only")
		sender = mail.NewLogSender(c.logger)
	}

	renderer, err := mail.NewRenderer(c.cfg.App.SchoolName)
	if err != nil {
		return nil, err
	}

	mailWorker := worker.NewMailWorker(sender, c.cfg.Mail.QueueSize, c.logger, c.metrics)
	mailWorker.Start()

	notifications := service.NewNotificationService(c.dispatcher, renderer, mailWorker, c.cfg.Mail.AdminEmail, c.logger)
	notifications.RegisterHandlers()
	return mailWorker, nil
}

func routeConfig(c *container) httptransport.RouteConfig {
	gateCfg := auth.DefaultGateConfig()
	gateCfg.LoginPath = c.cfg.Gate.LoginPath
	gateCfg.HomePath = c.cfg.Gate.HomePath

	var revocations auth.RevocationChecker
	if c.revocations != nil {
		revocations = c.revocations
	}
	gate := auth.NewGate(gateCfg, auth.GateDependencies{
		Tokens:      c.tokens,
		Policy:      c.policy,
		Revocations: revocations,
		Observer:    c.metrics,
		Logger:      c.logger,
	})

	deps := map[string]handlers.Pinger{"postgres": c.postgres, "redis": nil}
	if c.redis != nil {
		deps["redis"] = c.redis
	}

	return httptransport.RouteConfig{
		Gate:              gate,
		Policy:            c.policy,
		Health:            handlers.NewHealthHandler(c.cfg.App.Name, c.cfg.App.Version, deps),
		Auth:              handlers.NewAuthHandler(c.authService),
		Users:             handlers.NewUsersHandler(c.users, c.roles),
		Publications:      handlers.NewPublicationsHandler(c.publications),
		Tags:              handlers.NewTagsHandler(c.tags),
		Categories:        handlers.NewCategoriesHandler(c.categories),
		Comments:          handlers.NewCommentsHandler(c.comments),
		Directors:         handlers.NewDirectorsHandler(c.directors),
		Contact:           handlers.NewContactHandler(c.contact),
		DestinationEmails: handlers.NewDestinationEmailsHandler(c.destinations),
		Media:             handlers.NewMediaHandler(c.gallery, c.uploads),
		StaticDir:         c.cfg.App.StaticDir,
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
