package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Abraxas-365/userservice/pkg/config"
	"github.com/Abraxas-365/userservice/pkg/httpx"
	"github.com/Abraxas-365/userservice/pkg/logx"
	"github.com/Abraxas-365/userservice/pkg/telemetry"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// serve runs the HTTP API until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config) error {
	logx.Infof("🚀 Starting %s...", cfg.App.Name)

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Tracing, cfg.App.Name, cfg.App.Version)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logx.Warnf("Tracing shutdown: %v", err)
		}
	}()

	container, err := NewContainer(ctx, cfg)
	if err != nil {
		return err
	}

	app := newApp(container)

	errCh := make(chan error, 1)
	go func() {
		logx.Info("=" + strings.Repeat("=", 60))
		logx.Infof("🚀 Server listening on port %s", cfg.App.Port)
		logx.Infof("💚 Health Check: http://localhost:%s/", cfg.App.Port)
		logx.Info("=" + strings.Repeat("=", 60))
		errCh <- app.Listen(":" + cfg.App.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logx.Info("🛑 Shutting down gracefully...")
	if err := app.ShutdownWithTimeout(cfg.App.ShutdownTimeout); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
		return err
	}
	logx.Info("✅ Server exited successfully")
	return nil
}

// newApp builds the fiber app with global middleware and every route.
func newApp(container *Container) *fiber.App {
	cfg := container.Config

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
		ErrorHandler:          httpx.NewErrorHandler(cfg.App.Debug),
	})

	// Global middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: cfg.App.Debug,
	}))

	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.App.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:  "GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS",
		ExposeHeaders: "X-Request-ID",
	}))

	app.Use(httpx.RequestLogger())

	// Health & metrics
	app.Get("/", healthHandler(cfg))
	if h := container.MetricsHandler(); h != nil {
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(h))
	}

	// Routes: /users/*, /health/provider
	container.Identity.Handlers.RegisterRoutes(app)
	logx.Info("✓ Identity routes registered")

	app.Use(httpx.NotFound)
	return app
}

func healthHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return httpx.OK(c, "Service is healthy", fiber.Map{
			"service": cfg.App.Name,
			"version": cfg.App.Version,
		})
	}
}

// check runs the provider connection check and prints the report as JSON.
// A report with an error status fails the command.
func check(ctx context.Context, cfg *config.Config, out io.Writer) error {
	container, err := NewContainer(ctx, cfg)
	if err != nil {
		return err
	}

	report, err := container.Identity.Service.CheckConnection(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}

	if !report.Healthy() {
		return fmt.Errorf("provider check failed: %s", report.Message)
	}
	return nil
}
