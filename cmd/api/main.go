package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docedit/docs"
	"docedit/internal/ai"
	"docedit/internal/analysis"
	"docedit/internal/config"
	handlers "docedit/internal/http/handler"
	"docedit/internal/http/middleware"
	"docedit/internal/logger"
	"docedit/internal/otel"
	"docedit/internal/service"
	"docedit/internal/session"
	"docedit/internal/storage"
)

const keywordLimit = 20

// @title Document Editor API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	shutdownTracing, err := otel.Init(context.Background(), time.UTC)
	if err != nil {
		log.Fatal("failed to initialize tracing", "error", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	// Cloud storage is optional: without credentials the editor still works,
	// only save/load-to-cloud is unavailable.
	objStore, err := storage.New(cfg)
	if err != nil {
		if !errors.Is(err, storage.ErrNotConfigured) {
			log.Fatal("failed to initialize object storage", "error", err)
		}
		log.Warn("cloud storage disabled", "reason", err.Error())
		objStore = nil
	}

	aiClient := ai.NewClient(cfg.OpenAI)
	if !aiClient.Configured() {
		log.Warn("ai assistance disabled, AZURE_OPENAI_* not set")
	}

	sessions := session.NewStore(cfg.SessionTTL)
	defer sessions.Close()

	analyzer := analysis.NewAnalyzer(keywordLimit)
	editorSvc := service.NewEditorService(sessions, analyzer, objStore, aiClient)

	app := fiber.New(fiber.Config{
		BodyLimit:    int(cfg.MaxUploadBytes),
		ErrorHandler: handlers.ErrorHandler(),
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(otelfiber.Middleware())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	promMiddleware, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatal("failed to register metrics", "error", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, editorSvc, objStore != nil, aiClient.Configured())

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	log.Info("starting server", "addr", addr, "storage_backend", cfg.StorageBackend)

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", "error", err)
	}
}
