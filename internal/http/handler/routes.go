package handler

import (
	"github.com/gofiber/fiber/v2"

	"docedit/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. The swagger
// and metrics routes are registered in main alongside their middleware.
func RegisterRoutes(app *fiber.App, svc service.EditorService, storageConfigured, aiConfigured bool) {
	app.Get("/health", HealthCheck(storageConfigured, aiConfigured))
	app.Get("/healthz", LivenessProbe())

	app.Post("/sessions", CreateSession(svc))
	app.Get("/sessions/:id", GetSession(svc))

	app.Post("/sessions/:id/document", UploadDocument(svc))
	app.Put("/sessions/:id/document", UpdateDocument(svc))
	app.Get("/sessions/:id/export", ExportDocument(svc))

	app.Post("/sessions/:id/analyze", AnalyzeDocument(svc))
	app.Get("/sessions/:id/visuals/wordcloud", WordCloudImage(svc))
	app.Get("/sessions/:id/visuals/readability", ReadabilityChartImage(svc))
	app.Get("/sessions/:id/visuals/sections", SectionChartImage(svc))

	app.Post("/sessions/:id/enhance", EnhanceDocument(svc))
	app.Post("/sessions/:id/summary", SummarizeDocument(svc))
	app.Post("/sessions/:id/critique", CritiqueDocument(svc))

	app.Post("/sessions/:id/save", SaveDocument(svc))
	app.Post("/sessions/:id/load", LoadDocumentFromCloud(svc))
	app.Get("/blobs", ListBlobs(svc))
	app.Get("/blobs/:name/url", PresignBlob(svc))
	app.Delete("/blobs/:name", DeleteBlob(svc))
}
