// Package handler exposes the editor's use cases over HTTP. Handlers stay
// thin: parse the request, call the service, translate errors.
package handler

import (
	"io"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"docedit/internal/service"
	"docedit/internal/session"
)

// sessionResponse is the wire view of a session. Document text is inlined so
// clients can render the editor buffer from a single call.
type sessionResponse struct {
	ID           string    `json:"id"`
	State        string    `json:"state"`
	Filename     string    `json:"filename,omitempty"`
	Format       string    `json:"format,omitempty"`
	Size         int64     `json:"size,omitempty"`
	Text         string    `json:"text,omitempty"`
	EnhancedText string    `json:"enhanced_text,omitempty"`
	Analyzed     bool      `json:"analyzed"`
	CreatedAt    time.Time `json:"created_at"`
}

func toSessionResponse(sess *session.Session) sessionResponse {
	res := sessionResponse{
		ID:           sess.ID,
		State:        string(sess.State),
		EnhancedText: sess.EnhancedText,
		Analyzed:     sess.Analysis != nil,
		CreatedAt:    sess.CreatedAt,
	}
	if sess.Document != nil {
		res.Filename = sess.Document.Filename
		res.Format = sess.Document.Format
		res.Size = sess.Document.Size
		res.Text = sess.Document.Text
	}
	return res
}

// CreateSession handles POST /sessions.
func CreateSession(svc service.EditorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := svc.CreateSession()
		return c.Status(fiber.StatusCreated).JSON(toSessionResponse(sess))
	}
}

// GetSession handles GET /sessions/:id.
func GetSession(svc service.EditorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := svc.GetSession(c.Params("id"))
		if err != nil {
			return serviceError(c, err, "INTERNAL_ERROR")
		}
		return c.JSON(toSessionResponse(sess))
	}
}

// UploadDocument handles POST /sessions/:id/document (multipart, field "file").
func UploadDocument(svc service.EditorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot read uploaded file")
		}

		sess, err := svc.LoadDocument(c.Params("id"), fh.Filename, data)
		if err != nil {
			return serviceError(c, err, "INTERNAL_ERROR")
		}
		return c.Status(fiber.StatusCreated).JSON(toSessionResponse(sess))
	}
}

type updateTextRequest struct {
	Text string `json:"text"`
}

// UpdateDocument handles PUT /sessions/:id/document.
func UpdateDocument(svc service.EditorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req updateTextRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid json body")
		}
		sess, err := svc.UpdateText(c.Params("id"), req.Text)
		if err != nil {
			return serviceError(c, err, "INTERNAL_ERROR")
		}
		return c.JSON(toSessionResponse(sess))
	}
}

// AnalyzeDocument handles POST /sessions/:id/analyze.
func AnalyzeDocument(svc service.EditorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Analyze(c.Params("id"))
		if err != nil {
			return serviceError(c, err, "ANALYSIS_ERROR")
		}
		return c.JSON(res)
	}
}

// visualHandler renders one of the PNG visuals.
func visualHandler(render func(id string) ([]byte, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		png, err := render(c.Params("id"))
		if err != nil {
			return serviceError(c, err, "VISUALIZATION_ERROR")
		}
		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(png)
	}
}

// WordCloudImage handles GET /sessions/:id/visuals/wordcloud.
func WordCloudImage(svc service.EditorService) fiber.Handler {
	return visualHandler(svc.WordCloud)
}

// ReadabilityChartImage handles GET /sessions/:id/visuals/readability.
func ReadabilityChartImage(svc service.EditorService) fiber.Handler {
	return visualHandler(svc.MetricsChart)
}

// SectionChartImage handles GET /sessions/:id/visuals/sections.
func SectionChartImage(svc service.EditorService) fiber.Handler {
	return visualHandler(svc.SectionChart)
}

// ExportDocument handles GET /sessions/:id/export?format=txt|docx|pdf.
func ExportDocument(svc service.EditorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		format := c.Query("format", "txt")
		res, err := svc.Export(c.Params("id"), format)
		if err != nil {
			return serviceError(c, err, "INTERNAL_ERROR")
		}
		c.Set(fiber.HeaderContentType, res.ContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+res.Filename+`"`)
		return c.Send(res.Data)
	}
}

type enhanceRequest struct {
	MaxWords int `json:"max_words"`
}

// EnhanceDocument handles POST /sessions/:id/enhance.
func EnhanceDocument(svc service.EditorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req enhanceRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid json body")
			}
		}
		res, err := svc.Enhance(c.UserContext(), c.Params("id"), req.MaxWords)
		if err != nil {
			return serviceError(c, err, "INTERNAL_ERROR")
		}
		return c.JSON(res)
	}
}

type summaryRequest struct {
	Length string `json:"length"`
}

// SummarizeDocument handles POST /sessions/:id/summary.
func SummarizeDocument(svc service.EditorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req summaryRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid json body")
			}
		}
		if req.Length == "" {
			req.Length = "short"
		}
		summary, err := svc.Summarize(c.UserContext(), c.Params("id"), req.Length)
		if err != nil {
			return serviceError(c, err, "INTERNAL_ERROR")
		}
		return c.JSON(fiber.Map{"summary": summary, "length": req.Length})
	}
}

type critiqueRequest struct {
	Title string `json:"title"`
}

// CritiqueDocument handles POST /sessions/:id/critique.
func CritiqueDocument(svc service.EditorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req critiqueRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid json body")
			}
		}
		res, err := svc.Critique(c.UserContext(), c.Params("id"), req.Title)
		if err != nil {
			return serviceError(c, err, "INTERNAL_ERROR")
		}
		return c.JSON(res)
	}
}

type blobRequest struct {
	BlobName string `json:"blob_name"`
}

// SaveDocument handles POST /sessions/:id/save.
func SaveDocument(svc service.EditorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req blobRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid json body")
			}
		}
		ref, err := svc.SaveToCloud(c.UserContext(), c.Params("id"), req.BlobName)
		if err != nil {
			return serviceError(c, err, "BLOB_ERROR")
		}
		return c.Status(fiber.StatusCreated).JSON(ref)
	}
}

// LoadDocumentFromCloud handles POST /sessions/:id/load.
func LoadDocumentFromCloud(svc service.EditorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req blobRequest
		if err := c.BodyParser(&req); err != nil || req.BlobName == "" {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "blob_name is required")
		}
		sess, err := svc.LoadFromCloud(c.UserContext(), c.Params("id"), req.BlobName)
		if err != nil {
			return serviceError(c, err, "BLOB_ERROR")
		}
		return c.JSON(toSessionResponse(sess))
	}
}

// ListBlobs handles GET /blobs.
func ListBlobs(svc service.EditorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		refs, err := svc.ListBlobs(c.UserContext())
		if err != nil {
			return serviceError(c, err, "BLOB_ERROR")
		}
		return c.JSON(fiber.Map{"data": refs, "total": len(refs)})
	}
}

// DeleteBlob handles DELETE /blobs/:name. Blob names with slashes must be
// path-escaped by the client.
func DeleteBlob(svc service.EditorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := url.PathUnescape(c.Params("name"))
		if err != nil || name == "" {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid blob name")
		}
		if err := svc.DeleteBlob(c.UserContext(), name); err != nil {
			return serviceError(c, err, "BLOB_ERROR")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// PresignBlob handles GET /blobs/:name/url. Blob names with slashes must be
// path-escaped by the client.
func PresignBlob(svc service.EditorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := url.PathUnescape(c.Params("name"))
		if err != nil || name == "" {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid blob name")
		}
		u, err := svc.PresignBlob(c.UserContext(), name)
		if err != nil {
			return serviceError(c, err, "BLOB_ERROR")
		}
		return c.JSON(fiber.Map{"url": u})
	}
}

// HealthCheck handles GET /health. The editor has no hard dependencies, so
// health reports which optional integrations are available.
func HealthCheck(storageConfigured, aiConfigured bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":             "healthy",
			"storage_configured": storageConfigured,
			"ai_configured":      aiConfigured,
		})
	}
}

// LivenessProbe handles GET /healthz.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
