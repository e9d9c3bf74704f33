package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docedit/internal/model"
	"docedit/internal/service"
	serviceMocks "docedit/internal/service/mocks"
	"docedit/internal/session"
	"docedit/internal/storage"
)

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	app := fiber.New()
	app.Get("/health", HealthCheck(true, false))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["storage_configured"])
	assert.Equal(t, false, body["ai_configured"])
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateSession(t *testing.T) {
	mockSvc := new(serviceMocks.MockEditorService)
	app := fiber.New()
	app.Post("/sessions", CreateSession(mockSvc))

	mockSvc.On("CreateSession").Return(&session.Session{ID: "abc", State: session.StateIdle, CreatedAt: time.Now()})

	req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var body sessionResponse
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "abc", body.ID)
	assert.Equal(t, "idle", body.State)
}

func TestGetSession(t *testing.T) {
	mockSvc := new(serviceMocks.MockEditorService)
	app := fiber.New()
	app.Get("/sessions/:id", GetSession(mockSvc))

	t.Run("found", func(t *testing.T) {
		mockSvc.On("GetSession", "abc").Return(&session.Session{
			ID:    "abc",
			State: session.StateLoaded,
			Document: &model.Document{
				Text: "hello", Filename: "a.txt", Format: "txt", Size: 5,
			},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/sessions/abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body sessionResponse
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "hello", body.Text)
		assert.Equal(t, "a.txt", body.Filename)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("GetSession", "gone").Return(nil, service.ErrSessionNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/sessions/gone", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "SESSION_NOT_FOUND", decodeError(t, resp).Error.Code)
	})
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.Copy(fw, strings.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockEditorService)
	app := fiber.New()
	app.Post("/sessions/:id/document", UploadDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("LoadDocument", "abc", "paper.txt", []byte("body text")).Return(&session.Session{
			ID:       "abc",
			State:    session.StateLoaded,
			Document: &model.Document{Text: "body text", Filename: "paper.txt", Format: "txt"},
		}, nil).Once()

		body, ct := multipartBody(t, "paper.txt", "body text")
		req := httptest.NewRequest(http.MethodPost, "/sessions/abc/document", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("missing file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/sessions/abc/document", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})
}

func TestUpdateDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockEditorService)
	app := fiber.New()
	app.Put("/sessions/:id/document", UpdateDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("UpdateText", "abc", "edited").Return(&session.Session{
			ID:       "abc",
			State:    session.StateLoaded,
			Document: &model.Document{Text: "edited", Format: "txt"},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/sessions/abc/document", strings.NewReader(`{"text":"edited"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("no document", func(t *testing.T) {
		mockSvc.On("UpdateText", "abc", "x").Return(nil, service.ErrNoDocument).Once()

		req := httptest.NewRequest(http.MethodPut, "/sessions/abc/document", strings.NewReader(`{"text":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "NO_DOCUMENT", decodeError(t, resp).Error.Code)
	})
}

func TestAnalyzeDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockEditorService)
	app := fiber.New()
	app.Post("/sessions/:id/analyze", AnalyzeDocument(mockSvc))

	mockSvc.On("Analyze", "abc").Return(&model.AnalysisResult{
		Readability: map[string]model.ReadabilityScore{
			"Flesch Reading Ease": {Score: 70.5, Difficulty: "Acceptable"},
		},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/sessions/abc/analyze", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body model.AnalysisResult
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, 70.5, body.Readability["Flesch Reading Ease"].Score)
}

func TestWordCloudImage(t *testing.T) {
	mockSvc := new(serviceMocks.MockEditorService)
	app := fiber.New()
	app.Get("/sessions/:id/visuals/wordcloud", WordCloudImage(mockSvc))

	mockSvc.On("WordCloud", "abc").Return([]byte("\x89PNG fake"), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/sessions/abc/visuals/wordcloud", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}

func TestExportDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockEditorService)
	app := fiber.New()
	app.Get("/sessions/:id/export", ExportDocument(mockSvc))

	mockSvc.On("Export", "abc", "docx").Return(&service.ExportResult{
		Data:        []byte("PK fake docx"),
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Filename:    "paper_edited.docx",
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/sessions/abc/export?format=docx", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "paper_edited.docx")
}

func TestEnhanceDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockEditorService)
	app := fiber.New()
	app.Post("/sessions/:id/enhance", EnhanceDocument(mockSvc))

	mockSvc.On("Enhance", mock.Anything, "abc", 500).Return(&service.EnhanceResult{
		EnhancedText: "better text",
	}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/sessions/abc/enhance", strings.NewReader(`{"max_words":500}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body service.EnhanceResult
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "better text", body.EnhancedText)
}

func TestSummarizeDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockEditorService)
	app := fiber.New()
	app.Post("/sessions/:id/summary", SummarizeDocument(mockSvc))

	t.Run("defaults to short", func(t *testing.T) {
		mockSvc.On("Summarize", mock.Anything, "abc", "short").Return("tl;dr", nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/sessions/abc/summary", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "tl;dr", body["summary"])
		assert.Equal(t, "short", body["length"])
	})

	t.Run("explicit length", func(t *testing.T) {
		mockSvc.On("Summarize", mock.Anything, "abc", "detailed").Return("long summary", nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/sessions/abc/summary", strings.NewReader(`{"length":"detailed"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestCritiqueDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockEditorService)
	app := fiber.New()
	app.Post("/sessions/:id/critique", CritiqueDocument(mockSvc))

	mockSvc.On("Critique", mock.Anything, "abc", "A Title").Return(&service.CritiqueResult{
		ResearchQuestion: "Q",
		Review:           "R",
		TitleReview:      "T",
	}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/sessions/abc/critique", strings.NewReader(`{"title":"A Title"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body service.CritiqueResult
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "Q", body.ResearchQuestion)
}

func TestSaveDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockEditorService)
	app := fiber.New()
	app.Post("/sessions/:id/save", SaveDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("SaveToCloud", mock.Anything, "abc", "").Return(&model.BlobReference{Name: "paper.txt"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/sessions/abc/save", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("not configured", func(t *testing.T) {
		mockSvc.On("SaveToCloud", mock.Anything, "abc", "").Return(nil, storage.ErrNotConfigured).Once()

		req := httptest.NewRequest(http.MethodPost, "/sessions/abc/save", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "CONFIG_ERROR", decodeError(t, resp).Error.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		mockSvc.On("SaveToCloud", mock.Anything, "abc", "").Return(nil, errors.New("network down")).Once()

		req := httptest.NewRequest(http.MethodPost, "/sessions/abc/save", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, "BLOB_ERROR", decodeError(t, resp).Error.Code)
	})
}

func TestLoadDocumentFromCloud(t *testing.T) {
	mockSvc := new(serviceMocks.MockEditorService)
	app := fiber.New()
	app.Post("/sessions/:id/load", LoadDocumentFromCloud(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("LoadFromCloud", mock.Anything, "abc", "stored.txt").Return(&session.Session{
			ID:       "abc",
			State:    session.StateLoaded,
			Document: &model.Document{Text: "stored", Filename: "stored.txt", Format: "txt"},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/sessions/abc/load", strings.NewReader(`{"blob_name":"stored.txt"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("missing blob name", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/sessions/abc/load", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("blob not found", func(t *testing.T) {
		mockSvc.On("LoadFromCloud", mock.Anything, "abc", "gone.txt").Return(nil, storage.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodPost, "/sessions/abc/load", strings.NewReader(`{"blob_name":"gone.txt"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "BLOB_NOT_FOUND", decodeError(t, resp).Error.Code)
	})
}

func TestListBlobs(t *testing.T) {
	mockSvc := new(serviceMocks.MockEditorService)
	app := fiber.New()
	app.Get("/blobs", ListBlobs(mockSvc))

	mockSvc.On("ListBlobs", mock.Anything).Return([]model.BlobReference{
		{Name: "a.txt", Size: 3},
		{Name: "b.txt", Size: 7},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/blobs", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data  []model.BlobReference `json:"data"`
		Total int                   `json:"total"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Len(t, body.Data, 2)
	assert.Equal(t, 2, body.Total)
}

func TestDeleteBlob(t *testing.T) {
	mockSvc := new(serviceMocks.MockEditorService)
	app := fiber.New()
	app.Delete("/blobs/:name", DeleteBlob(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("DeleteBlob", mock.Anything, "a.txt").Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/blobs/a.txt", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("DeleteBlob", mock.Anything, "gone.txt").Return(storage.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodDelete, "/blobs/gone.txt", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestPresignBlob(t *testing.T) {
	mockSvc := new(serviceMocks.MockEditorService)
	app := fiber.New()
	app.Get("/blobs/:name/url", PresignBlob(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("PresignBlob", mock.Anything, "a.txt").
			Return("https://blobs.example.com/a.txt?sig=abc", nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/blobs/a.txt/url", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "https://blobs.example.com/a.txt?sig=abc", body["url"])
	})

	t.Run("unsupported backend", func(t *testing.T) {
		mockSvc.On("PresignBlob", mock.Anything, "a.txt").
			Return("", storage.ErrPresignNotSupported).Once()

		req := httptest.NewRequest(http.MethodGet, "/blobs/a.txt/url", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
		assert.Equal(t, "PRESIGN_UNSUPPORTED", decodeError(t, resp).Error.Code)
	})
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.ErrMethodNotAllowed
	})

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	resp, _ := app.Test(req)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)

	req = httptest.NewRequest(http.MethodGet, "/boom", nil)
	resp, _ = app.Test(req)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
}
