package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docedit/internal/ai"
	"docedit/internal/analysis"
	"docedit/internal/fileio"
	"docedit/internal/http/middleware"
	"docedit/internal/service"
	"docedit/internal/storage"
	"docedit/internal/visualization"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// serviceError translates known service and domain errors into the response
// taxonomy. Unknown errors fall back to the given code so storage routes can
// report BLOB_ERROR while everything else reports INTERNAL_ERROR.
func serviceError(c *fiber.Ctx, err error, fallbackCode string) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return writeError(c, fiber.StatusNotFound, "SESSION_NOT_FOUND", "session not found or expired")
	case errors.Is(err, service.ErrNoDocument):
		return writeError(c, fiber.StatusConflict, "NO_DOCUMENT", "no document loaded in this session")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "id is required")
	case errors.Is(err, fileio.ErrUnsupportedFormat):
		return writeError(c, fiber.StatusBadRequest, "READ_ERROR", "unsupported document format")
	case errors.Is(err, fileio.ErrEmptyDocument):
		return writeError(c, fiber.StatusBadRequest, "READ_ERROR", "document contains no readable text")
	case errors.Is(err, analysis.ErrEmptyText):
		return writeError(c, fiber.StatusUnprocessableEntity, "ANALYSIS_ERROR", "text is empty")
	case errors.Is(err, visualization.ErrNothingToRender):
		return writeError(c, fiber.StatusUnprocessableEntity, "VISUALIZATION_ERROR", "nothing to render")
	case errors.Is(err, storage.ErrNotConfigured):
		return writeError(c, fiber.StatusServiceUnavailable, "CONFIG_ERROR", "cloud storage is not configured")
	case errors.Is(err, ai.ErrNotConfigured):
		return writeError(c, fiber.StatusServiceUnavailable, "CONFIG_ERROR", "ai assistance is not configured")
	case errors.Is(err, storage.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "BLOB_NOT_FOUND", "blob not found")
	case errors.Is(err, storage.ErrPresignNotSupported):
		return writeError(c, fiber.StatusNotImplemented, "PRESIGN_UNSUPPORTED", "presigned urls are not supported by the configured backend")
	}

	status := fiber.StatusInternalServerError
	if fallbackCode == "BLOB_ERROR" {
		status = fiber.StatusBadGateway
	}
	return writeError(c, status, fallbackCode, "operation failed")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
