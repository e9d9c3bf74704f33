package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"docedit/internal/logger"
)

// Logger logs each HTTP request through the application's structured logger.
// Fields: request_id, method, path, status, latency_ms.
func Logger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		status := c.Response().StatusCode()

		log.Info("http request",
			"request_id", rid,
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency_ms", float64(time.Since(start).Microseconds())/1000.0,
		)

		return err
	}
}
