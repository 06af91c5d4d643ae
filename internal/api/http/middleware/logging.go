package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/userdir/userdir-server/internal/logger"
)

// Logging logs every HTTP request and its result.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle logs method, path, duration and status for each request. Each
// request gets an id tying the start and completion lines together.
func (l *Logging) Handle(c *fiber.Ctx) error {
	start := time.Now()
	requestID := uuid.NewString()

	l.logger.Info("HTTP request started",
		"request_id", requestID,
		"method", c.Method(),
		"path", c.Path())

	err := c.Next()

	duration := time.Since(start)

	status := c.Response().StatusCode()
	if err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			status = fiberErr.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}

	l.logger.Info("HTTP request completed",
		"request_id", requestID,
		"method", c.Method(),
		"path", c.Path(),
		"duration_ms", duration.Milliseconds(),
		"status", status)

	if err != nil {
		l.logger.Error("HTTP request failed",
			"request_id", requestID,
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
			"status", status)
	}

	return err
}
