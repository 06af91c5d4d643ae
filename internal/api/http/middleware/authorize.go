// Package middleware contains the HTTP middleware applied ahead of the
// user handlers.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/userdir/userdir-server/internal/logger"
)

// Authorizer decides whether a request's Authorization header grants
// access.
type Authorizer interface {
	Authorize(ctx context.Context, header string) bool
}

// Authorize rejects unauthorized requests before any handler runs.
type Authorize struct {
	authorizer Authorizer
	logger     *logger.Logger
}

// NewAuthorize creates a new Authorize middleware.
func NewAuthorize(authorizer Authorizer, logger *logger.Logger) *Authorize {
	return &Authorize{
		authorizer: authorizer,
		logger:     logger,
	}
}

// Handle verifies the bearer token and responds 401 on any failure.
func (m *Authorize) Handle(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)

	if !m.authorizer.Authorize(c.UserContext(), header) {
		m.logger.Debug("request rejected",
			"method", c.Method(),
			"path", c.Path())
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	return c.Next()
}
