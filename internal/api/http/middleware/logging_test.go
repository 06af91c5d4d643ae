package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userdir/userdir-server/internal/logger"
)

func TestLogging_Handle(t *testing.T) {
	t.Run("logs start and completion", func(t *testing.T) {
		var buf bytes.Buffer
		m := NewLogging(logger.NewWithWriter(&buf, 0))

		app := fiber.New()
		app.Use(m.Handle)
		app.Get("/users", func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users", nil))
		require.NoError(t, err)
		resp.Body.Close()

		out := buf.String()
		assert.Contains(t, out, "HTTP request started")
		assert.Contains(t, out, "HTTP request completed")
		assert.Contains(t, out, "method=GET")
		assert.Contains(t, out, "path=/users")
		assert.Contains(t, out, "status=200")
		assert.NotContains(t, out, "HTTP request failed")
	})

	t.Run("logs handler errors", func(t *testing.T) {
		var buf bytes.Buffer
		m := NewLogging(logger.NewWithWriter(&buf, 0))

		app := fiber.New()
		app.Use(m.Handle)
		app.Get("/users", func(c *fiber.Ctx) error {
			return fiber.ErrTeapot
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users", nil))
		require.NoError(t, err)
		resp.Body.Close()

		out := buf.String()
		assert.Contains(t, out, "HTTP request failed")
		assert.Contains(t, out, "status=418")
	})
}
