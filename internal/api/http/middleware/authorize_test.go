package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/userdir/userdir-server/internal/mocks"
	"github.com/userdir/userdir-server/internal/testutil"
)

func TestAuthorize_Handle(t *testing.T) {
	newApp := func(m *Authorize, handlerCalled *bool) *fiber.App {
		app := fiber.New()
		app.Use(m.Handle)
		app.Get("/users", func(c *fiber.Ctx) error {
			*handlerCalled = true
			return c.SendStatus(fiber.StatusOK)
		})
		return app
	}

	t.Run("passes an authorized request through", func(t *testing.T) {
		authorizer := mocks.NewAuthorizer(t)
		m := NewAuthorize(authorizer, testutil.MakeNoopLogger())

		authorizer.On("Authorize", mock.Anything, "Bearer good-token").Return(true)

		var handlerCalled bool
		app := newApp(m, &handlerCalled)

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("Authorization", "Bearer good-token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, handlerCalled)
	})

	t.Run("rejects a denied request before the handler", func(t *testing.T) {
		authorizer := mocks.NewAuthorizer(t)
		m := NewAuthorize(authorizer, testutil.MakeNoopLogger())

		authorizer.On("Authorize", mock.Anything, "Bearer bad-token").Return(false)

		var handlerCalled bool
		app := newApp(m, &handlerCalled)

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("Authorization", "Bearer bad-token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.False(t, handlerCalled)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var envelope map[string]string
		require.NoError(t, json.Unmarshal(raw, &envelope))
		assert.Equal(t, "Unauthorized", envelope["error"])
	})

	t.Run("passes an empty header to the authorizer", func(t *testing.T) {
		authorizer := mocks.NewAuthorizer(t)
		m := NewAuthorize(authorizer, testutil.MakeNoopLogger())

		authorizer.On("Authorize", mock.Anything, "").Return(false)

		var handlerCalled bool
		app := newApp(m, &handlerCalled)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.False(t, handlerCalled)
	})
}
