package middlewares

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "workshop_backend/internals/helpers"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID(time.Second))
	app.Get("/", func(c *fiber.Ctx) error {
		_, hasDeadline := c.UserContext().Deadline()
		assert.True(t, hasDeadline)
		return c.SendString(c.Locals("reqid").(string))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, resp.Header.Get("X-Request-ID"), string(body))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestLoginRateLimiter(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Post("/login", LoginRateLimiter(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	status := 0
	for i := 0; i < 6; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
		require.NoError(t, err)
		status = resp.StatusCode
		if i < 5 {
			assert.Equal(t, fiber.StatusNoContent, status)
		}
	}
	assert.Equal(t, fiber.StatusTooManyRequests, status)
}

func TestRecoveryMiddleware(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Use(RecoveryMiddleware())
	app.Get("/boom", func(c *fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
