package auth

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "workshop_backend/internals/helpers"
)

type staticValidator string

func (s staticValidator) Validate(candidate string) error {
	if candidate != string(s) {
		return errors.New("nope")
	}
	return nil
}

func TestRequireAdmin(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Get("/admin", RequireAdmin(staticValidator("secret")), func(c *fiber.Ctx) error {
		assert.True(t, IsAdmin(c))
		return c.SendStatus(fiber.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		value  string
		status int
	}{
		{name: "missing", status: fiber.StatusUnauthorized},
		{name: "wrong key", header: HeaderAdminKey, value: "guess", status: fiber.StatusUnauthorized},
		{name: "x-admin-key", header: HeaderAdminKey, value: "secret", status: fiber.StatusNoContent},
		{name: "admin-password", header: "admin-password", value: "secret", status: fiber.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
