package controller

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshop_backend/internals/features/whatsapp/dto"
	whatsappService "workshop_backend/internals/features/whatsapp/service"
	helper "workshop_backend/internals/helpers"
)

func newTestApp() *fiber.App {
	svc := whatsappService.NewService(nil, nil, whatsappService.Options{CountryCode: "91"})
	ctrl := NewWhatsAppController(svc)

	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Get("/api/whatsapp/status", ctrl.GetStatus)
	app.Post("/api/whatsapp/generate-link/:phone", ctrl.GenerateLink)
	app.Post("/api/whatsapp/send/:phone", ctrl.SendMessage)
	return app
}

func post(t *testing.T, app *fiber.App, path, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(raw)
}

func TestGetStatus(t *testing.T) {
	app := newTestApp()
	resp, err := app.Test(httptest.NewRequest("GET", "/api/whatsapp/status", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "disconnected", body.Status)
	assert.Equal(t, "uninitialized", body.State)
	assert.False(t, body.Enabled)
}

func TestGenerateLink(t *testing.T) {
	app := newTestApp()

	status, body := post(t, app, "/api/whatsapp/generate-link/09876543210", `{"message":"Hi there"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `https://wa.me/919876543210?text=Hi%20there`)

	status, body = post(t, app, "/api/whatsapp/generate-link/9876543210", `{"message":"  "}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "Message is required")

	status, _ = post(t, app, "/api/whatsapp/generate-link/abc", `{"message":"x"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestSendMessage_FallsBackToLinkWhenUnconfigured(t *testing.T) {
	app := newTestApp()

	status, body := post(t, app, "/api/whatsapp/send/9876543210", `{"message":"ping"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"status":"link"`)
	assert.Contains(t, body, `https://wa.me/919876543210?text=ping`)
}
