package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

// CloudTransport talks to the WhatsApp Business Cloud API.
type CloudTransport struct {
	baseURL       string
	phoneNumberID string
	accessToken   string
	timeout       time.Duration
}

func NewCloudTransport(baseURL, phoneNumberID, accessToken string, timeout time.Duration) *CloudTransport {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CloudTransport{
		baseURL:       strings.TrimRight(baseURL, "/"),
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
		timeout:       timeout,
	}
}

type cloudTextMessage struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		PreviewURL bool   `json:"preview_url"`
		Body       string `json:"body"`
	} `json:"text"`
}

type cloudSendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type cloudErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Connect checks that the access token can read the sending phone number.
func (t *CloudTransport) Connect(ctx context.Context) error {
	agent := fiber.Get(fmt.Sprintf("%s/%s?fields=display_phone_number", t.baseURL, t.phoneNumberID))
	agent.Set(fiber.HeaderAuthorization, "Bearer "+t.accessToken)
	agent.Timeout(t.deadline(ctx))

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("whatsapp connect: %w", errors.Join(errs...))
	}
	return t.checkStatus(code, body)
}

func (t *CloudTransport) Send(ctx context.Context, to, message string) (string, error) {
	payload := cloudTextMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
	}
	payload.Text.Body = message

	agent := fiber.Post(fmt.Sprintf("%s/%s/messages", t.baseURL, t.phoneNumberID))
	agent.Set(fiber.HeaderAuthorization, "Bearer "+t.accessToken)
	agent.JSON(payload)
	agent.Timeout(t.deadline(ctx))

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return "", fmt.Errorf("whatsapp send: %w", errors.Join(errs...))
	}
	if err := t.checkStatus(code, body); err != nil {
		return "", err
	}

	var out cloudSendResponse
	if err := sonic.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("whatsapp send: decode response: %w", err)
	}
	if len(out.Messages) == 0 {
		return "", errors.New("whatsapp send: response has no message id")
	}
	return out.Messages[0].ID, nil
}

func (t *CloudTransport) Close() error { return nil }

func (t *CloudTransport) checkStatus(code int, body []byte) error {
	if code >= 200 && code < 300 {
		return nil
	}
	var apiErr cloudErrorResponse
	_ = sonic.Unmarshal(body, &apiErr)
	msg := apiErr.Error.Message
	if msg == "" {
		msg = fmt.Sprintf("status %d", code)
	}
	if code == fiber.StatusUnauthorized || code == fiber.StatusForbidden {
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	}
	return fmt.Errorf("whatsapp api: %s", msg)
}

// deadline is the shorter of the configured timeout and what is left on ctx.
func (t *CloudTransport) deadline(ctx context.Context) time.Duration {
	d := t.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left > 0 && left < d {
			d = left
		}
	}
	return d
}
