package service

import (
	"context"
	"errors"
)

//go:generate mockgen -source=transport.go -destination=mocks/mock_transport.go -package=mocks

// ErrUnauthorized means the provider rejected the session; the client must re-authenticate.
var ErrUnauthorized = errors.New("whatsapp: session unauthorized")

// Transport is the provider side of the WhatsApp client.
type Transport interface {
	// Connect authenticates the session. A nil error means the client is ready to send.
	Connect(ctx context.Context) error
	// Send delivers a text message to an E.164 number (digits only) and returns the provider message id.
	Send(ctx context.Context, to, message string) (string, error)
	Close() error
}
