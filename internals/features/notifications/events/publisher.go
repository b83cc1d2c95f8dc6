package events

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

import (
	"context"

	log "github.com/sirupsen/logrus"

	"workshop_backend/internals/configs"
)

const (
	TypeRegistrationCreated          = "registration.created"
	TypeRegistrationPaymentConfirmed = "registration.payment_confirmed"
)

// Event is a registration domain event; Key is the registration id so every
// event for one registration lands on the same partition.
type Event struct {
	Type    string
	Key     string
	Payload []byte
	Headers map[string]string
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close()
}

// New returns a Kafka publisher when brokers are configured, otherwise a no-op.
func New(ctx context.Context, cfg configs.KafkaConfig) (Publisher, error) {
	if len(cfg.Brokers) == 0 {
		log.Info("KAFKA_BROKERS not set, domain events disabled")
		return NoopPublisher{}, nil
	}
	return NewKafkaPublisher(ctx, cfg.Brokers, cfg.Topic)
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close()                               {}

// Enabled is false for the no-op publisher, so no event intents get written.
func Enabled(p Publisher) bool {
	_, noop := p.(NoopPublisher)
	return p != nil && !noop
}
