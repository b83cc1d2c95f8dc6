package events

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

func NewKafkaPublisher(ctx context.Context, brokers []string, topic string) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression(), kgo.NoCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}

	if err := ensureTopic(ctx, kadm.NewClient(client), topic); err != nil {
		// brokers with auto-create still accept the first produce
		log.WithError(err).WithField("topic", topic).Warn("kafka: could not ensure topic")
	}

	log.WithFields(log.Fields{"brokers": brokers, "topic": topic}).Info("kafka publisher ready")
	return &KafkaPublisher{client: client, topic: topic}, nil
}

func ensureTopic(ctx context.Context, adm *kadm.Client, topic string) error {
	resp, err := adm.CreateTopics(ctx, 1, -1, nil, topic)
	if err != nil {
		return err
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return r.Err
		}
	}
	return nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	if err := p.client.ProduceSync(ctx, toRecord(p.topic, ev)).FirstErr(); err != nil {
		return fmt.Errorf("kafka produce %s: %w", ev.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() {
	p.client.Close()
}

func toRecord(topic string, ev Event) *kgo.Record {
	rec := &kgo.Record{
		Topic: topic,
		Key:   []byte(ev.Key),
		Value: ev.Payload,
		Headers: []kgo.RecordHeader{
			{Key: "event-type", Value: []byte(ev.Type)},
		},
	}
	for k, v := range ev.Headers {
		rec.Headers = append(rec.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}
	return rec
}
