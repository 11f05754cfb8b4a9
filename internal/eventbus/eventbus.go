// Package eventbus publishes domain notifications over NATS JetStream via
// watermill. Consumers (companion clients, analytics) subscribe out of
// process; nothing in this service depends on a delivery round-trip.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	nc "github.com/nats-io/nats.go"
)

// EventBus publishes JSON-encoded domain events.
type EventBus interface {
	Publish(ctx context.Context, topic string, payload any) error
	Close() error
}

// NATSEventBus is the JetStream-backed implementation.
type NATSEventBus struct {
	publisher *wmnats.Publisher
	logger    *slog.Logger
}

var _ EventBus = (*NATSEventBus)(nil)

// NewNATSEventBus connects to NATS and prepares a JetStream publisher.
func NewNATSEventBus(url string, logger *slog.Logger) (*NATSEventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	options := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(1 * time.Second),
	}

	publisher, err := wmnats.NewPublisher(
		wmnats.PublisherConfig{
			URL:         url,
			NatsOptions: options,
			Marshaler:   &wmnats.NATSMarshaler{},
			JetStream: wmnats.JetStreamConfig{
				Disabled:      false,
				AutoProvision: true,
			},
		},
		wmLogger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	return &NATSEventBus{publisher: publisher, logger: logger}, nil
}

// Publish JSON-encodes the payload and publishes it with a fresh message ID
// and correlation ID.
func (b *NATSEventBus) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for %s: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("correlation_id", uuid.New().String())

	if err := b.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (b *NATSEventBus) Close() error {
	return b.publisher.Close()
}

// NoOpEventBus drops every publish. Used in tests and when NATS is not
// configured.
type NoOpEventBus struct{}

var _ EventBus = (*NoOpEventBus)(nil)

func (NoOpEventBus) Publish(ctx context.Context, topic string, payload any) error { return nil }
func (NoOpEventBus) Close() error                                                 { return nil }
