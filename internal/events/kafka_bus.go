package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// KafkaBus is the device/cluster-wide backend: events reach every subscribed
// process, not just the one that published.
type KafkaBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	brokers    []string
	logger     *slog.Logger
}

func NewKafkaBus(brokers []string, logger *slog.Logger) (*KafkaBus, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return &KafkaBus{publisher: publisher, brokers: brokers, logger: logger}, nil
}

func (b *KafkaBus) Publish(ctx context.Context, event Event) error {
	payload, err := event.Marshal()
	if err != nil {
		return err
	}

	msg := message.NewMessage(event.ID, payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("type", event.Type)

	if err := b.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe starts a consumer with a per-process group id so every process
// sees every event, matching the broadcast semantics of the channel backend.
// One subscriber per bus; a second call replaces the first.
func (b *KafkaBus) Subscribe(ctx context.Context) (<-chan Event, error) {
	subscriber, err := kafka.NewSubscriber(
		kafka.SubscriberConfig{
			Brokers:       b.brokers,
			Unmarshaler:   kafka.DefaultMarshaler{},
			ConsumerGroup: Source + "-" + watermill.NewShortUUID(),
		},
		watermill.NewSlogLogger(b.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka subscriber: %w", err)
	}
	b.subscriber = subscriber

	messages, err := subscriber.Subscribe(ctx, topic)
	if err != nil {
		subscriber.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		for msg := range messages {
			var event Event
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				b.logger.Warn("dropping malformed event", "error", err)
				msg.Ack()
				continue
			}
			msg.Ack()

			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (b *KafkaBus) Close() error {
	if b.subscriber != nil {
		if err := b.subscriber.Close(); err != nil {
			b.logger.Warn("failed to close kafka subscriber", "error", err)
		}
	}
	return b.publisher.Close()
}
