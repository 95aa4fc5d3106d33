package service

import (
	"context"
	"fmt"

	"property-rental-be/internal/pkg/logger"
	"property-rental-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

// EventSource yields the messages published for one event type.
type EventSource interface {
	Subscribe(ctx context.Context, eventType string) (<-chan *message.Message, error)
}

type IEventConsumerService interface {
	Consume(ctx context.Context) error
}

// eventConsumerService writes every entitlement event to the system log. It
// runs against the in-process bus when no NATS server is configured.
type eventConsumerService struct {
	source EventSource
	logger logger.ILogger
}

func NewEventConsumerService(source EventSource, logger logger.ILogger) IEventConsumerService {
	return &eventConsumerService{
		source: source,
		logger: logger,
	}
}

func (cs *eventConsumerService) Consume(ctx context.Context) error {
	for _, eventType := range events.Types {
		messages, err := cs.source.Subscribe(ctx, eventType)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", eventType, err)
		}

		go func() {
			for msg := range messages {
				cs.processMessage(msg)
			}
		}()
	}
	return nil
}

func (cs *eventConsumerService) processMessage(msg *message.Message) {
	// Undecodable messages are acked so they are not redelivered forever.
	defer msg.Ack()

	event, err := events.Decode(msg.Payload)
	if err != nil {
		cs.logger.Error("EVENTS", "Failed to decode event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	details := map[string]interface{}{
		"event":       event.EventType(),
		"occurred_at": event.Timestamp(),
	}
	for k, v := range event.Payload() {
		details[k] = v
	}
	cs.logger.Info("EVENTS", "Event received", details)
}
