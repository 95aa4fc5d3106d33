package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// ChannelPublisher publishes events on an in-process watermill GoChannel.
// It is used when no NATS server is configured and in tests.
type ChannelPublisher struct {
	pubSub *gochannel.GoChannel
}

func NewChannelPublisher(pubSub *gochannel.GoChannel) *ChannelPublisher {
	return &ChannelPublisher{pubSub: pubSub}
}

func NewGoChannel() *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
}

func (p *ChannelPublisher) Publish(ctx context.Context, event Event) error {
	data, err := Encode(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	if err := p.pubSub.Publish(Subject(event), msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.EventType(), err)
	}
	return nil
}

// Subscribe returns the messages published for one event type.
func (p *ChannelPublisher) Subscribe(ctx context.Context, eventType string) (<-chan *message.Message, error) {
	return p.pubSub.Subscribe(ctx, SubscriptionTopicRoot+"."+eventType)
}

func (p *ChannelPublisher) Close() error {
	return p.pubSub.Close()
}
