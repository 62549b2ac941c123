// Package events carries in-process messages between the request path and background workers.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"tripmate/internal/models"
)

// TopicNotificationRetry holds notifications whose first write failed.
const TopicNotificationRetry = "notifications.retry"

// Bus is a go channel backed pub/sub. Messages published while nobody is
// subscribed are dropped, so workers must subscribe before traffic starts.
type Bus struct {
	pubsub *gochannel.GoChannel
}

func NewBus() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{
				OutputChannelBuffer:            100,
				BlockPublishUntilSubscriberAck: false,
			},
			watermill.NewStdLogger(false, false),
		),
	}
}

// PublishRetry queues ev for another delivery attempt.
func (b *Bus) PublishRetry(ctx context.Context, ev models.NotificationEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode notification event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", ev.EventID)
	msg.Metadata.Set("type", ev.Type)

	if err := b.pubsub.Publish(TopicNotificationRetry, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TopicNotificationRetry, err)
	}

	return nil
}

func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}
