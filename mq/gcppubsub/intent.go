package gcppubsub

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/google/uuid"

	"codepay/mq/mq"
)

type intentMQ struct {
	genericService *GenericPubSubService[mq.IntentMessage]
	event          mq.Event
}

func NewIntentMessageQueue(ctx context.Context, client *pubsub.Client, event mq.Event) (*intentMQ, error) {
	topicID := fmt.Sprintf("codepay-intent-%s", event.String())
	gs, err := NewGenericPubSubService[mq.IntentMessage](ctx, client, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to create generic service for %s intents: %w", event, err)
	}
	return &intentMQ{genericService: gs, event: event}, nil
}

func (q *intentMQ) GetEvent() mq.Event                  { return q.event }
func (q *intentMQ) Publish(msg mq.IntentMessage) error { return q.genericService.Publish(msg) }
func (q *intentMQ) Subscribe(walletID uuid.UUID) (uuid.UUID, <-chan mq.IntentMessage, error) {
	return q.genericService.Subscribe(walletID)
}
func (q *intentMQ) DeSubscribe(id uuid.UUID) error { return q.genericService.DeSubscribe(id) }

type GCPIntentMessageQueueWrapper struct {
	client *pubsub.Client
	queues [mq.EventCnt]*intentMQ
}

// NewGCPIntentMessageQueueWrapper creates one topic per event in projectID.
func NewGCPIntentMessageQueueWrapper(ctx context.Context, projectID string) (mq.IntentMessageQueueWrapper, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCP Pub/Sub client for project %s: %w", projectID, err)
	}

	wrapper := &GCPIntentMessageQueueWrapper{client: client}
	for e := mq.Event(0); e < mq.EventCnt; e++ {
		wrapper.queues[e], err = NewIntentMessageQueue(ctx, client, e)
		if err != nil {
			wrapper.Close()
			return nil, err
		}
	}
	return wrapper, nil
}

func (wrapper *GCPIntentMessageQueueWrapper) GetIntentMessageQueue(event mq.Event) mq.IntentMessageQueue {
	if event < 0 || event >= mq.EventCnt || wrapper.queues[event] == nil {
		return nil
	}
	return wrapper.queues[event]
}

func (wrapper *GCPIntentMessageQueueWrapper) Close() {
	for _, q := range wrapper.queues {
		if q != nil {
			q.genericService.Close()
		}
	}
	wrapper.client.Close()
}
