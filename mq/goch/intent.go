package goch

import (
	"github.com/google/uuid"

	"codepay/mq/mq"
)

// ChannelIntentMessageQueue implements mq.IntentMessageQueue in process.
type ChannelIntentMessageQueue struct {
	event mq.Event
	core  *fanOutQueueCore[mq.IntentMessage]
}

func NewChannelIntentMessageQueue(event mq.Event, bufferSize int) *ChannelIntentMessageQueue {
	return &ChannelIntentMessageQueue{
		event: event,
		core:  newFanOutQueueCore[mq.IntentMessage](bufferSize),
	}
}

func (q *ChannelIntentMessageQueue) GetEvent() mq.Event {
	return q.event
}

func (q *ChannelIntentMessageQueue) Publish(msg mq.IntentMessage) error {
	return q.core.Publish(msg)
}

func (q *ChannelIntentMessageQueue) Subscribe(walletID uuid.UUID) (uuid.UUID, <-chan mq.IntentMessage, error) {
	return q.core.Subscribe(walletID)
}

func (q *ChannelIntentMessageQueue) DeSubscribe(id uuid.UUID) error {
	return q.core.DeSubscribe(id)
}

// GoChanIntentMessageQueueWrapper holds one in-process queue per event.
type GoChanIntentMessageQueueWrapper struct {
	queues [mq.EventCnt]*ChannelIntentMessageQueue
}

func NewGoChanIntentMessageQueueWrapper(bufferSize int) mq.IntentMessageQueueWrapper {
	wrapper := &GoChanIntentMessageQueueWrapper{}
	for e := mq.Event(0); e < mq.EventCnt; e++ {
		wrapper.queues[e] = NewChannelIntentMessageQueue(e, bufferSize)
	}
	return wrapper
}

func (wrapper *GoChanIntentMessageQueueWrapper) GetIntentMessageQueue(event mq.Event) mq.IntentMessageQueue {
	if event < 0 || event >= mq.EventCnt {
		return nil
	}
	return wrapper.queues[event]
}

func (wrapper *GoChanIntentMessageQueueWrapper) Close() {
	for _, q := range wrapper.queues {
		q.core.Stop()
	}
}
