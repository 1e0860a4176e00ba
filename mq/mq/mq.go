package mq

import "github.com/google/uuid"

// TopicProvider is implemented by messages that are routed by a topic id.
type TopicProvider interface {
	GetTopic() uuid.UUID
}

type IntentMessageQueueWrapper interface {
	GetIntentMessageQueue(event Event) IntentMessageQueue
	Close()
}

// IntentMessageQueue carries the messages of one Event. Subscribers only see
// messages of the wallet they subscribed to.
type IntentMessageQueue interface {
	GetEvent() Event
	Publish(msg IntentMessage) error
	Subscribe(walletID uuid.UUID) (uuid.UUID, <-chan IntentMessage, error)
	DeSubscribe(id uuid.UUID) error
}

// Publish sends msg to the queue of its event.
func Publish(wrapper IntentMessageQueueWrapper, msg IntentMessage) error {
	q := wrapper.GetIntentMessageQueue(msg.Event)
	if q == nil {
		return ErrNoQueue
	}
	return q.Publish(msg)
}

type Error string

func (e Error) Error() string {
	return string(e)
}

const ErrNoQueue Error = "no queue for event"
