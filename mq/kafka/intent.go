package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"codepay/mq/mq"
)

// topicName is codepay.intent.<event>.
func topicName(event mq.Event) string {
	return "codepay.intent." + event.String()
}

type kafkaConsumer struct {
	reader *kafka.Reader
	cancel context.CancelFunc
}

// kafkaIntentMessageQueue implements mq.IntentMessageQueue on one Kafka
// topic. Messages are keyed by wallet id so a wallet's events stay ordered in
// one partition. Every subscriber reads with its own consumer group.
type kafkaIntentMessageQueue struct {
	event     mq.Event
	brokers   []string
	writer    *kafka.Writer
	mu        sync.Mutex
	consumers map[uuid.UUID]*kafkaConsumer
}

func NewKafkaIntentMessageQueue(event mq.Event, brokers []string) mq.IntentMessageQueue {
	return &kafkaIntentMessageQueue{
		event:     event,
		brokers:   brokers,
		writer:    newWriter(brokers, topicName(event)),
		consumers: make(map[uuid.UUID]*kafkaConsumer),
	}
}

func (q *kafkaIntentMessageQueue) GetEvent() mq.Event {
	return q.event
}

func (q *kafkaIntentMessageQueue) Publish(msg mq.IntentMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = q.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.WalletID.String()),
		Value: body,
		Time:  msg.Time,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message to %s: %w", q.writer.Topic, err)
	}
	return nil
}

func (q *kafkaIntentMessageQueue) Subscribe(walletID uuid.UUID) (uuid.UUID, <-chan mq.IntentMessage, error) {
	subscriberID := uuid.New()
	group := fmt.Sprintf("codepay-%s-%s", q.event, subscriberID)
	reader := newReader(q.brokers, topicName(q.event), group)
	ctx, cancel := context.WithCancel(context.Background())

	q.mu.Lock()
	q.consumers[subscriberID] = &kafkaConsumer{reader: reader, cancel: cancel}
	q.mu.Unlock()

	out := make(chan mq.IntentMessage)
	key := walletID.String()
	go func() {
		defer close(out)
		defer reader.Close()

		for {
			m, err := reader.ReadMessage(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
					log.Printf("Kafka reader %s stopped: %v", group, err)
				}
				return
			}
			if string(m.Key) != key {
				continue
			}
			var msg mq.IntentMessage
			if err := json.Unmarshal(m.Value, &msg); err != nil {
				log.Printf("Failed to unmarshal IntentMessage: %v", err)
				continue
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	return subscriberID, out, nil
}

func (q *kafkaIntentMessageQueue) DeSubscribe(id uuid.UUID) error {
	q.mu.Lock()
	c, ok := q.consumers[id]
	delete(q.consumers, id)
	q.mu.Unlock()

	if !ok {
		return fmt.Errorf("consumer with ID %s not found for %s events", id, q.event)
	}
	c.cancel()
	return nil
}

func (q *kafkaIntentMessageQueue) close() {
	q.mu.Lock()
	for id, c := range q.consumers {
		c.cancel()
		delete(q.consumers, id)
	}
	q.mu.Unlock()
	if err := q.writer.Close(); err != nil {
		log.Printf("Error closing Kafka writer for %s: %v", q.writer.Topic, err)
	}
}

type KafkaIntentMessageQueueWrapper struct {
	queues [mq.EventCnt]*kafkaIntentMessageQueue
}

func NewKafkaIntentMessageQueueWrapper(brokers []string) (mq.IntentMessageQueueWrapper, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}
	wrapper := &KafkaIntentMessageQueueWrapper{}
	for e := mq.Event(0); e < mq.EventCnt; e++ {
		wrapper.queues[e] = NewKafkaIntentMessageQueue(e, brokers).(*kafkaIntentMessageQueue)
	}
	return wrapper, nil
}

func (wrapper *KafkaIntentMessageQueueWrapper) GetIntentMessageQueue(event mq.Event) mq.IntentMessageQueue {
	if event < 0 || event >= mq.EventCnt {
		return nil
	}
	return wrapper.queues[event]
}

func (wrapper *KafkaIntentMessageQueueWrapper) Close() {
	for _, q := range wrapper.queues {
		q.close()
	}
}
