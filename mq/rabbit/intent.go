package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"codepay/mq/mq"
)

const (
	exchangeName = "intent_events_exchange"
)

// routingKey is intent.<event>.<wallet id>.
func routingKey(event mq.Event, walletID uuid.UUID) string {
	return fmt.Sprintf("intent.%s.%s", event, walletID)
}

type consumer struct {
	channel *amqp091.Channel
	out     chan mq.IntentMessage
}

// rabbitIntentMessageQueue implements mq.IntentMessageQueue for RabbitMQ.
// Every subscriber gets its own channel and exclusive queue.
type rabbitIntentMessageQueue struct {
	event     mq.Event
	conn      *amqp091.Connection
	channel   *amqp091.Channel
	mu        sync.Mutex
	consumers map[uuid.UUID]*consumer
}

func NewRabbitIntentMessageQueue(event mq.Event, conn *amqp091.Connection) (mq.IntentMessageQueue, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	if err := DeclareExchange(ch, exchangeName); err != nil {
		ch.Close()
		return nil, err
	}

	return &rabbitIntentMessageQueue{
		event:     event,
		conn:      conn,
		channel:   ch,
		consumers: make(map[uuid.UUID]*consumer),
	}, nil
}

func (q *rabbitIntentMessageQueue) GetEvent() mq.Event {
	return q.event
}

func (q *rabbitIntentMessageQueue) Publish(msg mq.IntentMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = q.channel.PublishWithContext(ctx,
		exchangeName,                      // exchange
		routingKey(q.event, msg.WalletID), // routing key
		false,                             // mandatory
		false,                             // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   msg.Time,
			Body:        body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (q *rabbitIntentMessageQueue) Subscribe(walletID uuid.UUID) (uuid.UUID, <-chan mq.IntentMessage, error) {
	ch, err := q.conn.Channel()
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	queueName, err := DeclareSubscriberQueue(ch, exchangeName, routingKey(q.event, walletID))
	if err != nil {
		ch.Close()
		return uuid.Nil, nil, err
	}
	msgs, err := ch.Consume(
		queueName, // queue
		"",        // consumer
		true,      // auto-ack
		true,      // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		ch.Close()
		return uuid.Nil, nil, fmt.Errorf("failed to register a consumer: %w", err)
	}

	subscriberID := uuid.New()
	c := &consumer{channel: ch, out: make(chan mq.IntentMessage)}

	q.mu.Lock()
	q.consumers[subscriberID] = c
	q.mu.Unlock()

	go func() {
		defer close(c.out)

		// msgs closes when the consumer's channel is closed by DeSubscribe or Close.
		for d := range msgs {
			var msg mq.IntentMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				log.Printf("Failed to unmarshal IntentMessage: %v", err)
				continue
			}
			select {
			case c.out <- msg:
			case <-time.After(1 * time.Second):
				log.Printf("Timeout sending message to IntentMessage consumer %s. Skipping.", subscriberID)
			}
		}
	}()

	return subscriberID, c.out, nil
}

func (q *rabbitIntentMessageQueue) DeSubscribe(subscriberID uuid.UUID) error {
	q.mu.Lock()
	c, ok := q.consumers[subscriberID]
	delete(q.consumers, subscriberID)
	q.mu.Unlock()

	if !ok {
		return fmt.Errorf("consumer with ID %s not found for %s events", subscriberID, q.event)
	}
	return c.channel.Close()
}

func (q *rabbitIntentMessageQueue) close() {
	q.mu.Lock()
	for id, c := range q.consumers {
		c.channel.Close()
		delete(q.consumers, id)
	}
	q.mu.Unlock()
	q.channel.Close()
}

// rabbitIntentMessageQueueWrapper implements mq.IntentMessageQueueWrapper for RabbitMQ.
type rabbitIntentMessageQueueWrapper struct {
	queues [mq.EventCnt]*rabbitIntentMessageQueue
	conn   *amqp091.Connection
}

func NewRabbitIntentMessageQueueWrapper(conn *amqp091.Connection) (mq.IntentMessageQueueWrapper, error) {
	wrapper := &rabbitIntentMessageQueueWrapper{conn: conn}
	for e := mq.Event(0); e < mq.EventCnt; e++ {
		q, err := NewRabbitIntentMessageQueue(e, conn)
		if err != nil {
			wrapper.Close()
			return nil, fmt.Errorf("failed to create %s mq: %w", e, err)
		}
		wrapper.queues[e] = q.(*rabbitIntentMessageQueue)
	}
	return wrapper, nil
}

func (wrapper *rabbitIntentMessageQueueWrapper) GetIntentMessageQueue(event mq.Event) mq.IntentMessageQueue {
	if event < 0 || event >= mq.EventCnt {
		return nil
	}
	return wrapper.queues[event]
}

// Close closes all channels and the RabbitMQ connection.
func (wrapper *rabbitIntentMessageQueueWrapper) Close() {
	for _, q := range wrapper.queues {
		if q != nil {
			q.close()
		}
	}
	if wrapper.conn != nil {
		wrapper.conn.Close()
	}
}
