package goch

import (
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"codepay/mq/mq"
)

const minSubscriberBuffer = 8

type subscriber[T any] struct {
	topic uuid.UUID
	ch    chan T
}

// fanOutQueueCore delivers every published item to the subscribers of the
// item's topic. A full subscriber drops the item instead of blocking the
// others.
type fanOutQueueCore[T mq.TopicProvider] struct {
	publishChan chan T
	mu          sync.RWMutex
	subscribers map[uuid.UUID]subscriber[T]
	quit        chan struct{}
	stopOnce    sync.Once
	bufferSize  int
}

// newFanOutQueueCore starts the fan-out goroutine. A bufferSize of 0 makes
// Publish wait for the fan-out goroutine.
func newFanOutQueueCore[T mq.TopicProvider](bufferSize int) *fanOutQueueCore[T] {
	q := &fanOutQueueCore[T]{
		publishChan: make(chan T, bufferSize),
		subscribers: make(map[uuid.UUID]subscriber[T]),
		quit:        make(chan struct{}),
		bufferSize:  bufferSize,
	}
	go q.fanOutRoutine()
	return q
}

func (q *fanOutQueueCore[T]) fanOutRoutine() {
	for {
		select {
		case item := <-q.publishChan:
			q.mu.RLock()
			for id, s := range q.subscribers {
				if s.topic != item.GetTopic() {
					continue
				}
				select {
				case s.ch <- item:
				default:
					log.Printf("Subscriber %s is full, dropping message for topic %s", id, s.topic)
				}
			}
			q.mu.RUnlock()
		case <-q.quit:
			q.mu.Lock()
			for id, s := range q.subscribers {
				close(s.ch)
				delete(q.subscribers, id)
			}
			q.mu.Unlock()
			return
		}
	}
}

func (q *fanOutQueueCore[T]) Publish(item T) error {
	select {
	case <-q.quit:
		return ErrQueueClosed
	default:
	}
	select {
	case q.publishChan <- item:
		return nil
	case <-q.quit:
		return ErrQueueClosed
	}
}

func (q *fanOutQueueCore[T]) Subscribe(topic uuid.UUID) (uuid.UUID, <-chan T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	select {
	case <-q.quit:
		return uuid.Nil, nil, ErrQueueClosed
	default:
	}
	id := uuid.New()
	ch := make(chan T, max(q.bufferSize, minSubscriberBuffer))
	q.subscribers[id] = subscriber[T]{topic: topic, ch: ch}
	return id, ch, nil
}

func (q *fanOutQueueCore[T]) DeSubscribe(id uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	s, ok := q.subscribers[id]
	if !ok {
		return fmt.Errorf("subscriber %s: %w", id, ErrSubscriberNotFound)
	}
	delete(q.subscribers, id)
	close(s.ch)
	return nil
}

// Stop closes every subscriber channel. Later calls are no-ops.
func (q *fanOutQueueCore[T]) Stop() {
	q.stopOnce.Do(func() {
		close(q.quit)
	})
}

type QueueError string

func (e QueueError) Error() string {
	return string(e)
}

const (
	ErrQueueClosed        QueueError = "message queue is closed"
	ErrSubscriberNotFound QueueError = "subscriber not found"
)
