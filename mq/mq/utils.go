package mq

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Subscriber is any service messages of type M can be subscribed from.
type Subscriber[M any] interface {
	Subscribe(uuid.UUID) (uuid.UUID, <-chan M, error)
	DeSubscribe(id uuid.UUID) error
}

// SubscribeProcessor subscribes service to topicId and feeds every message
// through transformFunc into outputStream until ctx is done or the
// subscription closes. outputStream is closed on exit.
func SubscribeProcessor[S Subscriber[M], M any, O any](
	topicId uuid.UUID,
	ctx context.Context,
	service S,
	transformFunc func(msg M) (O, bool, error),
	outputStream chan<- O,
) {
	go func() {
		uid, inputCh, err := service.Subscribe(topicId)
		if err != nil {
			log.Printf("Error subscribing to %s: %v", topicId, err)
			close(outputStream)
			return
		}

		defer func() {
			if err := service.DeSubscribe(uid); err != nil {
				log.Printf("Error de-subscribing %s: %v", uid, err)
			}
			close(outputStream)
		}()

		for {
			select {
			case msg, ok := <-inputCh:
				if !ok {
					return
				}

				output, skip, err := transformFunc(msg)
				if err != nil || skip {
					continue
				}

				select {
				case outputStream <- output:
				case <-ctx.Done():
					return
				}

			case <-ctx.Done():
				return
			}
		}
	}()
}

// SubscribeWallet merges every event queue of wrapper for one wallet into a
// single stream. The stream is closed once ctx is done and all queues have
// been released.
func SubscribeWallet(ctx context.Context, wrapper IntentMessageQueueWrapper, walletID uuid.UUID) <-chan IntentMessage {
	out := make(chan IntentMessage)
	var wg sync.WaitGroup
	for e := Event(0); e < EventCnt; e++ {
		q := wrapper.GetIntentMessageQueue(e)
		if q == nil {
			continue
		}
		stream := make(chan IntentMessage)
		SubscribeProcessor(walletID, ctx, q, func(m IntentMessage) (IntentMessage, bool, error) {
			return m, m.WalletID != walletID, nil
		}, stream)

		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range stream {
				select {
				case out <- m:
				case <-ctx.Done():
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}
