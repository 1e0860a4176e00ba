package goch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codepay/mq/mq"
)

func receiveMsgWithTimeout[T any](tb testing.TB, ch <-chan T, timeout time.Duration) (T, bool) {
	tb.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			var zero T
			return zero, false
		}
		return msg, true
	case <-time.After(timeout):
		var zero T
		return zero, false
	}
}

type mockItem struct {
	Value   int
	TopicID uuid.UUID
}

func (item mockItem) GetTopic() uuid.UUID {
	return item.TopicID
}

func TestNewFanOutQueueCore(t *testing.T) {
	tests := []struct {
		name       string
		bufferSize int
	}{
		{"unbuffered", 0},
		{"buffered", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core := newFanOutQueueCore[mockItem](tt.bufferSize)
			defer core.Stop()

			assert.NotNil(t, core.publishChan)
			assert.Equal(t, tt.bufferSize, cap(core.publishChan))
			assert.NotNil(t, core.subscribers)
			assert.NotNil(t, core.quit)
			assert.Equal(t, tt.bufferSize, core.bufferSize)
		})
	}
}

func TestFanOutQueueCore_PublishSubscribeDeSubscribe(t *testing.T) {
	core := newFanOutQueueCore[mockItem](0)
	defer core.Stop()
	topic := uuid.New()

	id, ch, err := core.Subscribe(topic)
	require.NoError(t, err)

	go func() {
		assert.NoError(t, core.Publish(mockItem{Value: 42, TopicID: topic}))
	}()
	msg, ok := receiveMsgWithTimeout(t, ch, time.Second)
	require.True(t, ok)
	assert.Equal(t, 42, msg.Value)

	require.NoError(t, core.DeSubscribe(id))
	_, open := <-ch
	assert.False(t, open, "channel should be closed after DeSubscribe")

	err = core.DeSubscribe(id)
	assert.ErrorIs(t, err, ErrSubscriberNotFound)
}

func TestFanOutQueueCore_TopicRouting(t *testing.T) {
	core := newFanOutQueueCore[mockItem](10)
	defer core.Stop()
	topicA, topicB := uuid.New(), uuid.New()

	subsA := make([]<-chan mockItem, 3)
	for i := range subsA {
		_, ch, err := core.Subscribe(topicA)
		require.NoError(t, err)
		subsA[i] = ch
	}
	_, chB, err := core.Subscribe(topicB)
	require.NoError(t, err)

	require.NoError(t, core.Publish(mockItem{Value: 1, TopicID: topicA}))
	require.NoError(t, core.Publish(mockItem{Value: 2, TopicID: topicB}))

	for _, ch := range subsA {
		msg, ok := receiveMsgWithTimeout(t, ch, time.Second)
		require.True(t, ok)
		assert.Equal(t, 1, msg.Value)
	}
	msg, ok := receiveMsgWithTimeout(t, chB, time.Second)
	require.True(t, ok)
	assert.Equal(t, 2, msg.Value)

	_, ok = receiveMsgWithTimeout(t, chB, 100*time.Millisecond)
	assert.False(t, ok, "topic B must not see topic A messages")
}

func TestFanOutQueueCore_Stop(t *testing.T) {
	core := newFanOutQueueCore[mockItem](1)
	topic := uuid.New()
	_, ch, err := core.Subscribe(topic)
	require.NoError(t, err)

	core.Stop()
	core.Stop()

	_, ok := receiveMsgWithTimeout(t, ch, time.Second)
	assert.False(t, ok, "subscriber channel should be closed after Stop")
	assert.ErrorIs(t, core.Publish(mockItem{TopicID: topic}), ErrQueueClosed)
	_, _, err = core.Subscribe(topic)
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestFanOutQueueCore_ConcurrentPublish(t *testing.T) {
	core := newFanOutQueueCore[mockItem](minSubscriberBuffer)
	defer core.Stop()
	topic := uuid.New()

	// Large enough to never drop.
	_, ch, err := core.Subscribe(topic)
	require.NoError(t, err)

	const n = minSubscriberBuffer
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			assert.NoError(t, core.Publish(mockItem{Value: v, TopicID: topic}))
		}(i)
	}
	wg.Wait()

	seen := make(map[int]bool)
	for i := 0; i < n; i++ {
		msg, ok := receiveMsgWithTimeout(t, ch, time.Second)
		require.True(t, ok)
		seen[msg.Value] = true
	}
	assert.Len(t, seen, n)
}

func TestGoChanIntentMessageQueueWrapper(t *testing.T) {
	wrapper := NewGoChanIntentMessageQueueWrapper(4)
	defer wrapper.Close()

	for e := mq.Event(0); e < mq.EventCnt; e++ {
		q := wrapper.GetIntentMessageQueue(e)
		require.NotNil(t, q)
		assert.Equal(t, e, q.GetEvent())
	}
	assert.Nil(t, wrapper.GetIntentMessageQueue(mq.EventCnt))
	assert.Nil(t, wrapper.GetIntentMessageQueue(-1))
}

func TestSubscribeWallet(t *testing.T) {
	wrapper := NewGoChanIntentMessageQueueWrapper(4)
	defer wrapper.Close()

	ctx, cancel := context.WithCancel(context.Background())
	wallet := uuid.New()
	stream := mq.SubscribeWallet(ctx, wrapper, wallet)

	// Subscriptions are registered asynchronously.
	time.Sleep(100 * time.Millisecond)

	messages := []mq.IntentMessage{
		{WalletID: wallet, IntentID: "a", Event: mq.EventPlanned},
		{WalletID: uuid.New(), IntentID: "other", Event: mq.EventPlanned},
		{WalletID: wallet, IntentID: "a", Event: mq.EventConfirmed},
	}
	for _, m := range messages {
		require.NoError(t, mq.Publish(wrapper, m))
	}

	got := make(map[mq.Event]string)
	for i := 0; i < 2; i++ {
		m, ok := receiveMsgWithTimeout(t, stream, time.Second)
		require.True(t, ok)
		got[m.Event] = m.IntentID
	}
	assert.Equal(t, map[mq.Event]string{mq.EventPlanned: "a", mq.EventConfirmed: "a"}, got)

	cancel()
	for range stream {
	}
}

func TestEventText(t *testing.T) {
	for e := mq.Event(0); e < mq.EventCnt; e++ {
		b, err := e.MarshalText()
		require.NoError(t, err)
		var back mq.Event
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, e, back)
	}
	_, err := mq.ParseEvent("settled")
	assert.Error(t, err)
}
