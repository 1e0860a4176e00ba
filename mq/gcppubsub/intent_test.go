package gcppubsub_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codepay/mq/gcppubsub"
	"codepay/mq/mq"
)

// These tests need the Pub/Sub emulator:
//
//	gcloud beta emulators pubsub start --project=test-project
const testProjectID = "test-project"

func getTestWrapper(t *testing.T) mq.IntentMessageQueueWrapper {
	t.Helper()
	if os.Getenv("PUBSUB_EMULATOR_HOST") == "" {
		t.Skip("Skipping test: PUBSUB_EMULATOR_HOST environment variable not set. Please start the Pub/Sub emulator.")
	}
	wrapper, err := gcppubsub.NewGCPIntentMessageQueueWrapper(context.Background(), testProjectID)
	require.NoError(t, err)
	return wrapper
}

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

func TestIntentQueuesWithPubSub(t *testing.T) {
	wrapper := getTestWrapper(t)
	defer wrapper.Close()

	q := wrapper.GetIntentMessageQueue(mq.EventConfirmed)
	require.NotNil(t, q)
	assert.Equal(t, mq.EventConfirmed, q.GetEvent())
	assert.Nil(t, wrapper.GetIntentMessageQueue(mq.EventCnt))

	wallet := uuid.New()
	id, ch, err := q.Subscribe(wallet)
	require.NoError(t, err)

	msg := mq.IntentMessage{
		WalletID: wallet,
		IntentID: "intent",
		Kind:     "privateTransfer",
		Event:    mq.EventConfirmed,
		Quarks:   50_000_000,
		Time:     time.Now().UTC(),
	}
	require.NoError(t, q.Publish(mq.IntentMessage{WalletID: uuid.New(), IntentID: "other"}))
	require.NoError(t, q.Publish(msg))

	got, ok := receiveMsgWithTimeout(t, ch, 10*time.Second)
	require.True(t, ok)
	assert.Equal(t, msg.IntentID, got.IntentID)
	assert.Equal(t, msg.Quarks, got.Quarks)

	require.NoError(t, q.DeSubscribe(id))
	_, open := <-ch
	for open {
		_, open = <-ch
	}
}
