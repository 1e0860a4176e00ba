package kafka

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codepay/config"
	"codepay/mq/mq"
)

func TestTopicName(t *testing.T) {
	tests := []struct {
		event mq.Event
		want  string
	}{
		{mq.EventPlanned, "codepay.intent.planned"},
		{mq.EventConfirmed, "codepay.intent.confirmed"},
		{mq.EventDropped, "codepay.intent.dropped"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, topicName(tt.event))
		})
	}
}

func TestNewWrapperNeedsBrokers(t *testing.T) {
	_, err := NewKafkaIntentMessageQueueWrapper(nil)
	assert.Error(t, err)
}

func TestDeSubscribeUnknown(t *testing.T) {
	q := NewKafkaIntentMessageQueue(mq.EventPlanned, []string{"localhost:9092"})
	defer q.(*kafkaIntentMessageQueue).close()
	assert.Error(t, q.DeSubscribe(uuid.New()))
}

// TestIntentQueueWithKafka needs a broker listed in KAFKA_BROKERS.
func TestIntentQueueWithKafka(t *testing.T) {
	if os.Getenv("KAFKA_BROKERS") == "" {
		t.Skip("Skipping test: KAFKA_BROKERS environment variable not set.")
	}
	wrapper, err := NewKafkaIntentMessageQueueWrapper(config.KafkaBrokers())
	require.NoError(t, err)
	defer wrapper.Close()

	q := wrapper.GetIntentMessageQueue(mq.EventDropped)
	wallet := uuid.New()
	id, ch, err := q.Subscribe(wallet)
	require.NoError(t, err)

	// The consumer group joins asynchronously and starts at the last offset.
	time.Sleep(5 * time.Second)

	msg := mq.IntentMessage{WalletID: wallet, IntentID: "intent", Kind: "deposit", Event: mq.EventDropped, Quarks: 100}
	require.NoError(t, q.Publish(mq.IntentMessage{WalletID: uuid.New(), IntentID: "other"}))
	require.NoError(t, q.Publish(msg))

	select {
	case got := <-ch:
		assert.Equal(t, msg.IntentID, got.IntentID)
		assert.Equal(t, msg.WalletID, got.WalletID)
	case <-time.After(20 * time.Second):
		t.Fatal("timed out waiting for kafka message")
	}
	require.NoError(t, q.DeSubscribe(id))
}
