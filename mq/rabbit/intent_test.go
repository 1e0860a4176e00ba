package rabbit_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codepay/mq/mq"
	rabbitMQ "codepay/mq/rabbit"
)

// getTestConnection dials the broker from RABBITMQ_URL and skips the test
// when none is reachable.
func getTestConnection(t *testing.T) *amqp.Connection {
	t.Helper()
	url := rabbitMQ.CreateAmqpURL()
	conn, err := amqp.Dial(url)
	if err != nil {
		t.Skipf("RabbitMQ not available at %s: %v", url, err)
	}
	return conn
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

func TestIntentQueuesWithRabbitMQ(t *testing.T) {
	conn := getTestConnection(t)

	wrapper, err := rabbitMQ.NewRabbitIntentMessageQueueWrapper(conn)
	require.NoError(t, err)
	defer wrapper.Close()

	for e := mq.Event(0); e < mq.EventCnt; e++ {
		t.Run(e.String(), func(t *testing.T) {
			q := wrapper.GetIntentMessageQueue(e)
			require.NotNil(t, q)
			assert.Equal(t, e, q.GetEvent())

			wallet := uuid.New()
			id, ch, err := q.Subscribe(wallet)
			require.NoError(t, err)

			other := mq.IntentMessage{WalletID: uuid.New(), IntentID: "other", Event: e}
			msg := mq.IntentMessage{
				WalletID: wallet,
				IntentID: "intent-" + e.String(),
				Kind:     "deposit",
				Event:    e,
				Quarks:   500_000,
				Time:     time.Now().UTC().Truncate(time.Second),
			}
			require.NoError(t, q.Publish(other))
			require.NoError(t, q.Publish(msg))

			got, ok := receiveMsgWithTimeout(t, ch, 5*time.Second)
			require.True(t, ok, "should receive the wallet's message")
			assert.Equal(t, msg, got)

			require.NoError(t, q.DeSubscribe(id))
			assert.Error(t, q.DeSubscribe(id))
		})
	}
}
