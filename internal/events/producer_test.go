package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewMessage(t *testing.T) {
	event := OrderCreatedEvent{
		EventID:    "e1",
		Type:       TypeOrderCreated,
		OrderID:    "o1",
		TotalPrice: 45,
		Timestamp:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	msg, err := newMessage("order-events", "ORDER#o1", event)
	require.NoError(t, err)
	assert.Equal(t, "order-events", msg.Topic)
	assert.Equal(t, []byte("ORDER#o1"), msg.Key)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "order.created", decoded["type"])
	assert.Equal(t, "o1", decoded["order_id"])
	assert.Equal(t, 45.0, decoded["total_price"])
}

func TestNewKafkaProducer_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaProducer(nil, "a", "b", zap.NewNop())
	assert.Error(t, err)

	p, err := NewKafkaProducer([]string{"localhost:9092"}, "a", "b", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, batchTimeout, p.writer.BatchTimeout)
	assert.Equal(t, kafka.RequireAll, p.writer.RequiredAcks)
	assert.NoError(t, p.Close())
}
