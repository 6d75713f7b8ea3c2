package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/app/policies"
	"staybook/internal/domain/shared/money"
)

type stubProducer struct {
	topic   string
	key     string
	payload []byte
}

func (p *stubProducer) Publish(_ context.Context, topic, key string, payload []byte, _ map[string]string) error {
	p.topic = topic
	p.key = key
	p.payload = payload
	return nil
}

func TestKafkaNotifierPublishesRequestCreated(t *testing.T) {
	producer := &stubProducer{}
	n := KafkaNotifier{Producer: producer, Topic: "booking-notifications"}

	err := n.BookingRequestCreated(context.Background(), policies.RequestCreatedNote{
		RequestID:    "req-1",
		HostEmail:    "hugo@example.com",
		GuestName:    "Ana Silva",
		ListingTitle: "Sunny loft",
		CheckIn:      time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:     time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC),
		Guests:       2,
		TotalPrice:   money.Must(240, "USD"),
	})
	require.NoError(t, err)

	assert.Equal(t, "booking-notifications", producer.topic)
	assert.Equal(t, "req-1", producer.key)

	var msg Message
	require.NoError(t, json.Unmarshal(producer.payload, &msg))
	assert.Equal(t, KindRequestCreated, msg.Kind)
	assert.Equal(t, "hugo@example.com", msg.Recipient)
	assert.Equal(t, int64(240), msg.TotalPrice)
}

func TestRelayDeliversMessage(t *testing.T) {
	var got Message
	relay := Relay{Send: func(_ context.Context, msg Message) error {
		got = msg
		return nil
	}}

	payload, err := json.Marshal(Message{Kind: KindDecision, Recipient: "ana@example.com", Status: "ACCEPTED"})
	require.NoError(t, err)

	err = relay.Handle(context.Background(), &sarama.ConsumerMessage{Value: payload})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", got.Recipient)
	assert.Equal(t, "ACCEPTED", got.Status)
}

func TestRelayDropsMalformedMessage(t *testing.T) {
	relay := Relay{}
	err := relay.Handle(context.Background(), &sarama.ConsumerMessage{Value: []byte("not json")})
	assert.NoError(t, err)
}
