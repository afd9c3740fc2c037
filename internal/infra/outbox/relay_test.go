package outbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "homestay/internal/app/outbox"
)

type sentMessage struct {
	topic   string
	key     string
	payload []byte
	headers map[string]string
}

type recordingProducer struct {
	sent []sentMessage
	err  error
}

func (p *recordingProducer) Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, sentMessage{topic: topic, key: key, payload: payload, headers: headers})
	return nil
}

func TestTopicFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "booking.events.v1", TopicFor("", "booking.requested"))
	assert.Equal(t, "dev.calendar.events.v1", TopicFor("dev.", "calendar.blocked"))
	assert.Equal(t, "plain.events.v1", TopicFor("", "plain"))
}

func TestRelayWrapsRecordInCloudEvent(t *testing.T) {
	t.Parallel()

	producer := &recordingProducer{}
	relay := Relay{Producer: producer, TopicPrefix: "test.", IDGenerator: func() string { return "ce-1" }}
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	err := relay.Publish(context.Background(), appoutbox.EventRecord{
		ID:         "evt-1",
		Name:       "booking.requested",
		Payload:    []byte(`{"request_id":"r-1"}`),
		OccurredAt: at,
		Aggregate:  "listing-1",
		Headers:    map[string]string{"traceparent": "00-abc-def-01"},
	})
	require.NoError(t, err)
	require.Len(t, producer.sent, 1)

	msg := producer.sent[0]
	assert.Equal(t, "test.booking.events.v1", msg.topic)
	assert.Equal(t, "listing-1", msg.key)
	assert.Equal(t, "application/cloudevents+json", msg.headers["content-type"])
	assert.Equal(t, "ce-1", msg.headers["ce-id"])

	var evt map[string]any
	require.NoError(t, json.Unmarshal(msg.payload, &evt))
	assert.Equal(t, "1.0", evt["specversion"])
	assert.Equal(t, "booking.requested.v1", evt["type"])
	assert.Equal(t, defaultSource, evt["source"])
	assert.Equal(t, "00-abc-def-01", evt["traceparent"])
	assert.Equal(t, map[string]any{"request_id": "r-1"}, evt["data"])
}

func TestRelayRejectsInvalidPayload(t *testing.T) {
	t.Parallel()

	producer := &recordingProducer{}
	err := Relay{Producer: producer}.Publish(context.Background(), appoutbox.EventRecord{ID: "x", Name: "a.b", Payload: []byte("{")})
	require.Error(t, err)
	assert.Empty(t, producer.sent)

	err = Relay{}.Publish(context.Background(), appoutbox.EventRecord{})
	assert.ErrorIs(t, err, ErrProducerMissing)
}
