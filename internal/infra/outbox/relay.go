package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	appoutbox "homestay/internal/app/outbox"
)

const defaultSource = "app://homestay"

// Producer is the broker side of the relay; kafka.Producer satisfies it.
type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

var ErrProducerMissing = errors.New("outbox: producer not configured")

// Relay wraps an event record into a CloudEvents envelope and sends it to "<prefix><group>.events.v1",
// where group is the event name up to its first dot.
type Relay struct {
	Producer    Producer
	TopicPrefix string
	Source      string
	IDGenerator func() string
}

func (r Relay) Publish(ctx context.Context, rec appoutbox.EventRecord) error {
	if r.Producer == nil {
		return ErrProducerMissing
	}
	payload, headers, err := r.Envelope(rec)
	if err != nil {
		return err
	}
	return r.Producer.Publish(ctx, TopicFor(r.TopicPrefix, rec.Name), rec.Aggregate, payload, headers)
}

type envelope struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Source          string          `json:"source"`
	Subject         string          `json:"subject,omitempty"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	TraceParent     string          `json:"traceparent,omitempty"`
	Data            json.RawMessage `json:"data"`
}

func (r Relay) Envelope(rec appoutbox.EventRecord) ([]byte, map[string]string, error) {
	if !json.Valid(rec.Payload) {
		return nil, nil, fmt.Errorf("outbox: event %s has invalid json payload", rec.ID)
	}
	idGen := r.IDGenerator
	if idGen == nil {
		idGen = uuid.NewString
	}
	source := r.Source
	if source == "" {
		source = defaultSource
	}
	evt := envelope{
		SpecVersion:     "1.0",
		ID:              idGen(),
		Type:            rec.Name + ".v1",
		Source:          source,
		Subject:         rec.Aggregate,
		Time:            rec.OccurredAt.UTC(),
		DataContentType: "application/json",
		TraceParent:     rec.Headers["traceparent"],
		Data:            json.RawMessage(rec.Payload),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, nil, err
	}
	headers := map[string]string{}
	for k, v := range rec.Headers {
		headers[k] = v
	}
	headers["content-type"] = "application/cloudevents+json"
	headers["ce-id"] = evt.ID
	return payload, headers, nil
}

func TopicFor(prefix, name string) string {
	base := name
	if idx := strings.IndexRune(name, '.'); idx > 0 {
		base = name[:idx]
	}
	return prefix + base + ".events.v1"
}
