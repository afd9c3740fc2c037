package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducerPublishSendsKeyedMessage(t *testing.T) {
	cfg := NewConfig("test")
	sp := mocks.NewSyncProducer(t, cfg)
	sp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "booking.events.v1" {
			return errors.New("unexpected topic " + msg.Topic)
		}
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "listing-1" {
			return errors.New("unexpected key " + string(key))
		}
		if len(msg.Headers) != 2 || string(msg.Headers[0].Key) != "a" || string(msg.Headers[1].Key) != "content-type" {
			return errors.New("headers not sorted")
		}
		return nil
	})

	p := NewProducerFromSync(sp)
	err := p.Publish(context.Background(), "booking.events.v1", "listing-1", []byte(`{}`), map[string]string{
		"content-type": "application/cloudevents+json",
		"a":            "1",
	})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestProducerPublishWrapsBrokerError(t *testing.T) {
	sp := mocks.NewSyncProducer(t, NewConfig("test"))
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewProducerFromSync(sp)
	err := p.Publish(context.Background(), "booking.events.v1", "k", []byte(`{}`), nil)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestProducerPublishHonoursCancelledContext(t *testing.T) {
	sp := mocks.NewSyncProducer(t, NewConfig("test"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewProducerFromSync(sp).Publish(ctx, "t", "k", nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, sp.Close())
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer(nil, nil)
	assert.ErrorIs(t, err, ErrNoBrokers)
}
