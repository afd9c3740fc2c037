package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homestay/internal/app/commands"
	"homestay/internal/app/outbox"
)

type placeOrder struct {
	Ref   string
	Fail  bool
	Empty bool
}

func (placeOrder) Key() string { return "test.place" }

func (c placeOrder) IdempotencyKey() string { return c.Ref }

func (placeOrder) ResultPrototype() any { return &orderResult{} }

func (c placeOrder) Validate() error {
	if c.Empty {
		return errors.New("empty order")
	}
	return nil
}

type orderResult struct {
	Number int `json:"number"`
}

type mapStore struct {
	items map[string]IdempotencyRecord
}

func (s *mapStore) Get(ctx context.Context, key string) (IdempotencyRecord, bool, error) {
	rec, ok := s.items[key]
	return rec, ok, nil
}

func (s *mapStore) Save(ctx context.Context, rec IdempotencyRecord) error {
	s.items[rec.Key] = rec
	return nil
}

type countingOutbox struct {
	flushes int
	failN   int
}

func (o *countingOutbox) Add(ctx context.Context, rec outbox.EventRecord) error { return nil }

func (o *countingOutbox) Flush(ctx context.Context) error {
	o.flushes++
	if o.flushes <= o.failN {
		return errors.New("broker down")
	}
	return nil
}

func newOrderBus(calls *int) *commands.InMemoryBus {
	bus := commands.NewInMemoryBus()
	commands.RegisterHandler[placeOrder, orderResult](bus, commands.HandlerFunc[placeOrder, orderResult](
		func(ctx context.Context, c placeOrder) (orderResult, error) {
			*calls++
			if c.Fail {
				return orderResult{}, errors.New("sold out")
			}
			return orderResult{Number: *calls}, nil
		}))
	return bus
}

func TestIdempotencyReplaysFirstResult(t *testing.T) {
	calls := 0
	store := &mapStore{items: map[string]IdempotencyRecord{}}
	box := &countingOutbox{}
	bus := ChainCommands(newOrderBus(&calls), Validation(), Idempotency(store, nil), OutboxFlush(box, nil))
	ctx := context.Background()

	first, err := commands.Dispatch[placeOrder, orderResult](ctx, bus, placeOrder{Ref: "k1"})
	require.NoError(t, err)
	second, err := commands.Dispatch[placeOrder, orderResult](ctx, bus, placeOrder{Ref: "k1"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, box.flushes)
	_, scoped := store.items["test.place:k1"]
	assert.True(t, scoped)

	third, err := commands.Dispatch[placeOrder, orderResult](ctx, bus, placeOrder{})
	require.NoError(t, err)
	assert.Equal(t, 2, third.Number)
}

func TestFlushFailureKeepsCommandResult(t *testing.T) {
	calls := 0
	store := &mapStore{items: map[string]IdempotencyRecord{}}
	box := &countingOutbox{failN: 1}
	bus := ChainCommands(newOrderBus(&calls), Idempotency(store, nil), OutboxFlush(box, nil))
	ctx := context.Background()

	first, err := commands.Dispatch[placeOrder, orderResult](ctx, bus, placeOrder{Ref: "k3"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Number)

	retry, err := commands.Dispatch[placeOrder, orderResult](ctx, bus, placeOrder{Ref: "k3"})
	require.NoError(t, err)
	assert.Equal(t, first, retry)
	assert.Equal(t, 1, calls)
	rec, ok := store.items["test.place:k3"]
	require.True(t, ok)
	assert.Empty(t, rec.Error)
}

func TestIdempotencyReplaysFailure(t *testing.T) {
	calls := 0
	store := &mapStore{items: map[string]IdempotencyRecord{}}
	bus := ChainCommands(newOrderBus(&calls), Idempotency(store, nil))
	ctx := context.Background()

	_, err := commands.Dispatch[placeOrder, orderResult](ctx, bus, placeOrder{Ref: "k2", Fail: true})
	require.EqualError(t, err, "sold out")
	_, err = commands.Dispatch[placeOrder, orderResult](ctx, bus, placeOrder{Ref: "k2"})
	assert.ErrorIs(t, err, ErrReplayedFailure)
	assert.Equal(t, 1, calls)
}

func TestValidationStopsBeforeHandler(t *testing.T) {
	calls := 0
	bus := ChainCommands(newOrderBus(&calls), Validation())

	_, err := commands.Dispatch[placeOrder, orderResult](context.Background(), bus, placeOrder{Empty: true})
	require.EqualError(t, err, "empty order")
	assert.Zero(t, calls)
}

type busObservation struct {
	kind, key string
	failed    bool
}

type recordingObserver struct {
	seen []busObservation
}

func (r *recordingObserver) ObserveBus(kind, key string, err error, took time.Duration) {
	r.seen = append(r.seen, busObservation{kind: kind, key: key, failed: err != nil})
}

func TestMetricsObservesOutcome(t *testing.T) {
	calls := 0
	obs := &recordingObserver{}
	bus := ChainCommands(newOrderBus(&calls), Metrics(obs), nil)

	_, _ = commands.Dispatch[placeOrder, orderResult](context.Background(), bus, placeOrder{})
	_, _ = commands.Dispatch[placeOrder, orderResult](context.Background(), bus, placeOrder{Fail: true})

	assert.Equal(t, []busObservation{
		{kind: "command", key: "test.place"},
		{kind: "command", key: "test.place", failed: true},
	}, obs.seen)
	assert.Nil(t, Metrics(nil))
}
