package memory

import (
	"context"
	"errors"
	"sync"

	appoutbox "homestay/internal/app/outbox"
)

// DeliveredLimit bounds how many delivered records an Outbox remembers.
const DeliveredLimit = 1000

// Outbox buffers records added during a command and hands them to the publisher on Flush.
// Records that fail to publish stay queued for the next flush.
type Outbox struct {
	mu        sync.Mutex
	pending   []appoutbox.EventRecord
	delivered []appoutbox.EventRecord
	publisher appoutbox.Publisher
}

func NewOutbox(publisher appoutbox.Publisher) *Outbox {
	return &Outbox{publisher: publisher}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = append(o.pending, record)
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.publisher == nil {
		o.remember(o.pending...)
		o.pending = nil
		return nil
	}
	var errs []error
	remaining := o.pending[:0]
	for _, rec := range o.pending {
		if err := o.publisher.Publish(ctx, rec); err != nil {
			errs = append(errs, err)
			remaining = append(remaining, rec)
			continue
		}
		o.remember(rec)
	}
	o.pending = remaining
	return errors.Join(errs...)
}

func (o *Outbox) remember(recs ...appoutbox.EventRecord) {
	o.delivered = append(o.delivered, recs...)
	if extra := len(o.delivered) - DeliveredLimit; extra > 0 {
		o.delivered = append(o.delivered[:0:0], o.delivered[extra:]...)
	}
}

func (o *Outbox) Pending() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]appoutbox.EventRecord(nil), o.pending...)
}

func (o *Outbox) Delivered() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]appoutbox.EventRecord(nil), o.delivered...)
}
