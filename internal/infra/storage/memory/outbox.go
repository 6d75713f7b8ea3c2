package memory

import (
	"context"
	"sync"

	appoutbox "staybook/internal/app/outbox"
	"staybook/internal/app/uow"
)

// Outbox buffers event records in memory. Records added inside a unit of
// work stay staged with that unit and reach the buffer only when it commits,
// so a rolled-back command leaves nothing behind. Flush hands buffered
// records to an optional publisher; without one they are simply dropped
// after the command completes.
type Outbox struct {
	mu      sync.Mutex
	records []appoutbox.EventRecord

	Publisher func(ctx context.Context, record appoutbox.EventRecord) error
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	if bound, ok := uow.FromContext(ctx); ok {
		if unit, ok := bound.(*Unit); ok {
			unit.stage(o, record)
			return nil
		}
	}
	o.append(record)
	return nil
}

func (o *Outbox) append(record appoutbox.EventRecord) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	records := o.records
	o.records = nil
	o.mu.Unlock()
	if o.Publisher == nil {
		return nil
	}
	for _, rec := range records {
		if err := o.Publisher(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// Pending returns a snapshot of unflushed records; used by tests.
func (o *Outbox) Pending() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]appoutbox.EventRecord, len(o.records))
	copy(out, o.records)
	return out
}

var _ appoutbox.Outbox = (*Outbox)(nil)
