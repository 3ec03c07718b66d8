package services

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Pacer imitates network latency before a service call touches storage.
// Returning an error aborts the call before any read or write.
type Pacer func(ctx context.Context, d time.Duration) error

// SimulatedLatency waits d or until ctx is done.
func SimulatedLatency(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NoLatency only honours an already cancelled context.
func NoLatency(ctx context.Context, _ time.Duration) error { return ctx.Err() }

// PacerFor picks SimulatedLatency or NoLatency.
func PacerFor(simulate bool) Pacer {
	if simulate {
		return SimulatedLatency
	}
	return NoLatency
}

// base carries what every collection service shares.
type base struct {
	wait  Pacer
	now   func() time.Time
	newID func() string
}

func newBase(p Pacer) base {
	if p == nil {
		p = SimulatedLatency
	}
	return base{
		wait:  p,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

// begin waits out the simulated latency and then detaches from ctx cancellation,
// so a read-modify-write that has started always completes.
func (b *base) begin(ctx context.Context, d time.Duration) (context.Context, error) {
	if err := b.wait(ctx, d); err != nil {
		return nil, err
	}
	return context.WithoutCancel(ctx), nil
}

// touch returns a timestamp strictly after prev.
func (b *base) touch(prev time.Time) time.Time {
	t := b.now()
	if !t.After(prev) {
		t = prev.Add(time.Nanosecond)
	}
	return t
}

// SetClock replaces the time source. Used by tests.
func (b *base) SetClock(now func() time.Time) { b.now = now }

// SetIDs replaces the id generator. Used by tests.
func (b *base) SetIDs(newID func() string) { b.newID = newID }
