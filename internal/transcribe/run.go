package transcribe

import (
	"context"
	"time"
)

// Run drives a submitted ticket to resolution. The remote call runs on its
// own goroutine; ticks and the call outcome are merged here, so every state
// change happens on the caller's goroutine. observe, if set, receives each
// progress value, ending with 100. A nil ticks channel disables estimation.
//
// Run returns the job's failure, a store error from recording the token, or
// ctx.Err() if the caller stops waiting. Cancelling ctx abandons interest in
// the job; it does not abort it on the service.
func (o *Orchestrator) Run(ctx context.Context, t Ticket, ticks <-chan time.Time, observe func(progress float64)) error {
	outcomes := make(chan Outcome, 1)
	go func() {
		outcomes <- o.Call(ctx, t)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticks:
			if o.Tick(t.Generation) && observe != nil {
				observe(o.Progress())
			}
		case out := <-outcomes:
			applied, err := o.Resolve(ctx, out)
			if applied && observe != nil {
				observe(o.Progress())
			}
			if err != nil {
				return err
			}
			return o.Err()
		}
	}
}

// NewTicks returns a tick channel firing every interval and a stop func.
// A non-positive interval uses DefaultTickInterval.
func NewTicks(interval time.Duration) (<-chan time.Time, func()) {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	tk := time.NewTicker(interval)
	return tk.C, tk.Stop
}
