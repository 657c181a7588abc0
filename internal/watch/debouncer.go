package watch

import (
	"context"
	"time"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// Batch describes a burst of change notifications coalesced into one regeneration.
type Batch struct {
	Count  int
	First  time.Time
	Last   time.Time
	Reason string
	// Cause is "quiet" when the burst ended, "max_delay" when it was cut short.
	Cause string
}

// Debouncer coalesces bursts of Trigger calls into single invocations of a
// callback. The callback runs on the Run goroutine, so invocations never
// overlap; triggers arriving while it runs produce exactly one follow-up.
type Debouncer struct {
	quiet    time.Duration
	maxDelay time.Duration
	fire     func(context.Context, Batch)
	requests chan request
}

type request struct {
	at     time.Time
	reason string
}

// NewDebouncer creates a debouncer. maxDelay bounds how long a continuous
// burst can postpone the callback; zero means ten quiet windows.
func NewDebouncer(quiet, maxDelay time.Duration, fire func(context.Context, Batch)) (*Debouncer, error) {
	if quiet <= 0 {
		return nil, ferrors.ValidationError("quiet window must be > 0").Build()
	}
	if fire == nil {
		return nil, ferrors.ValidationError("callback is required").Build()
	}
	if maxDelay <= 0 {
		maxDelay = 10 * quiet
	}
	return &Debouncer{quiet: quiet, maxDelay: maxDelay, fire: fire, requests: make(chan request, 256)}, nil
}

// Trigger records a change. It never blocks; when the buffer is full the
// change is already covered by a pending batch.
func (d *Debouncer) Trigger(reason string) {
	select {
	case d.requests <- request{at: time.Now(), reason: reason}:
	default:
	}
}

// Run delivers batches until ctx is done.
func (d *Debouncer) Run(ctx context.Context) {
	quietTimer := newStoppedTimer()
	maxTimer := newStoppedTimer()
	var (
		quietC <-chan time.Time
		maxC   <-chan time.Time
		batch  Batch
	)

	emit := func(cause string) {
		b := batch
		b.Cause = cause
		batch = Batch{}
		stopTimer(quietTimer)
		stopTimer(maxTimer)
		quietC, maxC = nil, nil
		d.fire(ctx, b)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case req := <-d.requests:
			if batch.Count == 0 {
				batch.First = req.at
				resetTimer(maxTimer, d.maxDelay)
				maxC = maxTimer.C
			}
			batch.Count++
			batch.Last = req.at
			batch.Reason = req.reason
			resetTimer(quietTimer, d.quiet)
			quietC = quietTimer.C
		case <-quietC:
			emit("quiet")
		case <-maxC:
			emit("max_delay")
		}
	}
}

func newStoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	stopTimer(t)
	return t
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

func resetTimer(t *time.Timer, after time.Duration) {
	stopTimer(t)
	t.Reset(after)
}
