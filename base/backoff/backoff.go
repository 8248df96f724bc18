package backoff

import (
	"context"
	"math"
	"time"
)

// Strategy computes the wait before retry number n, counted from 0.
type Strategy interface {
	Duration(n int, start time.Duration) time.Duration
}

// Backoff sleeps for growing durations capped at limit until Reset.
type Backoff struct {
	LastDuration time.Duration
	NextDuration time.Duration
	start        time.Duration
	limit        time.Duration
	count        int
	strategy     Strategy
}

func New(strategy Strategy, start time.Duration, limit time.Duration) *Backoff {
	b := &Backoff{strategy: strategy, start: start, limit: limit}
	b.Reset()
	return b
}

func (b *Backoff) Reset() {
	b.count = 0
	b.LastDuration = 0
	b.NextDuration = b.next()
}

// Backoff waits NextDuration. It returns ctx.Err() without advancing when ctx
// is done first.
func (b *Backoff) Backoff(ctx context.Context) error {
	t := time.NewTimer(b.NextDuration)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}
	b.count++
	b.LastDuration = b.NextDuration
	b.NextDuration = b.next()
	return nil
}

func (b *Backoff) next() time.Duration {
	d := b.strategy.Duration(b.count, b.start)
	if b.limit > 0 && (d > b.limit || d <= 0) {
		d = b.limit
	}
	return d
}

type exponential struct{}

// Duration doubles start n times. Overflow is reported as 0 and clamped by the limit.
func (exponential) Duration(n int, start time.Duration) time.Duration {
	d := start
	for i := 0; i < n; i++ {
		if d > math.MaxInt64/2 {
			return 0
		}
		d *= 2
	}
	return d
}

func NewExponential(start time.Duration, limit time.Duration) *Backoff {
	return New(exponential{}, start, limit)
}
