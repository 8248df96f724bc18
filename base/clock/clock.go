package clock

import (
	"sync"
	"time"

	"golang.org/x/xerrors"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/base/log"
	"github.com/lovawin/sosh-test-sub004/base/metrics"
	"github.com/lovawin/sosh-test-sub004/domain"
)

const defaultTimeout = 5 * time.Second

var met = metrics.New("clock")

// TimestampSource returns the timestamp of the latest block.
type TimestampSource interface {
	BlockTimestamp(ctx ctx.Ctx) (time.Time, error)
}

type chainClock struct {
	src     TimestampSource
	timeout time.Duration

	mu   sync.Mutex
	last time.Time
}

// NewChainClock reads time from the ledger. Readings never go backwards: a block
// timestamp older than one already returned yields the newer one again.
// A non-positive timeout falls back to 5s.
func NewChainClock(src TimestampSource, timeout time.Duration) domain.Clock {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &chainClock{src: src, timeout: timeout}
}

func (c *chainClock) Now(bCtx ctx.Ctx) (time.Time, error) {
	defer met.BumpTime("now.time").End()

	bCtx, cancel := ctx.WithTimeout(bCtx, c.timeout)
	defer cancel()

	ts, err := c.src.BlockTimestamp(bCtx)
	if err != nil {
		met.BumpSum("now.err", 1)
		bCtx.WithField("err", err).Warn("src.BlockTimestamp failed")
		return time.Time{}, xerrors.Errorf("block timestamp: %v: %w", err, domain.ErrClockUnavailable)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ts.Before(c.last) {
		bCtx.WithFields(log.Fields{"ts": ts, "last": c.last}).Warn("block timestamp went backwards")
		return c.last, nil
	}
	c.last = ts
	return ts, nil
}

type systemClock struct{}

// NewSystemClock uses the local wall clock, for running without a ledger.
func NewSystemClock() domain.Clock {
	return systemClock{}
}

func (systemClock) Now(ctx.Ctx) (time.Time, error) {
	return time.Now().UTC().Truncate(time.Second), nil
}

// Fixed is a manually driven clock.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

func (f *Fixed) Now(ctx.Ctx) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now, nil
}

func (f *Fixed) Set(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}

func (f *Fixed) Advance(d time.Duration) time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
	return f.now
}
