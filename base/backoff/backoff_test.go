package backoff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExponential(t *testing.T) {
	req := require.New(t)
	b := NewExponential(time.Millisecond, 5*time.Millisecond)
	req.Equal(time.Millisecond, b.NextDuration)

	var got []time.Duration
	for i := 0; i < 4; i++ {
		req.NoError(b.Backoff(context.Background()))
		got = append(got, b.NextDuration)
	}
	req.Equal([]time.Duration{2 * time.Millisecond, 4 * time.Millisecond, 5 * time.Millisecond, 5 * time.Millisecond}, got)
	req.Equal(5*time.Millisecond, b.LastDuration)

	b.Reset()
	req.Equal(time.Millisecond, b.NextDuration)
	req.Equal(time.Duration(0), b.LastDuration)
}

func TestExponentialOverflowIsClamped(t *testing.T) {
	req := require.New(t)
	req.Equal(time.Duration(0), exponential{}.Duration(80, time.Second))

	b := NewExponential(time.Second, time.Minute)
	b.count = 80
	req.Equal(time.Minute, b.next())
}

func TestBackoffCancelled(t *testing.T) {
	req := require.New(t)
	b := NewExponential(time.Hour, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req.ErrorIs(b.Backoff(ctx), context.Canceled)
	req.Equal(time.Hour, b.NextDuration)
}
