package asynctest

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/joeycumines/go-eventloop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func awaitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestWaitUntil_alreadyTrue(t *testing.T) {
	h := NewHarness(t)

	var calls int
	start := time.Now()
	promise := h.WaitUntil(func() bool {
		calls++
		return true
	})

	_, err := h.Await(awaitCtx(t), promise)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), DefaultPollInterval/2)
	assert.Equal(t, 1, calls)
}

func TestWaitUntil_firstEvaluationIsSynchronous(t *testing.T) {
	h := NewHarness(t)

	var evaluated bool
	h.Do(func() {
		WaitUntil(h.JS(), func() bool {
			evaluated = true
			return true
		})
		assert.True(t, evaluated)
	})
}

func TestWaitUntil_defaultInterval(t *testing.T) {
	h := NewHarness(t)

	var (
		ready atomic.Bool
		times []time.Time
	)
	promise := h.WaitUntil(func() bool {
		times = append(times, time.Now())
		return ready.Load()
	})

	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, eventloop.Pending, promise.State())
	ready.Store(true)

	_, err := h.Await(awaitCtx(t), promise)
	require.NoError(t, err)

	// times is only written on the loop goroutine, and settlement happens after
	require.GreaterOrEqual(t, len(times), 3)
	assert.LessOrEqual(t, len(times), 5)
	for i := 1; i < len(times); i++ {
		assert.GreaterOrEqual(t, times[i].Sub(times[i-1]), DefaultPollInterval-10*time.Millisecond)
	}
}

func TestWaitUntil_resolvesAfterTransition(t *testing.T) {
	h := NewHarness(t)

	var calls atomic.Int32
	promise := h.WaitUntil(func() bool {
		return calls.Add(1) >= 4
	}, WithPollInterval(10*time.Millisecond))

	_, err := h.Await(awaitCtx(t), promise)
	require.NoError(t, err)
	assert.Equal(t, eventloop.Fulfilled, promise.State())
	assert.Nil(t, promise.Value())

	// no further polling
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(4), calls.Load())
}

func TestWaitUntil_noTimeoutByDefault(t *testing.T) {
	h := NewHarness(t)

	var calls atomic.Int32
	promise := h.WaitUntil(func() bool {
		calls.Add(1)
		return false
	}, WithPollInterval(5*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := h.Await(ctx, promise)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, eventloop.Pending, promise.State())
	assert.Greater(t, calls.Load(), int32(5))
}

func TestWaitUntil_timeout(t *testing.T) {
	h := NewHarness(t)

	start := time.Now()
	promise := h.WaitUntil(func() bool { return false },
		WithPollInterval(20*time.Millisecond),
		WithTimeout(100*time.Millisecond),
	)

	_, err := h.Await(awaitCtx(t), promise)
	assert.ErrorIs(t, err, ErrWaitTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
	assert.Equal(t, eventloop.Rejected, promise.State())
}

func TestWaitUntil_timeoutEvaluatesAtDeadline(t *testing.T) {
	h := NewHarness(t)

	var ready atomic.Bool
	promise := h.WaitUntil(ready.Load,
		WithPollInterval(time.Hour),
		WithTimeout(100*time.Millisecond),
	)
	ready.Store(true)

	_, err := h.Await(awaitCtx(t), promise)
	require.NoError(t, err)
}

func TestWaitUntil_backOffStop(t *testing.T) {
	h := NewHarness(t)

	var calls atomic.Int32
	promise := h.WaitUntil(func() bool {
		calls.Add(1)
		return false
	}, WithPollBackOff(func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 3)
	}))

	_, err := h.Await(awaitCtx(t), promise)
	assert.ErrorIs(t, err, ErrWaitTimeout)
	assert.Equal(t, int32(4), calls.Load())
}

func TestWaitUntil_backOffFactoryPerCall(t *testing.T) {
	h := NewHarness(t, WithPollBackOff(func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 1)
	}))

	for range 2 {
		var calls atomic.Int32
		promise := h.WaitUntil(func() bool {
			calls.Add(1)
			return false
		})
		_, err := h.Await(awaitCtx(t), promise)
		assert.ErrorIs(t, err, ErrWaitTimeout)
		assert.Equal(t, int32(2), calls.Load())
	}
}

func TestWaitUntil_maxPollInterval(t *testing.T) {
	h := NewHarness(t)

	var calls atomic.Int32
	promise := h.WaitUntil(func() bool {
		calls.Add(1)
		return false
	}, WithPollInterval(time.Duration(math.MaxInt64)))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, eventloop.Pending, promise.State())
}

func TestDelayMillis(t *testing.T) {
	for _, tc := range []struct {
		delay time.Duration
		want  int
	}{
		{-time.Second, 0},
		{0, 0},
		{time.Nanosecond, 1},
		{time.Millisecond, 1},
		{time.Millisecond + 1, 2},
		{DefaultPollInterval, 100},
		{time.Duration(math.MaxInt64), int(maxDelayMillis)},
		{time.Duration(maxDelayMillis) * time.Millisecond, int(maxDelayMillis)},
	} {
		assert.Equal(t, tc.want, delayMillis(tc.delay), tc.delay.String())
	}
}

func TestResolveOptions(t *testing.T) {
	cfg := resolveOptions(nil)
	assert.Equal(t, DefaultPollInterval, cfg.pollInterval)
	assert.Zero(t, cfg.timeout)
	assert.NotNil(t, cfg.logger)
	assert.IsType(t, &backoff.ConstantBackOff{}, cfg.backOff())

	cfg = resolveOptions([]Option{nil, WithPollInterval(-1), WithLogger(nil)})
	assert.Equal(t, DefaultPollInterval, cfg.pollInterval)
	assert.Nil(t, cfg.logger)

	cfg = resolveOptions([]Option{WithPollInterval(time.Second), WithPollInterval(time.Minute)})
	assert.Equal(t, time.Minute, cfg.pollInterval)
	assert.Equal(t, time.Minute, cfg.backOff().NextBackOff())

	cfg = resolveOptions([]Option{WithPollBackOff(func() backoff.BackOff { return nil })})
	assert.Equal(t, DefaultPollInterval, cfg.backOff().NextBackOff())
}
