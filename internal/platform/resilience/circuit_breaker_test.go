package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream 503")

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	var transitions []string
	b := NewBreaker("fpl", CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Hour,
		HalfOpenMaxReq:   1,
	}, func(_, from, to string) {
		transitions = append(transitions, from+"->"+to)
	})
	require.NotNil(t, b)

	calls := 0
	fail := func() error {
		calls++
		return errUpstream
	}

	assert.ErrorIs(t, b.Execute(fail), errUpstream)
	assert.Equal(t, "closed", b.State())
	assert.ErrorIs(t, b.Execute(fail), errUpstream)
	assert.Equal(t, "open", b.State())

	assert.ErrorIs(t, b.Execute(fail), ErrCircuitOpen)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []string{"closed->open"}, transitions)
}

func TestBreaker_PermanentErrorsDoNotTrip(t *testing.T) {
	b := NewBreaker("fpl", CircuitBreakerConfig{Enabled: true, FailureThreshold: 1}, nil)

	notFound := Permanent(errors.New("404"))
	for i := 0; i < 3; i++ {
		assert.Error(t, b.Execute(func() error { return notFound }))
	}
	assert.Equal(t, "closed", b.State())
}

func TestBreaker_DisabledRunsDirectly(t *testing.T) {
	b := NewBreaker("fpl", CircuitBreakerConfig{Enabled: false}, nil)
	assert.Nil(t, b)

	for i := 0; i < 10; i++ {
		assert.ErrorIs(t, b.Execute(func() error { return errUpstream }), errUpstream)
	}
	assert.Equal(t, "closed", b.State())
}

func TestNormalizeCircuitBreakerConfig(t *testing.T) {
	got := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{Enabled: true})
	want := DefaultCircuitBreakerConfig()
	assert.Equal(t, want, got)
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	fast := RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, fast, func(context.Context) error {
			calls++
			if calls < 3 {
				return errUpstream
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, fast, func(context.Context) error {
			calls++
			return errUpstream
		})
		assert.ErrorIs(t, err, errUpstream)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, fast, func(context.Context) error {
			calls++
			return Permanent(errUpstream)
		})
		assert.ErrorIs(t, err, errUpstream)
		assert.True(t, IsPermanent(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("zero retries means one attempt", func(t *testing.T) {
		calls := 0
		_ = Retry(ctx, RetryConfig{}, func(context.Context) error {
			calls++
			return errUpstream
		})
		assert.Equal(t, 1, calls)
	})

	t.Run("honours cancellation between attempts", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := Retry(cctx, RetryConfig{MaxRetries: 5, BaseDelay: time.Hour}, func(context.Context) error {
			return errUpstream
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, err, errUpstream)
	})
}
