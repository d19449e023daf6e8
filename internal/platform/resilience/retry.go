package resilience

import (
	"context"
	"errors"
	"time"
)

// Retry runs fn until it succeeds, returns a permanent error, the circuit is
// open, or the attempts are used up. The delay doubles after each failure.
func Retry(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) error {
	cfg = NormalizeRetryConfig(cfg)

	delay := cfg.BaseDelay
	var err error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		err = fn(ctx)
		if err == nil || IsPermanent(err) || errors.Is(err, ErrCircuitOpen) {
			return err
		}
		if attempt == cfg.MaxRetries {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}

		delay *= 2
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
	return err
}
