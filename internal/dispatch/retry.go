package dispatch

import (
	"context"
	"errors"
	"math"
	"time"
)

// Retrier calls an operation until it succeeds or MaxRetries+1 attempts fail.
// After the failed attempt n (zero-based) it waits BaseDelay * Multiplier^n.
type Retrier struct {
	MaxRetries     int
	BaseDelay      time.Duration
	Multiplier     float64
	AttemptTimeout time.Duration

	// Sleep waits d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Delay returns the wait that follows the given zero-based failed attempt.
func (r Retrier) Delay(attempt int) time.Duration {
	return time.Duration(float64(r.BaseDelay) * math.Pow(r.Multiplier, float64(attempt)))
}

// Do runs fn with a per-attempt timeout and returns the number of attempts made
// together with the last error, nil when an attempt succeeded.
func (r Retrier) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) (int, error) {
	var err error
	for attempt := 0; attempt <= r.MaxRetries; attempt++ {
		err = r.attempt(ctx, attempt, fn)
		if err == nil {
			return attempt + 1, nil
		}
		if attempt == r.MaxRetries {
			return attempt + 1, err
		}
		if serr := r.sleep(ctx, r.Delay(attempt)); serr != nil {
			return attempt + 1, errors.Join(err, serr)
		}
	}
	return r.MaxRetries + 1, err
}

func (r Retrier) attempt(ctx context.Context, attempt int, fn func(context.Context, int) error) error {
	if r.AttemptTimeout <= 0 {
		return fn(ctx, attempt)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, r.AttemptTimeout)
	defer cancel()
	return fn(attemptCtx, attempt)
}

func (r Retrier) sleep(ctx context.Context, d time.Duration) error {
	if r.Sleep != nil {
		return r.Sleep(ctx, d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
