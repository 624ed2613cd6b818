package oracle

import (
	"context"
	"errors"
	"time"
)

// ErrExhausted is returned by PollUntil when the predicate never held.
var ErrExhausted = errors.New("poll attempts exhausted")

// Policy bounds a polling loop. The wait between two attempts starts at
// Interval and is multiplied by Multiplier after every attempt, up to
// MaxInterval. A Multiplier of 1 or less keeps the interval fixed.
type Policy struct {
	MaxAttempts int
	Interval    time.Duration
	Multiplier  float64
	MaxInterval time.Duration
}

// DefaultPolicy polls 60 times, one second apart.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 60,
		Interval:    time.Second,
		Multiplier:  1,
	}
}

func (p Policy) next(d time.Duration) time.Duration {
	if p.Multiplier <= 1 {
		return d
	}
	n := time.Duration(float64(d) * p.Multiplier)
	if p.MaxInterval > 0 && n > p.MaxInterval {
		n = p.MaxInterval
	}
	return n
}

// PollUntil calls fn until it returns true, returns an error, or MaxAttempts
// calls have been made, sleeping between calls. attempt starts at 1. It
// returns ErrExhausted when attempts run out and ctx.Err() when the context
// ends while waiting.
func PollUntil(ctx context.Context, p Policy, fn func(attempt int) (bool, error)) error {
	wait := p.Interval

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		done, err := fn(attempt)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		if attempt == p.MaxAttempts {
			break
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait = p.next(wait)
	}

	return ErrExhausted
}
