// Package retry provides the bounded exponential-backoff executor used for
// remote pushes. This is the only place the sync path sleeps.
package retry

import (
	"context"
	"math/rand"
	"time"

	"github.com/fekuna/omnipos-field-sync/internal/apperr"
)

type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// sleep and jitter are injectable for tests.
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func(max time.Duration) time.Duration
}

func NewPolicy(maxAttempts int, baseDelay time.Duration) *Policy {
	return &Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		MaxDelay:    time.Minute,
		sleep:       sleepCtx,
		jitter: func(max time.Duration) time.Duration {
			if max <= 0 {
				return 0
			}
			return time.Duration(rand.Int63n(int64(max)))
		},
	}
}

// WithSleep replaces the delay function. Tests use this to capture delays
// instead of waiting them out.
func (p *Policy) WithSleep(sleep func(ctx context.Context, d time.Duration) error) *Policy {
	p.sleep = sleep
	return p
}

// WithJitter replaces the jitter source.
func (p *Policy) WithJitter(jitter func(max time.Duration) time.Duration) *Policy {
	p.jitter = jitter
	return p
}

// Do runs op until it succeeds, fails fatally, or attempts are exhausted.
//
// Fatal (non-transient) errors propagate immediately without consuming a
// retry. Transient errors back off with base*2^attempt plus up to one base
// of jitter, which keeps successive delays monotonically non-decreasing.
func (p *Policy) Do(ctx context.Context, op func() error) error {
	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return apperr.Wrap(apperr.KindTransient, "retry cancelled", err)
		}

		err := op()
		if err == nil {
			return nil
		}
		if !apperr.IsTransient(err) {
			return err
		}
		lastErr = err

		if attempt == p.MaxAttempts-1 {
			break
		}
		if err := p.sleep(ctx, p.backoff(attempt)); err != nil {
			return apperr.Wrap(apperr.KindTransient, "retry cancelled", err)
		}
	}
	return lastErr
}

// backoff returns the delay after the given zero-based attempt.
func (p *Policy) backoff(attempt int) time.Duration {
	d := p.BaseDelay << uint(attempt)
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	if p.jitter != nil {
		d += p.jitter(p.BaseDelay)
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
