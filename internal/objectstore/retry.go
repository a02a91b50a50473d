package objectstore

import (
	"context"
	"errors"
	"math"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Retrier wraps a Client with the reference operator's retry and
// concurrency-limit layers: exponential backoff bounded by RetryConfig, and
// a weighted semaphore capping in-flight calls at ConcurrencyLimit. A
// rate.Limiter smooths the retry attempts themselves so a burst of failing
// callers doesn't hammer the backing store in lockstep.
type Retrier struct {
	inner             Client
	retry             RetryConfig
	sem               *semaphore.Weighted
	limiter           *rate.Limiter
	sleep             func(time.Duration)
	concurrencyLimit  int64
}

// NewRetrier builds a Retrier around inner using retry and a concurrency cap.
func NewRetrier(inner Client, retry RetryConfig, concurrencyLimit int64) *Retrier {
	if concurrencyLimit <= 0 {
		concurrencyLimit = DefaultConcurrencyLimit
	}
	return &Retrier{
		inner:            inner,
		retry:            retry,
		sem:              semaphore.NewWeighted(concurrencyLimit),
		limiter:          rate.NewLimiter(rate.Limit(concurrencyLimit), 1),
		sleep:            time.Sleep,
		concurrencyLimit: concurrencyLimit,
	}
}

func (r *Retrier) delayFor(attempt int) time.Duration {
	d := time.Duration(float64(r.retry.MinDelay) * math.Pow(r.retry.Factor, float64(attempt)))
	if d > r.retry.MaxDelay {
		d = r.retry.MaxDelay
	}
	return d
}

func (r *Retrier) call(ctx context.Context, fn func() error) error {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer r.sem.Release(1)

	var lastErr error
	for attempt := 0; attempt < r.retry.MaxAttempts; attempt++ {
		if err := r.limiter.Wait(ctx); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		var notFound *ErrNotFound
		if errors.As(err, &notFound) {
			return err
		}
		lastErr = err

		if attempt < r.retry.MaxAttempts-1 {
			r.sleep(r.delayFor(attempt))
		}
	}
	return &ErrRetriesExhausted{Attempts: r.retry.MaxAttempts, Last: lastErr}
}

func (r *Retrier) Get(ctx context.Context, path string) ([]byte, error) {
	var out []byte
	err := r.call(ctx, func() error {
		b, err := r.inner.Get(ctx, path)
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	return out, err
}

func (r *Retrier) List(ctx context.Context, prefix string) ([]Entry, error) {
	var out []Entry
	err := r.call(ctx, func() error {
		entries, err := r.inner.List(ctx, prefix)
		if err != nil {
			return err
		}
		out = entries
		return nil
	})
	return out, err
}

func (r *Retrier) Copy(ctx context.Context, src, dst string) error {
	return r.call(ctx, func() error {
		return r.inner.Copy(ctx, src, dst)
	})
}

func (r *Retrier) Delete(ctx context.Context, path string) error {
	return r.call(ctx, func() error {
		return r.inner.Delete(ctx, path)
	})
}
