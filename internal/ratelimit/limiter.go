package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a weight-aware token bucket. Each endpoint consumes the weight
// its capability descriptor declares, so heavy calls (full market dumps,
// order history) drain the budget faster than cheap ones.
type Limiter struct {
	global  *rate.Limiter
	buckets sync.Map
	weights int
	period  time.Duration

	waited  atomic.Int64
	denied  atomic.Int64
}

// New creates a limiter allowing the given total weight per period.
func New(weights int, period time.Duration) *Limiter {
	per := float64(weights) / period.Seconds()
	return &Limiter{
		global:  rate.NewLimiter(rate.Limit(per), weights),
		weights: weights,
		period:  period,
	}
}

// WaitN blocks until weight units are available or the context is canceled.
func (l *Limiter) WaitN(ctx context.Context, weight int) error {
	if weight < 1 {
		weight = 1
	}
	if weight > l.global.Burst() {
		weight = l.global.Burst()
	}
	if err := l.global.WaitN(ctx, weight); err != nil {
		l.denied.Add(1)
		return err
	}
	l.waited.Add(1)
	return nil
}

// Wait blocks for one weight unit.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.WaitN(ctx, 1)
}

// WaitBucket blocks against a named bucket, created on demand with the
// default budget. Adapters use a separate bucket for the order path so
// market-data polling cannot starve trading.
func (l *Limiter) WaitBucket(ctx context.Context, bucket string, weight int) error {
	if weight < 1 {
		weight = 1
	}
	lim := l.getBucket(bucket)
	if weight > lim.Burst() {
		weight = lim.Burst()
	}
	if err := lim.WaitN(ctx, weight); err != nil {
		l.denied.Add(1)
		return err
	}
	l.waited.Add(1)
	return nil
}

// SetBucketLimit configures a named bucket's own budget.
func (l *Limiter) SetBucketLimit(bucket string, weights int, period time.Duration) {
	per := float64(weights) / period.Seconds()
	lim := rate.NewLimiter(rate.Limit(per), weights)
	l.buckets.Store(bucket, lim)
}

// Allow reports whether one weight unit is available right now.
func (l *Limiter) Allow() bool {
	ok := l.global.Allow()
	if ok {
		l.waited.Add(1)
	} else {
		l.denied.Add(1)
	}
	return ok
}

func (l *Limiter) getBucket(bucket string) *rate.Limiter {
	if v, ok := l.buckets.Load(bucket); ok {
		return v.(*rate.Limiter)
	}
	per := float64(l.weights) / l.period.Seconds()
	lim := rate.NewLimiter(rate.Limit(per), l.weights)
	actual, _ := l.buckets.LoadOrStore(bucket, lim)
	return actual.(*rate.Limiter)
}

// Stats is a point-in-time capture of limiter activity.
type Stats struct {
	// Granted is the number of waits that completed.
	Granted int64
	// Denied is the number of waits canceled before capacity arrived.
	Denied int64
}

// Stats returns current limiter statistics.
func (l *Limiter) Stats() Stats {
	return Stats{
		Granted: l.waited.Load(),
		Denied:  l.denied.Load(),
	}
}
