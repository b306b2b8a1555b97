package exchange

import (
	"time"

	"tukar/pkg/core"
)

type Option func(*Options)

// Options are per-call knobs. They never mutate the adapter's configuration;
// each call starts from a zero Options and applies its own functional
// options on top.
type Options struct {
	Limit      int
	Interval   string
	Since      time.Time
	Until      time.Time
	MarketType core.MarketType

	// Params are venue-specific parameters passed through to the request
	// verbatim, after the unified fields are applied.
	Params core.Params
}

func WithLimit(limit int) Option {
	return func(o *Options) {
		o.Limit = limit
	}
}

func WithInterval(interval string) Option {
	return func(o *Options) {
		o.Interval = interval
	}
}

func WithSince(since time.Time) Option {
	return func(o *Options) {
		o.Since = since
	}
}

func WithUntil(until time.Time) Option {
	return func(o *Options) {
		o.Until = until
	}
}

func WithTimeRange(since, until time.Time) Option {
	return func(o *Options) {
		o.Since = since
		o.Until = until
	}
}

func WithMarketType(mt core.MarketType) Option {
	return func(o *Options) {
		o.MarketType = mt
	}
}

// WithParam passes one venue-specific parameter through to the request.
func WithParam(key string, value any) Option {
	return func(o *Options) {
		if o.Params == nil {
			o.Params = make(core.Params)
		}
		o.Params[key] = value
	}
}

// WithParams merges venue-specific parameters into the request.
func WithParams(params core.Params) Option {
	return func(o *Options) {
		if o.Params == nil {
			o.Params = make(core.Params, len(params))
		}
		for k, v := range params {
			o.Params[k] = v
		}
	}
}

func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
