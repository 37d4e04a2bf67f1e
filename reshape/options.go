// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reshape

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/skewshape/internal/logging"
	"github.com/luxfi/skewshape/internal/obs"
	"github.com/luxfi/skewshape/transform"
)

// Options configures a Reshaper. Build one with New, never by literal
// construction, so defaults and validation stay in one place.
type Options struct {
	SampleRate          float64
	HashRangeMultiplier int
	RNGSeed             int64
	hasSeed             bool
	Logger              logging.Logger
	Metrics             *obs.Metrics
}

// Option mutates an Options under construction.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		SampleRate:          1.0,
		HashRangeMultiplier: transform.DefaultHashRangeMultiplier,
		Logger:              logging.NewNoOp(),
	}
}

// WithSampleRate sets the fraction of a candidate source's tasks read
// by its sampling sub-DAG. Must satisfy 0 < r <= 1.
func WithSampleRate(r float64) Option {
	return func(o *Options) { o.SampleRate = r }
}

// WithHashRangeMultiplier sets the hash-range multiplier MetricCollect
// vertices use to bucket keys ahead of the destination's parallelism.
func WithHashRangeMultiplier(m int) Option {
	return func(o *Options) { o.HashRangeMultiplier = m }
}

// WithRNGSeed pins the sampler's random source for reproducible runs.
// Without it, each Apply call seeds its own source from the current
// time.
func WithRNGSeed(seed int64) Option {
	return func(o *Options) {
		o.RNGSeed = seed
		o.hasSeed = true
	}
}

// WithLogger overrides the pass's structured logger. The default is a
// no-op.
func WithLogger(l logging.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithMetricsRegisterer wires the pass's Prometheus counters into reg.
// Without this option the pass tracks metrics unregistered.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(o *Options) { o.Metrics = obs.NewMetrics(reg) }
}

func newOptions(opts ...Option) (Options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.SampleRate <= 0 || o.SampleRate > 1 {
		return o, ErrInvalidSampleRate
	}
	if o.HashRangeMultiplier <= 0 {
		return o, ErrInvalidHashRangeMultiplier
	}
	if o.Metrics == nil {
		o.Metrics = obs.NewMetrics(nil)
	}
	return o, nil
}
