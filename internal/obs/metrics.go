// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package obs wires the reshaping pass's invocation counters into
// Prometheus, as a thin Registerer wrapper (mutex-free, since
// prometheus collectors are already concurrency-safe).
package obs

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the counters and histogram one Reshaper reports
// through. All fields are safe for concurrent use, so independent
// Apply invocations never interfere with each other's reporting.
type Metrics struct {
	CandidatesDetected prometheus.Counter
	SubDagVerticesBuilt prometheus.Counter
	ApplyErrors         prometheus.Counter
	ApplyDuration       prometheus.Histogram
}

// NewMetrics registers and returns a Metrics against reg. Passing a
// nil Registerer yields unregistered (but still usable) collectors,
// for callers who do not want a Prometheus endpoint at all.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CandidatesDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skewshape",
			Name:      "candidates_detected_total",
			Help:      "Number of candidate shuffle-destination vertices found per Apply call.",
		}),
		SubDagVerticesBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skewshape",
			Name:      "sampling_subdag_vertices_built_total",
			Help:      "Number of vertices synthesised into sampling sub-DAGs.",
		}),
		ApplyErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skewshape",
			Name:      "apply_errors_total",
			Help:      "Number of Apply invocations that returned an error.",
		}),
		ApplyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "skewshape",
			Name:      "apply_duration_seconds",
			Help:      "Wall-clock duration of Apply invocations.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.CandidatesDetected, m.SubDagVerticesBuilt, m.ApplyErrors, m.ApplyDuration)
	}
	return m
}
