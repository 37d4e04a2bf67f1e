// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package transform

import (
	"sync"

	"github.com/luxfi/skewshape/graphir"
	"github.com/luxfi/skewshape/property"
)

// AggregateMetricConfig is the serialisable configuration embedded in
// an AggregateMetric OperatorVertex. It carries no construction-time
// state beyond its identity: the whole point of the factory is that
// it is stateless until the runtime creates a transform instance.
type AggregateMetricConfig struct{}

func (c *AggregateMetricConfig) Name() string { return "AggregateMetric" }

// NewAggregateMetric returns an operator vertex that combines
// MetricRecord buckets from every MetricCollect instance feeding one
// destination into a single destination-wide histogram. Always
// Parallelism 1, since one aggregator serves each destination.
func NewAggregateMetric(id graphir.VertexID) (*graphir.OperatorVertex, error) {
	v := graphir.NewOperatorVertex(id, &AggregateMetricConfig{})
	if err := v.Properties().SetPermanent(property.ParallelismKind, 1); err != nil {
		return nil, err
	}
	if err := v.Properties().SetPermanent(property.ResourceSlotKind, false); err != nil {
		return nil, err
	}
	return v, nil
}

// AggregateMetricTransform is the runtime instance: it maintains an
// accumulator mapping bucket key to aggregated byte-size count. On
// each input record (k, c): if k is present, replace its value with
// old+c; else insert c.
type AggregateMetricTransform struct {
	mu    sync.Mutex
	total map[int]int64
}

// NewTransform returns a fresh runtime instance.
func (c *AggregateMetricConfig) NewTransform() *AggregateMetricTransform {
	return &AggregateMetricTransform{total: make(map[int]int64)}
}

// OnElement folds one MetricRecord into the running total.
func (t *AggregateMetricTransform) OnElement(r MetricRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total[r.Bucket] += r.ByteSize
}

// Close emits the final bucket->byte-size map.
func (t *AggregateMetricTransform) Close() map[int]int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[int]int64, len(t.total))
	for k, v := range t.total {
		out[k] = v
	}
	return out
}
