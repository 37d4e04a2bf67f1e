// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package transform implements the two stateless-at-construction
// operator transforms the reshaping pass synthesises: MetricCollect
// (per-sampled-task key-size statistics) and AggregateMetric
// (single-parallelism reduction across all MetricCollect instances for
// one destination). Shaped as a mutex-guarded running accumulator
// (OnElement/Close), adapted from float averaging to bucketed byte-size
// counts.
package transform

import (
	"bytes"
	"sync"

	"github.com/luxfi/skewshape/graphir"
	"github.com/luxfi/skewshape/property"
)

// DefaultHashRangeMultiplier is the default small integer multiplying
// a destination's parallelism to form the statistics hash range;
// reshape.WithHashRangeMultiplier replaces it.
const DefaultHashRangeMultiplier = 10

// MetricRecord is the (bucket, serialised-byte-size) pair a
// MetricCollect instance emits on close, and the element type an
// AggregateMetric instance consumes.
type MetricRecord struct {
	Bucket       int
	ByteSize     int64
	AggregatorID graphir.VertexID
}

// MetricCollectConfig is the serialisable configuration embedded in a
// MetricCollect OperatorVertex. It carries no mutable state; all
// accumulation happens in a MetricCollectTransform created fresh per
// runtime invocation.
type MetricCollectConfig struct {
	KeyExtractor property.KeyExtractor
	Encoder      property.EncoderFactory
	HashRange    int
	AggregatorID graphir.VertexID
}

func (c *MetricCollectConfig) Name() string { return "MetricCollect" }

// NewMetricCollect returns an operator vertex configured to collect
// key-size statistics for a shuffle edge, using that edge's key
// extractor and encoder, destined for an aggregator of the given id.
// destParallelism and hashRangeMultiplier together fix the bucket
// space H = destParallelism * hashRangeMultiplier.
//
// NewMetricCollect does not validate extractor or encoder; the pass
// checks that the edge carries them at rewrite time.
func NewMetricCollect(id graphir.VertexID, parallelism int, extractor property.KeyExtractor, encoder property.EncoderFactory, destParallelism, hashRangeMultiplier int, aggregatorID graphir.VertexID) (*graphir.OperatorVertex, error) {
	cfg := &MetricCollectConfig{
		KeyExtractor: extractor,
		Encoder:      encoder,
		HashRange:    destParallelism * hashRangeMultiplier,
		AggregatorID: aggregatorID,
	}
	v := graphir.NewOperatorVertex(id, cfg)
	if err := v.Properties().SetPermanent(property.ParallelismKind, parallelism); err != nil {
		return nil, err
	}
	return v, nil
}

// MetricCollectTransform is the runtime instance of a MetricCollect
// config: it owns the in-memory per-bucket element lists its
// accumulator maintains, created fresh by the (out-of-scope) executor
// for each sampled task.
type MetricCollectTransform struct {
	cfg *MetricCollectConfig

	mu      sync.Mutex
	buckets map[int][]property.Element
}

// NewTransform returns a fresh runtime instance of cfg.
func (c *MetricCollectConfig) NewTransform() *MetricCollectTransform {
	return &MetricCollectTransform{cfg: c, buckets: make(map[int][]property.Element)}
}

// OnElement derives x's key, hashes it into the bucket space, and
// appends x to that bucket's in-memory list.
func (t *MetricCollectTransform) OnElement(x property.Element) error {
	key, err := t.cfg.KeyExtractor.ExtractKey(x)
	if err != nil {
		return err
	}
	pk := int(key.Hash() % uint64(t.cfg.HashRange))

	t.mu.Lock()
	defer t.mu.Unlock()
	t.buckets[pk] = append(t.buckets[pk], x)
	return nil
}

// Close encodes every bucket's elements into a scratch buffer with
// the configured encoder and emits one MetricRecord per non-empty
// bucket, whose ByteSize is the actual serialised byte count of that
// bucket's elements, not the element count. This is the statistic
// that feeds the downstream skew decision.
func (t *MetricCollectTransform) Close() ([]MetricRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	records := make([]MetricRecord, 0, len(t.buckets))
	for pk, elements := range t.buckets {
		var scratch bytes.Buffer
		enc := t.cfg.Encoder.Create(&scratch)
		for _, el := range elements {
			if err := enc.Encode(el); err != nil {
				return nil, err
			}
		}
		records = append(records, MetricRecord{
			Bucket:       pk,
			ByteSize:     int64(scratch.Len()),
			AggregatorID: t.cfg.AggregatorID,
		})
	}
	return records, nil
}
