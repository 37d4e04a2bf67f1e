// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package transform

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/skewshape/graphir"
	"github.com/luxfi/skewshape/property"
)

// intKey and intExtractor are a minimal KeyExtractor over plain ints,
// standing in for the real upstream key-extraction contract.
type intKey int

func (k intKey) Hash() uint64 { return uint64(k) }

type intExtractor struct{}

func (intExtractor) ExtractKey(element property.Element) (property.Key, error) {
	return intKey(element.(int)), nil
}

// decimalEncoderFactory encodes each int element as its decimal
// string representation, so that elements of different magnitude
// produce genuinely different serialised sizes (letting the tests
// distinguish "byte size" from "element count").
type decimalEncoderFactory struct{}

type decimalEncoder struct{ sink io.Writer }

func (decimalEncoderFactory) Create(sink io.Writer) property.Encoder {
	return &decimalEncoder{sink: sink}
}

func (e *decimalEncoder) Encode(element property.Element) error {
	_, err := fmt.Fprintf(e.sink, "%d", element.(int))
	return err
}

// runMetricCollect feeds elements through a fresh MetricCollectTransform
// and returns its close-time records, simulating what the (out of
// scope) executor would do for one sampled task.
func runMetricCollect(t *testing.T, cfg *MetricCollectConfig, elements []int) []MetricRecord {
	t.Helper()
	tr := cfg.NewTransform()
	for _, el := range elements {
		require.NoError(t, tr.OnElement(el))
	}
	records, err := tr.Close()
	require.NoError(t, err)
	return records
}

func TestMetricCollectEmitsByteSizeNotCount(t *testing.T) {
	require := require.New(t)

	cfg := &MetricCollectConfig{
		KeyExtractor: intExtractor{},
		Encoder:      decimalEncoderFactory{},
		HashRange:    1, // force every element into bucket 0
		AggregatorID: "abv-1",
	}

	// "1" (1 byte) and "100000" (6 bytes): same element count as a
	// single-element bucket, very different byte size, across two
	// separate runs so the distinction is unambiguous.
	small := runMetricCollect(t, cfg, []int{1})
	large := runMetricCollect(t, cfg, []int{100000})

	require.Len(small, 1)
	require.Len(large, 1)
	require.Equal(int64(1), small[0].ByteSize)
	require.Equal(int64(6), large[0].ByteSize)
	require.Equal(graphir.VertexID("abv-1"), small[0].AggregatorID)
}

func TestMetricCollectBucketsByHashedKey(t *testing.T) {
	require := require.New(t)

	cfg := &MetricCollectConfig{
		KeyExtractor: intExtractor{},
		Encoder:      decimalEncoderFactory{},
		HashRange:    4,
		AggregatorID: "abv-1",
	}

	records := runMetricCollect(t, cfg, []int{0, 1, 4, 5})
	byBucket := make(map[int]int64, len(records))
	for _, r := range records {
		byBucket[r.Bucket] += r.ByteSize
	}
	// 0 and 4 hash to bucket 0 (both single-digit -> 1 byte each = 2);
	// 1 and 5 hash to bucket 1 (1 byte each = 2).
	require.Equal(int64(2), byBucket[0])
	require.Equal(int64(2), byBucket[1])
}

func TestAggregateMetricFoldsAcrossCollectors(t *testing.T) {
	require := require.New(t)

	agg := (&AggregateMetricConfig{}).NewTransform()
	agg.OnElement(MetricRecord{Bucket: 0, ByteSize: 10})
	agg.OnElement(MetricRecord{Bucket: 0, ByteSize: 5})
	agg.OnElement(MetricRecord{Bucket: 1, ByteSize: 7})

	got := agg.Close()
	require.Equal(map[int]int64{0: 15, 1: 7}, got)
}

func TestNewAggregateMetricHasParallelismOne(t *testing.T) {
	require := require.New(t)

	v, err := NewAggregateMetric("abv-1")
	require.NoError(err)

	p, ok := v.Properties().Get(property.ParallelismKind)
	require.True(ok)
	require.Equal(1, p)
	require.True(v.Properties().IsPermanent(property.ParallelismKind))
}

func TestNewMetricCollectHashRange(t *testing.T) {
	require := require.New(t)

	v, err := NewMetricCollect("mcv-1", 2, intExtractor{}, decimalEncoderFactory{}, 2, DefaultHashRangeMultiplier, "abv-1")
	require.NoError(err)

	cfg, ok := v.TransformValue().(*MetricCollectConfig)
	require.True(ok)
	require.Equal(2*DefaultHashRangeMultiplier, cfg.HashRange)

	p, _ := v.Properties().Get(property.ParallelismKind)
	require.Equal(2, p)
}
