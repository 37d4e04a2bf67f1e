// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"bufio"
	"hash/fnv"
	"io"

	"github.com/luxfi/skewshape/property"
)

// stringKey wraps a plain string element's hash so demo fixtures have a
// concrete property.Key without requiring a real upstream schema.
type stringKey string

func (k stringKey) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(k))
	return h.Sum64()
}

// lineKeyExtractor treats every element as its own partitioning key: a
// line of text read from a fixture's demo data. Stands in for the real
// schema-aware extractor a front end would supply.
type lineKeyExtractor struct{}

func (lineKeyExtractor) ExtractKey(element property.Element) (property.Key, error) {
	return stringKey(element.(string)), nil
}

// lineEncoderFactory/lineDecoderFactory serialise string elements as
// newline-terminated text, just enough to let MetricCollect compute a
// real serialised byte size for the `apply` demo.
type lineEncoderFactory struct{}

func (lineEncoderFactory) Create(sink io.Writer) property.Encoder {
	return &lineEncoder{w: sink}
}

type lineEncoder struct{ w io.Writer }

func (e *lineEncoder) Encode(element property.Element) error {
	_, err := io.WriteString(e.w, element.(string)+"\n")
	return err
}

type lineDecoderFactory struct{}

func (lineDecoderFactory) Create(source io.Reader) any {
	return &lineDecoder{r: bufio.NewScanner(source)}
}

type lineDecoder struct{ r *bufio.Scanner }

func (d *lineDecoder) Decode() (string, bool) {
	if !d.r.Scan() {
		return "", false
	}
	return d.r.Text(), true
}
