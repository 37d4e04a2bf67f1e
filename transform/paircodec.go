// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package transform

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/luxfi/skewshape/property"
)

// PairEncoderFactory and PairDecoderFactory are the fixed (integer,
// long) pair codec the pass wires onto every mcv->abv edge. Together
// they encode a MetricRecord's Bucket and ByteSize fields as a
// 12-byte big-endian pair; nothing else flows across that edge.
//
// Whether a shuffle edge's own key codec should replace the integer
// half when one is available is left open; this pass always uses the
// integer codec (see DESIGN.md).
type PairEncoderFactory struct{}

func (PairEncoderFactory) Create(sink io.Writer) property.Encoder {
	return &pairEncoder{w: sink}
}

type PairDecoderFactory struct{}

func (PairDecoderFactory) Create(source io.Reader) any {
	return &PairDecoder{r: source}
}

type pairEncoder struct {
	w io.Writer
}

// Encode accepts a MetricRecord and writes its Bucket/ByteSize pair.
// Any other element type is a programmer error upstream of this edge.
func (e *pairEncoder) Encode(element property.Element) error {
	r, ok := element.(MetricRecord)
	if !ok {
		return fmt.Errorf("transform: pair codec cannot encode %T", element)
	}
	var buf [12]byte
	binary.BigEndian.PutUint32(buf[0:4], uint32(r.Bucket))
	binary.BigEndian.PutUint64(buf[4:12], uint64(r.ByteSize))
	_, err := e.w.Write(buf[:])
	return err
}

// PairDecoder reads back (bucket, byteSize) pairs written by
// pairEncoder.
type PairDecoder struct {
	r io.Reader
}

func (d *PairDecoder) Decode() (bucket int, byteSize int64, err error) {
	var buf [12]byte
	if _, err := io.ReadFull(d.r, buf[:]); err != nil {
		return 0, 0, err
	}
	bucket = int(binary.BigEndian.Uint32(buf[0:4]))
	byteSize = int64(binary.BigEndian.Uint64(buf[4:12]))
	return bucket, byteSize, nil
}
