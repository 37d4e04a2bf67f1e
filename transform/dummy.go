// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package transform

import (
	"github.com/luxfi/skewshape/graphir"
	"github.com/luxfi/skewshape/property"
)

// DummyConfig is an identity/empty transform: it passes nothing and
// does nothing. The reshaping pass uses one per aggregation fixture as
// a control-only successor to an AggregateMetric vertex, so a
// BroadCast edge out of it can force upstream re-execution to wait on
// aggregation without carrying any real data.
type DummyConfig struct{}

func (c *DummyConfig) Name() string { return "Dummy" }

// NewControlDummy returns an operator vertex with Parallelism 1 and
// ResourceSlot false, mirroring abv's own execution properties so the
// pair schedules identically.
func NewControlDummy(id graphir.VertexID, abv graphir.Vertex) (*graphir.OperatorVertex, error) {
	v := graphir.NewOperatorVertex(id, &DummyConfig{})
	if err := abv.CopyExecutionPropertiesTo(v); err != nil {
		return nil, err
	}
	if _, ok := v.Properties().Get(property.ParallelismKind); !ok {
		if err := v.Properties().SetPermanent(property.ParallelismKind, 1); err != nil {
			return nil, err
		}
	}
	return v, nil
}
