// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reshape

import (
	"github.com/luxfi/skewshape/graphir"
	"github.com/luxfi/skewshape/property"
	"github.com/luxfi/skewshape/transform"
)

// fixture is the (abv, dummy, mcId) triple shared by every shuffle
// edge terminating at one destination vertex.
type fixture struct {
	abv   graphir.Vertex
	dummy graphir.Vertex
	mcID  int
}

// fixtureFor returns the aggregation fixture for destination v,
// creating it on first use within this run and memoising it
// thereafter, keyed by v's id.
func (r *run) fixtureFor(v graphir.Vertex) (*fixture, error) {
	if f, ok := r.fixtures[v.ID()]; ok {
		return f, nil
	}

	abvID := graphir.VertexID(r.ids.next("abv"))
	abv, err := transform.NewAggregateMetric(abvID)
	if err != nil {
		return nil, err
	}

	dummyID := graphir.VertexID(r.ids.next("dummy"))
	dummy, err := transform.NewControlDummy(dummyID, abv)
	if err != nil {
		return nil, err
	}

	ctrlEdgeID := graphir.EdgeID(r.ids.next("e"))
	ctrlEdge, err := graphir.NewEdge(ctrlEdgeID, abv.ID(), dummy.ID(), property.OneToOne)
	if err != nil {
		return nil, err
	}

	r.builder.AddVertex(abv)
	r.builder.AddVertex(dummy)
	r.builder.ConnectVertices(ctrlEdge)
	r.subDagVertices += 2

	f := &fixture{abv: abv, dummy: dummy, mcID: r.ids.nextInt("mcId")}
	r.fixtures[v.ID()] = f
	return f, nil
}
