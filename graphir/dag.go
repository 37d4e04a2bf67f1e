// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package graphir

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"

	"github.com/luxfi/skewshape/internal/set"
)

// Dag is an immutable directed acyclic graph: a set of vertices, a set
// of edges, and precomputed incoming/outgoing adjacency. Once built it
// is never mutated; the pass only ever produces a new Dag via Builder.
type Dag struct {
	vertices map[VertexID]Vertex
	edges    map[EdgeID]*Edge
	outAdj   map[VertexID][]EdgeID
	inAdj    map[VertexID][]EdgeID
}

// Vertex returns the vertex with the given id, or (nil, false).
func (d *Dag) Vertex(id VertexID) (Vertex, bool) {
	v, ok := d.vertices[id]
	return v, ok
}

// Vertices returns every vertex in unspecified order.
func (d *Dag) Vertices() []Vertex {
	out := make([]Vertex, 0, len(d.vertices))
	for _, v := range d.vertices {
		out = append(out, v)
	}
	return out
}

// Edge returns the edge with the given id, or (nil, false).
func (d *Dag) Edge(id EdgeID) (*Edge, bool) {
	e, ok := d.edges[id]
	return e, ok
}

// Edges returns every edge in unspecified order.
func (d *Dag) Edges() []*Edge {
	out := make([]*Edge, 0, len(d.edges))
	for _, e := range d.edges {
		out = append(out, e)
	}
	return out
}

// IncomingEdges returns the edges terminating at vertex id.
func (d *Dag) IncomingEdges(id VertexID) []*Edge {
	ids := d.inAdj[id]
	out := make([]*Edge, 0, len(ids))
	for _, eid := range ids {
		out = append(out, d.edges[eid])
	}
	return out
}

// OutgoingEdges returns the edges originating at vertex id.
func (d *Dag) OutgoingEdges(id VertexID) []*Edge {
	ids := d.outAdj[id]
	out := make([]*Edge, 0, len(ids))
	for _, eid := range ids {
		out = append(out, d.edges[eid])
	}
	return out
}

// TopoSort returns every vertex exactly once, each vertex appearing
// after all of its predecessors. Ties among simultaneously-ready
// vertices are broken lexicographically on vertex id, making the
// traversal deterministic for identical inputs.
func (d *Dag) TopoSort() ([]Vertex, error) {
	inDegree := make(map[VertexID]int, len(d.vertices))
	for id := range d.vertices {
		inDegree[id] = len(d.inAdj[id])
	}

	ready := treeset.NewWith(utils.StringComparator)
	for id, deg := range inDegree {
		if deg == 0 {
			ready.Add(string(id))
		}
	}

	order := make([]Vertex, 0, len(d.vertices))
	visited := set.New[VertexID](len(d.vertices))

	for !ready.Empty() {
		values := ready.Values()
		next := VertexID(values[0].(string))
		ready.Remove(values[0])

		order = append(order, d.vertices[next])
		visited.Add(next)

		for _, eid := range d.outAdj[next] {
			dst := d.edges[eid].dst
			inDegree[dst]--
			if inDegree[dst] == 0 {
				ready.Add(string(dst))
			}
		}
	}

	if len(order) != len(d.vertices) {
		remaining := make([]VertexID, 0, len(d.vertices)-len(order))
		for id := range d.vertices {
			if !visited.Contains(id) {
				remaining = append(remaining, id)
			}
		}
		return nil, &CycleDetectedError{Remaining: remaining}
	}
	return order, nil
}
