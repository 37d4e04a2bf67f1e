// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package graphir

import (
	"sort"

	"github.com/luxfi/skewshape/internal/errlist"
)

// Builder accumulates vertices and edges and produces a validated Dag.
// AddVertex and ConnectVertices may be called in any order; endpoint
// existence is only checked at Build time, so an edge may be
// connected before both of its endpoints have been added.
type Builder struct {
	vertices map[VertexID]Vertex
	edges    map[EdgeID]*Edge
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		vertices: make(map[VertexID]Vertex),
		edges:    make(map[EdgeID]*Edge),
	}
}

// AddVertex adds v. Adding a vertex whose id is already present is a
// no-op (idempotent), even if the two values differ; the first
// addition wins.
func (b *Builder) AddVertex(v Vertex) *Builder {
	if _, ok := b.vertices[v.ID()]; !ok {
		b.vertices[v.ID()] = v
	}
	return b
}

// ConnectVertices records e. Endpoint existence is validated at Build
// time, not here, since AddVertex may still be called afterwards.
func (b *Builder) ConnectVertices(e *Edge) *Builder {
	b.edges[e.ID()] = e
	return b
}

// HasVertex reports whether id has been added.
func (b *Builder) HasVertex(id VertexID) bool {
	_, ok := b.vertices[id]
	return ok
}

// Build validates every accumulated edge's endpoints and checks for
// cycles, returning the finished Dag. All endpoint violations are
// collected into one error before returning, so a caller sees every
// bad edge at once rather than only the first.
func (b *Builder) Build() (*Dag, error) {
	var errs errlist.Collector

	for _, e := range b.edges {
		if _, ok := b.vertices[e.src]; !ok {
			errs.Add(&UnknownEndpointError{EdgeID: e.id, MissingVertex: e.src})
		}
		if _, ok := b.vertices[e.dst]; !ok {
			errs.Add(&UnknownEndpointError{EdgeID: e.id, MissingVertex: e.dst})
		}
	}
	if errs.Errored() {
		return nil, errs.Err()
	}

	// Edges are walked in lexicographic id order before populating
	// adjacency, so IncomingEdges/OutgoingEdges come back in a fixed
	// order regardless of Go's randomised map iteration. The pass
	// relies on this for deterministic sampling sub-DAG construction.
	edgeIDs := make([]string, 0, len(b.edges))
	for id := range b.edges {
		edgeIDs = append(edgeIDs, string(id))
	}
	sort.Strings(edgeIDs)

	outAdj := make(map[VertexID][]EdgeID, len(b.vertices))
	inAdj := make(map[VertexID][]EdgeID, len(b.vertices))
	for _, idStr := range edgeIDs {
		e := b.edges[EdgeID(idStr)]
		outAdj[e.src] = append(outAdj[e.src], e.id)
		inAdj[e.dst] = append(inAdj[e.dst], e.id)
	}

	dag := &Dag{
		vertices: b.vertices,
		edges:    b.edges,
		outAdj:   outAdj,
		inAdj:    inAdj,
	}

	if _, err := dag.TopoSort(); err != nil {
		return nil, err
	}
	return dag, nil
}
