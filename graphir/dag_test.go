// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package graphir

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/skewshape/property"
)

func mustEdge(t *testing.T, id EdgeID, src, dst VertexID, pattern property.CommunicationPattern) *Edge {
	t.Helper()
	e, err := NewEdge(id, src, dst, pattern)
	require.NoError(t, err)
	return e
}

func TestBuilderIdempotentAddVertex(t *testing.T) {
	require := require.New(t)

	b := NewBuilder()
	v1 := NewSourceVertex("A", nil)
	v2 := NewSourceVertex("A", nil) // same id, different value

	b.AddVertex(v1)
	b.AddVertex(v2)

	require.True(b.HasVertex("A"))
	// first addition wins
	dag, err := b.Build()
	require.NoError(err)
	got, ok := dag.Vertex("A")
	require.True(ok)
	require.Same(v1, got)
}

func TestBuilderUnknownEndpoint(t *testing.T) {
	require := require.New(t)

	b := NewBuilder()
	b.AddVertex(NewSourceVertex("A", nil))
	b.ConnectVertices(mustEdge(t, "e1", "A", "B", property.OneToOne))

	_, err := b.Build()
	require.Error(err)
	require.True(errors.Is(err, ErrUnknownEndpoint))
}

func TestBuilderCollectsAllUnknownEndpoints(t *testing.T) {
	require := require.New(t)

	b := NewBuilder()
	b.ConnectVertices(mustEdge(t, "e1", "A", "B", property.OneToOne))
	b.ConnectVertices(mustEdge(t, "e2", "C", "D", property.OneToOne))

	_, err := b.Build()
	require.Error(err)
	// four missing endpoints across the two edges
	require.Equal(4, len(splitJoined(err)))
}

func TestBuilderCycleDetected(t *testing.T) {
	require := require.New(t)

	b := NewBuilder()
	b.AddVertex(NewSourceVertex("A", nil))
	b.AddVertex(NewSourceVertex("B", nil))
	b.ConnectVertices(mustEdge(t, "e1", "A", "B", property.OneToOne))
	b.ConnectVertices(mustEdge(t, "e2", "B", "A", property.OneToOne))

	_, err := b.Build()
	require.Error(err)
	require.True(errors.Is(err, ErrCycleDetected))
}

func TestTopoSortDeterministicTieBreak(t *testing.T) {
	require := require.New(t)

	b := NewBuilder()
	b.AddVertex(NewSourceVertex("C", nil))
	b.AddVertex(NewSourceVertex("A", nil))
	b.AddVertex(NewSourceVertex("B", nil))
	// no edges: all three are simultaneously ready, must sort lexicographically
	dag, err := b.Build()
	require.NoError(err)

	order, err := dag.TopoSort()
	require.NoError(err)
	require.Len(order, 3)
	require.Equal(VertexID("A"), order[0].ID())
	require.Equal(VertexID("B"), order[1].ID())
	require.Equal(VertexID("C"), order[2].ID())
}

func TestTopoSortRespectsPredecessors(t *testing.T) {
	require := require.New(t)

	b := NewBuilder()
	b.AddVertex(NewSourceVertex("A", nil))
	b.AddVertex(NewSourceVertex("B", nil))
	b.AddVertex(NewSourceVertex("C", nil))
	b.ConnectVertices(mustEdge(t, "e1", "A", "C", property.Shuffle))
	b.ConnectVertices(mustEdge(t, "e2", "B", "C", property.Shuffle))

	dag, err := b.Build()
	require.NoError(err)
	order, err := dag.TopoSort()
	require.NoError(err)
	require.Len(order, 3)
	require.Equal(VertexID("C"), order[2].ID())
}

// splitJoined counts the leaves of a possibly-joined error tree built
// by errors.Join, by repeatedly unwrapping multi-errors.
func splitJoined(err error) []error {
	type multi interface{ Unwrap() []error }
	if m, ok := err.(multi); ok {
		var out []error
		for _, e := range m.Unwrap() {
			out = append(out, splitJoined(e)...)
		}
		return out
	}
	return []error{err}
}
