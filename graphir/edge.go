// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package graphir

import "github.com/luxfi/skewshape/property"

// EdgeID uniquely identifies an edge within a Dag.
type EdgeID string

// Edge connects a source vertex to a destination vertex with a
// communication pattern and its own execution-property bag.
type Edge struct {
	id      EdgeID
	src     VertexID
	dst     VertexID
	pattern property.CommunicationPattern
	props   *property.Bag
}

// NewEdge creates an edge. pattern is recorded permanently on the
// returned edge's property bag under CommunicationPatternKind, since
// an edge's shape never changes after construction.
func NewEdge(id EdgeID, src, dst VertexID, pattern property.CommunicationPattern) (*Edge, error) {
	e := &Edge{id: id, src: src, dst: dst, pattern: pattern, props: property.NewBag(string(id))}
	if err := e.props.SetPermanent(property.CommunicationPatternKind, pattern); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Edge) ID() EdgeID                         { return e.id }
func (e *Edge) Src() VertexID                      { return e.src }
func (e *Edge) Dst() VertexID                      { return e.dst }
func (e *Edge) Pattern() property.CommunicationPattern { return e.pattern }
func (e *Edge) Properties() *property.Bag          { return e.props }

// Clone returns a structural copy of e under a fresh id, with all
// properties copied (permanent markers preserved).
func (e *Edge) Clone(freshID EdgeID, src, dst VertexID) (*Edge, error) {
	clone, err := NewEdge(freshID, src, dst, e.pattern)
	if err != nil {
		return nil, err
	}
	if err := e.props.CopyTo(clone.props); err != nil {
		return nil, err
	}
	return clone, nil
}
