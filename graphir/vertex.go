// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package graphir implements the immutable IR DAG: vertices, edges,
// the DAG value itself, and the builder that validates and produces
// one. Its vertex shape (mutex-guarded struct with id/clone/
// property-copy methods) generalises a blockchain UTXO vertex into a
// compiler IR vertex.
package graphir

import (
	"sync"

	"github.com/luxfi/skewshape/property"
)

// VertexID uniquely identifies a vertex within a Dag.
type VertexID string

// VertexKind distinguishes the two vertex variants the pass knows
// about: a Source (reads external data) and an Operator (everything
// else, including the MetricCollect/AggregateMetric vertices the pass
// itself synthesises).
type VertexKind int

const (
	SourceKind VertexKind = iota
	OperatorKind
)

func (k VertexKind) String() string {
	if k == SourceKind {
		return "Source"
	}
	return "Operator"
}

// Vertex is the common contract both variants satisfy.
type Vertex interface {
	ID() VertexID
	Kind() VertexKind
	Properties() *property.Bag
	// Clone returns a structural copy carrying the given fresh id and
	// an identical transform (for OperatorVertex) or the same reader
	// and task range (for SourceVertex).
	Clone(freshID VertexID) Vertex
	// CopyExecutionPropertiesTo copies this vertex's property bag onto
	// other's, preserving permanent markers.
	CopyExecutionPropertiesTo(other Vertex) error
}

// SourceTaskReader reads one external source task index. Provided by
// the upstream collaborator that owns the source's data; the pass
// never calls it, it only threads it through clones.
type SourceTaskReader interface {
	ReadTask(taskIndex int) (any, error)
}

// SourceVertex is a DAG source: it reads data from an external task
// set of some original parallelism.
type SourceVertex struct {
	id    VertexID
	props *property.Bag

	mu     sync.RWMutex
	reader SourceTaskReader
	// taskIndices is nil for an un-sampled source (reads all tasks);
	// non-nil for a sampled clone, restricting reads to this set out
	// of originalParallelism tasks.
	taskIndices         []int
	originalParallelism int
}

// NewSourceVertex creates a source vertex reading the full task range
// via reader.
func NewSourceVertex(id VertexID, reader SourceTaskReader) *SourceVertex {
	return &SourceVertex{id: id, props: property.NewBag(string(id)), reader: reader}
}

func (v *SourceVertex) ID() VertexID           { return v.id }
func (v *SourceVertex) Kind() VertexKind       { return SourceKind }
func (v *SourceVertex) Properties() *property.Bag { return v.props }

// TaskIndices returns the restricted task-index set for a sampled
// clone, or nil if this source reads its full original range.
func (v *SourceVertex) TaskIndices() []int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]int, len(v.taskIndices))
	copy(out, v.taskIndices)
	return out
}

// Clone returns a structural copy of v under a fresh id, reading the
// same task range as v (full range, unless v is itself a sampled
// clone, in which case the same restricted range is preserved).
func (v *SourceVertex) Clone(freshID VertexID) Vertex {
	v.mu.RLock()
	indices := append([]int(nil), v.taskIndices...)
	origP := v.originalParallelism
	reader := v.reader
	v.mu.RUnlock()

	clone := &SourceVertex{
		id:                  freshID,
		props:               property.NewBag(string(freshID)),
		reader:              reader,
		taskIndices:         indices,
		originalParallelism: origP,
	}
	_ = v.props.CopyTo(clone.props)
	return clone
}

// SampledClone returns a new source vertex restricted to reading only
// indices out of originalParallelism tasks. Its output is the union
// of v's outputs at those indices.
func (v *SourceVertex) SampledClone(freshID VertexID, indices []int, originalParallelism int) *SourceVertex {
	v.mu.RLock()
	reader := v.reader
	v.mu.RUnlock()

	clone := &SourceVertex{
		id:                  freshID,
		props:               property.NewBag(string(freshID)),
		reader:              reader,
		taskIndices:         append([]int(nil), indices...),
		originalParallelism: originalParallelism,
	}
	_ = v.props.CopyTo(clone.props)
	return clone
}

// CopyExecutionPropertiesTo copies v's property bag onto other's.
func (v *SourceVertex) CopyExecutionPropertiesTo(other Vertex) error {
	return v.props.CopyTo(other.Properties())
}

// Transform is an opaque, serialisable configuration object for an
// OperatorVertex. The runtime (out of scope here) dispatches on its
// concrete type; transform.MetricCollectConfig and
// transform.AggregateMetricConfig are the two variants this pass
// synthesises itself, but front-end-translated operators carry their
// own.
type Transform interface {
	// Name identifies the transform variant for diagnostics/logging.
	Name() string
}

// OperatorVertex is any non-source DAG vertex: a named Transform plus
// its execution properties.
type OperatorVertex struct {
	id        VertexID
	props     *property.Bag
	transform Transform
}

// NewOperatorVertex creates an operator vertex wrapping transform.
func NewOperatorVertex(id VertexID, transform Transform) *OperatorVertex {
	return &OperatorVertex{id: id, props: property.NewBag(string(id)), transform: transform}
}

func (v *OperatorVertex) ID() VertexID           { return v.id }
func (v *OperatorVertex) Kind() VertexKind       { return OperatorKind }
func (v *OperatorVertex) Properties() *property.Bag { return v.props }
func (v *OperatorVertex) TransformValue() Transform { return v.transform }

// Clone returns a structural copy with a fresh id but an identical
// transform.
func (v *OperatorVertex) Clone(freshID VertexID) Vertex {
	clone := &OperatorVertex{id: freshID, props: property.NewBag(string(freshID)), transform: v.transform}
	_ = v.props.CopyTo(clone.props)
	return clone
}

func (v *OperatorVertex) CopyExecutionPropertiesTo(other Vertex) error {
	return v.props.CopyTo(other.Properties())
}
