// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reshape

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/skewshape/graphir"
	"github.com/luxfi/skewshape/property"
)

// Minimal KeyExtractor/EncoderFactory doubles, mirroring
// transform_test.go's but redeclared here since that file's types are
// unexported to package transform.

type intKey int

func (k intKey) Hash() uint64 { return uint64(k) }

type intExtractor struct{}

func (intExtractor) ExtractKey(element property.Element) (property.Key, error) {
	return intKey(0), nil
}

type decimalEncoderFactory struct{}

type decimalEncoder struct{ sink io.Writer }

func (decimalEncoderFactory) Create(sink io.Writer) property.Encoder {
	return &decimalEncoder{sink: sink}
}

func (e *decimalEncoder) Encode(element property.Element) error {
	_, err := fmt.Fprintf(e.sink, "%v", element)
	return err
}

type fakeReader struct{}

func (fakeReader) ReadTask(int) (any, error) { return nil, nil }

type passthroughTransform struct{ name string }

func (t passthroughTransform) Name() string { return t.name }

func newSource(t *testing.T, id string, parallelism int) *graphir.SourceVertex {
	t.Helper()
	v := graphir.NewSourceVertex(graphir.VertexID(id), fakeReader{})
	require.NoError(t, v.Properties().Set(property.ParallelismKind, parallelism))
	return v
}

func newOperator(t *testing.T, id string, parallelism int) *graphir.OperatorVertex {
	t.Helper()
	v := graphir.NewOperatorVertex(graphir.VertexID(id), passthroughTransform{name: id})
	require.NoError(t, v.Properties().Set(property.ParallelismKind, parallelism))
	return v
}

func newShuffleEdge(t *testing.T, id, src, dst string) *graphir.Edge {
	t.Helper()
	e, err := graphir.NewEdge(graphir.EdgeID(id), graphir.VertexID(src), graphir.VertexID(dst), property.Shuffle)
	require.NoError(t, err)
	require.NoError(t, e.Properties().Set(property.KeyExtractorKind, intExtractor{}))
	require.NoError(t, e.Properties().Set(property.EncoderKind, decimalEncoderFactory{}))
	return e
}

func newOneToOneEdge(t *testing.T, id, src, dst string, store property.DataStore) *graphir.Edge {
	t.Helper()
	e, err := graphir.NewEdge(graphir.EdgeID(id), graphir.VertexID(src), graphir.VertexID(dst), property.OneToOne)
	require.NoError(t, err)
	require.NoError(t, e.Properties().Set(property.DataStoreKind, store))
	return e
}

func findVertexByPrefix(dag *graphir.Dag, prefix string) graphir.Vertex {
	for _, v := range dag.Vertices() {
		if strings.HasPrefix(string(v.ID()), prefix) {
			return v
		}
	}
	return nil
}

func findEdge(dag *graphir.Dag, src, dst graphir.VertexID) *graphir.Edge {
	for _, e := range dag.Edges() {
		if e.Src() == src && e.Dst() == dst {
			return e
		}
	}
	return nil
}

func parallelismOf(t *testing.T, v graphir.Vertex) int {
	t.Helper()
	p, ok := v.Properties().Get(property.ParallelismKind)
	require.True(t, ok)
	return p.(int)
}

// Scenario 1: Linear Shuffle. A(P=4) --Shuffle--> B(P=2), r=0.5.
func TestLinearShuffleScenario(t *testing.T) {
	require := require.New(t)

	b := graphir.NewBuilder()
	b.AddVertex(newSource(t, "A", 4))
	b.AddVertex(newOperator(t, "B", 2))
	b.ConnectVertices(newShuffleEdge(t, "e-AB", "A", "B"))
	dag, err := b.Build()
	require.NoError(err)

	r, err := New(WithSampleRate(0.5), WithRNGSeed(0))
	require.NoError(err)

	out, err := r.Apply(dag)
	require.NoError(err)

	_, ok := out.Vertex("A")
	require.True(ok)
	_, ok = out.Vertex("B")
	require.True(ok)

	aPrime := findVertexByPrefix(out, "A-sampled-")
	require.NotNil(aPrime)
	require.Equal(2, parallelismOf(t, aPrime))

	mcv := findVertexByPrefix(out, "mcv-")
	abv := findVertexByPrefix(out, "abv-")
	dummy := findVertexByPrefix(out, "dummy-")
	require.NotNil(mcv)
	require.NotNil(abv)
	require.NotNil(dummy)
	require.Equal(2, parallelismOf(t, mcv))
	require.Equal(1, parallelismOf(t, abv))
	require.Equal(1, parallelismOf(t, dummy))

	lastToMcv := findEdge(out, aPrime.ID(), mcv.ID())
	require.NotNil(lastToMcv)
	require.Equal(property.OneToOne, lastToMcv.Pattern())

	mcvToAbv := findEdge(out, mcv.ID(), abv.ID())
	require.NotNil(mcvToAbv)
	require.Equal(property.Shuffle, mcvToAbv.Pattern())
	ds, _ := mcvToAbv.Properties().Get(property.DataStoreKind)
	require.Equal(property.SerializedMemory, ds)
	dp, _ := mcvToAbv.Properties().Get(property.DataPersistenceKind)
	require.Equal(property.Discard, dp)
	df, _ := mcvToAbv.Properties().Get(property.DataFlowKind)
	require.Equal(property.Push, df)
	tag, _ := mcvToAbv.Properties().Get(property.AdditionalOutputTagKind)
	require.Equal("DynOptData", tag)
	mcID, _ := mcvToAbv.Properties().Get(property.MetricCollectionKind)
	require.Equal(1, mcID)

	abvToDummy := findEdge(out, abv.ID(), dummy.ID())
	require.NotNil(abvToDummy)
	require.Equal(property.OneToOne, abvToDummy.Pattern())

	dummyToStart := findEdge(out, dummy.ID(), aPrime.ID())
	require.NotNil(dummyToStart)
	require.Equal(property.BroadCast, dummyToStart.Pattern())

	ab := findEdge(out, "A", "B")
	require.NotNil(ab)
	require.Equal(property.Shuffle, ab.Pattern())
	mcID2, _ := ab.Properties().Get(property.MetricCollectionKind)
	require.Equal(1, mcID2)
}

// Scenario 2: Two shuffles into one destination share one fixture.
func TestTwoShufflesShareOneFixture(t *testing.T) {
	require := require.New(t)

	b := graphir.NewBuilder()
	b.AddVertex(newSource(t, "A", 4))
	b.AddVertex(newSource(t, "B", 4))
	b.AddVertex(newOperator(t, "C", 2))
	b.ConnectVertices(newShuffleEdge(t, "e-AC", "A", "C"))
	b.ConnectVertices(newShuffleEdge(t, "e-BC", "B", "C"))
	dag, err := b.Build()
	require.NoError(err)

	r, err := New(WithSampleRate(0.5), WithRNGSeed(7))
	require.NoError(err)

	out, err := r.Apply(dag)
	require.NoError(err)

	var abvs, dummies, mcvs []graphir.Vertex
	for _, v := range out.Vertices() {
		switch {
		case strings.HasPrefix(string(v.ID()), "abv-"):
			abvs = append(abvs, v)
		case strings.HasPrefix(string(v.ID()), "dummy-"):
			dummies = append(dummies, v)
		case strings.HasPrefix(string(v.ID()), "mcv-"):
			mcvs = append(mcvs, v)
		}
	}
	require.Len(abvs, 1)
	require.Len(dummies, 1)
	require.Len(mcvs, 2)

	ac := findEdge(out, "A", "C")
	bc := findEdge(out, "B", "C")
	require.NotNil(ac)
	require.NotNil(bc)
	mcA, _ := ac.Properties().Get(property.MetricCollectionKind)
	mcB, _ := bc.Properties().Get(property.MetricCollectionKind)
	require.Equal(mcA, mcB)
}

// Scenario 3: in-memory OneToOne upstream recurses; the control edge
// targets the sampled root A', not B'.
func TestInMemoryOneToOneUpstreamRecurses(t *testing.T) {
	require := require.New(t)

	b := graphir.NewBuilder()
	b.AddVertex(newSource(t, "A", 4))
	b.AddVertex(newOperator(t, "B", 4))
	b.AddVertex(newOperator(t, "C", 2))
	b.ConnectVertices(newOneToOneEdge(t, "e-AB", "A", "B", property.Memory))
	b.ConnectVertices(newShuffleEdge(t, "e-BC", "B", "C"))
	dag, err := b.Build()
	require.NoError(err)

	r, err := New(WithSampleRate(0.5), WithRNGSeed(3))
	require.NoError(err)

	out, err := r.Apply(dag)
	require.NoError(err)

	aPrime := findVertexByPrefix(out, "A-sampled-")
	bPrime := findVertexByPrefix(out, "B-sampled-")
	require.NotNil(aPrime)
	require.NotNil(bPrime)

	require.NotNil(findEdge(out, aPrime.ID(), bPrime.ID()))

	dummy := findVertexByPrefix(out, "dummy-")
	require.NotNil(dummy)
	require.NotNil(findEdge(out, dummy.ID(), aPrime.ID()), "control edge must target the sampled root A', not B'")
	require.Nil(findEdge(out, dummy.ID(), bPrime.ID()))
}

// Scenario 4: disk OneToOne upstream does not recurse; only B is
// mirrored, and the mirror carries a OneToOneDistribution.
func TestDiskOneToOneUpstreamDoesNotRecurse(t *testing.T) {
	require := require.New(t)

	b := graphir.NewBuilder()
	b.AddVertex(newSource(t, "A", 4))
	b.AddVertex(newOperator(t, "B", 4))
	b.AddVertex(newOperator(t, "C", 2))
	b.ConnectVertices(newOneToOneEdge(t, "e-AB", "A", "B", property.Disk))
	b.ConnectVertices(newShuffleEdge(t, "e-BC", "B", "C"))
	dag, err := b.Build()
	require.NoError(err)

	r, err := New(WithSampleRate(0.5), WithRNGSeed(5))
	require.NoError(err)

	out, err := r.Apply(dag)
	require.NoError(err)

	require.Nil(findVertexByPrefix(out, "A-sampled-"))
	bPrime := findVertexByPrefix(out, "B-sampled-")
	require.NotNil(bPrime)

	mirror := findEdge(out, "A", bPrime.ID())
	require.NotNil(mirror)
	require.Equal(property.OneToOne, mirror.Pattern())
	dist, ok := mirror.Properties().Get(property.OneToOneDistributionKind)
	require.True(ok)
	distVal := dist.(property.OneToOneDistributionValue)
	require.Len(distVal, 2)
}

// Scenario 5: side-output shuffle. The shuffle carries an
// AdditionalOutputTag, so the destination is not a candidate and the
// graph passes through unchanged.
func TestSideOutputShuffleIsNotCandidate(t *testing.T) {
	require := require.New(t)

	b := graphir.NewBuilder()
	b.AddVertex(newSource(t, "A", 4))
	b.AddVertex(newOperator(t, "B", 2))
	e := newShuffleEdge(t, "e-AB", "A", "B")
	require.NoError(e.Properties().Set(property.AdditionalOutputTagKind, "side"))
	b.ConnectVertices(e)
	dag, err := b.Build()
	require.NoError(err)

	r, err := New(WithSampleRate(0.5))
	require.NoError(err)

	out, err := r.Apply(dag)
	require.NoError(err)

	require.Len(out.Vertices(), 2)
	require.Len(out.Edges(), 1)
	require.Nil(findVertexByPrefix(out, "mcv-"))
}

// Scenario 6: missing Parallelism on the shuffle source fails with
// MissingRequiredProperty.
func TestMissingParallelismFails(t *testing.T) {
	require := require.New(t)

	b := graphir.NewBuilder()
	a := graphir.NewSourceVertex("A", fakeReader{})
	b.AddVertex(a) // deliberately no Parallelism set
	b.AddVertex(newOperator(t, "B", 2))
	b.ConnectVertices(newShuffleEdge(t, "e-AB", "A", "B"))
	dag, err := b.Build()
	require.NoError(err)

	r, err := New()
	require.NoError(err)

	_, err = r.Apply(dag)
	require.Error(err)
	var mrp *MissingRequiredPropertyError
	require.ErrorAs(err, &mrp)
	require.Equal(property.ParallelismKind, mrp.Kind)
}

// Invariant: non-candidate vertices and their incoming edges are
// copied through unchanged.
func TestNonCandidatePreservedUnchanged(t *testing.T) {
	require := require.New(t)

	b := graphir.NewBuilder()
	b.AddVertex(newSource(t, "A", 4))
	b.AddVertex(newOperator(t, "B", 4))
	b.ConnectVertices(newOneToOneEdge(t, "e-AB", "A", "B", property.Memory))
	dag, err := b.Build()
	require.NoError(err)

	r, err := New()
	require.NoError(err)

	out, err := r.Apply(dag)
	require.NoError(err)

	require.Len(out.Vertices(), 2)
	require.Len(out.Edges(), 1)
	_, ok := out.Vertex("A")
	require.True(ok)
	_, ok = out.Vertex("B")
	require.True(ok)
	edge := findEdge(out, "A", "B")
	require.NotNil(edge)
	require.Equal(property.OneToOne, edge.Pattern())
}

// Invariant: determinism. Two independently constructed Reshapers with
// the same seed produce output with identical synthesised ids and
// structure.
func TestDeterministicAcrossReshaperInstances(t *testing.T) {
	require := require.New(t)

	build := func() *graphir.Dag {
		b := graphir.NewBuilder()
		b.AddVertex(newSource(t, "A", 4))
		b.AddVertex(newOperator(t, "B", 2))
		b.ConnectVertices(newShuffleEdge(t, "e-AB", "A", "B"))
		dag, err := b.Build()
		require.NoError(err)
		return dag
	}

	r1, err := New(WithSampleRate(0.5), WithRNGSeed(99))
	require.NoError(err)
	out1, err := r1.Apply(build())
	require.NoError(err)

	r2, err := New(WithSampleRate(0.5), WithRNGSeed(99))
	require.NoError(err)
	out2, err := r2.Apply(build())
	require.NoError(err)

	ids1 := make(map[string]bool)
	for _, v := range out1.Vertices() {
		ids1[string(v.ID())] = true
	}
	ids2 := make(map[string]bool)
	for _, v := range out2.Vertices() {
		ids2[string(v.ID())] = true
	}
	require.Equal(ids1, ids2)
}

// Invariant: structural soundness. Output is acyclic and every vertex
// carries a positive Parallelism.
func TestStructuralSoundness(t *testing.T) {
	require := require.New(t)

	b := graphir.NewBuilder()
	b.AddVertex(newSource(t, "A", 4))
	b.AddVertex(newOperator(t, "B", 2))
	b.ConnectVertices(newShuffleEdge(t, "e-AB", "A", "B"))
	dag, err := b.Build()
	require.NoError(err)

	r, err := New(WithSampleRate(0.5), WithRNGSeed(1))
	require.NoError(err)

	out, err := r.Apply(dag)
	require.NoError(err)

	_, err = out.TopoSort()
	require.NoError(err)

	for _, v := range out.Vertices() {
		require.Greater(parallelismOf(t, v), 0)
	}
}
