// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reshape

import (
	"fmt"
	"math"

	"github.com/luxfi/skewshape/graphir"
	"github.com/luxfi/skewshape/property"
	"github.com/luxfi/skewshape/sampler"
	"github.com/luxfi/skewshape/transform"
)

// samplePs computes Ps = max(round(P_orig * sampleRate), 1), capped at
// P_orig since a sample can never exceed its source's parallelism.
func samplePs(origP int, rate float64) int {
	ps := int(math.Round(float64(origP) * rate))
	if ps < 1 {
		ps = 1
	}
	if ps > origP {
		ps = origP
	}
	return ps
}

// rewriteCandidateEdge performs the ten-step rewrite of one candidate
// vertex's incoming Shuffle edge.
func (r *run) rewriteCandidateEdge(v graphir.Vertex, e *graphir.Edge) error {
	s, ok := r.input.Vertex(e.Src())
	if !ok {
		return fmt.Errorf("reshape: edge %q source %q not found in input DAG", e.ID(), e.Src())
	}

	origPVal, ok := s.Properties().Get(property.ParallelismKind)
	if !ok {
		return missingProperty(string(s.ID()), property.ParallelismKind)
	}
	origP := origPVal.(int)

	dstPVal, ok := v.Properties().Get(property.ParallelismKind)
	if !ok {
		return missingProperty(string(v.ID()), property.ParallelismKind)
	}
	dstP := dstPVal.(int)

	ps := samplePs(origP, r.opts.SampleRate)

	samp := sampler.NewDeterministicUniform(origP, r.nextSeed())
	indices, ok := samp.Sample(ps)
	if !ok {
		return fmt.Errorf("reshape: cannot sample %d of %d tasks for %q", ps, origP, s.ID())
	}

	// Step 3: sampling sub-DAG for S.
	last, start, err := r.sampleVertex(s, indices, origP, ps)
	if err != nil {
		return err
	}

	// Step 4: aggregation fixture for v.
	fx, err := r.fixtureFor(v)
	if err != nil {
		return err
	}

	// Step 5: control BroadCast dummy -> start.
	ctrlEdge, err := graphir.NewEdge(graphir.EdgeID(r.ids.next("e")), fx.dummy.ID(), start.ID(), property.BroadCast)
	if err != nil {
		return err
	}
	r.builder.ConnectVertices(ctrlEdge)

	// Step 6: MetricCollect vertex.
	keyExtractorVal, ok := e.Properties().Get(property.KeyExtractorKind)
	if !ok {
		return missingProperty(string(e.ID()), property.KeyExtractorKind)
	}
	encoderVal, ok := e.Properties().Get(property.EncoderKind)
	if !ok {
		return missingProperty(string(e.ID()), property.EncoderKind)
	}
	mcv, err := transform.NewMetricCollect(
		graphir.VertexID(r.ids.next("mcv")),
		ps,
		keyExtractorVal.(property.KeyExtractor),
		encoderVal.(property.EncoderFactory),
		dstP,
		r.opts.HashRangeMultiplier,
		fx.abv.ID(),
	)
	if err != nil {
		return err
	}
	r.builder.AddVertex(mcv)
	r.subDagVertices++

	// Step 7: last -> mcv, OneToOne, carrying e's original codecs
	// non-permanently.
	lastToMcv, err := graphir.NewEdge(graphir.EdgeID(r.ids.next("e")), last.ID(), mcv.ID(), property.OneToOne)
	if err != nil {
		return err
	}
	if err := lastToMcv.Properties().Set(property.EncoderKind, encoderVal); err != nil {
		return err
	}
	if decoderVal, ok := e.Properties().Get(property.DecoderKind); ok {
		if err := lastToMcv.Properties().Set(property.DecoderKind, decoderVal); err != nil {
			return err
		}
	}
	r.builder.ConnectVertices(lastToMcv)

	// Step 8: mcv -> abv, Shuffle, permanently configured.
	mcvToAbv, err := graphir.NewEdge(graphir.EdgeID(r.ids.next("e")), mcv.ID(), fx.abv.ID(), property.Shuffle)
	if err != nil {
		return err
	}
	if err := mcvToAbv.Properties().SetPermanent(property.DataStoreKind, property.SerializedMemory); err != nil {
		return err
	}
	if err := mcvToAbv.Properties().SetPermanent(property.DataPersistenceKind, property.Discard); err != nil {
		return err
	}
	if err := mcvToAbv.Properties().SetPermanent(property.DataFlowKind, property.Push); err != nil {
		return err
	}
	if err := mcvToAbv.Properties().SetPermanent(property.KeyExtractorKind, keyExtractorVal); err != nil {
		return err
	}
	if err := mcvToAbv.Properties().SetPermanent(property.AdditionalOutputTagKind, "DynOptData"); err != nil {
		return err
	}
	if err := mcvToAbv.Properties().SetPermanent(property.EncoderKind, transform.PairEncoderFactory{}); err != nil {
		return err
	}
	if err := mcvToAbv.Properties().SetPermanent(property.DecoderKind, transform.PairDecoderFactory{}); err != nil {
		return err
	}
	// Step 10: stamp mcv -> abv with MetricCollection=mcId.
	if err := mcvToAbv.Properties().SetPermanent(property.MetricCollectionKind, fx.mcID); err != nil {
		return err
	}
	r.builder.ConnectVertices(mcvToAbv)

	// Step 9: replace e with S -> v, carrying e's properties plus
	// MetricCollection=mcId.
	replacement, err := e.Clone(graphir.EdgeID(r.ids.next("e")), e.Src(), v.ID())
	if err != nil {
		return err
	}
	if err := replacement.Properties().SetPermanent(property.MetricCollectionKind, fx.mcID); err != nil {
		return err
	}
	r.builder.ConnectVertices(replacement)

	return nil
}
