// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package reshape implements the Sampling Reshaper: a DAG-to-DAG pass
// that inserts a sampling sub-pipeline ahead of candidate shuffle
// edges so a downstream scheduler can observe key-size skew before
// committing to a partitioning. Built on the graphir dag/builder shape,
// generalised to this pass's own rewrite semantics.
package reshape

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/luxfi/skewshape/graphir"
	"github.com/luxfi/skewshape/internal/errlist"
	"github.com/luxfi/skewshape/property"
)

// Reshaper applies the sampling reshape to a DAG. Construct one with
// New; a Reshaper is safe for concurrent Apply calls since its only
// shared mutable state is the fresh-id generator, which is itself
// mutex-guarded, and each Apply seeds its own RNG.
type Reshaper struct {
	opts Options
	ids  *idGenerator
}

// New returns a Reshaper configured by opts, or an error if the
// configuration is invalid (e.g. an out-of-range sample rate).
func New(opts ...Option) (*Reshaper, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Reshaper{opts: o, ids: newIDGenerator()}, nil
}

// run holds the mutable state of one Apply invocation: the input DAG
// being read from, the builder accumulating the output, and the
// per-invocation caches (aggregation fixtures, pending duplicate-edge
// tags) scoped to within this one pass invocation.
type run struct {
	opts    Options
	ids     *idGenerator
	input   *graphir.Dag
	builder *graphir.Builder
	rng     *rand.Rand

	fixtures  map[graphir.VertexID]*fixture
	dupGroups map[graphir.EdgeID]string

	candidatesDetected int
	subDagVertices     int
}

func (r *run) nextSeed() int64 { return r.rng.Int63() }

// Apply rewrites dag, returning the new DAG or an error. Failures from
// every candidate rewrite and copy-through are collected and returned
// together as one joined error. dag is never mutated; on error, no
// partial output is returned.
func (r *Reshaper) Apply(dag *graphir.Dag) (*graphir.Dag, error) {
	invocationID := uuid.NewString()
	start := time.Now()
	logger := r.opts.Logger
	logger.Info("reshape.apply.start", "invocation", invocationID)

	seed := r.opts.RNGSeed
	if !r.opts.hasSeed {
		seed = time.Now().UnixNano()
	}

	run := &run{
		opts:      r.opts,
		ids:       r.ids,
		input:     dag,
		builder:   graphir.NewBuilder(),
		rng:       rand.New(rand.NewSource(seed)),
		fixtures:  make(map[graphir.VertexID]*fixture),
		dupGroups: make(map[graphir.EdgeID]string),
	}

	out, err := run.execute()
	r.opts.Metrics.ApplyDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		r.opts.Metrics.ApplyErrors.Inc()
		logger.Error("reshape.apply.failed", "invocation", invocationID, "err", err.Error())
		return nil, err
	}

	r.opts.Metrics.CandidatesDetected.Add(float64(run.candidatesDetected))
	r.opts.Metrics.SubDagVerticesBuilt.Add(float64(run.subDagVertices))
	logger.Info("reshape.apply.done",
		"invocation", invocationID,
		"candidates", run.candidatesDetected,
		"subDagVertices", run.subDagVertices,
	)
	return out, nil
}

// execute walks dag in topological order, rewriting each candidate's
// Shuffle incoming edges and collecting every other incoming edge to
// copy through unchanged. All candidate rewrites run to completion,
// over the whole DAG, before any copy-through: a candidate's sampling
// sub-DAG can register a pending DuplicateEdgeGroup tag (see groupOf)
// on an edge anywhere upstream of it, including one whose destination
// vertex the topological walk already visited, so copy-through cannot
// safely happen interleaved with rewriting without risking an edge
// being emitted before its tag is registered.
func (r *run) execute() (*graphir.Dag, error) {
	order, err := r.input.TopoSort()
	if err != nil {
		return nil, err
	}

	var errs errlist.Collector
	var pending []*graphir.Edge

	for _, v := range order {
		r.builder.AddVertex(v)

		candidate := isCandidate(r.input, v)
		if candidate {
			r.candidatesDetected++
		}

		for _, e := range r.input.IncomingEdges(v.ID()) {
			if candidate && e.Pattern() == property.Shuffle {
				if err := r.rewriteCandidateEdge(v, e); err != nil {
					errs.Add(err)
				}
				continue
			}
			pending = append(pending, e)
		}
	}

	for _, e := range pending {
		if err := r.copyThrough(e); err != nil {
			errs.Add(err)
		}
	}
	if errs.Errored() {
		return nil, errs.Err()
	}

	return r.builder.Build()
}

// copyThrough adds e to the output unchanged, unless an earlier
// rewrite requested a DuplicateEdgeGroup tag be applied to it (the
// Shuffle mirroring case, which tags both the mirror and the original
// edge), in which case a tagged clone is added instead, since e itself
// is borrowed read-only and must not be mutated in place.
func (r *run) copyThrough(e *graphir.Edge) error {
	group, pending := r.dupGroups[e.ID()]
	if !pending {
		r.builder.ConnectVertices(e)
		return nil
	}
	if _, already := e.Properties().Get(property.DuplicateEdgeGroupKind); already {
		r.builder.ConnectVertices(e)
		return nil
	}
	tagged, err := e.Clone(e.ID(), e.Src(), e.Dst())
	if err != nil {
		return err
	}
	if err := tagged.Properties().SetPermanent(property.DuplicateEdgeGroupKind, group); err != nil {
		return err
	}
	r.builder.ConnectVertices(tagged)
	return nil
}
