// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reshape

import (
	"github.com/luxfi/skewshape/graphir"
	"github.com/luxfi/skewshape/property"
)

// sampleVertex builds the sampling sub-DAG for t, recursively.
// indices, origP, and ps are the top-level candidate edge's sampled
// index set, source original parallelism, and sampled parallelism,
// threaded unchanged through every level of recursion.
//
// It returns (clone, start): clone is t's sampled analogue, and start
// is the upstream entry point a control dependency must target (t's
// own clone if no recursion occurred, or the start the recursive call
// returned otherwise).
func (r *run) sampleVertex(t graphir.Vertex, indices []int, origP, ps int) (clone graphir.Vertex, start graphir.Vertex, err error) {
	freshID := graphir.VertexID(r.ids.next(string(t.ID()) + "-sampled"))

	if sv, ok := t.(*graphir.SourceVertex); ok {
		clone = sv.SampledClone(freshID, indices, origP)
	} else {
		clone = t.Clone(freshID)
	}
	if err := clone.Properties().Set(property.ParallelismKind, ps); err != nil {
		return nil, nil, err
	}
	r.builder.AddVertex(clone)
	r.subDagVertices++

	incoming := r.input.IncomingEdges(t.ID())

	if len(incoming) == 1 && incoming[0].Pattern() == property.OneToOne {
		ein := incoming[0]
		dsVal, ok := ein.Properties().Get(property.DataStoreKind)
		if !ok {
			return nil, nil, missingProperty(string(ein.ID()), property.DataStoreKind)
		}
		if dsVal.(property.DataStore) == property.Memory {
			upstream, ok := r.input.Vertex(ein.Src())
			if !ok {
				return nil, nil, missingProperty(string(ein.ID()), property.CommunicationPatternKind)
			}
			lastSampled, upstart, err := r.sampleVertex(upstream, indices, origP, ps)
			if err != nil {
				return nil, nil, err
			}
			mirror, err := ein.Clone(graphir.EdgeID(r.ids.next("e")), lastSampled.ID(), clone.ID())
			if err != nil {
				return nil, nil, err
			}
			r.builder.ConnectVertices(mirror)
			return clone, upstart, nil
		}
	}

	for _, ein := range incoming {
		switch ein.Pattern() {
		case property.Shuffle:
			if err := r.mirrorShuffle(ein, clone, indices, origP, ps); err != nil {
				return nil, nil, err
			}
		case property.BroadCast:
			if err := r.mirrorBroadcast(ein, clone); err != nil {
				return nil, nil, err
			}
		case property.OneToOne:
			if err := r.mirrorOneToOne(ein, clone, indices, ps); err != nil {
				return nil, nil, err
			}
		default:
			return nil, nil, &UnsupportedCommunicationPatternError{EdgeID: ein.ID(), Pattern: ein.Pattern()}
		}
	}
	return clone, clone, nil
}

// groupOf resolves ein's DuplicateEdgeGroup: the value already on the
// edge if present, else a fresh id allocated from prefix. With
// register set, the id is also recorded for this run (and reused on a
// later call for the same edge) so a later copy-through of ein itself
// picks it up; this is used only by the Shuffle case, the one pattern
// whose edge mirroring tags both sides. Without register nothing is
// recorded and every call allocates a new id.
func (r *run) groupOf(ein *graphir.Edge, prefix string, register bool) (string, error) {
	if v, ok := ein.Properties().Get(property.DuplicateEdgeGroupKind); ok {
		return v.(string), nil
	}
	if register {
		if g, ok := r.dupGroups[ein.ID()]; ok {
			return g, nil
		}
	}
	g := r.ids.next(prefix)
	if register {
		r.dupGroups[ein.ID()] = g
	}
	return g, nil
}

func (r *run) mirrorShuffle(ein *graphir.Edge, dst graphir.Vertex, indices []int, origP, ps int) error {
	mirror, err := ein.Clone(graphir.EdgeID(r.ids.next("e")), ein.Src(), dst.ID())
	if err != nil {
		return err
	}
	group, err := r.groupOf(ein, "group", true)
	if err != nil {
		return err
	}
	if err := mirror.Properties().SetPermanent(property.DuplicateEdgeGroupKind, group); err != nil {
		return err
	}

	ranges := make(map[int]property.KeyRange, len(indices))
	for i, orig := range indices {
		if i >= ps {
			break
		}
		ranges[i] = property.KeyRange{Low: orig, High: orig + 1}
	}
	dist := property.ShuffleDistributionValue{OriginalParallelism: origP, Ranges: ranges}
	if err := mirror.Properties().SetPermanent(property.ShuffleDistributionKind, dist); err != nil {
		return err
	}
	r.builder.ConnectVertices(mirror)
	return nil
}

func (r *run) mirrorBroadcast(ein *graphir.Edge, dst graphir.Vertex) error {
	mirror, err := ein.Clone(graphir.EdgeID(r.ids.next("e")), ein.Src(), dst.ID())
	if err != nil {
		return err
	}
	group, err := r.groupOf(ein, "group", false)
	if err != nil {
		return err
	}
	if err := mirror.Properties().SetPermanent(property.DuplicateEdgeGroupKind, group); err != nil {
		return err
	}
	r.builder.ConnectVertices(mirror)
	return nil
}

func (r *run) mirrorOneToOne(ein *graphir.Edge, dst graphir.Vertex, indices []int, ps int) error {
	mirror, err := ein.Clone(graphir.EdgeID(r.ids.next("e")), ein.Src(), dst.ID())
	if err != nil {
		return err
	}
	group, err := r.groupOf(ein, "Sampling", false)
	if err != nil {
		return err
	}
	if err := mirror.Properties().SetPermanent(property.DuplicateEdgeGroupKind, group); err != nil {
		return err
	}

	dist := make(property.OneToOneDistributionValue, len(indices))
	for i, orig := range indices {
		if i >= ps {
			break
		}
		dist[i] = orig
	}
	if err := mirror.Properties().SetPermanent(property.OneToOneDistributionKind, dist); err != nil {
		return err
	}
	r.builder.ConnectVertices(mirror)
	return nil
}
