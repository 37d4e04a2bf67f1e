// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reshape

import (
	"github.com/luxfi/skewshape/graphir"
	"github.com/luxfi/skewshape/property"
)

// IsCandidate reports whether v would be selected for reshaping by
// Apply, without performing any rewrite. Exposed for read-only
// inspection tools (e.g. the describe subcommand of cmd/skewshape).
func IsCandidate(dag *graphir.Dag, v graphir.Vertex) bool {
	return isCandidate(dag, v)
}

// isCandidate reports whether v is eligible for reshaping: an
// OperatorVertex with at least one incoming Shuffle edge, none of
// whose incoming edges carries an AdditionalOutputTag.
func isCandidate(dag *graphir.Dag, v graphir.Vertex) bool {
	if v.Kind() != graphir.OperatorKind {
		return false
	}
	hasShuffle := false
	for _, e := range dag.IncomingEdges(v.ID()) {
		if _, ok := e.Properties().Get(property.AdditionalOutputTagKind); ok {
			return false
		}
		if e.Pattern() == property.Shuffle {
			hasShuffle = true
		}
	}
	return hasShuffle
}
