// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sampler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeterministicUniformReproducible(t *testing.T) {
	require := require.New(t)

	a := NewDeterministicUniform(10, 42)
	b := NewDeterministicUniform(10, 42)

	idxA, ok := a.Sample(4)
	require.True(ok)
	idxB, ok := b.Sample(4)
	require.True(ok)
	require.Equal(idxA, idxB)
}

func TestSampleDistinctAndSorted(t *testing.T) {
	require := require.New(t)

	s := NewDeterministicUniform(20, 7)
	idx, ok := s.Sample(6)
	require.True(ok)
	require.Len(idx, 6)

	seen := make(map[int]bool, len(idx))
	for i, v := range idx {
		require.False(seen[v], "duplicate index %d", v)
		seen[v] = true
		require.GreaterOrEqual(v, 0)
		require.Less(v, 20)
		if i > 0 {
			require.Less(idx[i-1], v)
		}
	}
}

func TestSampleMoreThanCountFails(t *testing.T) {
	require := require.New(t)

	s := NewDeterministicUniform(3, 1)
	_, ok := s.Sample(4)
	require.False(ok)
}
