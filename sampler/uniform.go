// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sampler draws the sampled task-index set the reshaping pass
// mirrors a source's sub-pipeline over. Trimmed to
// uniform-without-replacement sampling only: the pass has no use for
// weighted sampling, so that variant was not carried over.
package sampler

import "math/rand"

// Uniform draws a without-replacement sample of task indices out of
// [0, count).
type Uniform interface {
	// Sample returns size distinct indices in [0, count), sorted
	// ascending, or ok=false if size > count.
	Sample(size int) (indices []int, ok bool)
}

type uniform struct {
	count int
	rng   *rand.Rand
}

// NewUniform returns a sampler over [0, count) seeded from the
// process-global entropy source. Use NewDeterministicUniform for
// reproducible runs.
func NewUniform(count int) Uniform {
	return &uniform{count: count, rng: rand.New(rand.NewSource(rand.Int63()))}
}

// NewDeterministicUniform returns a sampler over [0, count) whose
// draws are fully determined by seed, so that Apply(G) is reproducible
// for a fixed reshape.Options.RNGSeed.
func NewDeterministicUniform(count int, seed int64) Uniform {
	return &uniform{count: count, rng: rand.New(rand.NewSource(seed))}
}

// Sample draws size distinct indices from [0, count) without
// replacement. The result is sorted ascending so that downstream
// assignment of sub-indices 0..size-1 to sampled task indices
// (ShuffleDistribution ranges) is itself deterministic given the draw.
func (u *uniform) Sample(size int) ([]int, bool) {
	if size > u.count || size < 0 {
		return nil, false
	}
	if size == 0 {
		return []int{}, true
	}

	indices := make([]int, 0, size)
	selected := make(map[int]bool, size)
	for len(indices) < size {
		idx := u.rng.Intn(u.count)
		if selected[idx] {
			continue
		}
		selected[idx] = true
		indices = append(indices, idx)
	}

	for i := 1; i < len(indices); i++ {
		for j := i; j > 0 && indices[j-1] > indices[j]; j-- {
			indices[j-1], indices[j] = indices[j], indices[j-1]
		}
	}
	return indices, true
}
