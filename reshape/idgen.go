// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reshape

import (
	"fmt"
	"sync"
)

// idGenerator hands out monotonically increasing, prefix-scoped ids.
// One instance lives per Reshaper, shared by every Apply call it
// makes, so ids never collide across calls on the same Reshaper and
// fresh ids (and therefore the whole rewritten DAG) stay reproducible
// run to run: nothing in the pass calls google/uuid for anything but
// the invocation's own log-correlation id, which never touches the
// graph.
type idGenerator struct {
	mu       sync.Mutex
	counters map[string]int
}

func newIDGenerator() *idGenerator {
	return &idGenerator{counters: make(map[string]int)}
}

// next returns "<prefix>-<n>" where n starts at 1 and increments per
// prefix.
func (g *idGenerator) next(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, g.nextInt(prefix))
}

// nextInt returns the bare monotonic counter for prefix, starting at
// 1. Used for numeric ids (metric-collection id) rather than
// string-shaped vertex/edge ids.
func (g *idGenerator) nextInt(prefix string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counters[prefix]++
	return g.counters[prefix]
}
