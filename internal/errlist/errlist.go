// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package errlist collects multiple errors into one, so a caller sees
// every violation found in a single pass instead of only the first.
// Shaped as an Add/Errored/Err collector, wrapping its errors with
// errors.Join so errors.Is/errors.As still reach the individual causes.
package errlist

import (
	"errors"
	"sync"
)

// Collector accumulates errors across the course of one validation
// pass (e.g. checking every edge's endpoints before failing).
type Collector struct {
	mu   sync.Mutex
	errs []error
}

// Add records err if non-nil; nil errors are ignored.
func (c *Collector) Add(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, err)
}

// Errored reports whether any error has been recorded.
func (c *Collector) Errored() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errs) > 0
}

// Len returns the number of recorded errors.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errs)
}

// Err returns nil if no error was recorded, the single error if
// exactly one was, or a joined error (errors.Is/As-compatible via
// errors.Join) otherwise.
func (c *Collector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch len(c.errs) {
	case 0:
		return nil
	case 1:
		return c.errs[0]
	default:
		return errors.Join(c.errs...)
	}
}
