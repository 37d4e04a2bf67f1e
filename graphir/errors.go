// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package graphir

import (
	"errors"
	"fmt"
)

// Sentinel errors for the DAG builder, as a flat errors.New var-block.
var (
	ErrUnknownEndpoint = errors.New("graphir: edge endpoint not present in builder")
	ErrCycleDetected   = errors.New("graphir: accumulated graph contains a cycle")
)

// UnknownEndpointError names the offending edge and the missing
// endpoint vertex id.
type UnknownEndpointError struct {
	EdgeID   EdgeID
	MissingVertex VertexID
}

func (e *UnknownEndpointError) Error() string {
	return fmt.Sprintf("graphir: edge %q references unknown vertex %q", e.EdgeID, e.MissingVertex)
}

func (e *UnknownEndpointError) Unwrap() error { return ErrUnknownEndpoint }

// CycleDetectedError lists every vertex the topological sort could not
// reach once it can make no further progress; each of them lies on a
// cycle or downstream of one.
type CycleDetectedError struct {
	Remaining []VertexID
}

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("graphir: cycle detected, %d vertices unreachable by topological order", len(e.Remaining))
}

func (e *CycleDetectedError) Unwrap() error { return ErrCycleDetected }
