// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reshape

import "github.com/luxfi/skewshape/graphir"

// Stage is one step of a Pipeline: a DAG-to-DAG transformation.
// Reshaper.Apply satisfies this signature.
type Stage func(*graphir.Dag) (*graphir.Dag, error)

// Pipeline composes a sequence of Stages, standing in for the
// out-of-scope composite-pass runner just enough to show how this
// pass plugs into one.
type Pipeline []Stage

// Run threads dag through every stage in order, short-circuiting on
// the first error.
func (p Pipeline) Run(dag *graphir.Dag) (*graphir.Dag, error) {
	cur := dag
	for _, stage := range p {
		out, err := stage(cur)
		if err != nil {
			return nil, err
		}
		cur = out
	}
	return cur, nil
}
