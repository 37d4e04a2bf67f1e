// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/luxfi/skewshape/graphir"
	"github.com/luxfi/skewshape/property"
)

// fixtureVertex and fixtureEdge mirror the minimal shape a demo DAG
// needs: enough to exercise candidate detection and the rewrite
// without requiring a real front-end translation step.
type fixtureVertex struct {
	ID          string `yaml:"id"`
	Kind        string `yaml:"kind"` // "source" or "operator"
	Parallelism int    `yaml:"parallelism"`
}

type fixtureEdge struct {
	ID      string `yaml:"id"`
	Src     string `yaml:"src"`
	Dst     string `yaml:"dst"`
	Pattern string `yaml:"pattern"` // "onetoone", "broadcast", "shuffle"
	SideTag string `yaml:"sideTag,omitempty"`
}

type fixtureFile struct {
	Vertices []fixtureVertex `yaml:"vertices"`
	Edges    []fixtureEdge   `yaml:"edges"`
}

// noopTaskReader satisfies graphir.SourceTaskReader for demo fixtures,
// which carry no real external data; the pass never calls ReadTask
// itself, so this is never exercised outside a hypothetical runtime.
type noopTaskReader struct{}

func (noopTaskReader) ReadTask(taskIndex int) (any, error) {
	return nil, fmt.Errorf("skewshape: fixture %d has no backing data", taskIndex)
}

func parsePattern(s string) (property.CommunicationPattern, error) {
	switch s {
	case "onetoone":
		return property.OneToOne, nil
	case "broadcast":
		return property.BroadCast, nil
	case "shuffle":
		return property.Shuffle, nil
	default:
		return 0, fmt.Errorf("skewshape: unknown edge pattern %q", s)
	}
}

// loadFixture reads a YAML DAG description from path and builds the
// corresponding graphir.Dag. Every shuffle edge is given a demo
// line-oriented KeyExtractor/Encoder/Decoder so `apply` has something
// concrete to carry through the rewrite.
func loadFixture(path string) (*graphir.Dag, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fixtureFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("skewshape: parsing %s: %w", path, err)
	}

	b := graphir.NewBuilder()
	for _, fv := range f.Vertices {
		var v graphir.Vertex
		switch fv.Kind {
		case "source":
			v = graphir.NewSourceVertex(graphir.VertexID(fv.ID), noopTaskReader{})
		case "operator":
			v = graphir.NewOperatorVertex(graphir.VertexID(fv.ID), demoTransform{name: fv.ID})
		default:
			return nil, fmt.Errorf("skewshape: vertex %q has unknown kind %q", fv.ID, fv.Kind)
		}
		if err := v.Properties().Set(property.ParallelismKind, fv.Parallelism); err != nil {
			return nil, fmt.Errorf("skewshape: vertex %q: %w", fv.ID, err)
		}
		b.AddVertex(v)
	}

	for _, fe := range f.Edges {
		pattern, err := parsePattern(fe.Pattern)
		if err != nil {
			return nil, err
		}
		e, err := graphir.NewEdge(graphir.EdgeID(fe.ID), graphir.VertexID(fe.Src), graphir.VertexID(fe.Dst), pattern)
		if err != nil {
			return nil, fmt.Errorf("skewshape: edge %q: %w", fe.ID, err)
		}
		if fe.SideTag != "" {
			if err := e.Properties().SetPermanent(property.AdditionalOutputTagKind, fe.SideTag); err != nil {
				return nil, fmt.Errorf("skewshape: edge %q: %w", fe.ID, err)
			}
		}
		if pattern == property.Shuffle {
			if err := e.Properties().Set(property.KeyExtractorKind, lineKeyExtractor{}); err != nil {
				return nil, fmt.Errorf("skewshape: edge %q: %w", fe.ID, err)
			}
			if err := e.Properties().Set(property.EncoderKind, lineEncoderFactory{}); err != nil {
				return nil, fmt.Errorf("skewshape: edge %q: %w", fe.ID, err)
			}
			if err := e.Properties().Set(property.DecoderKind, lineDecoderFactory{}); err != nil {
				return nil, fmt.Errorf("skewshape: edge %q: %w", fe.ID, err)
			}
		}
		b.ConnectVertices(e)
	}

	return b.Build()
}

// demoTransform is an opaque placeholder transform for fixture
// operator vertices that are not themselves part of the sampling
// sub-pipeline; the pass never inspects it.
type demoTransform struct{ name string }

func (t demoTransform) Name() string { return t.name }
