// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/luxfi/skewshape/graphir"
	"github.com/luxfi/skewshape/property"
	"github.com/luxfi/skewshape/reshape"
)

var rootCmd = &cobra.Command{
	Use:   "skewshape",
	Short: "Inspect and run the sampling skew-reshaping pass against a DAG fixture",
	Long: `skewshape loads a YAML DAG fixture and either describes it (candidate-edge
detection, no rewrite) or runs the full sampling reshape pass against it.

This is a demo/debugging surface only; it has no bearing on the pass's
correctness contract.`,
}

func main() {
	rootCmd.AddCommand(describeCmd(), applyCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <file.yaml>",
		Short: "Print vertex/edge counts and candidate-edge detection without rewriting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(cmd, args[0])
		},
	}
}

func applyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <file.yaml>",
		Short: "Run the sampling reshape pass and print the rewritten DAG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args[0])
		},
	}
	cmd.Flags().Float64("sample-rate", 1.0, "fraction of a source's parallelism to sample")
	cmd.Flags().Int64("seed", 0, "RNG seed (0 means time-derived, non-reproducible)")
	return cmd
}

func runDescribe(cmd *cobra.Command, path string) error {
	dag, err := loadFixture(path)
	if err != nil {
		return err
	}

	var candidates int
	for _, v := range dag.Vertices() {
		if reshape.IsCandidate(dag, v) {
			candidates++
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "vertices: %d\n", len(dag.Vertices()))
	fmt.Fprintf(out, "edges: %d\n", len(dag.Edges()))
	fmt.Fprintf(out, "candidate vertices: %d\n", candidates)
	for _, v := range sortedVertices(dag) {
		if reshape.IsCandidate(dag, v) {
			fmt.Fprintf(out, "  candidate: %s\n", v.ID())
		}
	}
	return nil
}

func runApply(cmd *cobra.Command, path string) error {
	dag, err := loadFixture(path)
	if err != nil {
		return err
	}

	sampleRate, _ := cmd.Flags().GetFloat64("sample-rate")
	seed, _ := cmd.Flags().GetInt64("seed")

	opts := []reshape.Option{reshape.WithSampleRate(sampleRate)}
	if seed != 0 {
		opts = append(opts, reshape.WithRNGSeed(seed))
	}

	r, err := reshape.New(opts...)
	if err != nil {
		return err
	}

	out, err := r.Apply(dag)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "vertices: %d\n", len(out.Vertices()))
	fmt.Fprintf(w, "edges: %d\n", len(out.Edges()))
	for _, e := range sortedEdges(out) {
		mc := "-"
		if v, ok := e.Properties().Get(property.MetricCollectionKind); ok {
			mc = fmt.Sprintf("%d", v.(int))
		}
		fmt.Fprintf(w, "  %s: %s -[%s]-> %s  MetricCollection=%s\n", e.ID(), e.Src(), e.Pattern(), e.Dst(), mc)
	}
	return nil
}

func sortedVertices(dag *graphir.Dag) []graphir.Vertex {
	vs := dag.Vertices()
	sort.Slice(vs, func(i, j int) bool { return vs[i].ID() < vs[j].ID() })
	return vs
}

func sortedEdges(dag *graphir.Dag) []*graphir.Edge {
	es := dag.Edges()
	sort.Slice(es, func(i, j int) bool { return es[i].ID() < es[j].ID() })
	return es
}
