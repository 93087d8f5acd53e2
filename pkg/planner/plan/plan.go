/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package plan implements the plan assembler: the single entry point
// that ties the cluster model, conflict graph, coloring heuristics,
// and capacity partitioner together into an ordered reboot plan. Its
// shape — one top-level function running a fixed pipeline of stages,
// each logged through a klog.Logger carrying WithValues, returning a
// typed error rather than panicking — is grounded on
// multiobjective_full.go's Balance method.
package plan

import (
	"context"
	"sort"

	"k8s.io/klog/v2"

	"github.com/ganeti-contrib/hroller/pkg/api/v1alpha1"
	"github.com/ganeti-contrib/hroller/pkg/planner/coloring"
	"github.com/ganeti-contrib/hroller/pkg/planner/graph"
	"github.com/ganeti-contrib/hroller/pkg/planner/metrics"
	"github.com/ganeti-contrib/hroller/pkg/planner/model"
	"github.com/ganeti-contrib/hroller/pkg/planner/partition"
	"github.com/ganeti-contrib/hroller/pkg/planner/perr"
)

// Move is one evacuation move within a group: instance InstanceIdx's
// primary changed from its original node to NewNode.
type Move struct {
	InstanceIdx  int
	InstanceName string
	NewNode      int
	NewNodeName  string
}

// Group is one emitted reboot group.
type Group struct {
	NodeIdxs  []int
	NodeNames []string
	Moves     []Move
}

// Result is the planner's full output: an ordered sequence of reboot
// groups, each safe to reboot simultaneously.
type Result struct {
	Groups   []Group
	Warnings []string
}

// algorithm pairs a coloring heuristic with its declaration-order
// tie-break rank: when two heuristics produce the same number of
// colors, the earlier entry in this list wins.
type algorithm struct {
	name string
	fn   func(graph.Adjacency) coloring.ColorMap
}

var algorithms = []algorithm{
	{"LF", coloring.LF},
	{"DSATUR", coloring.DSATUR},
	{"Dcolor", coloring.Dcolor},
}

// Plan runs the full planning pipeline over state (already validated,
// already built from a ClusterData snapshot by the external loader)
// and groups (the cluster's topological group names, for resolving
// opts.Group), and returns the ordered reboot plan.
func Plan(ctx context.Context, state model.State, groups []v1alpha1.GroupData, opts *v1alpha1.PlannerOptions) (Result, error) {
	logger := klog.FromContext(ctx).WithValues("component", "plan")

	if err := v1alpha1.ValidatePlannerOptions(opts); err != nil {
		return Result{}, perr.Wrap(perr.InputInvalid, err, "invalid planner options")
	}

	result := Result{}

	masterNdx, hasMaster, err := checkMaster(state, opts.Force)
	if err != nil {
		return Result{}, err
	}
	if !hasMaster {
		result.Warnings = append(result.Warnings, "no master node found; master-last ordering will not be applied")
	}

	vertices, err := filterVertices(state, groups, opts)
	if err != nil {
		return Result{}, err
	}
	logger.Info("filtered vertex set", "total", state.Nodes.Len(), "kept", len(vertices))

	var adj graph.Adjacency
	if opts.OfflineMaintenance {
		adj, err = graph.Build(vertices, state)
	} else {
		adj, err = graph.BuildRebootOnly(vertices, state)
	}
	if err != nil {
		return Result{}, err
	}
	if len(vertices) > 0 && adj == nil {
		return Result{}, perr.New(perr.Unsupported, "failed to build conflict graph")
	}

	stats := metrics.NewSnapshot()
	best, bestName := selectBestColoring(adj, stats)
	logger.Info("selected coloring heuristic", "algorithm", bestName, "colors", best.NumColors())
	if opts.Verbose >= 2 {
		if rendered, rerr := stats.Render(); rerr == nil {
			logger.V(2).Info("coloring statistics", "metrics", rendered)
		}
	}

	targets := landingTargets(state)

	groupsOut, err := refineColorClasses(best, targets, state, opts)
	if err != nil {
		return Result{}, err
	}

	orderGroupsBySize(groupsOut)

	if hasMaster {
		moveMasterLast(groupsOut, masterNdx)
	}

	for i, g := range groupsOut {
		result.Groups = append(result.Groups, buildGroupResult(g, state, opts))
		stats.RecordGroup(i, len(g.Nodes))
	}

	if opts.OneStepOnly && len(result.Groups) > 1 {
		result.Groups = result.Groups[:1]
	}

	return result, nil
}

func checkMaster(state model.State, force bool) (int, bool, error) {
	masterNdx := -1
	count := 0
	for _, n := range state.Nodes.Elems() {
		if n.Master {
			masterNdx = n.Ndx
			count++
		}
	}

	switch {
	case count > 1:
		return -1, false, perr.New(perr.InputInvalid, "cluster has %d master nodes, want exactly 1", count)
	case count == 0 && !force:
		return -1, false, perr.New(perr.InputInvalid, "cluster has no master node")
	case count == 0:
		return -1, false, nil
	default:
		return masterNdx, true, nil
	}
}

func filterVertices(state model.State, groups []v1alpha1.GroupData, opts *v1alpha1.PlannerOptions) ([]int, error) {
	var groupNdx *int
	if opts.Group != nil {
		found := false
		for _, g := range groups {
			if g.Name == *opts.Group {
				ndx := g.Ndx
				groupNdx = &ndx
				found = true
				break
			}
		}
		if !found {
			return nil, perr.New(perr.InputInvalid, "unknown cluster group %q", *opts.Group)
		}
	}

	var kept []int
	for _, n := range state.Nodes.Elems() {
		if n.Offline {
			continue
		}
		if groupNdx != nil && n.Group != *groupNdx {
			continue
		}
		if len(opts.NodeTags) > 0 && !n.HasAnyTag(opts.NodeTags) {
			continue
		}
		if opts.SkipNonRedundant {
			nonRedundant, err := state.NonRedundantPrimaries(n.Ndx)
			if err != nil {
				return nil, err
			}
			if len(nonRedundant) > 0 {
				continue
			}
		}
		kept = append(kept, n.Ndx)
	}

	sort.Ints(kept)
	return kept, nil
}

// landingTargets returns every non-offline node in the whole cluster,
// regardless of the filters applied to the vertex set used for graph
// construction: the capacity partitioner is allowed to land evacuated
// instances on any online node, not just the ones being planned over.
func landingTargets(state model.State) []int {
	var out []int
	for _, n := range state.Nodes.Elems() {
		if !n.Offline {
			out = append(out, n.Ndx)
		}
	}
	sort.Ints(out)
	return out
}

func selectBestColoring(adj graph.Adjacency, stats *metrics.Snapshot) (coloring.ColorMap, string) {
	var best coloring.ColorMap
	var bestName string

	for _, alg := range algorithms {
		cm := alg.fn(adj)
		stats.RecordColoring(alg.name, cm.NumColors())
		if best == nil || cm.NumColors() < best.NumColors() {
			best, bestName = cm, alg.name
		}
	}

	return best, bestName
}

type refinedGroup struct {
	Nodes []int
	State model.State
}

func refineColorClasses(colors coloring.ColorMap, targets []int, state model.State, opts *v1alpha1.PlannerOptions) ([]refinedGroup, error) {
	var colorIDs []int
	for id := range colors {
		colorIDs = append(colorIDs, id)
	}
	sort.Ints(colorIDs)

	var out []refinedGroup
	for _, id := range colorIDs {
		class := colors[id]

		if opts.IgnoreNonRedundant {
			out = append(out, refinedGroup{Nodes: class, State: state})
			continue
		}

		refined, err := partition.PartitionNonRedundant(class, targets, state)
		if err != nil {
			return nil, err
		}
		for _, r := range refined {
			out = append(out, refinedGroup{Nodes: r.Nodes, State: r.State})
		}
	}

	return out, nil
}

func orderGroupsBySize(groups []refinedGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].Nodes) > len(groups[j].Nodes)
	})
}

func moveMasterLast(groups []refinedGroup, masterNdx int) {
	masterGroupIdx := -1
	for i, g := range groups {
		for _, n := range g.Nodes {
			if n == masterNdx {
				masterGroupIdx = i
				break
			}
		}
		if masterGroupIdx >= 0 {
			break
		}
	}
	if masterGroupIdx < 0 {
		return
	}

	g := groups[masterGroupIdx]
	reordered := make([]int, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if n != masterNdx {
			reordered = append(reordered, n)
		}
	}
	reordered = append(reordered, masterNdx)
	groups[masterGroupIdx].Nodes = reordered

	masterGroup := groups[masterGroupIdx]
	without := append(append([]refinedGroup{}, groups[:masterGroupIdx]...), groups[masterGroupIdx+1:]...)
	copy(groups, append(without, masterGroup))
}

func buildGroupResult(g refinedGroup, original model.State, opts *v1alpha1.PlannerOptions) Group {
	out := Group{NodeIdxs: g.Nodes}
	for _, n := range g.Nodes {
		node, err := g.State.Nodes.Find(n)
		if err != nil {
			continue
		}
		out.NodeNames = append(out.NodeNames, node.Name)
	}

	if !opts.PrintMoves {
		return out
	}

	for _, inst := range original.Instances.Elems() {
		newInst, err := g.State.Instances.Find(inst.Idx)
		if err != nil {
			continue
		}
		if newInst.PNode == inst.PNode {
			continue
		}
		newNode, err := g.State.Nodes.Find(newInst.PNode)
		if err != nil {
			continue
		}
		out.Moves = append(out.Moves, Move{
			InstanceIdx:  inst.Idx,
			InstanceName: inst.Name,
			NewNode:      newInst.PNode,
			NewNodeName:  newNode.Name,
		})
	}

	sort.Slice(out.Moves, func(i, j int) bool { return out.Moves[i].InstanceIdx < out.Moves[j].InstanceIdx })

	return out
}
