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

// Package partition implements the greedy capacity partitioner:
// splitting one color class into sub-groups whose non-redundant
// instances can be evacuated to peers simultaneously. The shape
// mirrors a bin-packing heuristic (objectives/cost/
// bestfit.go's BestFitDecreasing): a greedy pass, in the order the
// nodes are given, over a working copy of per-node residual capacity,
// trying each candidate and skipping what doesn't fit this round.
package partition

import (
	"k8s.io/klog/v2"

	"github.com/ganeti-contrib/hroller/pkg/planner/model"
	"github.com/ganeti-contrib/hroller/pkg/planner/perr"
	"github.com/ganeti-contrib/hroller/pkg/planner/relocate"
)

// Group is one capacity-refined sub-group: the node indices that can
// reboot together, and the cluster state after simulating eviction of
// their non-redundant primaries (always derived from the initial
// state passed to PartitionNonRedundant, never cumulatively across
// sub-groups: each sub-group is an independent reboot window, and
// instances return home before the next one starts).
type Group struct {
	Nodes []int
	State model.State
}

// sameGroupPeers returns the subset of candidates in the same
// cluster-topological group as ndx.
func sameGroupPeers(ndx int, candidates []int, state model.State) ([]int, error) {
	node, err := state.Nodes.Find(ndx)
	if err != nil {
		return nil, err
	}
	var peers []int
	for _, c := range candidates {
		cn, err := state.Nodes.Find(c)
		if err != nil {
			return nil, err
		}
		if cn.Group == node.Group {
			peers = append(peers, c)
		}
	}
	return peers, nil
}

func without(set []int, ndx int) []int {
	out := make([]int, 0, len(set))
	for _, v := range set {
		if v != ndx {
			out = append(out, v)
		}
	}
	return out
}

// GreedyClearNodes returns the largest prefix-like subset of g that
// can be cleared together against a single simulated state drawn from
// targets t, plus the state after clearing exactly that subset. A node whose
// non-redundant instances cannot be placed this pass is skipped (not
// fatal) and left for the caller's next iteration.
func GreedyClearNodes(g, t []int, state model.State) ([]int, model.State, error) {
	if len(g) == 0 {
		return nil, state, nil
	}

	ndx := g[0]
	rest := g[1:]
	otherNodes := without(t, ndx)

	nonRedundant, err := state.NonRedundantPrimaries(ndx)
	if err != nil {
		return nil, model.State{}, err
	}

	peers, err := sameGroupPeers(ndx, otherNodes, state)
	if err != nil {
		return nil, model.State{}, err
	}

	next, err := relocate.LocateInstances(nonRedundant, peers, state)
	if err != nil {
		klog.V(2).InfoS("skipping node this pass: cannot clear non-redundant instances", "node", ndx, "reason", err)
		return GreedyClearNodes(rest, t, state)
	}

	clearedRest, finalState, err := GreedyClearNodes(rest, otherNodes, next)
	if err != nil {
		return nil, model.State{}, err
	}

	cleared := append([]int{ndx}, clearedRest...)
	return cleared, finalState, nil
}

// PartitionNonRedundant splits g into an ordered list of Groups, each
// independently simulated from the initial state: every call to
// GreedyClearNodes below uses the *initial* state, never the previous
// sub-group's result, since each sub-group represents an independent
// reboot window after which instances return home. Fails with
// NoCapacity if any iteration clears nothing while nodes remain.
func PartitionNonRedundant(g, t []int, state model.State) ([]Group, error) {
	var groups []Group
	remaining := append([]int(nil), g...)

	for len(remaining) > 0 {
		cleared, after, err := GreedyClearNodes(remaining, t, state)
		if err != nil {
			return nil, err
		}
		if len(cleared) == 0 {
			return nil, perr.New(perr.NoCapacity, "cannot evacuate non-redundant instances for any of %v", remaining)
		}

		groups = append(groups, Group{Nodes: cleared, State: after})

		clearedSet := make(map[int]struct{}, len(cleared))
		for _, c := range cleared {
			clearedSet[c] = struct{}{}
		}
		next := make([]int, 0, len(remaining))
		for _, v := range remaining {
			if _, ok := clearedSet[v]; !ok {
				next = append(next, v)
			}
		}
		remaining = next
	}

	return groups, nil
}
