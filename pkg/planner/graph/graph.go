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

// Package graph builds the node conflict graph: an undirected,
// symmetric adjacency set over a subset of node indices, in either of
// two edge-semantics flavors.
package graph

import (
	"sort"

	"k8s.io/klog/v2"

	"github.com/ganeti-contrib/hroller/pkg/planner/model"
	"github.com/ganeti-contrib/hroller/pkg/planner/perr"
)

// Adjacency is a symmetric adjacency set over node indices. Self-loops
// never appear.
type Adjacency map[int]map[int]struct{}

func newAdjacency(vertices []int) Adjacency {
	adj := make(Adjacency, len(vertices))
	for _, v := range vertices {
		adj[v] = make(map[int]struct{})
	}
	return adj
}

func (a Adjacency) addEdge(u, v int) {
	if u == v {
		return
	}
	a[u][v] = struct{}{}
	a[v][u] = struct{}{}
}

// Neighbors returns v's neighbors, sorted ascending for determinism.
func (a Adjacency) Neighbors(v int) []int {
	out := make([]int, 0, len(a[v]))
	for n := range a[v] {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Degree returns the number of edges incident to v.
func (a Adjacency) Degree(v int) int { return len(a[v]) }

// Vertices returns every vertex in a, sorted ascending.
func (a Adjacency) Vertices() []int {
	out := make([]int, 0, len(a))
	for v := range a {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// HasEdge reports whether u and v are adjacent.
func (a Adjacency) HasEdge(u, v int) bool {
	_, ok := a[u][v]
	return ok
}

// Build constructs the all-instance conflict graph over vertices: an
// edge (u, v) exists iff some instance has one of u, v as primary and
// the other as secondary. Returns an InputInvalid error if any
// redundant instance in state has a primary or secondary node pointer
// that does not resolve, whether or not that node is in vertices.
func Build(vertices []int, state model.State) (Adjacency, error) {
	return build(vertices, state, false)
}

// BuildRebootOnly constructs the reboot-flavor conflict graph: like
// Build, but an edge is only added for instances that are currently
// running, since a stopped instance doesn't force its primary and
// secondary apart for a plain reboot pass.
func BuildRebootOnly(vertices []int, state model.State) (Adjacency, error) {
	return build(vertices, state, true)
}

func build(vertices []int, state model.State, runningOnly bool) (Adjacency, error) {
	inSet := make(map[int]struct{}, len(vertices))
	for _, v := range vertices {
		inSet[v] = struct{}{}
	}

	adj := newAdjacency(vertices)

	for _, inst := range state.Instances.Elems() {
		if !inst.Redundant() {
			continue
		}
		if runningOnly && !inst.Running {
			continue
		}
		if _, err := state.Nodes.Find(inst.PNode); err != nil {
			return nil, perr.Wrap(perr.InputInvalid, err, "instance %s: primary node reference is invalid", inst.Name)
		}
		if _, err := state.Nodes.Find(inst.SNode); err != nil {
			return nil, perr.Wrap(perr.InputInvalid, err, "instance %s: secondary node reference is invalid", inst.Name)
		}

		_, pIn := inSet[inst.PNode]
		_, sIn := inSet[inst.SNode]
		if pIn && sIn {
			adj.addEdge(inst.PNode, inst.SNode)
		}
	}

	klog.V(3).InfoS("built conflict graph", "vertices", len(vertices), "runningOnly", runningOnly, "adjacency", adj)

	return adj, nil
}
