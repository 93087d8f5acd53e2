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

package plan_test

import (
	"context"
	"testing"

	"github.com/ganeti-contrib/hroller/pkg/api/v1alpha1"
	"github.com/ganeti-contrib/hroller/pkg/planner/model"
	"github.com/ganeti-contrib/hroller/pkg/planner/perr"
	"github.com/ganeti-contrib/hroller/pkg/planner/plan"
)

// ringState builds a ring of n nodes, each in cluster group 0, with
// one redundant instance spanning each pair of ring-adjacent nodes
// (the classic "every node conflicts with its two neighbors" cluster
// topology that requires 3 colors for an odd ring, 2 for an even
// one). Node 0 is the master.
func ringState(t *testing.T, n int) model.State {
	t.Helper()
	nodes := model.NewNodeList()
	for i := 0; i < n; i++ {
		nodes = nodes.Add(i, model.Node{
			Ndx: i, Name: nodeName(i), Group: 0,
			MemFree: 1000, DiskFree: 1000, CPUFree: 16,
			Master: i == 0,
		})
	}

	instances := model.NewInstanceList()
	idx := 0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		instances = instances.Add(idx, model.Instance{
			Idx: idx, Name: instName(idx), Running: true,
			Memory: 10, Disk: 10, VCPUs: 1,
			PNode: i, SNode: j,
		})
		idx++
	}

	nodes2 := model.NewNodeList()
	for _, node := range nodes.Elems() {
		var pList []int
		for _, inst := range instances.Elems() {
			if inst.PNode == node.Ndx {
				pList = append(pList, inst.Idx)
			}
		}
		var sList []int
		for _, inst := range instances.Elems() {
			if inst.SNode == node.Ndx {
				sList = append(sList, inst.Idx)
			}
		}
		node.PList = pList
		node.SList = sList
		nodes2 = nodes2.Add(node.Ndx, node)
	}

	return model.State{Nodes: nodes2, Instances: instances}
}

func nodeName(i int) string { return "node-" + string(rune('a'+i)) }
func instName(i int) string { return "inst-" + string(rune('a'+i)) }

func baseOpts() *v1alpha1.PlannerOptions {
	opts := &v1alpha1.PlannerOptions{}
	v1alpha1.SetDefaults_PlannerOptions(opts)
	return opts
}

func TestPlanMasterNodeIsAlwaysLastInFinalGroup(t *testing.T) {
	state := ringState(t, 5)
	result, err := plan.Plan(context.Background(), state, nil, baseOpts())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(result.Groups) == 0 {
		t.Fatalf("Plan produced no groups")
	}

	last := result.Groups[len(result.Groups)-1]
	if len(last.NodeIdxs) == 0 {
		t.Fatalf("last group is empty")
	}
	if last.NodeIdxs[len(last.NodeIdxs)-1] != 0 {
		t.Errorf("master (node 0) is not the final entry of the final group: %v", last.NodeIdxs)
	}

	for i, g := range result.Groups[:len(result.Groups)-1] {
		for _, n := range g.NodeIdxs {
			if n == 0 {
				t.Errorf("master appears in non-final group %d: %v", i, g.NodeIdxs)
			}
		}
	}
}

func TestPlanGroupsPartitionAllOnlineNodes(t *testing.T) {
	state := ringState(t, 6)
	result, err := plan.Plan(context.Background(), state, nil, baseOpts())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	seen := make(map[int]int)
	for _, g := range result.Groups {
		for _, n := range g.NodeIdxs {
			seen[n]++
		}
	}
	if len(seen) != 6 {
		t.Errorf("plan covers %d distinct nodes, want 6", len(seen))
	}
	for n, count := range seen {
		if count != 1 {
			t.Errorf("node %d appears in %d groups, want exactly 1", n, count)
		}
	}
}

func TestPlanGroupsAreConflictFree(t *testing.T) {
	state := ringState(t, 7)
	result, err := plan.Plan(context.Background(), state, nil, baseOpts())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	// In a 7-node ring, every instance links ring-adjacent nodes; no
	// emitted group may contain two ring-adjacent node indices.
	for _, g := range result.Groups {
		inGroup := make(map[int]bool)
		for _, n := range g.NodeIdxs {
			inGroup[n] = true
		}
		for _, n := range g.NodeIdxs {
			if inGroup[(n+1)%7] {
				t.Errorf("group %v contains adjacent ring nodes %d and %d", g.NodeIdxs, n, (n+1)%7)
			}
		}
	}
}

func TestPlanOneStepOnlyTruncatesToFirstGroup(t *testing.T) {
	state := ringState(t, 7)
	opts := baseOpts()
	opts.OneStepOnly = true

	result, err := plan.Plan(context.Background(), state, nil, opts)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(result.Groups) != 1 {
		t.Errorf("OneStepOnly produced %d groups, want 1", len(result.Groups))
	}
}

func TestPlanMissingMasterIsFatalByDefault(t *testing.T) {
	state := ringState(t, 3)
	nodes := state.Nodes
	n0, _ := nodes.Find(0)
	n0.Master = false
	state.Nodes = nodes.Add(0, n0)

	_, err := plan.Plan(context.Background(), state, nil, baseOpts())
	if !perr.Is(err, perr.InputInvalid) {
		t.Fatalf("Plan with no master = %v, want InputInvalid", err)
	}
}

func TestPlanMissingMasterIsWarningUnderForce(t *testing.T) {
	state := ringState(t, 3)
	nodes := state.Nodes
	n0, _ := nodes.Find(0)
	n0.Master = false
	state.Nodes = nodes.Add(0, n0)

	opts := baseOpts()
	opts.Force = true

	result, err := plan.Plan(context.Background(), state, nil, opts)
	if err != nil {
		t.Fatalf("Plan with no master under force: %v", err)
	}
	if len(result.Warnings) == 0 {
		t.Errorf("Plan with no master under force produced no warning")
	}
}

func TestPlanMultipleMastersIsAlwaysFatal(t *testing.T) {
	state := ringState(t, 3)
	nodes := state.Nodes
	n1, _ := nodes.Find(1)
	n1.Master = true
	state.Nodes = nodes.Add(1, n1)

	opts := baseOpts()
	opts.Force = true

	_, err := plan.Plan(context.Background(), state, nil, opts)
	if !perr.Is(err, perr.InputInvalid) {
		t.Fatalf("Plan with two masters = %v, want InputInvalid even under force", err)
	}
}

func TestPlanUnknownGroupNameIsFatal(t *testing.T) {
	state := ringState(t, 3)
	group := "does-not-exist"
	opts := baseOpts()
	opts.Group = &group

	_, err := plan.Plan(context.Background(), state, []v1alpha1.GroupData{{Ndx: 0, Name: "real-group"}}, opts)
	if !perr.Is(err, perr.InputInvalid) {
		t.Fatalf("Plan with unknown group = %v, want InputInvalid", err)
	}
}

func TestPlanOfflineNodesAreExcluded(t *testing.T) {
	state := ringState(t, 5)
	nodes := state.Nodes
	n2, _ := nodes.Find(2)
	n2.Offline = true
	state.Nodes = nodes.Add(2, n2)

	result, err := plan.Plan(context.Background(), state, nil, baseOpts())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	for _, g := range result.Groups {
		for _, n := range g.NodeIdxs {
			if n == 2 {
				t.Errorf("offline node 2 appears in plan output")
			}
		}
	}
}

func TestPlanPrintMovesRecordsOnlyChangedPrimaries(t *testing.T) {
	state := ringState(t, 5)
	opts := baseOpts()
	opts.PrintMoves = true

	result, err := plan.Plan(context.Background(), state, nil, opts)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	for _, g := range result.Groups {
		for _, m := range g.Moves {
			orig, err := state.Instances.Find(m.InstanceIdx)
			if err != nil {
				t.Fatalf("Find instance %d: %v", m.InstanceIdx, err)
			}
			if orig.PNode == m.NewNode {
				t.Errorf("recorded a move for instance %d that did not actually change node", m.InstanceIdx)
			}
		}
	}
}
