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

package relocate_test

import (
	"testing"

	"github.com/ganeti-contrib/hroller/pkg/planner/model"
	"github.com/ganeti-contrib/hroller/pkg/planner/perr"
	"github.com/ganeti-contrib/hroller/pkg/planner/relocate"
)

func twoNodeState(mem1, mem2 int64) model.State {
	nodes := model.NewNodeList().
		Add(1, model.Node{Ndx: 1, Name: "n1", MemFree: mem1, DiskFree: 1000, CPUFree: 8, PList: []int{10}}).
		Add(2, model.Node{Ndx: 2, Name: "n2", MemFree: mem2, DiskFree: 1000, CPUFree: 8})
	instances := model.NewInstanceList().
		Add(10, model.Instance{Idx: 10, Name: "i10", Memory: 100, Disk: 10, VCPUs: 1, PNode: 1, SNode: model.NoSecondary})
	return model.State{Nodes: nodes, Instances: instances}
}

func TestMoveRelocatesAndUpdatesBothNodes(t *testing.T) {
	state := twoNodeState(0, 500)

	next, err := relocate.Move(10, 2, state, false)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}

	inst, err := next.Instances.Find(10)
	if err != nil {
		t.Fatalf("Find instance: %v", err)
	}
	if inst.PNode != 2 {
		t.Errorf("instance primary = %d, want 2", inst.PNode)
	}

	n1, _ := next.Nodes.Find(1)
	if len(n1.PList) != 0 {
		t.Errorf("old primary node still lists instance: %v", n1.PList)
	}
	n2, _ := next.Nodes.Find(2)
	if n2.MemFree != 400 {
		t.Errorf("new primary node MemFree = %d, want 400", n2.MemFree)
	}

	origInst, _ := state.Instances.Find(10)
	if origInst.PNode != 1 {
		t.Errorf("Move mutated the original state's instance")
	}
}

func TestMoveNoOpWhenAlreadyPrimary(t *testing.T) {
	state := twoNodeState(0, 500)

	next, err := relocate.Move(10, 1, state, false)
	if err != nil {
		t.Fatalf("Move no-op: %v", err)
	}
	n1, _ := next.Nodes.Find(1)
	if n1.MemFree != 0 {
		t.Errorf("no-op Move changed capacity: MemFree = %d, want 0", n1.MemFree)
	}
}

func TestMoveUnforcedFailsOnCapacity(t *testing.T) {
	state := twoNodeState(0, 50)

	_, err := relocate.Move(10, 2, state, false)
	if !perr.Is(err, perr.NoCapacity) {
		t.Fatalf("Move over capacity = %v, want NoCapacity", err)
	}
}

func TestMoveForcedIgnoresCapacity(t *testing.T) {
	state := twoNodeState(0, 50)

	next, err := relocate.Move(10, 2, state, true)
	if err != nil {
		t.Fatalf("forced Move: %v", err)
	}
	n2, _ := next.Nodes.Find(2)
	if n2.MemFree != -50 {
		t.Errorf("forced Move MemFree = %d, want -50", n2.MemFree)
	}
}

func TestMoveUnknownTargetIsInputInvalid(t *testing.T) {
	state := twoNodeState(0, 500)

	_, err := relocate.Move(10, 99, state, true)
	if !perr.Is(err, perr.InputInvalid) {
		t.Fatalf("Move to unknown node = %v, want InputInvalid", err)
	}
}

func TestLocateInstanceTriesCandidatesInOrder(t *testing.T) {
	nodes := model.NewNodeList().
		Add(1, model.Node{Ndx: 1, Name: "n1", PList: []int{10}}).
		Add(2, model.Node{Ndx: 2, Name: "n2", MemFree: 10}).
		Add(3, model.Node{Ndx: 3, Name: "n3", MemFree: 1000, DiskFree: 1000, CPUFree: 8})
	instances := model.NewInstanceList().
		Add(10, model.Instance{Idx: 10, Name: "i10", Memory: 100, PNode: 1, SNode: model.NoSecondary})
	state := model.State{Nodes: nodes, Instances: instances}

	next, err := relocate.LocateInstance(10, []int{2, 3}, state)
	if err != nil {
		t.Fatalf("LocateInstance: %v", err)
	}
	inst, _ := next.Instances.Find(10)
	if inst.PNode != 3 {
		t.Errorf("LocateInstance placed on node %d, want 3 (node 2 lacked capacity)", inst.PNode)
	}
}

func TestLocateInstanceNoCapacityAnywhere(t *testing.T) {
	nodes := model.NewNodeList().
		Add(1, model.Node{Ndx: 1, Name: "n1", PList: []int{10}}).
		Add(2, model.Node{Ndx: 2, Name: "n2", MemFree: 1})
	instances := model.NewInstanceList().
		Add(10, model.Instance{Idx: 10, Name: "i10", Memory: 100, PNode: 1, SNode: model.NoSecondary})
	state := model.State{Nodes: nodes, Instances: instances}

	_, err := relocate.LocateInstance(10, []int{2}, state)
	if !perr.Is(err, perr.NoCapacity) {
		t.Fatalf("LocateInstance with no room = %v, want NoCapacity", err)
	}
}
