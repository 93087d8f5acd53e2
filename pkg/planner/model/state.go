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

package model

import "github.com/ganeti-contrib/hroller/pkg/planner/perr"

// State is the cluster state: a pair of containers threaded through
// every planning operation as an immutable-by-convention value. Every
// mutator on Node/Instance/Container returns
// a new value, so a State is only ever replaced wholesale, never
// mutated in place.
type State struct {
	Nodes     NodeList
	Instances InstanceList
}

// NewState builds an empty State.
func NewState() State {
	return State{Nodes: NewNodeList(), Instances: NewInstanceList()}
}

// NonRedundantPrimaries returns the indices of instances that are
// primary on ndx and have no secondary.
func (s State) NonRedundantPrimaries(ndx int) ([]int, error) {
	node, err := s.Nodes.Find(ndx)
	if err != nil {
		return nil, err
	}
	var out []int
	for _, instIdx := range node.PList {
		inst, err := s.Instances.Find(instIdx)
		if err != nil {
			return nil, err
		}
		if !inst.Redundant() {
			out = append(out, instIdx)
		}
	}
	return out, nil
}

// Validate checks the cross-container invariants a consistent cluster
// state must satisfy: every instance's primary/secondary node references resolve, every
// node's PList/SList references resolve, PNode != SNode when both
// set, and the union of node PLists equals the instance index set
// exactly once each.
func (s State) Validate() error {
	seenAsPrimary := make(map[int]int, s.Instances.Len())

	for _, n := range s.Nodes.Elems() {
		for _, instIdx := range n.PList {
			inst, err := s.Instances.Find(instIdx)
			if err != nil {
				return perr.New(perr.InputInvalid, "node %s: pList references unknown instance %d", n.Name, instIdx)
			}
			if inst.PNode != n.Ndx {
				return perr.New(perr.InputInvalid, "instance %s: primary node mismatch with node %s pList", inst.Name, n.Name)
			}
			seenAsPrimary[instIdx]++
		}
		for _, instIdx := range n.SList {
			if _, err := s.Instances.Find(instIdx); err != nil {
				return perr.New(perr.InputInvalid, "node %s: sList references unknown instance %d", n.Name, instIdx)
			}
		}
	}

	for _, inst := range s.Instances.Elems() {
		if _, err := s.Nodes.Find(inst.PNode); err != nil {
			return perr.New(perr.InputInvalid, "instance %s: unknown primary node %d", inst.Name, inst.PNode)
		}
		if inst.Redundant() {
			if _, err := s.Nodes.Find(inst.SNode); err != nil {
				return perr.New(perr.InputInvalid, "instance %s: unknown secondary node %d", inst.Name, inst.SNode)
			}
			if inst.PNode == inst.SNode {
				return perr.New(perr.InputInvalid, "instance %s: primary and secondary node are the same", inst.Name)
			}
		}
		if count := seenAsPrimary[inst.Idx]; count != 1 {
			return perr.New(perr.InputInvalid, "instance %s: appears in %d node pLists, want exactly 1", inst.Name, count)
		}
	}

	return nil
}
