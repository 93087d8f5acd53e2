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

// Package relocate implements the instance relocation primitive:
// moving a single instance's primary between nodes, and the
// alternative-choice combinators greedy evacuation builds on top of
// it.
package relocate

import (
	"github.com/ganeti-contrib/hroller/pkg/planner/model"
	"github.com/ganeti-contrib/hroller/pkg/planner/perr"
)

// Move relocates inst's primary to newPrimary, crediting the
// instance's resources back to the old node and debiting them from the
// new one, and rewrites the instance's primary pointer. force is
// threaded straight into the new-node AddPrimary: forced, Move fails
// only on an unknown index (a hard invariant); unforced, it also fails
// with NoCapacity if newPrimary
// lacks room. A no-op move (newPrimary already the current primary)
// succeeds and returns an equal state.
//
// force is exposed as an explicit parameter rather than Move always
// forcing the add, because an unconditionally-forced add would make
// LocateInstance and the greedy evacuation built on top of it
// incapable of ever reporting a capacity shortfall. LocateInstance
// calls Move unforced, since picking "the first candidate with room"
// is the whole point of the combinator; a forced call remains
// available to callers that have already decided a target is correct
// regardless of soft capacity.
func Move(instIdx, newPrimary int, state model.State, force bool) (model.State, error) {
	inst, err := state.Instances.Find(instIdx)
	if err != nil {
		return model.State{}, err
	}

	if inst.PNode == newPrimary {
		return state, nil
	}

	oldNode, err := state.Nodes.Find(inst.PNode)
	if err != nil {
		return model.State{}, err
	}
	newNode, err := state.Nodes.Find(newPrimary)
	if err != nil {
		return model.State{}, perr.Wrap(perr.InputInvalid, err, "move instance %s: unknown target node %d", inst.Name, newPrimary)
	}

	newNode, err = newNode.AddPrimary(instIdx, inst.Memory, inst.Disk, inst.VCPUs, force)
	if err != nil {
		return model.State{}, err
	}
	oldNode = oldNode.RemovePrimary(instIdx, inst.Memory, inst.Disk, inst.VCPUs)
	inst = inst.SetPrimary(newPrimary)

	nodes := state.Nodes.AddTwo(oldNode.Ndx, oldNode, newNode.Ndx, newNode)
	instances := state.Instances.Add(inst.Idx, inst)

	return model.State{Nodes: nodes, Instances: instances}, nil
}

// LocateInstance tries each candidate node in order and returns the
// state after the first successful unforced Move. It never collects
// every candidate's result; it stops at the first success. If every
// candidate fails it returns a NoCapacity error.
func LocateInstance(instIdx int, candidates []int, state model.State) (model.State, error) {
	for _, ndx := range candidates {
		next, err := Move(instIdx, ndx, state, false /* force */)
		if err == nil {
			return next, nil
		}
	}
	return model.State{}, perr.New(perr.NoCapacity, "instance %d: no candidate node among %v has capacity", instIdx, candidates)
}

// LocateInstances folds LocateInstance across instIdxs, threading
// state through each placement. It fails on the first instance that
// cannot be placed among candidates.
func LocateInstances(instIdxs []int, candidates []int, state model.State) (model.State, error) {
	for _, instIdx := range instIdxs {
		next, err := LocateInstance(instIdx, candidates, state)
		if err != nil {
			return model.State{}, err
		}
		state = next
	}
	return state, nil
}
