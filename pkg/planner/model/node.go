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

import (
	"github.com/ganeti-contrib/hroller/pkg/planner/perr"
)

// Node is a physical host. PList/SList hold the indices of instances
// primary/secondary-hosted on this node. Capacity fields are signed so
// that a forced AddPrimary may legitimately drive Free negative during
// evacuation simulation.
type Node struct {
	Ndx   int
	Name  string
	Group int

	PList []int
	SList []int

	MemTotal, MemFree   int64
	DiskTotal, DiskFree int64
	CPUTotal, CPUFree   int64

	Offline bool
	Master  bool

	Tags map[string]struct{}
}

func (n Node) Index() int    { return n.Ndx }
func (n Node) Named() string { return n.Name }

// HasTag reports whether n carries tag.
func (n Node) HasTag(tag string) bool {
	_, ok := n.Tags[tag]
	return ok
}

// HasAnyTag reports whether n carries any of tags. An empty tags list
// matches nothing, mirroring the node_tags option's "restrict to
// nodes having any listed tag" semantics (no tags means no filter is
// applied by the caller in the first place).
func (n Node) HasAnyTag(tags []string) bool {
	for _, t := range tags {
		if n.HasTag(t) {
			return true
		}
	}
	return false
}

// clone returns a value of n whose slices/maps are not aliased with
// the receiver, so mutators never corrupt a sibling value produced
// from the same original Node.
func (n Node) clone() Node {
	out := n
	out.PList = append([]int(nil), n.PList...)
	out.SList = append([]int(nil), n.SList...)
	if n.Tags != nil {
		out.Tags = make(map[string]struct{}, len(n.Tags))
		for t := range n.Tags {
			out.Tags[t] = struct{}{}
		}
	}
	return out
}

// AddPrimaryUnchecked appends instIdx to n's primary list without
// touching Free capacity. It exists for reconstructing a cluster
// state from a snapshot that already reports Free directly, where
// re-debiting resources already accounted for would double-count
// them.
func (n Node) AddPrimaryUnchecked(instIdx int) Node {
	out := n.clone()
	out.PList = append(out.PList, instIdx)
	return out
}

// AddPrimary adds instIdx to n's primary list and debits its resource
// footprint. Under force, debiting never fails (Free may go negative,
// used only for simulation); otherwise a debit that would drive any
// of MemFree/DiskFree/CPUFree negative is rejected with NoCapacity.
func (n Node) AddPrimary(instIdx int, memMiB, diskMiB, vcpus int64, force bool) (Node, error) {
	if !force {
		if n.MemFree-memMiB < 0 {
			return Node{}, perr.New(perr.NoCapacity, "node %s: insufficient free memory for instance %d", n.Name, instIdx)
		}
		if n.DiskFree-diskMiB < 0 {
			return Node{}, perr.New(perr.NoCapacity, "node %s: insufficient free disk for instance %d", n.Name, instIdx)
		}
		if n.CPUFree-vcpus < 0 {
			return Node{}, perr.New(perr.NoCapacity, "node %s: insufficient free vcpus for instance %d", n.Name, instIdx)
		}
	}

	out := n.clone()
	out.PList = append(out.PList, instIdx)
	out.MemFree -= memMiB
	out.DiskFree -= diskMiB
	out.CPUFree -= vcpus
	return out, nil
}

// RemovePrimary drops instIdx from n's primary list and credits back
// its resource footprint. It is infallible: removing an instance
// never violates a capacity invariant.
func (n Node) RemovePrimary(instIdx int, memMiB, diskMiB, vcpus int64) Node {
	out := n.clone()
	out.PList = removeInt(out.PList, instIdx)
	out.MemFree += memMiB
	out.DiskFree += diskMiB
	out.CPUFree += vcpus
	return out
}

// AddSecondary/RemoveSecondary maintain SList; secondary placement
// does not consume resources in this model (a standby instance is not
// running on its secondary until it fails over).
func (n Node) AddSecondary(instIdx int) Node {
	out := n.clone()
	out.SList = append(out.SList, instIdx)
	return out
}

func (n Node) RemoveSecondary(instIdx int) Node {
	out := n.clone()
	out.SList = removeInt(out.SList, instIdx)
	return out
}

func removeInt(s []int, v int) []int {
	out := make([]int, 0, len(s))
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// NodeList is the cluster-model container over Node, keyed by Ndx.
type NodeList = Container[Node]

// NewNodeList builds an empty NodeList.
func NewNodeList() NodeList { return NewContainer[Node]("nodes") }
