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

// NoSecondary is the sentinel SNode value meaning "this instance has
// no standby node".
const NoSecondary = -1

// Instance is a guest workload. PNode is always set;
// SNode is NoSecondary for a non-redundant instance. PNode != SNode
// whenever both are set.
type Instance struct {
	Idx  int
	Name string

	Memory int64
	Disk   int64
	VCPUs  int64

	Running bool

	PNode int
	SNode int
}

func (i Instance) Index() int    { return i.Idx }
func (i Instance) Named() string { return i.Name }

// Redundant reports whether i has a valid secondary.
func (i Instance) Redundant() bool { return i.SNode != NoSecondary }

// SetPrimary returns i with its primary node pointer rewritten.
func (i Instance) SetPrimary(ndx int) Instance {
	i.PNode = ndx
	return i
}

// SetSecondary returns i with its secondary node pointer rewritten.
func (i Instance) SetSecondary(ndx int) Instance {
	i.SNode = ndx
	return i
}

// SetBoth returns i with both node pointers rewritten in one step.
func (i Instance) SetBoth(pNdx, sNdx int) Instance {
	i.PNode = pNdx
	i.SNode = sNdx
	return i
}

// InstanceList is the cluster-model container over Instance, keyed by Idx.
type InstanceList = Container[Instance]

// NewInstanceList builds an empty InstanceList.
func NewInstanceList() InstanceList { return NewContainer[Instance]("instances") }
