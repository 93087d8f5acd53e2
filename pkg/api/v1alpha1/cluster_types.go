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

// Package v1alpha1 holds the wire format the external loader decodes
// into, and the planner's options struct.
package v1alpha1

// NoSecondary is the sentinel value for InstanceData.Secondary meaning
// "this instance has no standby node".
const NoSecondary = -1

// ClusterData is the snapshot handed to the planner by the external
// loader (pkg/loader). It is a plain value: no client handles, no
// live connections.
type ClusterData struct {
	Groups    []GroupData    `json:"groups"`
	Nodes     []NodeData     `json:"nodes"`
	Instances []InstanceData `json:"instances"`

	// ClusterTags and InstancePolicy are carried through for the
	// renderer/loader's benefit; the planning core does not read them.
	ClusterTags    []string `json:"clusterTags,omitempty"`
	InstancePolicy string   `json:"instancePolicy,omitempty"`
}

// GroupData is a cluster topological group.
type GroupData struct {
	Ndx  int    `json:"ndx"`
	Name string `json:"name"`
}

// NodeData is the wire representation of a physical host.
type NodeData struct {
	Ndx     int      `json:"ndx"`
	Name    string   `json:"name"`
	Group   int      `json:"group"`
	Offline bool     `json:"offline"`
	Master  bool     `json:"master"`
	Tags    []string `json:"tags,omitempty"`

	MemoryTotal int64 `json:"memoryTotalMiB"`
	MemoryFree  int64 `json:"memoryFreeMiB"`
	DiskTotal   int64 `json:"diskTotalMiB"`
	DiskFree    int64 `json:"diskFreeMiB"`
	CPUTotal    int64 `json:"cpuTotal"`
	CPUFree     int64 `json:"cpuFree"`
}

// InstanceData is the wire representation of a guest workload.
type InstanceData struct {
	Idx       int    `json:"idx"`
	Name      string `json:"name"`
	Primary   int    `json:"primary"`
	Secondary int    `json:"secondary"` // NoSecondary if none
	Running   bool   `json:"running"`

	Memory int64 `json:"memoryMiB"`
	Disk   int64 `json:"diskMiB"`
	VCPUs  int64 `json:"vcpus"`
}
