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

// Package loader reads a cluster snapshot from disk and turns it into
// the in-memory cluster state the planner operates on. Decoding goes
// through sigs.k8s.io/yaml so the same file may be written as either
// YAML or JSON.
package loader

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/ganeti-contrib/hroller/pkg/api/v1alpha1"
	"github.com/ganeti-contrib/hroller/pkg/planner/model"
	"github.com/ganeti-contrib/hroller/pkg/planner/perr"
)

// ReadFile decodes path as a v1alpha1.ClusterData snapshot.
func ReadFile(path string) (v1alpha1.ClusterData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return v1alpha1.ClusterData{}, fmt.Errorf("read cluster snapshot: %w", err)
	}

	var data v1alpha1.ClusterData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return v1alpha1.ClusterData{}, fmt.Errorf("decode cluster snapshot %s: %w", path, err)
	}

	return data, nil
}

// ToState converts a decoded ClusterData into the planner's cluster
// state and validates the cross-container invariants before handing
// it back.
func ToState(data v1alpha1.ClusterData) (model.State, error) {
	nodes := model.NewNodeList()
	for _, nd := range data.Nodes {
		tags := make(map[string]struct{}, len(nd.Tags))
		for _, t := range nd.Tags {
			tags[t] = struct{}{}
		}
		nodes = nodes.Add(nd.Ndx, model.Node{
			Ndx:       nd.Ndx,
			Name:      nd.Name,
			Group:     nd.Group,
			MemTotal:  nd.MemoryTotal,
			MemFree:   nd.MemoryFree,
			DiskTotal: nd.DiskTotal,
			DiskFree:  nd.DiskFree,
			CPUTotal:  nd.CPUTotal,
			CPUFree:   nd.CPUFree,
			Offline:   nd.Offline,
			Master:    nd.Master,
			Tags:      tags,
		})
	}

	instances := model.NewInstanceList()
	for _, id := range data.Instances {
		if id.Secondary == v1alpha1.NoSecondary {
			instances = instances.Add(id.Idx, model.Instance{
				Idx:     id.Idx,
				Name:    id.Name,
				Memory:  id.Memory,
				Disk:    id.Disk,
				VCPUs:   id.VCPUs,
				Running: id.Running,
				PNode:   id.Primary,
				SNode:   model.NoSecondary,
			})
		} else {
			instances = instances.Add(id.Idx, model.Instance{
				Idx:     id.Idx,
				Name:    id.Name,
				Memory:  id.Memory,
				Disk:    id.Disk,
				VCPUs:   id.VCPUs,
				Running: id.Running,
				PNode:   id.Primary,
				SNode:   id.Secondary,
			})
		}
	}

	for _, id := range data.Instances {
		n, err := nodes.Find(id.Primary)
		if err != nil {
			return model.State{}, perr.Wrap(perr.InputInvalid, err, "instance %s: unknown primary node %d", id.Name, id.Primary)
		}
		n = n.AddPrimaryUnchecked(id.Idx)
		nodes = nodes.Add(n.Ndx, n)

		if id.Secondary != v1alpha1.NoSecondary {
			sn, err := nodes.Find(id.Secondary)
			if err != nil {
				return model.State{}, perr.Wrap(perr.InputInvalid, err, "instance %s: unknown secondary node %d", id.Name, id.Secondary)
			}
			sn = sn.AddSecondary(id.Idx)
			nodes = nodes.Add(sn.Ndx, sn)
		}
	}

	state := model.State{Nodes: nodes, Instances: instances}
	if err := state.Validate(); err != nil {
		return model.State{}, err
	}
	return state, nil
}

// Load is the convenience composition of ReadFile and ToState.
func Load(path string) (model.State, v1alpha1.ClusterData, error) {
	data, err := ReadFile(path)
	if err != nil {
		return model.State{}, v1alpha1.ClusterData{}, err
	}
	state, err := ToState(data)
	if err != nil {
		return model.State{}, v1alpha1.ClusterData{}, err
	}
	return state, data, nil
}
