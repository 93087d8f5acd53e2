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

package v1alpha1

import (
	"k8s.io/klog/v2"
)

const (
	// DefaultVerbose is the statistics/graph logging verbosity when
	// the caller does not set one explicitly.
	DefaultVerbose = 0
)

// SetDefaults_PlannerOptions fills in zero-value fields of opts with
// their documented defaults. Nil opts is a no-op.
func SetDefaults_PlannerOptions(opts *PlannerOptions) {
	if opts == nil {
		return
	}

	klog.V(5).InfoS("applying planner option defaults")

	if opts.Verbose < 0 {
		opts.Verbose = DefaultVerbose
	}

	if opts.NodeTags == nil {
		opts.NodeTags = []string{}
	}
}
