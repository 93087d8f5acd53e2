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

import "fmt"

// ValidatePlannerOptions checks opts for internally-contradictory
// settings that the planner itself has no way to resolve. It does not
// check opts.Group against the actual cluster; that check needs the
// loaded ClusterData and is performed by the planner, which reports an
// unknown group as an InputInvalid error.
func ValidatePlannerOptions(opts *PlannerOptions) error {
	if opts == nil {
		return fmt.Errorf("planner options must not be nil")
	}

	if opts.Verbose < 0 {
		return fmt.Errorf("verbose must be >= 0, got %d", opts.Verbose)
	}

	if opts.Group != nil && *opts.Group == "" {
		return fmt.Errorf("group, if set, must not be empty")
	}

	for i, tag := range opts.NodeTags {
		if tag == "" {
			return fmt.Errorf("nodeTags[%d] must not be empty", i)
		}
	}

	return nil
}
