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

// PlannerOptions configures a single planning run. A *PlannerOptions
// is built by the CLI from flags, defaulted
// with SetDefaults_PlannerOptions, and checked with
// ValidatePlannerOptions before being handed to the planner.
type PlannerOptions struct {
	// Group restricts planning to nodes in this cluster group; nil
	// means no restriction. Fatal if the name is unknown.
	Group *string

	// NodeTags restricts planning to nodes carrying any of these tags.
	NodeTags []string

	// OfflineMaintenance selects the all-instance conflict graph
	// instead of the reboot-only graph.
	OfflineMaintenance bool

	// SkipNonRedundant drops nodes hosting any non-redundant primary
	// instance from planning entirely.
	SkipNonRedundant bool

	// IgnoreNonRedundant skips the capacity partitioner: color classes
	// become reboot groups directly, no evacuation simulated.
	IgnoreNonRedundant bool

	// OneStepOnly truncates the plan to its first group.
	OneStepOnly bool

	// PrintMoves includes evacuation moves in the emitted plan.
	PrintMoves bool

	// NoHeaders suppresses the renderer's header line.
	NoHeaders bool

	// Force downgrades a missing master from fatal to a warning.
	Force bool

	// Verbose gates statistics (>=2) and raw-graph (>=3) logging.
	Verbose int
}
