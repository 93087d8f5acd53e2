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

// Command hroller computes a rolling reboot plan for a cluster
// snapshot: which nodes can be taken down together, and in what
// order, so that no instance loses both its primary and secondary at
// once.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/ganeti-contrib/hroller/pkg/api/v1alpha1"
	"github.com/ganeti-contrib/hroller/pkg/loader"
	"github.com/ganeti-contrib/hroller/pkg/planner/perr"
	"github.com/ganeti-contrib/hroller/pkg/planner/plan"
	"github.com/ganeti-contrib/hroller/pkg/render"
)

func main() {
	klog.InitFlags(nil)
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode maps a planner error's Kind to a process exit status, so
// scripts invoking hroller can distinguish "no valid plan" from a
// malformed snapshot without scraping stderr.
func exitCode(err error) int {
	kind, ok := perr.KindOf(err)
	if !ok {
		return 1
	}
	switch kind {
	case perr.NoCapacity:
		return 2
	case perr.Unsupported:
		return 3
	default:
		return 1
	}
}

type cliOptions struct {
	v1alpha1.PlannerOptions

	ClusterFile  string
	Format       string
	DryRunBefore string
}

func newRootCommand() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:          "hroller --cluster-file=FILE",
		Short:        "Plan a rolling maintenance reboot of a cluster",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.ClusterFile, "cluster-file", "", "path to a cluster snapshot (YAML or JSON)")
	flags.StringVar(&opts.Format, "format", string(render.FormatTable), "output format: table or json")
	flags.StringVar(&opts.DryRunBefore, "dump-before", "", "write the pre-plan cluster snapshot to this path before planning")

	var group string
	flags.StringVar(&group, "group", "", "restrict planning to this cluster group")
	flags.StringSliceVar(&opts.NodeTags, "node-tags", nil, "restrict planning to nodes carrying any of these tags")
	flags.BoolVar(&opts.OfflineMaintenance, "offline-maintenance", false, "build the conflict graph over every instance, not only running ones")
	flags.BoolVar(&opts.SkipNonRedundant, "skip-non-redundant", false, "exclude nodes hosting non-redundant instances from planning")
	flags.BoolVar(&opts.IgnoreNonRedundant, "ignore-non-redundant", false, "skip capacity-based evacuation simulation entirely")
	flags.BoolVar(&opts.OneStepOnly, "one-step-only", false, "emit only the first reboot group")
	flags.BoolVar(&opts.PrintMoves, "print-moves", false, "include evacuation moves in the plan output")
	flags.BoolVar(&opts.NoHeaders, "no-headers", false, "suppress the table renderer's header line")
	flags.BoolVar(&opts.Force, "force", false, "downgrade a missing master node from a fatal error to a warning")
	flags.CountVarP(&opts.Verbose, "verbose", "v", "increase statistics/diagnostic logging (repeatable)")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if group != "" {
			opts.Group = ptr.To(group)
		}
		if opts.ClusterFile == "" {
			return fmt.Errorf("--cluster-file is required")
		}
		return nil
	}

	return cmd
}

func run(ctx context.Context, opts *cliOptions) error {
	v1alpha1.SetDefaults_PlannerOptions(&opts.PlannerOptions)
	if err := v1alpha1.ValidatePlannerOptions(&opts.PlannerOptions); err != nil {
		return perr.Wrap(perr.InputInvalid, err, "invalid options")
	}

	// The planner's statistics and raw-graph output go through klog's
	// V(n) levels, so klog's verbosity follows --verbose.
	if err := flag.Set("v", strconv.Itoa(opts.Verbose)); err != nil {
		return fmt.Errorf("set log verbosity: %w", err)
	}

	data, err := loader.ReadFile(opts.ClusterFile)
	if err != nil {
		return err
	}

	if opts.DryRunBefore != "" {
		if err := dumpBefore(data, opts.DryRunBefore); err != nil {
			return err
		}
	}

	state, err := loader.ToState(data)
	if err != nil {
		return err
	}

	result, err := plan.Plan(ctx, state, data.Groups, &opts.PlannerOptions)
	if err != nil {
		return err
	}

	return render.Write(os.Stdout, result, &opts.PlannerOptions, render.Format(opts.Format))
}

// dumpBefore writes data back out as indented JSON before planning,
// as a supplementary dry-run aid recording the snapshot the plan was
// computed from.
func dumpBefore(data v1alpha1.ClusterData, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dump before-snapshot: %w", err)
	}
	defer f.Close()

	return render.WriteClusterData(f, data)
}
