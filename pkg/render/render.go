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

// Package render formats a plan.Result for a terminal or for
// machine consumption.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ganeti-contrib/hroller/pkg/api/v1alpha1"
	"github.com/ganeti-contrib/hroller/pkg/planner/plan"
)

// Format selects the renderer Write uses.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// jsonMove/jsonGroup/jsonResult mirror plan.Result's shape for
// marshaling; plan.Result itself carries no json tags since it is not
// a wire type.
type jsonMove struct {
	Instance string `json:"instance"`
	NewNode  string `json:"newNode"`
}

type jsonGroup struct {
	Nodes []string   `json:"nodes"`
	Moves []jsonMove `json:"moves,omitempty"`
}

type jsonResult struct {
	Groups   []jsonGroup `json:"groups"`
	Warnings []string    `json:"warnings,omitempty"`
}

// Write renders result to w in the requested format, honoring
// opts.NoHeaders (table only) and opts.PrintMoves.
func Write(w io.Writer, result plan.Result, opts *v1alpha1.PlannerOptions, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatTable, "":
		return writeTable(w, result, opts)
	default:
		return fmt.Errorf("unknown render format %q", format)
	}
}

func writeJSON(w io.Writer, result plan.Result) error {
	out := jsonResult{Warnings: result.Warnings}
	for _, g := range result.Groups {
		jg := jsonGroup{Nodes: g.NodeNames}
		for _, m := range g.Moves {
			jg.Moves = append(jg.Moves, jsonMove{Instance: m.InstanceName, NewNode: m.NewNodeName})
		}
		out.Groups = append(out.Groups, jg)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriteClusterData dumps a snapshot back out as indented JSON, for the
// before-plan dry-run aid.
func WriteClusterData(w io.Writer, data v1alpha1.ClusterData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func writeTable(w io.Writer, result plan.Result, opts *v1alpha1.PlannerOptions) error {
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if !opts.NoHeaders {
		if opts.PrintMoves {
			fmt.Fprintln(tw, "GROUP\tNODES\tMOVES")
		} else {
			fmt.Fprintln(tw, "GROUP\tNODES")
		}
	}

	for i, g := range result.Groups {
		nodes := strings.Join(g.NodeNames, ",")
		if !opts.PrintMoves {
			fmt.Fprintf(tw, "%d\t%s\n", i, nodes)
			continue
		}

		var moves []string
		for _, m := range g.Moves {
			moves = append(moves, fmt.Sprintf("%s->%s", m.InstanceName, m.NewNodeName))
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i, nodes, strings.Join(moves, ","))
	}

	return tw.Flush()
}
