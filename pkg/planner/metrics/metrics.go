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

// Package metrics backs the "verbose >= 2 emits per-algorithm
// statistics" option with a small prometheus registry: one gauge
// vector recording how many colors each of the three
// heuristics produced, and one for the resulting reboot-group sizes.
// Rendering to text (for the CLI's verbose output) goes through
// prometheus/common/expfmt, the same encoder Prometheus itself uses
// for the scrape endpoint.
package metrics

import (
	"bytes"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Snapshot is a self-contained prometheus registry for a single
// planning run's statistics. It is not a global/package-level
// registry: each Plan() call gets its own, so repeated runs in the
// same process (e.g. tests) never collide on label values.
type Snapshot struct {
	registry *prometheus.Registry

	colorsChosen *prometheus.GaugeVec
	groupSizes   *prometheus.GaugeVec
}

// NewSnapshot builds an empty statistics snapshot.
func NewSnapshot() *Snapshot {
	s := &Snapshot{
		registry: prometheus.NewRegistry(),
		colorsChosen: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hroller_coloring_colors",
			Help: "Number of colors produced by each coloring heuristic.",
		}, []string{"algorithm"}),
		groupSizes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hroller_reboot_group_nodes",
			Help: "Number of nodes in each emitted reboot group, by position.",
		}, []string{"group"}),
	}
	s.registry.MustRegister(s.colorsChosen, s.groupSizes)
	return s
}

// RecordColoring records how many colors algorithm produced.
func (s *Snapshot) RecordColoring(algorithm string, numColors int) {
	s.colorsChosen.WithLabelValues(algorithm).Set(float64(numColors))
}

// RecordGroup records the node count of the group at the given
// (zero-based) position in the final plan.
func (s *Snapshot) RecordGroup(position, numNodes int) {
	s.groupSizes.WithLabelValues(fmt.Sprintf("%d", position)).Set(float64(numNodes))
}

// Render encodes the snapshot in the Prometheus text exposition
// format, suitable for printing under verbose >= 2.
func (s *Snapshot) Render() (string, error) {
	families, err := s.registry.Gather()
	if err != nil {
		return "", fmt.Errorf("gather planner metrics: %w", err)
	}

	var buf bytes.Buffer
	encoder := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := encoder.Encode(mf); err != nil {
			return "", fmt.Errorf("encode planner metrics: %w", err)
		}
	}
	return buf.String(), nil
}
