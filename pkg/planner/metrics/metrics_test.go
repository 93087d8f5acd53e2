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

package metrics_test

import (
	"strings"
	"testing"

	"github.com/ganeti-contrib/hroller/pkg/planner/metrics"
)

func TestSnapshotRenderIncludesRecordedSeries(t *testing.T) {
	s := metrics.NewSnapshot()
	s.RecordColoring("LF", 3)
	s.RecordColoring("DSATUR", 2)
	s.RecordGroup(0, 5)

	out, err := s.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{"hroller_coloring_colors", "hroller_reboot_group_nodes", `algorithm="LF"`, `algorithm="DSATUR"`} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered metrics missing %q:\n%s", want, out)
		}
	}
}

func TestSnapshotsAreIndependent(t *testing.T) {
	a := metrics.NewSnapshot()
	a.RecordColoring("LF", 1)

	b := metrics.NewSnapshot()
	out, err := b.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(out, `algorithm="LF"`) {
		t.Errorf("a fresh Snapshot already contains another snapshot's series:\n%s", out)
	}
}
