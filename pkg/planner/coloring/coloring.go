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

// Package coloring implements three proper-coloring heuristics: LF,
// DSATUR, and Dcolor. All three share the same contract (Adjacency
// in, ColorMap out) and are deterministic for a given adjacency,
// breaking every tie by ascending vertex index.
package coloring

import (
	"sort"

	"github.com/ganeti-contrib/hroller/pkg/planner/graph"
)

// ColorMap maps a color id to the (ascending-sorted) vertices
// assigned that color. Together the values partition the graph's
// vertex set; no two adjacent vertices share a color.
type ColorMap map[int][]int

// NumColors reports how many distinct colors appear in m.
func (m ColorMap) NumColors() int { return len(m) }

// smallestFreeColor returns the smallest color id not present in used.
func smallestFreeColor(used map[int]struct{}) int {
	for c := 0; ; c++ {
		if _, ok := used[c]; !ok {
			return c
		}
	}
}

func buildColorMap(colorOf map[int]int) ColorMap {
	m := make(ColorMap)
	for v, c := range colorOf {
		m[c] = append(m[c], v)
	}
	for c := range m {
		sort.Ints(m[c])
	}
	return m
}

// LF (Largest-First): vertices are visited in descending-degree order
// (ties broken by ascending index), each taking the smallest color id
// free among its already-colored neighbors.
func LF(adj graph.Adjacency) ColorMap {
	vertices := adj.Vertices()
	sort.Slice(vertices, func(i, j int) bool {
		di, dj := adj.Degree(vertices[i]), adj.Degree(vertices[j])
		if di != dj {
			return di > dj
		}
		return vertices[i] < vertices[j]
	})

	colorOf := make(map[int]int, len(vertices))
	for _, v := range vertices {
		used := make(map[int]struct{})
		for _, n := range adj.Neighbors(v) {
			if c, ok := colorOf[n]; ok {
				used[c] = struct{}{}
			}
		}
		colorOf[v] = smallestFreeColor(used)
	}

	return buildColorMap(colorOf)
}

// DSATUR repeatedly colors the uncolored vertex with maximum
// saturation (distinct colors among colored neighbors); ties break by
// maximum degree in the induced subgraph on remaining uncolored
// vertices, then by ascending index.
func DSATUR(adj graph.Adjacency) ColorMap {
	vertices := adj.Vertices()
	colorOf := make(map[int]int, len(vertices))
	uncolored := make(map[int]struct{}, len(vertices))
	for _, v := range vertices {
		uncolored[v] = struct{}{}
	}

	saturation := func(v int) int {
		seen := make(map[int]struct{})
		for _, n := range adj.Neighbors(v) {
			if c, ok := colorOf[n]; ok {
				seen[c] = struct{}{}
			}
		}
		return len(seen)
	}

	uncoloredDegree := func(v int) int {
		d := 0
		for _, n := range adj.Neighbors(v) {
			if _, ok := uncolored[n]; ok {
				d++
			}
		}
		return d
	}

	for len(uncolored) > 0 {
		var best int
		bestSat, bestDeg := -1, -1
		first := true
		for v := range uncolored {
			sat := saturation(v)
			deg := uncoloredDegree(v)
			if first ||
				sat > bestSat ||
				(sat == bestSat && deg > bestDeg) ||
				(sat == bestSat && deg == bestDeg && v < best) {
				best, bestSat, bestDeg = v, sat, deg
				first = false
			}
		}

		used := make(map[int]struct{})
		for _, n := range adj.Neighbors(best) {
			if c, ok := colorOf[n]; ok {
				used[c] = struct{}{}
			}
		}
		colorOf[best] = smallestFreeColor(used)
		delete(uncolored, best)
	}

	return buildColorMap(colorOf)
}

// Dcolor is a recursive-largest-first-style heuristic: repeatedly
// extracts a maximal independent set from the uncolored subgraph
// (greedily, by descending degree-in-remaining-subgraph, ties by
// ascending index), assigns it a fresh color, and recurses on what's
// left.
func Dcolor(adj graph.Adjacency) ColorMap {
	remaining := make(map[int]struct{})
	for _, v := range adj.Vertices() {
		remaining[v] = struct{}{}
	}

	colorOf := make(map[int]int)
	color := 0

	for len(remaining) > 0 {
		degreeIn := func(v int) int {
			d := 0
			for _, n := range adj.Neighbors(v) {
				if _, ok := remaining[n]; ok {
					d++
				}
			}
			return d
		}

		candidates := make(map[int]struct{}, len(remaining))
		for v := range remaining {
			candidates[v] = struct{}{}
		}

		for len(candidates) > 0 {
			var pick int
			bestDeg := -1
			first := true
			for v := range candidates {
				deg := degreeIn(v)
				if first || deg > bestDeg || (deg == bestDeg && v < pick) {
					pick, bestDeg, first = v, deg, false
				}
			}

			colorOf[pick] = color
			delete(remaining, pick)
			delete(candidates, pick)
			for _, n := range adj.Neighbors(pick) {
				delete(candidates, n)
			}
		}

		color++
	}

	return buildColorMap(colorOf)
}
