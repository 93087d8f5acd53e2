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

// Package model implements the cluster model: an integer-indexed
// container for nodes and instances with O(log n) lookup, ordered
// enumeration, and copy-on-write mutation.
package model

import (
	"github.com/google/btree"

	"github.com/ganeti-contrib/hroller/pkg/planner/perr"
)

// btreeDegree is unrelated to cluster size; it only tunes the B-tree's
// branching factor. 32 keeps node fan-out reasonable for the node/
// instance counts this planner expects (tens to low thousands).
const btreeDegree = 32

// Element is the capability every container entity exposes: a stable
// integer index and a name, used for Container's dual by-index/by-name
// lookup.
type Element interface {
	Index() int
	Named() string
}

type idxEntry[T Element] struct {
	idx int
	val T
}

func lessIdxEntry[T Element](a, b idxEntry[T]) bool { return a.idx < b.idx }

type nameEntry struct {
	name string
	idx  int
}

func lessNameEntry(a, b nameEntry) bool { return a.name < b.name }

// Container is an immutable-by-convention map from integer index to
// entity: every mutator returns a new Container, leaving the receiver
// untouched so a caller can keep the original around for comparison
// or backtracking. It is backed by google/btree's generic B-tree, which makes
// Clone O(1) via structural sharing, so Add's copy-on-write semantics
// stay cheap even for large clusters.
type Container[T Element] struct {
	label  string
	byIdx  *btree.BTreeG[idxEntry[T]]
	byName *btree.BTreeG[nameEntry]
}

// NewContainer builds an empty Container. label is used only for
// error messages (e.g. "nodes", "instances").
func NewContainer[T Element](label string) Container[T] {
	return Container[T]{
		label:  label,
		byIdx:  btree.NewG(btreeDegree, lessIdxEntry[T]),
		byName: btree.NewG(btreeDegree, lessNameEntry),
	}
}

// Find looks up the entity at idx, failing with a perr.InputInvalid
// NotFound error if absent.
func (c Container[T]) Find(idx int) (T, error) {
	e, ok := c.byIdx.Get(idxEntry[T]{idx: idx})
	if !ok {
		var zero T
		return zero, perr.NotFound(c.label, idx)
	}
	return e.val, nil
}

// FindByName looks up the entity by its Named() value.
func (c Container[T]) FindByName(name string) (T, error) {
	ne, ok := c.byName.Get(nameEntry{name: name})
	if !ok {
		var zero T
		return zero, perr.New(perr.InputInvalid, "%s: no entity named %q", c.label, name)
	}
	return c.Find(ne.idx)
}

// Add returns a new Container with idx mapped to val, replacing
// whatever entity (and name) previously lived at idx.
func (c Container[T]) Add(idx int, val T) Container[T] {
	out := Container[T]{label: c.label, byIdx: c.byIdx.Clone(), byName: c.byName.Clone()}
	if old, ok := out.byIdx.Get(idxEntry[T]{idx: idx}); ok && old.val.Named() != val.Named() {
		out.byName.Delete(nameEntry{name: old.val.Named()})
	}
	out.byIdx.ReplaceOrInsert(idxEntry[T]{idx: idx, val: val})
	out.byName.ReplaceOrInsert(nameEntry{name: val.Named(), idx: idx})
	return out
}

// AddTwo returns a new Container with both (idx1, val1) and
// (idx2, val2) installed, by two successive Adds.
func (c Container[T]) AddTwo(idx1 int, val1 T, idx2 int, val2 T) Container[T] {
	return c.Add(idx1, val1).Add(idx2, val2)
}

// Keys returns every index present, in ascending order.
func (c Container[T]) Keys() []int {
	keys := make([]int, 0, c.byIdx.Len())
	c.byIdx.Ascend(func(e idxEntry[T]) bool {
		keys = append(keys, e.idx)
		return true
	})
	return keys
}

// Elems returns every entity present, ordered by ascending index.
func (c Container[T]) Elems() []T {
	elems := make([]T, 0, c.byIdx.Len())
	c.byIdx.Ascend(func(e idxEntry[T]) bool {
		elems = append(elems, e.val)
		return true
	})
	return elems
}

// Len reports the number of entities in the container.
func (c Container[T]) Len() int { return c.byIdx.Len() }
