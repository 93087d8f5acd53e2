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

// Package perr defines the planner's typed error kinds.
package perr

import (
	"errors"
	"fmt"
)

// Kind classifies a planner error so callers can decide whether it is
// fatal, absorbed, or downgraded to a warning.
type Kind int

const (
	// InputInvalid marks malformed or contradictory cluster/option
	// input: unknown group name, multiple masters, dangling node or
	// instance references.
	InputInvalid Kind = iota
	// Unsupported marks a structurally impossible request, e.g. the
	// conflict graph cannot be built from the filtered vertex set.
	Unsupported
	// NoCapacity marks a greedy-evacuation failure: no peer set could
	// absorb a node's non-redundant instances.
	NoCapacity
	// Warning marks a condition that does not abort planning, e.g. a
	// missing master under the force option.
	Warning
)

func (k Kind) String() string {
	switch k {
	case InputInvalid:
		return "InputInvalid"
	case Unsupported:
		return "Unsupported"
	case NoCapacity:
		return "NoCapacity"
	case Warning:
		return "Warning"
	default:
		return "Unknown"
	}
}

// plannerError wraps a Kind with a message. Its Kind is read back by
// KindOf and Is, which find the plannerError through errors.As.
type plannerError struct {
	kind  Kind
	msg   string
	cause error
}

func (e *plannerError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

func (e *plannerError) Unwrap() error { return e.cause }

// New builds an error of the given kind.
func New(kind Kind, format string, args ...interface{}) error {
	return &plannerError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an existing error, preserving it for
// errors.Unwrap/errors.Is.
func Wrap(kind Kind, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &plannerError{kind: kind, msg: fmt.Sprintf(format, args...), cause: err}
}

// KindOf reports the Kind carried by err, if any was attached via New
// or Wrap.
func KindOf(err error) (Kind, bool) {
	var pe *plannerError
	if errors.As(err, &pe) {
		return pe.kind, true
	}
	return 0, false
}

// Is reports whether err (or anything it wraps) carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// NotFound is a convenience constructor for a missing index lookup in
// a cluster-model container.
func NotFound(container string, idx int) error {
	return New(InputInvalid, "%s: no entity at index %d", container, idx)
}
