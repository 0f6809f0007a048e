// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0
//
// Package kbuilderrors defines the distinguishable failure kinds produced
// by the build engine (spec.md §7). Each kind is its own exported struct
// implementing error, in the style of pkg/inventory's *Error types.
package kbuilderrors

import (
	"fmt"
	"strings"
)

// IOError wraps a filesystem failure with the path that caused it.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError reports a YAML/JSON syntax error or a strict-schema
// violation (an unknown field in a descriptor).
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CycleDetectedError reports a descriptor graph cycle. Chain is the full
// sequence of paths from the root to the path that closed the cycle.
type CycleDetectedError struct {
	Chain []string
}

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("cycle detected: %s", strings.Join(e.Chain, " -> "))
}

// DuplicateResourceError reports two resources with identical ResId and
// no reconciliation rule.
type DuplicateResourceError struct {
	ID string
}

func (e *DuplicateResourceError) Error() string {
	return fmt.Sprintf("duplicate resource: %s", e.ID)
}

// DuplicateKeyError reports a repeated key across a generator's sources.
type DuplicateKeyError struct {
	Generator string
	Key       string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q in %s sources", e.Key, e.Generator)
}

// PatchFailedError reports a JSON-Patch test/path failure or a
// strategic-merge type mismatch the engine refuses to resolve.
type PatchFailedError struct {
	Target string
	Err    error
}

func (e *PatchFailedError) Error() string {
	return fmt.Sprintf("patch failed for %s: %v", e.Target, e.Err)
}

func (e *PatchFailedError) Unwrap() error {
	return e.Err
}

// UnsupportedError reports a feature that is explicitly out of scope,
// such as the retainKeys patch strategies or container-function plugins.
type UnsupportedError struct {
	Feature string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported: %s", e.Feature)
}

// ReferenceMismatchError is reported by differential testing only; it is
// never fatal to a production build (spec.md §7).
type ReferenceMismatchError struct {
	Detail string
}

func (e *ReferenceMismatchError) Error() string {
	return fmt.Sprintf("reference mismatch: %s", e.Detail)
}
