// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0
//
// Package fieldspec implements the (kind, path, create) triples that
// every built-in transformer uses to locate the fields it mutates
// (spec.md §4.I, GLOSSARY "Field-spec"). The path grammar and walk
// semantics are ported from
// original_source/kustomizer/src/fieldspec.rs.
package fieldspec

import (
	"strings"

	"github.com/kustomizer-sh/kbuild/pkg/resource"
)

// Segment is one step of a field-spec path: a field name, optionally
// marked as addressing an array (a trailing "[]" in the source text).
type Segment struct {
	Name    string
	IsArray bool
}

// Path is a parsed field-spec path.
type Path []Segment

// ParsePath parses a dotted path where any segment may carry a trailing
// "[]" to mark it as an array field, e.g. "spec.template.spec.containers[]".
func ParsePath(s string) Path {
	parts := strings.Split(s, ".")
	path := make(Path, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		seg := Segment{Name: p}
		if strings.HasSuffix(p, "[]") {
			seg.Name = strings.TrimSuffix(p, "[]")
			seg.IsArray = true
		}
		path = append(path, seg)
	}
	return path
}

// FieldSpec names where a transform applies: an optional kind filter, a
// path, and whether missing intermediate objects should be created.
type FieldSpec struct {
	Kind   string // empty matches every kind
	Path   Path
	Create bool
}

// ReferenceSpec names a field that holds another resource's name by
// string value, together with the Kind of the resource it refers to
// (spec.md §4.H "Reference rewrite"). Unlike FieldSpec.Kind, RefereeKind
// never restricts which resource the path is walked on -- a Deployment,
// a CronJob and a bare Pod can all carry spec.template.spec.volumes, so
// the path is tried on every resource regardless of its own kind.
type ReferenceSpec struct {
	RefereeKind string
	Path        Path
}

// Visitor is invoked once per leaf value a FieldSpec's path resolves to.
// It returns the new value to store, or ok=false to leave the field
// untouched (e.g. because it was the wrong type to act on).
type Visitor func(v interface{}) (newValue interface{}, ok bool)

// Apply walks root according to spec's path and kind filter, invoking
// visit at every leaf the path resolves to (spec.md §4.I).
func Apply(spec FieldSpec, kind string, root *resource.Map, visit Visitor) {
	if spec.Kind != "" && spec.Kind != kind {
		return
	}
	walk(root, spec.Path, spec.Create, visit)
}

// walk implements the per-segment semantics described in spec.md §4.I:
// a Field segment descends into (or creates) a nested object; an Array
// segment descends into every object element of an array field without
// ever creating the array itself.
func walk(cur *resource.Map, path Path, create bool, visit Visitor) {
	if cur == nil || len(path) == 0 {
		return
	}
	seg := path[0]
	rest := path[1:]

	if seg.IsArray {
		v, ok := cur.Get(seg.Name)
		if !ok {
			return
		}
		arr, ok := v.([]interface{})
		if !ok {
			return
		}
		for _, elem := range arr {
			if len(rest) == 0 {
				// An array leaf segment would be unusual (arrays of
				// scalars aren't addressed this way in practice); skip.
				continue
			}
			if m, ok := elem.(*resource.Map); ok {
				walk(m, rest, create, visit)
			}
		}
		return
	}

	if len(rest) == 0 {
		v, ok := cur.Get(seg.Name)
		if !ok {
			if !create {
				return
			}
			if newVal, ok := visit(nil); ok {
				cur.Set(seg.Name, newVal)
			}
			return
		}
		if newVal, ok := visit(v); ok {
			cur.Set(seg.Name, newVal)
		}
		return
	}

	v, ok := cur.Get(seg.Name)
	if !ok {
		if !create {
			return
		}
		child := cur.EnsureMap(seg.Name)
		walk(child, rest, create, visit)
		return
	}
	child, ok := v.(*resource.Map)
	if !ok {
		return
	}
	walk(child, rest, create, visit)
}
