// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0
//
// Package resmap implements the ordered ResId -> Resource collection
// that flows through the build (spec.md §4.C). Naming follows
// sigs.k8s.io/kustomize's own resmap.ResMap (Append/AbsorbAll) adapted to
// this engine's simpler, non-interface shape.
package resmap

import (
	"fmt"

	"github.com/kustomizer-sh/kbuild/pkg/kbuilderrors"
	"github.com/kustomizer-sh/kbuild/pkg/merge"
	"github.com/kustomizer-sh/kbuild/pkg/resource"
)

// ResourceMap is an ordered collection of resources keyed by ResId.
// Iteration order equals insertion order and is only disturbed by an
// explicit re-insertion after an identity change (spec.md §4.C, §8
// invariant 4).
type ResourceMap struct {
	order []resource.ResId
	index map[resource.ResId]*resource.Resource
}

// New returns an empty, ready-to-use ResourceMap.
func New() *ResourceMap {
	return &ResourceMap{index: map[resource.ResId]*resource.Resource{}}
}

// Len reports the number of resources currently held.
func (m *ResourceMap) Len() int {
	return len(m.order)
}

// Resources returns the resources in insertion order. The returned slice
// is owned by the caller; mutating it does not affect the map, but the
// *Resource pointers are shared.
func (m *ResourceMap) Resources() []*resource.Resource {
	out := make([]*resource.Resource, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.index[id])
	}
	return out
}

// Get returns the resource with the given id, if any.
func (m *ResourceMap) Get(id resource.ResId) (*resource.Resource, bool) {
	r, ok := m.index[id]
	return r, ok
}

// Insert adds r, failing with DuplicateResourceError if its id already
// exists (spec.md §4.C).
func (m *ResourceMap) Insert(r *resource.Resource) error {
	if _, exists := m.index[r.ID]; exists {
		return &kbuilderrors.DuplicateResourceError{ID: r.ID.String()}
	}
	m.order = append(m.order, r.ID)
	m.index[r.ID] = r
	return nil
}

// InsertOrReconcile inspects r's behavior annotation and either inserts
// it plainly (create/unspecified), merges it into an existing resource
// of the same id (merge), or replaces the existing resource's body while
// preserving identity (replace). See spec.md §4.C.
func (m *ResourceMap) InsertOrReconcile(r *resource.Resource) error {
	behavior := r.Behavior()
	r.DeleteAnnotation(resource.AnnotationBehavior)

	existing, exists := m.index[r.ID]
	switch behavior {
	case resource.BehaviorCreate, resource.BehaviorUnspecified:
		if exists {
			return &kbuilderrors.DuplicateResourceError{ID: r.ID.String()}
		}
		return m.Insert(r)
	case resource.BehaviorMerge:
		if !exists {
			return m.Insert(r)
		}
		merged, err := merge.Merge(existing.Root, r.Root)
		if err != nil {
			return &kbuilderrors.PatchFailedError{Target: r.ID.String(), Err: err}
		}
		existing.Root = merged
		unionLabelsAndAnnotations(existing, r)
		return nil
	case resource.BehaviorReplace:
		if !exists {
			return m.Insert(r)
		}
		existing.Root = r.Root
		return nil
	default:
		return fmt.Errorf("unknown behavior %q on resource %s", behavior, r.ID)
	}
}

func unionLabelsAndAnnotations(existing, incoming *resource.Resource) {
	if incoming.Labels(false) != nil {
		labels := existing.Labels(true)
		for _, k := range incoming.Labels(false).Keys() {
			v, _ := incoming.Labels(false).Get(k)
			labels.Set(k, v)
		}
	}
	if incoming.Annotations(false) != nil {
		annotations := existing.Annotations(true)
		for _, k := range incoming.Annotations(false).Keys() {
			v, _ := incoming.Annotations(false).Get(k)
			annotations.Set(k, v)
		}
	}
}

// AppendAll inserts every resource of other into m, in order, using
// InsertOrReconcile so generator-behavior collisions are honored
// (spec.md §4.E step 3, components merging into a base).
func (m *ResourceMap) AppendAll(other *ResourceMap) error {
	for _, r := range other.Resources() {
		if err := m.InsertOrReconcile(r); err != nil {
			return err
		}
	}
	return nil
}

// Rename changes the identity of the resource currently at id to
// (newName, newNamespace), rekeying the map's index while preserving its
// position in the iteration order. This is the only sanctioned way to
// change a resource's name/namespace (spec.md §4.B).
func (m *ResourceMap) Rename(id resource.ResId, newName, newNamespace string) error {
	r, ok := m.index[id]
	if !ok {
		return fmt.Errorf("rename: no resource with id %s", id)
	}
	newID := resource.ResId{Gvk: id.Gvk, Name: newName, Namespace: newNamespace}
	if newID != id {
		if _, collide := m.index[newID]; collide {
			return &kbuilderrors.DuplicateResourceError{ID: newID.String()}
		}
	}
	delete(m.index, id)
	r.SetNameNamespace(newName, newNamespace)
	m.index[newID] = r
	for i, existingID := range m.order {
		if existingID == id {
			m.order[i] = newID
			break
		}
	}
	return nil
}

// SetNamespace is a convenience wrapper around Rename that leaves the
// name untouched.
func (m *ResourceMap) SetNamespace(id resource.ResId, namespace string) error {
	return m.Rename(id, id.Name, namespace)
}
