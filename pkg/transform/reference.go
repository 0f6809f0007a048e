// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"github.com/kustomizer-sh/kbuild/pkg/fieldspec"
	"github.com/kustomizer-sh/kbuild/pkg/resmap"
)

// ReferenceRewrite rewrites every referrer field named by
// fieldspec.References whose value matches a name some resource of the
// referenced kind used to hold, substituting that resource's current
// name (spec.md §4.E step 5.8, §4.H).
func ReferenceRewrite(rm *resmap.ResourceMap) error {
	byKind := previousNamesByKind(rm)

	for _, ref := range fieldspec.References {
		rename, ok := byKind[ref.RefereeKind]
		if !ok {
			continue
		}
		spec := fieldspec.FieldSpec{Path: ref.Path, Create: false}
		for _, r := range rm.Resources() {
			fieldspec.Apply(spec, r.Kind(), r.Root, func(v interface{}) (interface{}, bool) {
				cur, ok := v.(string)
				if !ok {
					return nil, false
				}
				newName, ok := rename[cur]
				if !ok {
					return nil, false
				}
				return newName, true
			})
		}
	}
	return nil
}

// previousNamesByKind maps, for each kind present in rm, every name a
// resource of that kind has ever held (including its current one) to
// that resource's current name.
func previousNamesByKind(rm *resmap.ResourceMap) map[string]map[string]string {
	out := map[string]map[string]string{}
	for _, r := range rm.Resources() {
		kind := r.Kind()
		rename, ok := out[kind]
		if !ok {
			rename = map[string]string{}
			out[kind] = rename
		}
		for _, old := range r.PreviousNames() {
			rename[old] = r.ID.Name
		}
		rename[r.ID.Name] = r.ID.Name
	}
	return out
}
