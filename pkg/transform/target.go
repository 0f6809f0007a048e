// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"github.com/kustomizer-sh/kbuild/pkg/manifest"
	"github.com/kustomizer-sh/kbuild/pkg/resmap"
	"github.com/kustomizer-sh/kbuild/pkg/resource"
	"github.com/kustomizer-sh/kbuild/pkg/selector"
)

// matchTarget returns every resource in rm selected by target (spec.md
// §3 "Target", §4.K).
func matchTarget(rm *resmap.ResourceMap, target *manifest.Target) ([]*resource.Resource, error) {
	var matches []*resource.Resource

	switch {
	case target.LabelSelector != "":
		sel, err := selector.Parse(target.LabelSelector)
		if err != nil {
			return nil, err
		}
		for _, r := range rm.Resources() {
			if sel.Matches(resource.StringMap(r.Labels(false))) {
				matches = append(matches, r)
			}
		}
	case target.AnnotationSelector != "":
		sel, err := selector.Parse(target.AnnotationSelector)
		if err != nil {
			return nil, err
		}
		for _, r := range rm.Resources() {
			if sel.Matches(resource.StringMap(r.Annotations(false))) {
				matches = append(matches, r)
			}
		}
	default:
		for _, r := range rm.Resources() {
			if target.Kind != "" && r.ID.Gvk.Kind != target.Kind {
				continue
			}
			if target.Name != "" && r.ID.Name != target.Name {
				continue
			}
			if target.Namespace != "" && r.ID.Namespace != target.Namespace {
				continue
			}
			matches = append(matches, r)
		}
	}
	return matches, nil
}
