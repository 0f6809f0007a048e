// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"github.com/kustomizer-sh/kbuild/pkg/fieldspec"
	"github.com/kustomizer-sh/kbuild/pkg/manifest"
	"github.com/kustomizer-sh/kbuild/pkg/resmap"
)

// Replicas sets the integer replica count named by each replicas[]
// entry on every matching workload (spec.md §4.H).
func Replicas(rm *resmap.ResourceMap, specs []manifest.ReplicaSpec) error {
	for _, spec := range specs {
		for _, r := range rm.Resources() {
			if r.ID.Name != spec.Name {
				continue
			}
			for _, fs := range fieldspec.Replicas {
				fieldspec.Apply(fs, r.Kind(), r.Root, func(interface{}) (interface{}, bool) {
					return spec.Count, true
				})
			}
		}
	}
	return nil
}
