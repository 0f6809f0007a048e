// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"github.com/kustomizer-sh/kbuild/pkg/resmap"
	"github.com/kustomizer-sh/kbuild/pkg/resource"
)

// Cleanup strips every internal annotation from every resource before
// final emission (spec.md §4.E step 5.10).
func Cleanup(rm *resmap.ResourceMap) {
	for _, r := range rm.Resources() {
		for _, key := range resource.InternalAnnotationKeys() {
			r.DeleteAnnotation(key)
		}
		if ann := r.Annotations(false); ann != nil && ann.Len() == 0 {
			r.Metadata(true).Delete("annotations")
		}
	}
}
