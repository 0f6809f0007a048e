// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"github.com/kustomizer-sh/kbuild/pkg/generator"
	"github.com/kustomizer-sh/kbuild/pkg/resmap"
	"github.com/kustomizer-sh/kbuild/pkg/resource"
)

// HashSuffix appends a content-hash suffix to every generated resource
// still marked NeedsHashSuffix (spec.md §4.E step 5.9, §4.F).
func HashSuffix(rm *resmap.ResourceMap) error {
	for _, r := range rm.Resources() {
		if !r.NeedsHashSuffix() {
			continue
		}
		hash, err := generator.NameSuffixHash(r)
		if err != nil {
			return err
		}
		r.RecordPreviousIdentity()
		newName := r.ID.Name + "-" + hash
		if err := rm.Rename(r.ID, newName, r.ID.Namespace); err != nil {
			return err
		}
		r.DeleteAnnotation(resource.AnnotationNeedsHashSuffix)
	}
	return nil
}
