// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package transform

import "github.com/kustomizer-sh/kbuild/pkg/resmap"

// NamePrefixSuffix prepends prefix and appends suffix to every
// resource's name, coordinated with the ResourceMap's identity index
// (spec.md §4.H).
func NamePrefixSuffix(rm *resmap.ResourceMap, prefix, suffix string) error {
	if prefix == "" && suffix == "" {
		return nil
	}
	for _, r := range rm.Resources() {
		r.RecordPreviousIdentity()
		newName := prefix + r.ID.Name + suffix
		if err := rm.Rename(r.ID, newName, r.ID.Namespace); err != nil {
			return err
		}
	}
	return nil
}
