// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"fmt"

	"github.com/kustomizer-sh/kbuild/pkg/gvk"
)

// ResId uniquely identifies a resource within a ResourceMap (spec.md §3).
// Two ResIds are equal iff all four fields match; this mirrors
// pkg/object.ObjMetadata's equality contract, extended with the version
// component the inventory object metadata deliberately drops.
type ResId struct {
	Gvk       gvk.Gvk
	Name      string
	Namespace string
}

// Equals reports whether o and other identify the same resource.
func (o ResId) Equals(other ResId) bool {
	return o == other
}

// String renders a ResId for diagnostics and map-key purposes.
func (o ResId) String() string {
	ns := o.Namespace
	if ns == "" {
		ns = "<no-namespace>"
	}
	return fmt.Sprintf("%s/%s/%s", o.Gvk.Display(), ns, o.Name)
}
