// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package gvk

import (
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Gvk is the (group, version, kind) triple identifying a resource's type
// (spec.md §3). It wraps the teacher's own schema.GroupVersionKind rather
// than reinventing group/version parsing.
type Gvk struct {
	schema.GroupVersionKind
}

// FromAPIVersion splits an apiVersion string ("group/version" or just
// "version" for the core group) and a kind into a Gvk.
func FromAPIVersion(apiVersion, kind string) Gvk {
	group, version := "", apiVersion
	if idx := strings.Index(apiVersion, "/"); idx >= 0 {
		group, version = apiVersion[:idx], apiVersion[idx+1:]
	}
	return Gvk{schema.GroupVersionKind{Group: group, Version: version, Kind: kind}}
}

// APIVersion re-joins group and version the way it must appear in a
// rendered manifest's apiVersion field.
func (g Gvk) APIVersion() string {
	if g.Group == "" {
		return g.Version
	}
	return g.Group + "/" + g.Version
}

// Display renders the "kind.version[.group]" form used in diagnostics.
func (g Gvk) Display() string {
	if g.Group == "" {
		return g.Kind + "." + g.Version
	}
	return g.Kind + "." + g.Version + "." + g.Group
}

// GroupKind drops the version, useful for schema/field-spec lookups that
// are defined per (group, kind) rather than per exact version.
func (g Gvk) GroupKind() schema.GroupKind {
	return g.GroupVersionKind.GroupKind()
}
