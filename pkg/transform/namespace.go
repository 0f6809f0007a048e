// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0
//
// Package transform implements the fixed-order pipeline of
// field-spec-driven mutations run at each descriptor level (spec.md
// §4.E step 5, §4.H), grounded on
// original_source/kustomizer/src/transform/*.rs for per-concern field
// tables and 681d6c8c_lonecalvary78-kustomize's PatchTransformer.go for
// the "one apply(resourceMap) per transformer" shape.
package transform

import (
	"github.com/kustomizer-sh/kbuild/pkg/fieldspec"
	"github.com/kustomizer-sh/kbuild/pkg/resmap"
)

// clusterScopedKinds is the built-in scope table the namespace
// transformer consults (spec.md §4.H "a built-in scope table"). Kinds
// absent from this set are treated as namespace-scoped, matching
// upstream Kubernetes' own convention that cluster scope is the
// exception, not the default.
var clusterScopedKinds = map[string]bool{
	"Namespace":                    true,
	"Node":                         true,
	"PersistentVolume":             true,
	"ClusterRole":                  true,
	"ClusterRoleBinding":           true,
	"CustomResourceDefinition":     true,
	"APIService":                   true,
	"StorageClass":                 true,
	"PriorityClass":                true,
	"VolumeAttachment":             true,
	"CSIDriver":                    true,
	"CSINode":                      true,
	"RuntimeClass":                 true,
	"PodSecurityPolicy":            true,
	"MutatingWebhookConfiguration": true,
	"ValidatingWebhookConfiguration": true,
	"ComponentStatus":              true,
}

// IsNamespaceScoped reports whether kind belongs to a namespace rather
// than the cluster.
func IsNamespaceScoped(kind string) bool {
	return !clusterScopedKinds[kind]
}

// Namespace sets metadata.namespace on every namespace-scoped resource,
// and rewrites subjects[].namespace on RoleBinding and
// ClusterRoleBinding resources via fieldspec.Namespace (spec.md §4.H).
func Namespace(rm *resmap.ResourceMap, namespace string) error {
	if namespace == "" {
		return nil
	}
	for _, r := range rm.Resources() {
		if IsNamespaceScoped(r.Kind()) {
			if err := rm.SetNamespace(r.ID, namespace); err != nil {
				return err
			}
		}
	}
	for _, spec := range fieldspec.Namespace {
		for _, r := range rm.Resources() {
			fieldspec.Apply(spec, r.Kind(), r.Root, func(v interface{}) (interface{}, bool) {
				return namespace, true
			})
		}
	}
	return nil
}
