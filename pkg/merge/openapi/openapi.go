// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0
//
// Package openapi supplies the schema-driven list-merge directives the
// strategic-merge engine needs (spec.md §4.G). A full Kubernetes
// OpenAPI v2 bundle is thousands of definitions; what the merge
// algorithm actually reads out of it is a handful of x-kubernetes-*
// vendor extensions per array field, so this is a small hand-built
// table of the fields the in-scope workloads exercise rather than a
// real embedded bundle (see DESIGN.md component I: embedding a genuine
// gzip-compressed swagger.json was judged out of reach without
// fabricating bundle content, so the registry is expressed directly in
// the shape mergeArray consumes).
package openapi

// ListMerge carries the directives mergeArray needs for one array
// field: the patch strategy, list type and merge key(s) the real
// Kubernetes OpenAPI publication would otherwise carry as
// x-kubernetes-patch-strategy/x-kubernetes-list-type/
// x-kubernetes-patch-merge-key/x-kubernetes-list-map-keys vendor
// extensions on that field's schema.
type ListMerge struct {
	// Strategy is patchStrategy: "merge", "replace", "retainKeys", or
	// "merge,retainKeys". Empty means the field's default (replace).
	Strategy string
	// ListType is x-kubernetes-list-type: "", "map", "set", or "atomic".
	ListType string
	// MapKeys is x-kubernetes-list-map-keys, the ordered key tuple used
	// for keyed merge. Falls back to MergeKey when empty.
	MapKeys []string
	// MergeKey is the legacy single-key patchMergeKey.
	MergeKey string
}

// Keys returns the ordered key tuple to use for keyed-element matching,
// preferring the modern list-map-keys form (spec.md §4.G).
func (l *ListMerge) Keys() []string {
	if len(l.MapKeys) > 0 {
		return l.MapKeys
	}
	if l.MergeKey != "" {
		return []string{l.MergeKey}
	}
	return nil
}

// registry seeds the process-global table with the array fields the
// in-scope workloads exercise: Pod/PodSpec containers and their nested
// collections, plus the handful of other core/apps fields common
// overlays patch. This mirrors the field coverage of
// k8s.io/api/core/v1's struct tags without requiring the generated
// client as a dependency.
var registry = map[string]*ListMerge{
	"containers":                {Strategy: "merge", ListType: "map", MergeKey: "name"},
	"initContainers":            {Strategy: "merge", ListType: "map", MergeKey: "name"},
	"ephemeralContainers":       {Strategy: "merge", ListType: "map", MergeKey: "name"},
	"volumes":                   {Strategy: "merge", ListType: "map", MergeKey: "name"},
	"volumeMounts":              {Strategy: "merge", ListType: "map", MergeKey: "mountPath"},
	"volumeDevices":             {Strategy: "merge", ListType: "map", MergeKey: "devicePath"},
	"env":                       {Strategy: "merge", ListType: "map", MergeKey: "name"},
	"envFrom":                   {ListType: "atomic"},
	"ports":                     {Strategy: "merge", ListType: "map", MapKeys: []string{"containerPort", "protocol"}},
	"imagePullSecrets":          {Strategy: "merge", ListType: "map", MergeKey: "name"},
	"tolerations":               {ListType: "atomic"},
	"finalizers":                {Strategy: "merge", ListType: "set"},
	"ownerReferences":           {Strategy: "merge", ListType: "map", MergeKey: "uid"},
	"subsets":                   {ListType: "atomic"},
	"rules":                     {ListType: "atomic"},
	"topologySpreadConstraints": {Strategy: "merge", ListType: "map", MapKeys: []string{"topologyKey", "whenUnsatisfiable"}},
}

// Lookup returns the list-merge directive registered for fieldName, the
// last path segment of the array field being merged. Real OpenAPI
// lookup is keyed by the full group.version.kind and JSON pointer; this
// engine narrows that to field name, which is sufficient because
// Kubernetes reuses the same field name (and semantics) for a given
// merge key across every kind that embeds PodSpec or ObjectMeta
// (a simplification of the real lookup).
func Lookup(fieldName string) (*ListMerge, bool) {
	lm, ok := registry[fieldName]
	return lm, ok
}
