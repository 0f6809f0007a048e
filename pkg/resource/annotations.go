// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package resource

// Reserved annotation keys (spec.md §3). These are internal to the build
// and are stripped from the final output by the cleanup transformer.
const (
	// AnnotationBehavior selects how InsertOrReconcile treats a
	// resource that collides with one already in the map.
	AnnotationBehavior = "kustomize.config.k8s.io/behavior"
	// AnnotationNeedsHashSuffix marks a generated resource whose name
	// still needs its content hash appended.
	AnnotationNeedsHashSuffix = "internal.config.kubernetes.io/needsHashSuffix"
	// AnnotationFunction carries a nested YAML payload for plugin calls
	// (out of scope for execution, but preserved/stripped like any
	// other internal annotation).
	AnnotationFunction = "config.kubernetes.io/function"
	// AnnotationPreviousKinds/Names/Namespaces record identity before a
	// rename, consumed by the reference-rewrite transformer.
	AnnotationPreviousKinds      = "internal.config.kubernetes.io/previousKinds"
	AnnotationPreviousNames      = "internal.config.kubernetes.io/previousNames"
	AnnotationPreviousNamespaces = "internal.config.kubernetes.io/previousNamespaces"
)

// Behavior is the reconciliation policy a generated or overlay resource
// requests when it collides with an existing ResId in a ResourceMap.
type Behavior string

const (
	BehaviorUnspecified Behavior = ""
	BehaviorCreate      Behavior = "create"
	BehaviorMerge       Behavior = "merge"
	BehaviorReplace     Behavior = "replace"
)

// internalAnnotationKeys lists every reserved key the cleanup
// transformer strips before final emission.
var internalAnnotationKeys = []string{
	AnnotationBehavior,
	AnnotationNeedsHashSuffix,
	AnnotationFunction,
	AnnotationPreviousKinds,
	AnnotationPreviousNames,
	AnnotationPreviousNamespaces,
}

// InternalAnnotationKeys returns the reserved annotation keys that are
// internal to the build process.
func InternalAnnotationKeys() []string {
	return internalAnnotationKeys
}
