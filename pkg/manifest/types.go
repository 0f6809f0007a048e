// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0
//
// Package manifest is the parsed form of a kustomization.yaml descriptor
// (spec.md §3 "Manifest", §4.D). The wire shapes are ported from
// original_source/kustomizer/src/manifest.rs's field set and naming,
// adapted from serde/IndexMap to Go's encoding/json + sigs.k8s.io/yaml
// strict decoding.
package manifest

import "github.com/imdario/mergo"

// Flavor distinguishes the two kustomization.yaml variants spec.md §3
// calls out: a base/root Kustomization and an overlay Component. They
// differ in allowed apiVersion/kind and in how they are layered by the
// build orchestrator (spec.md §4.E steps 2-3).
type Flavor int

const (
	FlavorKustomization Flavor = iota
	FlavorComponent
)

func (f Flavor) String() string {
	if f == FlavorComponent {
		return "Component"
	}
	return "Kustomization"
}

// Manifest is the normalized, flavor-tagged descriptor produced by
// Load. All fields beyond Flavor are optional in the source document
// (spec.md §3).
type Manifest struct {
	Flavor Flavor

	Namespace  string
	NamePrefix string
	NameSuffix string

	Resources  []string
	Components []string
	Patches    []PatchSpec

	ConfigMapGenerator []GeneratorSpec
	SecretGenerator    []GeneratorSpec
	GeneratorOptions   GeneratorOptions

	Replicas []ReplicaSpec
	Images   []ImageSpec
	Labels   []LabelSpec

	CommonAnnotations map[string]string

	// Generators/Transformers name exec-style plugin config files.
	// Process spawning for exec-style generator plugins is explicitly
	// out of scope (spec.md §1); a non-empty list here is reported as
	// Unsupported by the build orchestrator rather than silently
	// ignored, so an overlay that actually depends on one fails loudly
	// instead of producing a silently incomplete build.
	Generators   []string
	Transformers []string
}

// GeneratorOptions is the merged (global ⊕ local) option set controlling
// generated resource immutability, labels, annotations and hash
// suffixing (spec.md §4.F).
type GeneratorOptions struct {
	Labels                map[string]string
	Annotations           map[string]string
	DisableNameSuffixHash *bool
	Immutable             bool
}

// Merge combines global (o, the receiver) and local option sets: maps
// union with local winning on key collision, DisableNameSuffixHash is
// local's value if set else global's, and Immutable is a logical OR
// (spec.md §4.F). Built on mergo's default (non-override) merge: dst
// starts as local, so every field local already set survives untouched,
// and mergo fills in whatever local left at its zero value -- a nil map
// key, a nil pointer, a false bool -- from global.
func (o GeneratorOptions) Merge(local GeneratorOptions) GeneratorOptions {
	out := GeneratorOptions{
		Labels:                cloneStringMap(local.Labels),
		Annotations:           cloneStringMap(local.Annotations),
		DisableNameSuffixHash: local.DisableNameSuffixHash,
		Immutable:             local.Immutable,
	}
	// Two GeneratorOptions values merging into each other can't produce
	// mergo's "dst must be a non-nil pointer" class of error.
	_ = mergo.Merge(&out, o)
	return out
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// GeneratorSpec is one configMapGenerator/secretGenerator entry
// (spec.md §4.F). Type is only meaningful for secretGenerator entries.
type GeneratorSpec struct {
	Name      string
	Namespace string
	Behavior  string
	Type      string

	Literals []string
	Files    []string
	Envs     []string

	Options GeneratorOptions
}

// ReplicaSpec names a workload and the replica count the
// ReplicaTransformer should set on it (spec.md §4.H).
type ReplicaSpec struct {
	Name  string
	Count int64
}

// ImageSpec rewrites every container image reference matching Name
// (spec.md §4.H).
type ImageSpec struct {
	Name    string
	NewName string
	NewTag  string
	Digest  string
}

// FieldSpecEntry is a user-supplied (kind, path, create) triple,
// supplementing the built-in label/annotation path tables (ported from
// original_source/kustomizer/src/manifest.rs's Label.field_specs).
type FieldSpecEntry struct {
	Kind   string
	Path   string
	Create bool
}

// LabelSpec is one labels[] group: a set of key/value pairs plus flags
// widening which built-in field-spec tables they are written to
// (spec.md §4.H).
type LabelSpec struct {
	Pairs            map[string]string
	IncludeSelectors bool
	IncludeTemplates bool
	FieldSpecs       []FieldSpecEntry
}

// PatchKind distinguishes the three Patch variants of spec.md §3.
type PatchKind int

const (
	PatchKindJSON PatchKind = iota
	PatchKindStrategicMerge
	PatchKindOutOfLine
)

// Target selects which resources a patch applies to: either a
// label/annotation selector expression, or a (kind, name?, namespace?)
// pattern (spec.md §3 "Target").
type Target struct {
	LabelSelector      string `json:"labelSelector,omitempty"`
	AnnotationSelector string `json:"annotationSelector,omitempty"`
	Kind               string `json:"kind,omitempty"`
	Name               string `json:"name,omitempty"`
	Namespace          string `json:"namespace,omitempty"`
}

// IsPattern reports whether t selects by (kind, name, namespace) rather
// than by selector expression.
func (t *Target) IsPattern() bool {
	return t != nil && t.LabelSelector == "" && t.AnnotationSelector == ""
}

// PatchSpec is one patches[] entry. Inline carries the parsed JSON-Patch
// operation list (Kind == PatchKindJSON) or strategic-merge document
// (Kind == PatchKindStrategicMerge); Path carries the out-of-line file
// path (Kind == PatchKindOutOfLine), resolved relative to the
// descriptor's directory by the loader's caller (spec.md §3 "Patch").
type PatchSpec struct {
	Kind   PatchKind
	Inline interface{}
	Path   string
	Target *Target
}
