// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0
//
// Package resource implements the typed representation of a single
// resource document (spec.md §4.B): Gvk+name+namespace identity plus a
// free-form JSON-like tree for everything else, with read/write views
// over metadata, labels and annotations.
package resource

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/kustomizer-sh/kbuild/pkg/gvk"
)

// Resource pairs an identity with the full document body, including
// metadata. The invariant root.metadata.name == id.name (and namespace)
// must hold after every mutation; renaming is only ever done through
// ResourceMap.Rename, which keeps the map's index and the resource's
// embedded name in lockstep (spec.md §4.B).
type Resource struct {
	ID   ResId
	Root *Map
}

// New validates a parsed document and builds a Resource from it.
// apiVersion, kind and metadata.name must be present.
func New(root *Map) (*Resource, error) {
	id, err := IdentityFromRoot(root)
	if err != nil {
		return nil, err
	}
	return &Resource{ID: id, Root: root}, nil
}

// IdentityFromRoot derives a ResId from a document's apiVersion, kind
// and metadata.{name,namespace}, validating that apiVersion, kind and
// metadata.name are present (spec.md §4.B) and that a non-empty name is
// a DNS-1123 subdomain. Used both by New and by any
// operation (e.g. JSON-Patch) that may have rewritten those fields
// directly and must recompute identity from the resulting tree.
func IdentityFromRoot(root *Map) (ResId, error) {
	apiVersionV, ok := root.Get("apiVersion")
	if !ok {
		return ResId{}, fmt.Errorf("resource missing apiVersion")
	}
	apiVersion, ok := apiVersionV.(string)
	if !ok {
		return ResId{}, fmt.Errorf("resource apiVersion is not a string")
	}

	kindV, ok := root.Get("kind")
	if !ok {
		return ResId{}, fmt.Errorf("resource missing kind")
	}
	kind, ok := kindV.(string)
	if !ok {
		return ResId{}, fmt.Errorf("resource kind is not a string")
	}

	metadataV, ok := root.Get("metadata")
	if !ok {
		return ResId{}, fmt.Errorf("resource missing metadata")
	}
	metadata, ok := metadataV.(*Map)
	if !ok {
		return ResId{}, fmt.Errorf("resource metadata is not an object")
	}
	nameV, ok := metadata.Get("name")
	if !ok {
		return ResId{}, fmt.Errorf("resource missing metadata.name")
	}
	name, ok := nameV.(string)
	if !ok {
		return ResId{}, fmt.Errorf("resource metadata.name is not a string")
	}
	if name != "" {
		if errs := validation.IsDNS1123Subdomain(name); len(errs) != 0 {
			return ResId{}, fmt.Errorf("invalid metadata.name %q: %s", name, strings.Join(errs, "; "))
		}
	}

	namespace := ""
	if nsV, ok := metadata.Get("namespace"); ok {
		if ns, ok := nsV.(string); ok {
			namespace = ns
		}
	}

	return ResId{
		Gvk:       gvk.FromAPIVersion(apiVersion, kind),
		Name:      name,
		Namespace: namespace,
	}, nil
}

// Clone returns a deep copy of r.
func (r *Resource) Clone() *Resource {
	return &Resource{ID: r.ID, Root: r.Root.Clone()}
}

// Metadata returns the metadata object, creating it if absent when
// mutate is true.
func (r *Resource) Metadata(mutate bool) *Map {
	if mutate {
		return r.Root.EnsureMap("metadata")
	}
	if v, ok := r.Root.Get("metadata"); ok {
		if m, ok := v.(*Map); ok {
			return m
		}
	}
	return nil
}

// Labels returns metadata.labels, creating the container (but not
// necessarily populating it) when mutate is true.
func (r *Resource) Labels(mutate bool) *Map {
	return r.namedMetadataChild("labels", mutate)
}

// Annotations returns metadata.annotations, creating the container when
// mutate is true.
func (r *Resource) Annotations(mutate bool) *Map {
	return r.namedMetadataChild("annotations", mutate)
}

func (r *Resource) namedMetadataChild(key string, mutate bool) *Map {
	md := r.Metadata(mutate)
	if md == nil {
		return nil
	}
	if mutate {
		return md.EnsureMap(key)
	}
	if v, ok := md.Get(key); ok {
		if m, ok := v.(*Map); ok {
			return m
		}
	}
	return nil
}

// GetAnnotation returns a single annotation value.
func (r *Resource) GetAnnotation(key string) (string, bool) {
	ann := r.Annotations(false)
	if ann == nil {
		return "", false
	}
	v, ok := ann.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// SetAnnotation sets a single annotation, creating metadata.annotations
// if needed.
func (r *Resource) SetAnnotation(key, value string) {
	r.Annotations(true).Set(key, value)
}

// DeleteAnnotation removes a single annotation if present.
func (r *Resource) DeleteAnnotation(key string) {
	if ann := r.Annotations(false); ann != nil {
		ann.Delete(key)
	}
}

// Behavior reads the internal behavior annotation used by
// ResourceMap.InsertOrReconcile. It leaves the annotation in place;
// InsertOrReconcile removes it.
func (r *Resource) Behavior() Behavior {
	v, ok := r.GetAnnotation(AnnotationBehavior)
	if !ok {
		return BehaviorUnspecified
	}
	return Behavior(v)
}

// NeedsHashSuffix reports whether the generator marked this resource as
// still needing its content-hash suffix appended to its name.
func (r *Resource) NeedsHashSuffix() bool {
	v, ok := r.GetAnnotation(AnnotationNeedsHashSuffix)
	return ok && v == "true"
}

// MarkNeedsHashSuffix sets the internal marker consumed by the
// name-hash finalizer (spec.md §4.E step 5.9).
func (r *Resource) MarkNeedsHashSuffix() {
	r.SetAnnotation(AnnotationNeedsHashSuffix, "true")
}

// SetNameNamespace updates both the embedded metadata and the identity
// fields in lockstep. Callers must go through ResourceMap.Rename so the
// map's index is rebuilt consistently (spec.md §4.B) -- this method only
// keeps a single Resource internally consistent.
func (r *Resource) SetNameNamespace(name, namespace string) {
	md := r.Metadata(true)
	md.Set("name", name)
	if namespace == "" {
		md.Delete("namespace")
	} else {
		md.Set("namespace", namespace)
	}
	r.ID.Name = name
	r.ID.Namespace = namespace
}

// AppendToName appends a literal suffix to the resource's current name
// (used for namePrefix/nameSuffix and hash-suffix finalization).
func (r *Resource) AppendToName(suffix string) {
	r.SetNameNamespace(r.ID.Name+suffix, r.ID.Namespace)
}

// PrependToName prepends a literal prefix to the resource's current
// name.
func (r *Resource) PrependToName(prefix string) {
	r.SetNameNamespace(prefix+r.ID.Name, r.ID.Namespace)
}

// Kind returns the resource's Kind, a convenience over ID.Gvk.Kind.
func (r *Resource) Kind() string {
	return r.ID.Gvk.Kind
}

// RecordPreviousIdentity appends the resource's current kind/name/
// namespace onto the previousKinds/previousNames/previousNamespaces
// annotations. Renaming transformers call this before changing a
// resource's name, so the reference-rewrite transformer can later match
// referrers against any name the resource has ever held (spec.md §4.H).
func (r *Resource) RecordPreviousIdentity() {
	r.appendCSVAnnotation(AnnotationPreviousKinds, r.ID.Gvk.Kind)
	r.appendCSVAnnotation(AnnotationPreviousNames, r.ID.Name)
	r.appendCSVAnnotation(AnnotationPreviousNamespaces, r.ID.Namespace)
}

func (r *Resource) appendCSVAnnotation(key, value string) {
	existing, ok := r.GetAnnotation(key)
	if !ok || existing == "" {
		r.SetAnnotation(key, value)
		return
	}
	r.SetAnnotation(key, existing+","+value)
}

// PreviousNames returns every name this resource has held prior to its
// current one, oldest first.
func (r *Resource) PreviousNames() []string {
	v, ok := r.GetAnnotation(AnnotationPreviousNames)
	if !ok || v == "" {
		return nil
	}
	return strings.Split(v, ",")
}
