// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"fmt"

	"github.com/kustomizer-sh/kbuild/pkg/manifest"
	"github.com/kustomizer-sh/kbuild/pkg/resource"
)

// GenerateConfigMap runs one configMapGenerator entry (spec.md §4.F).
// globalOptions is the descriptor's generatorOptions; spec.Options is
// the entry's own local overrides, merged with local winning.
func GenerateConfigMap(workdir string, spec manifest.GeneratorSpec, globalOptions manifest.GeneratorOptions) (*resource.Resource, error) {
	options := globalOptions.Merge(spec.Options)

	data, binaryData, err := Assemble(workdir, Sources{Literals: spec.Literals, Files: spec.Files, Envs: spec.Envs}, EncodingConfigMap, "ConfigMapGenerator")
	if err != nil {
		return nil, fmt.Errorf("generating ConfigMap %q: %w", spec.Name, err)
	}

	root := resource.NewMap()
	root.Set("apiVersion", "v1")
	root.Set("kind", "ConfigMap")
	md := root.EnsureMap("metadata")
	md.Set("name", spec.Name)
	if spec.Namespace != "" {
		md.Set("namespace", spec.Namespace)
	}
	applyGeneratorMetadata(md, spec.Behavior, options)

	PutGeneratedData(root, data, binaryData)
	if options.Immutable {
		root.Set("immutable", true)
	}

	r, err := resource.New(root)
	if err != nil {
		return nil, err
	}
	finalizeGeneratedName(r, options)
	return r, nil
}

// GenerateSecret runs one secretGenerator entry (spec.md §4.F). Secret
// data always lands base64-encoded in `data` regardless of UTF-8
// validity.
func GenerateSecret(workdir string, spec manifest.GeneratorSpec, globalOptions manifest.GeneratorOptions) (*resource.Resource, error) {
	options := globalOptions.Merge(spec.Options)

	data, binaryData, err := Assemble(workdir, Sources{Literals: spec.Literals, Files: spec.Files, Envs: spec.Envs}, EncodingSecret, "SecretGenerator")
	if err != nil {
		return nil, fmt.Errorf("generating Secret %q: %w", spec.Name, err)
	}

	root := resource.NewMap()
	root.Set("apiVersion", "v1")
	root.Set("kind", "Secret")
	md := root.EnsureMap("metadata")
	md.Set("name", spec.Name)
	if spec.Namespace != "" {
		md.Set("namespace", spec.Namespace)
	}
	applyGeneratorMetadata(md, spec.Behavior, options)

	PutGeneratedData(root, data, binaryData)
	if options.Immutable {
		root.Set("immutable", true)
	}
	typ := spec.Type
	if typ == "" {
		typ = "Opaque"
	}
	root.Set("type", typ)

	r, err := resource.New(root)
	if err != nil {
		return nil, err
	}
	finalizeGeneratedName(r, options)
	return r, nil
}

func applyGeneratorMetadata(md *resource.Map, behavior string, options manifest.GeneratorOptions) {
	if len(options.Labels) > 0 {
		labels := md.EnsureMap("labels")
		for k, v := range options.Labels {
			labels.Set(k, v)
		}
	}
	annotations := md.EnsureMap("annotations")
	for k, v := range options.Annotations {
		annotations.Set(k, v)
	}
	if behavior != "" {
		annotations.Set(resource.AnnotationBehavior, behavior)
	}
}

// finalizeGeneratedName marks the resource for hash-suffix
// finalization unless the merged options disable it (spec.md §4.F
// "Name-suffix hash", §4.E step 5.9).
func finalizeGeneratedName(r *resource.Resource, options manifest.GeneratorOptions) {
	disable := options.DisableNameSuffixHash != nil && *options.DisableNameSuffixHash
	if !disable {
		r.MarkNeedsHashSuffix()
	}
}
