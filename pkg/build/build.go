// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0
//
// Package build implements the recursive build orchestrator (spec.md
// §4.E), the central algorithm tying the manifest loader, generators
// and transformer pipeline together. The gather-before-recurse,
// cycle-detection-by-in-progress-set shape follows
// original_source/kustomizer/src/build.rs.
package build

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kustomizer-sh/kbuild/pkg/codec"
	"github.com/kustomizer-sh/kbuild/pkg/generator"
	"github.com/kustomizer-sh/kbuild/pkg/gvk"
	"github.com/kustomizer-sh/kbuild/pkg/kbuilderrors"
	"github.com/kustomizer-sh/kbuild/pkg/manifest"
	"github.com/kustomizer-sh/kbuild/pkg/resmap"
	"github.com/kustomizer-sh/kbuild/pkg/resource"
	"github.com/kustomizer-sh/kbuild/pkg/transform"
)

// Options configures a Builder's treatment of the filesystem (spec.md
// §4.A, §9 open question on symlink policy).
type Options struct {
	Root            string
	LoadRestriction gvk.LoadRestriction
}

// Builder runs the recursive build algorithm, tracking path identity
// across the whole descriptor graph so cycles are caught regardless of
// how many different relative paths reach the same file.
type Builder struct {
	opts     Options
	registry *gvk.Registry
	inStack  map[*gvk.PathID]bool
	chain    []string
}

// New returns a Builder rooted at opts.Root (used for
// LoadRestrictionRootOnly symlink checks).
func New(opts Options) *Builder {
	return &Builder{
		opts:     opts,
		registry: gvk.NewRegistry(),
		inStack:  map[*gvk.PathID]bool{},
	}
}

// Build runs the algorithm described in spec.md §4.E against the
// descriptor at path (a directory or an explicit kustomization file).
func (b *Builder) Build(path string) (*resmap.ResourceMap, error) {
	return b.build(path, manifest.FlavorKustomization)
}

func (b *Builder) build(path string, flavor manifest.Flavor) (*resmap.ResourceMap, error) {
	descriptorPath, err := manifest.ResolveDescriptorPath(path)
	if err != nil {
		return nil, err
	}

	id, err := b.registry.Make(descriptorPath, b.opts.Root, b.opts.LoadRestriction)
	if err != nil {
		return nil, err
	}
	if b.inStack[id] {
		return nil, &kbuilderrors.CycleDetectedError{Chain: append(append([]string{}, b.chain...), descriptorPath)}
	}
	b.inStack[id] = true
	b.chain = append(b.chain, descriptorPath)
	defer func() {
		delete(b.inStack, id)
		b.chain = b.chain[:len(b.chain)-1]
	}()

	m, err := manifest.Load(descriptorPath, flavor)
	if err != nil {
		return nil, err
	}
	if len(m.Generators) > 0 || len(m.Transformers) > 0 {
		return nil, &kbuilderrors.UnsupportedError{Feature: "exec-style generator/transformer plugins"}
	}

	workdir := filepath.Dir(descriptorPath)
	rm := resmap.New()

	for _, entry := range m.Resources {
		if err := b.gatherResource(rm, workdir, entry); err != nil {
			return nil, err
		}
	}

	for _, entry := range m.Components {
		childPath := filepath.Join(workdir, entry)
		child, err := b.build(childPath, manifest.FlavorComponent)
		if err != nil {
			return nil, err
		}
		if err := rm.AppendAll(child); err != nil {
			return nil, err
		}
	}

	if err := b.runGenerators(rm, workdir, m); err != nil {
		return nil, err
	}

	if err := transform.Run(rm, workdir, m); err != nil {
		return nil, err
	}

	return rm, nil
}

// gatherResource handles one resources[] entry: a literal manifest file
// (one or more YAML documents) or a nested descriptor directory (spec.md
// §4.E step 2).
func (b *Builder) gatherResource(rm *resmap.ResourceMap, workdir, entry string) error {
	full := filepath.Join(workdir, entry)
	info, err := os.Stat(full)
	if err != nil {
		return &kbuilderrors.IOError{Path: full, Err: err}
	}

	if info.IsDir() {
		child, err := b.build(full, manifest.FlavorKustomization)
		if err != nil {
			return err
		}
		for _, r := range child.Resources() {
			if err := rm.Insert(r); err != nil {
				return err
			}
		}
		return nil
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return &kbuilderrors.IOError{Path: full, Err: err}
	}
	docs, err := codec.DecodeAll(full, data)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		root, ok := doc.(*resource.Map)
		if !ok {
			return &kbuilderrors.ParseError{Path: full, Err: fmt.Errorf("document is not a resource object")}
		}
		r, err := resource.New(root)
		if err != nil {
			return &kbuilderrors.ParseError{Path: full, Err: err}
		}
		if err := rm.Insert(r); err != nil {
			return err
		}
	}
	return nil
}

// runGenerators executes every configMapGenerator/secretGenerator entry
// and inserts the results with behavior reconciliation (spec.md §4.E
// step 4, §4.F).
func (b *Builder) runGenerators(rm *resmap.ResourceMap, workdir string, m *manifest.Manifest) error {
	for _, spec := range m.ConfigMapGenerator {
		r, err := generator.GenerateConfigMap(workdir, spec, m.GeneratorOptions)
		if err != nil {
			return err
		}
		if err := rm.InsertOrReconcile(r); err != nil {
			return err
		}
	}
	for _, spec := range m.SecretGenerator {
		r, err := generator.GenerateSecret(workdir, spec, m.GeneratorOptions)
		if err != nil {
			return err
		}
		if err := rm.InsertOrReconcile(r); err != nil {
			return err
		}
	}
	return nil
}
