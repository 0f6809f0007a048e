// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kustomizer-sh/kbuild/pkg/codec"
	"github.com/kustomizer-sh/kbuild/pkg/jsonpatch"
	"github.com/kustomizer-sh/kbuild/pkg/kbuilderrors"
	"github.com/kustomizer-sh/kbuild/pkg/manifest"
	"github.com/kustomizer-sh/kbuild/pkg/merge"
	"github.com/kustomizer-sh/kbuild/pkg/resmap"
	"github.com/kustomizer-sh/kbuild/pkg/resource"
)

// Patches applies every patches[] entry in file order (spec.md §4.E
// step 5.7, §4.G, §4.J).
func Patches(rm *resmap.ResourceMap, workdir string, specs []manifest.PatchSpec) error {
	for _, p := range specs {
		if err := applyOne(rm, workdir, p); err != nil {
			return err
		}
	}
	return nil
}

func applyOne(rm *resmap.ResourceMap, workdir string, p manifest.PatchSpec) error {
	switch p.Kind {
	case manifest.PatchKindStrategicMerge:
		return applyStrategicMerge(rm, p.Inline, p.Target)
	case manifest.PatchKindJSON:
		ops, ok := p.Inline.([]interface{})
		if !ok {
			return &kbuilderrors.PatchFailedError{Err: fmt.Errorf("JSON-Patch document is not an array")}
		}
		return applyJSON(rm, ops, p.Target)
	case manifest.PatchKindOutOfLine:
		return applyOutOfLine(rm, workdir, p)
	default:
		return fmt.Errorf("unknown patch kind %d", p.Kind)
	}
}

// applyOutOfLine loads the file at p.Path and tries it as a
// strategic-merge resource first, falling back to a JSON-Patch document
// if parsing as a resource fails (spec.md §3 "Patch", "OutOfLine").
func applyOutOfLine(rm *resmap.ResourceMap, workdir string, p manifest.PatchSpec) error {
	full := filepath.Join(workdir, p.Path)
	data, err := os.ReadFile(full)
	if err != nil {
		return &kbuilderrors.IOError{Path: p.Path, Err: err}
	}
	v, err := codec.DecodeOne(p.Path, data)
	if err != nil {
		return &kbuilderrors.ParseError{Path: p.Path, Err: err}
	}

	if m, ok := v.(*resource.Map); ok {
		if _, err := resource.IdentityFromRoot(m); err == nil || p.Target != nil {
			return applyStrategicMerge(rm, v, p.Target)
		}
	}
	if ops, ok := v.([]interface{}); ok {
		return applyJSON(rm, ops, p.Target)
	}
	return &kbuilderrors.PatchFailedError{Target: p.Path, Err: fmt.Errorf("patch file is neither a resource nor a JSON-Patch array")}
}

// applyStrategicMerge merges patchDoc onto every resource selected by
// target, or, when target is nil, onto the single resource whose
// identity the patch document itself carries (spec.md §4.G).
func applyStrategicMerge(rm *resmap.ResourceMap, patchDoc interface{}, target *manifest.Target) error {
	patchMap, ok := patchDoc.(*resource.Map)
	if !ok {
		return &kbuilderrors.PatchFailedError{Err: fmt.Errorf("strategic-merge patch document is not an object")}
	}

	var targets []*resource.Resource
	if target != nil {
		var err error
		targets, err = matchTarget(rm, target)
		if err != nil {
			return err
		}
	} else {
		id, err := resource.IdentityFromRoot(patchMap)
		if err != nil {
			return &kbuilderrors.PatchFailedError{Err: fmt.Errorf("targetless strategic-merge patch must identify its resource: %w", err)}
		}
		r, ok := rm.Get(id)
		if !ok {
			return &kbuilderrors.PatchFailedError{Target: id.String(), Err: fmt.Errorf("no resource matches patch target")}
		}
		targets = []*resource.Resource{r}
	}

	for _, r := range targets {
		merged, err := merge.Merge(r.Root, patchMap)
		if err != nil {
			return &kbuilderrors.PatchFailedError{Target: r.ID.String(), Err: err}
		}
		r.Root = merged
		if id, err := resource.IdentityFromRoot(merged); err == nil && id != r.ID {
			if err := rm.Rename(r.ID, id.Name, id.Namespace); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyJSON(rm *resmap.ResourceMap, ops []interface{}, target *manifest.Target) error {
	if target == nil {
		return &kbuilderrors.PatchFailedError{Err: fmt.Errorf("JSON-Patch entry requires a target")}
	}
	targets, err := matchTarget(rm, target)
	if err != nil {
		return err
	}
	for _, r := range targets {
		before := r.ID
		if err := jsonpatch.Apply(r, ops); err != nil {
			return err
		}
		if r.ID != before {
			if err := rm.Rename(before, r.ID.Name, r.ID.Namespace); err != nil {
				return err
			}
		}
	}
	return nil
}
