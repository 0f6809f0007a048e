// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"github.com/kustomizer-sh/kbuild/pkg/fieldspec"
	"github.com/kustomizer-sh/kbuild/pkg/manifest"
	"github.com/kustomizer-sh/kbuild/pkg/resmap"
	"github.com/kustomizer-sh/kbuild/pkg/resource"
)

// Labels applies each labels[] group to the built-in label field-spec
// tables, widened by includeTemplates/includeSelectors and any
// user-supplied fieldSpecs (spec.md §4.H).
func Labels(rm *resmap.ResourceMap, groups []manifest.LabelSpec) error {
	for _, group := range groups {
		if len(group.Pairs) == 0 {
			continue
		}
		specs := append([]fieldspec.FieldSpec{}, fieldspec.MetadataLabels...)
		if group.IncludeTemplates {
			specs = append(specs, fieldspec.TemplateLabels...)
		}
		if group.IncludeSelectors {
			specs = append(specs, fieldspec.SelectorLabels...)
			specs = append(specs, fieldspec.OtherLabels...)
		}
		for _, fs := range group.FieldSpecs {
			specs = append(specs, fieldspec.FieldSpec{Kind: fs.Kind, Path: fieldspec.ParsePath(fs.Path), Create: fs.Create})
		}
		applyKeyValues(rm, specs, group.Pairs)
	}
	return nil
}

// Annotations applies commonAnnotations to the built-in annotation
// field-spec table (spec.md §4.H).
func Annotations(rm *resmap.ResourceMap, annotations map[string]string) error {
	if len(annotations) == 0 {
		return nil
	}
	applyKeyValues(rm, fieldspec.CommonAnnotations, annotations)
	return nil
}

// applyKeyValues writes pairs into the *resource.Map at each field-spec
// path, creating missing containers per-spec and merging into whatever
// map is already there.
func applyKeyValues(rm *resmap.ResourceMap, specs []fieldspec.FieldSpec, pairs map[string]string) {
	for _, spec := range specs {
		for _, r := range rm.Resources() {
			fieldspec.Apply(spec, r.Kind(), r.Root, func(v interface{}) (interface{}, bool) {
				m, ok := v.(*resource.Map)
				if !ok {
					m = resource.NewMap()
				}
				for k, val := range pairs {
					m.Set(k, val)
				}
				return m, true
			})
		}
	}
}
