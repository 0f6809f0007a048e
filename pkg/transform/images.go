// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"strings"

	"github.com/kustomizer-sh/kbuild/pkg/fieldspec"
	"github.com/kustomizer-sh/kbuild/pkg/manifest"
	"github.com/kustomizer-sh/kbuild/pkg/resmap"
)

// Images rewrites every container image reference matching an
// images[] entry's Name to NewName:NewTag (or @Digest), across every
// built-in container-image field-spec path (spec.md §4.H).
func Images(rm *resmap.ResourceMap, specs []manifest.ImageSpec) error {
	if len(specs) == 0 {
		return nil
	}
	byName := make(map[string]manifest.ImageSpec, len(specs))
	for _, s := range specs {
		byName[s.Name] = s
	}

	for _, fs := range fieldspec.Images {
		for _, r := range rm.Resources() {
			fieldspec.Apply(fs, r.Kind(), r.Root, func(v interface{}) (interface{}, bool) {
				cur, ok := v.(string)
				if !ok {
					return nil, false
				}
				name, _, _ := splitImageRef(cur)
				spec, ok := byName[name]
				if !ok {
					return nil, false
				}
				return renderImage(spec), true
			})
		}
	}
	return nil
}

// splitImageRef splits "name[:tag][@digest]" into its parts. A digest
// reference (name@sha256:...) has no tag; name itself never contains
// '@', and may contain ':' only as part of a registry port, which this
// split treats conservatively by only matching the last path segment.
func splitImageRef(ref string) (name, tag, digest string) {
	name = ref
	if idx := strings.Index(name, "@"); idx >= 0 {
		name, digest = name[:idx], name[idx+1:]
	}
	if idx := strings.LastIndex(name, ":"); idx >= 0 && !strings.Contains(name[idx:], "/") {
		name, tag = name[:idx], name[idx+1:]
	}
	return name, tag, digest
}

func renderImage(spec manifest.ImageSpec) string {
	name := spec.Name
	if spec.NewName != "" {
		name = spec.NewName
	}
	switch {
	case spec.Digest != "":
		return name + "@" + spec.Digest
	case spec.NewTag != "":
		return name + ":" + spec.NewTag
	default:
		return name
	}
}
