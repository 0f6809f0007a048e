// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"github.com/kustomizer-sh/kbuild/pkg/manifest"
	"github.com/kustomizer-sh/kbuild/pkg/resmap"
)

// Run applies the fixed transformer pipeline to rm in the order spec.md
// §4.E step 5 mandates. workdir is the manifest descriptor's directory,
// used to resolve OutOfLine patch paths.
func Run(rm *resmap.ResourceMap, workdir string, m *manifest.Manifest) error {
	if m.Namespace != "" {
		if err := Namespace(rm, m.Namespace); err != nil {
			return err
		}
	}
	if err := NamePrefixSuffix(rm, m.NamePrefix, m.NameSuffix); err != nil {
		return err
	}
	if err := Labels(rm, m.Labels); err != nil {
		return err
	}
	if err := Annotations(rm, m.CommonAnnotations); err != nil {
		return err
	}
	if err := Replicas(rm, m.Replicas); err != nil {
		return err
	}
	if err := Images(rm, m.Images); err != nil {
		return err
	}
	if err := Patches(rm, workdir, m.Patches); err != nil {
		return err
	}
	if err := ReferenceRewrite(rm); err != nil {
		return err
	}
	if err := HashSuffix(rm); err != nil {
		return err
	}
	Cleanup(rm)
	return nil
}
