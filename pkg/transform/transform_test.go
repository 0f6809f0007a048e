// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kustomizer-sh/kbuild/pkg/codec"
	"github.com/kustomizer-sh/kbuild/pkg/resmap"
	"github.com/kustomizer-sh/kbuild/pkg/resource"
)

// buildResource decodes doc into a *resource.Resource, used across this
// package's tests to build fixtures with the real YAML codec so nested
// maps come out as *resource.Map, matching what the build orchestrator
// actually hands the pipeline.
func buildResource(t *testing.T, doc string) *resource.Resource {
	t.Helper()
	v, err := codec.DecodeOne("<test>", []byte(doc))
	require.NoError(t, err)
	root, ok := v.(*resource.Map)
	require.True(t, ok)
	r, err := resource.New(root)
	require.NoError(t, err)
	return r
}

func newMapWith(t *testing.T, docs ...string) *resmap.ResourceMap {
	t.Helper()
	m := resmap.New()
	for _, d := range docs {
		require.NoError(t, m.Insert(buildResource(t, d)))
	}
	return m
}
