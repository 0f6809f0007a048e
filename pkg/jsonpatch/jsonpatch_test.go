// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package jsonpatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kustomizer-sh/kbuild/pkg/codec"
	"github.com/kustomizer-sh/kbuild/pkg/resource"
)

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

func ops(t *testing.T, doc string) []interface{} {
	t.Helper()
	v, err := codec.DecodeOne("<test>", []byte(doc))
	require.NoError(t, err)
	arr, ok := v.([]interface{})
	require.True(t, ok)
	return arr
}

func TestApplyReplaceOperation(t *testing.T) {
	r := buildResource(t, "apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: cfg\ndata:\n  key: old\n")
	patch := ops(t, `
- op: replace
  path: /data/key
  value: new
`)
	require.NoError(t, Apply(r, patch))
	dataV, _ := r.Root.Get("data")
	v, _ := dataV.(*resource.Map).Get("key")
	assert.Equal(t, "new", v)
}

func TestApplyAddOperation(t *testing.T) {
	r := buildResource(t, "apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: cfg\ndata:\n  key: old\n")
	patch := ops(t, `
- op: add
  path: /data/extra
  value: added
`)
	require.NoError(t, Apply(r, patch))
	dataV, _ := r.Root.Get("data")
	v, _ := dataV.(*resource.Map).Get("extra")
	assert.Equal(t, "added", v)
}

func TestApplyRemoveOperation(t *testing.T) {
	r := buildResource(t, "apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: cfg\n  labels:\n    drop: me\n")
	patch := ops(t, `
- op: remove
  path: /metadata/labels/drop
`)
	require.NoError(t, Apply(r, patch))
	assert.False(t, r.Labels(false).Has("drop"))
}

func TestApplyRecomputesIdentityOnNameChange(t *testing.T) {
	r := buildResource(t, "apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: old-name\n")
	patch := ops(t, `
- op: replace
  path: /metadata/name
  value: new-name
`)
	require.NoError(t, Apply(r, patch))
	assert.Equal(t, "new-name", r.ID.Name)
}

func TestApplyTestOperationFailureReturnsPatchFailedError(t *testing.T) {
	r := buildResource(t, "apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: cfg\ndata:\n  key: old\n")
	patch := ops(t, `
- op: test
  path: /data/key
  value: not-the-actual-value
- op: replace
  path: /data/key
  value: new
`)
	err := Apply(r, patch)
	assert.Error(t, err)
}

func TestApplyInvalidPathReturnsPatchFailedError(t *testing.T) {
	r := buildResource(t, "apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: cfg\n")
	patch := ops(t, `
- op: remove
  path: /does/not/exist
`)
	assert.Error(t, Apply(r, patch))
}
