// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kustomizer-sh/kbuild/pkg/manifest"
	"github.com/kustomizer-sh/kbuild/pkg/resource"
)

func mustResource(t *testing.T, apiVersion, kind, name string) *resource.Resource {
	t.Helper()
	root := resource.NewMap()
	root.Set("apiVersion", apiVersion)
	root.Set("kind", kind)
	md := resource.NewMap()
	md.Set("name", name)
	root.Set("metadata", md)
	r, err := resource.New(root)
	require.NoError(t, err)
	return r
}

func TestGenerateConfigMapMarksHashSuffixByDefault(t *testing.T) {
	r, err := GenerateConfigMap(t.TempDir(), manifest.GeneratorSpec{
		Name:     "app-config",
		Literals: []string{"key=value"},
	}, manifest.GeneratorOptions{})
	require.NoError(t, err)

	assert.Equal(t, "ConfigMap", r.Kind())
	assert.True(t, r.NeedsHashSuffix())
	dataV, ok := r.Root.Get("data")
	require.True(t, ok)
	v, _ := dataV.(*resource.Map).Get("key")
	assert.Equal(t, "value", v)
}

func TestGenerateConfigMapDisableHashSuffixViaLocalOptions(t *testing.T) {
	disable := true
	r, err := GenerateConfigMap(t.TempDir(), manifest.GeneratorSpec{
		Name:     "app-config",
		Literals: []string{"key=value"},
		Options:  manifest.GeneratorOptions{DisableNameSuffixHash: &disable},
	}, manifest.GeneratorOptions{})
	require.NoError(t, err)
	assert.False(t, r.NeedsHashSuffix())
}

func TestGenerateConfigMapGlobalOptionsFillGapsLocalWins(t *testing.T) {
	global := manifest.GeneratorOptions{
		Labels:      map[string]string{"team": "platform", "app": "global"},
		Annotations: map[string]string{"note": "global"},
		Immutable:   true,
	}
	local := manifest.GeneratorOptions{
		Labels: map[string]string{"app": "local"},
	}
	r, err := GenerateConfigMap(t.TempDir(), manifest.GeneratorSpec{
		Name:     "app-config",
		Literals: []string{"key=value"},
		Options:  local,
	}, global)
	require.NoError(t, err)

	labels := r.Labels(false)
	require.NotNil(t, labels)
	app, _ := labels.Get("app")
	team, _ := labels.Get("team")
	assert.Equal(t, "local", app)
	assert.Equal(t, "platform", team)

	immutable, _ := r.Root.Get("immutable")
	assert.Equal(t, true, immutable)
}

func TestGenerateConfigMapBehaviorAnnotation(t *testing.T) {
	r, err := GenerateConfigMap(t.TempDir(), manifest.GeneratorSpec{
		Name:     "app-config",
		Behavior: "merge",
		Literals: []string{"key=value"},
	}, manifest.GeneratorOptions{})
	require.NoError(t, err)
	behavior, ok := r.GetAnnotation(resource.AnnotationBehavior)
	require.True(t, ok)
	assert.Equal(t, "merge", behavior)
}

func TestGenerateSecretDefaultsTypeToOpaque(t *testing.T) {
	r, err := GenerateSecret(t.TempDir(), manifest.GeneratorSpec{
		Name:     "app-secret",
		Literals: []string{"password=hunter2"},
	}, manifest.GeneratorOptions{})
	require.NoError(t, err)

	typ, _ := r.Root.Get("type")
	assert.Equal(t, "Opaque", typ)
	dataV, _ := r.Root.Get("data")
	v, _ := dataV.(*resource.Map).Get("password")
	assert.Equal(t, Base64Encode([]byte("hunter2")), v)
}

func TestGenerateSecretExplicitType(t *testing.T) {
	r, err := GenerateSecret(t.TempDir(), manifest.GeneratorSpec{
		Name: "tls-secret",
		Type: "kubernetes.io/tls",
	}, manifest.GeneratorOptions{})
	require.NoError(t, err)
	typ, _ := r.Root.Get("type")
	assert.Equal(t, "kubernetes.io/tls", typ)
}

func TestGenerateConfigMapNamespacedName(t *testing.T) {
	r, err := GenerateConfigMap(t.TempDir(), manifest.GeneratorSpec{
		Name:      "app-config",
		Namespace: "prod",
		Literals:  []string{"key=value"},
	}, manifest.GeneratorOptions{})
	require.NoError(t, err)
	assert.Equal(t, "prod", r.ID.Namespace)
}
