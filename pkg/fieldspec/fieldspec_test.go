// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package fieldspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kustomizer-sh/kbuild/pkg/resource"
)

func TestParsePath(t *testing.T) {
	path := ParsePath("spec.template.spec.containers[].image")
	require.Len(t, path, 4)
	assert.Equal(t, Segment{Name: "spec"}, path[0])
	assert.Equal(t, Segment{Name: "template"}, path[1])
	assert.Equal(t, Segment{Name: "spec"}, path[2])
	assert.Equal(t, Segment{Name: "containers", IsArray: true}, path[3])
}

func TestParsePathDropsEmptySegments(t *testing.T) {
	path := ParsePath("metadata..name")
	require.Len(t, path, 2)
	assert.Equal(t, "metadata", path[0].Name)
	assert.Equal(t, "name", path[1].Name)
}

func TestApplyFieldDescendWithoutCreate(t *testing.T) {
	root := resource.NewMap()
	md := resource.NewMap()
	md.Set("name", "web")
	root.Set("metadata", md)

	spec := FieldSpec{Path: ParsePath("metadata.name")}
	var seen interface{}
	Apply(spec, "Deployment", root, func(v interface{}) (interface{}, bool) {
		seen = v
		return "web-2", true
	})

	assert.Equal(t, "web", seen)
	name, _ := md.Get("name")
	assert.Equal(t, "web-2", name)
}

func TestApplyFieldMissingWithoutCreateSkipsVisit(t *testing.T) {
	root := resource.NewMap()
	called := false
	Apply(FieldSpec{Path: ParsePath("metadata.labels")}, "Deployment", root, func(v interface{}) (interface{}, bool) {
		called = true
		return v, true
	})
	assert.False(t, called)
	assert.False(t, root.Has("metadata"))
}

func TestApplyFieldMissingWithCreateInvokesVisitAndWrites(t *testing.T) {
	root := resource.NewMap()
	Apply(FieldSpec{Path: ParsePath("metadata.annotations"), Create: true}, "Deployment", root, func(v interface{}) (interface{}, bool) {
		assert.Nil(t, v)
		nv := resource.NewMap()
		nv.Set("k", "v")
		return nv, true
	})
	md, ok := root.Get("metadata")
	require.True(t, ok)
	ann, ok := md.(*resource.Map).Get("annotations")
	require.True(t, ok)
	v, _ := ann.(*resource.Map).Get("k")
	assert.Equal(t, "v", v)
}

func TestApplyArraySegmentDescendsEachElementWithoutCreatingArray(t *testing.T) {
	root := resource.NewMap()
	spec := resource.NewMap()
	c1 := resource.NewMap()
	c1.Set("name", "app")
	c1.Set("image", "app:v1")
	c2 := resource.NewMap()
	c2.Set("name", "sidecar")
	c2.Set("image", "sidecar:v1")
	spec.Set("containers", []interface{}{c1, c2})
	root.Set("spec", spec)

	var images []string
	Apply(FieldSpec{Path: ParsePath("spec.containers[].image")}, "Pod", root, func(v interface{}) (interface{}, bool) {
		images = append(images, v.(string))
		return v.(string) + "-new", true
	})

	assert.Equal(t, []string{"app:v1", "sidecar:v1"}, images)
	i1, _ := c1.Get("image")
	assert.Equal(t, "app:v1-new", i1)
}

func TestApplyArraySegmentMissingArrayDoesNotCreateIt(t *testing.T) {
	root := resource.NewMap()
	spec := resource.NewMap()
	root.Set("spec", spec)

	Apply(FieldSpec{Path: ParsePath("spec.containers[].image"), Create: true}, "Pod", root, func(v interface{}) (interface{}, bool) {
		t.Fatal("visit should not be called when the array field itself is absent")
		return v, true
	})
	assert.False(t, spec.Has("containers"))
}

func TestApplyKindFilterSkipsNonMatchingKind(t *testing.T) {
	root := resource.NewMap()
	md := resource.NewMap()
	md.Set("name", "web")
	root.Set("metadata", md)

	called := false
	Apply(FieldSpec{Kind: "Service", Path: ParsePath("metadata.name")}, "Deployment", root, func(v interface{}) (interface{}, bool) {
		called = true
		return v, true
	})
	assert.False(t, called)
}

func TestApplyVisitDecliningLeavesFieldUntouched(t *testing.T) {
	root := resource.NewMap()
	md := resource.NewMap()
	md.Set("name", "web")
	root.Set("metadata", md)

	Apply(FieldSpec{Path: ParsePath("metadata.name")}, "Deployment", root, func(v interface{}) (interface{}, bool) {
		return nil, false
	})
	name, _ := md.Get("name")
	assert.Equal(t, "web", name)
}
