// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kustomizer-sh/kbuild/pkg/manifest"
	"github.com/kustomizer-sh/kbuild/pkg/resource"
)

func TestLabelsWritesMetadataLabelsByDefault(t *testing.T) {
	rm := newMapWith(t, "apiVersion: apps/v1\nkind: Deployment\nmetadata:\n  name: web\n")
	require.NoError(t, Labels(rm, []manifest.LabelSpec{{Pairs: map[string]string{"team": "platform"}}}))

	r := rm.Resources()[0]
	v, ok := r.Labels(false).Get("team")
	require.True(t, ok)
	assert.Equal(t, "platform", v)
}

func TestLabelsIncludeTemplatesWritesPodTemplate(t *testing.T) {
	rm := newMapWith(t, `
apiVersion: apps/v1
kind: Deployment
metadata:
  name: web
spec:
  template:
    metadata: {}
`)
	require.NoError(t, Labels(rm, []manifest.LabelSpec{{
		Pairs:            map[string]string{"team": "platform"},
		IncludeTemplates: true,
	}}))

	r := rm.Resources()[0]
	specV, _ := r.Root.Get("spec")
	tplV, _ := specV.(*resource.Map).Get("template")
	mdV, _ := tplV.(*resource.Map).Get("metadata")
	labelsV, ok := mdV.(*resource.Map).Get("labels")
	require.True(t, ok)
	team, _ := labelsV.(*resource.Map).Get("team")
	assert.Equal(t, "platform", team)
}

func TestLabelsIncludeSelectorsWritesServiceSelector(t *testing.T) {
	rm := newMapWith(t, `
apiVersion: v1
kind: Service
metadata:
  name: web
spec:
  selector:
    app: web
`)
	require.NoError(t, Labels(rm, []manifest.LabelSpec{{
		Pairs:            map[string]string{"team": "platform"},
		IncludeSelectors: true,
	}}))

	r := rm.Resources()[0]
	specV, _ := r.Root.Get("spec")
	selV, _ := specV.(*resource.Map).Get("selector")
	team, _ := selV.(*resource.Map).Get("team")
	assert.Equal(t, "platform", team)
}

func TestLabelsCustomFieldSpec(t *testing.T) {
	rm := newMapWith(t, `
apiVersion: apps/v1
kind: Deployment
metadata:
  name: web
spec:
  extra: {}
`)
	require.NoError(t, Labels(rm, []manifest.LabelSpec{{
		Pairs: map[string]string{"team": "platform"},
		FieldSpecs: []manifest.FieldSpecEntry{
			{Path: "spec.extra", Create: true},
		},
	}}))

	r := rm.Resources()[0]
	specV, _ := r.Root.Get("spec")
	extraV, _ := specV.(*resource.Map).Get("extra")
	team, _ := extraV.(*resource.Map).Get("team")
	assert.Equal(t, "platform", team)
}

func TestLabelsEmptyGroupSkipped(t *testing.T) {
	rm := newMapWith(t, "apiVersion: apps/v1\nkind: Deployment\nmetadata:\n  name: web\n")
	require.NoError(t, Labels(rm, []manifest.LabelSpec{{}}))
	r := rm.Resources()[0]
	assert.Nil(t, r.Labels(false))
}

func TestAnnotationsWritesCommonAnnotations(t *testing.T) {
	rm := newMapWith(t, `
apiVersion: apps/v1
kind: Deployment
metadata:
  name: web
spec:
  template:
    metadata: {}
`)
	require.NoError(t, Annotations(rm, map[string]string{"owner": "team-x"}))

	r := rm.Resources()[0]
	v, ok := r.Annotations(false).Get("owner")
	require.True(t, ok)
	assert.Equal(t, "team-x", v)

	specV, _ := r.Root.Get("spec")
	tplV, _ := specV.(*resource.Map).Get("template")
	mdV, _ := tplV.(*resource.Map).Get("metadata")
	annV, ok := mdV.(*resource.Map).Get("annotations")
	require.True(t, ok)
	owner, _ := annV.(*resource.Map).Get("owner")
	assert.Equal(t, "team-x", owner)
}
