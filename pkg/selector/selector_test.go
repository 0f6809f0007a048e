// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndMatch(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		labels map[string]string
		want   bool
	}{
		{name: "equality match", expr: "app=web", labels: map[string]string{"app": "web"}, want: true},
		{name: "equality mismatch", expr: "app=web", labels: map[string]string{"app": "api"}, want: false},
		{name: "double-equals match", expr: "app==web", labels: map[string]string{"app": "web"}, want: true},
		{name: "inequality match", expr: "app!=web", labels: map[string]string{"app": "api"}, want: true},
		{name: "inequality absent key matches", expr: "app!=web", labels: map[string]string{}, want: true},
		{name: "existence present", expr: "app", labels: map[string]string{"app": "web"}, want: true},
		{name: "existence absent", expr: "app", labels: map[string]string{}, want: false},
		{name: "set inclusion match", expr: "tier in (frontend,backend)", labels: map[string]string{"tier": "backend"}, want: true},
		{name: "set inclusion mismatch", expr: "tier in (frontend,backend)", labels: map[string]string{"tier": "cache"}, want: false},
		{name: "set exclusion match", expr: "tier notin (frontend,backend)", labels: map[string]string{"tier": "cache"}, want: true},
		{name: "set exclusion absent matches", expr: "tier notin (frontend,backend)", labels: map[string]string{}, want: true},
		{
			name: "conjunction of set inclusion and equality, commas inside parens preserved",
			expr: "tier in (frontend,backend),app=web",
			labels: map[string]string{
				"tier": "backend",
				"app":  "web",
			},
			want: true,
		},
		{
			name: "conjunction fails when one term fails",
			expr: "tier in (frontend,backend),app=web",
			labels: map[string]string{
				"tier": "backend",
				"app":  "api",
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Parse(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel.Matches(tt.labels))
		})
	}
}

func TestParseSplitsTermsAtTopLevelOnly(t *testing.T) {
	sel, err := Parse("tier in (a,b,c)")
	require.NoError(t, err)
	require.Len(t, sel.Terms, 1)
	assert.Equal(t, []string{"a", "b", "c"}, sel.Terms[0].Values)
}

func TestMatchesNilMapAgainstEmptySelector(t *testing.T) {
	sel, err := Parse("")
	require.NoError(t, err)
	assert.True(t, sel.Matches(nil))
}

func TestMatchesNilMapAgainstNonEmptySelector(t *testing.T) {
	sel, err := Parse("app=web")
	require.NoError(t, err)
	assert.False(t, sel.Matches(nil))
}

func TestParseMalformedSetExpression(t *testing.T) {
	_, err := Parse("tier in frontend,backend)")
	assert.Error(t, err)
}
