// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kustomizer-sh/kbuild/pkg/resource"
)

func TestDecodeOnePreservesKeyOrder(t *testing.T) {
	v, err := DecodeOne("<test>", []byte("zeta: 1\nalpha: 2\nmid: 3\n"))
	require.NoError(t, err)
	m, ok := v.(*resource.Map)
	require.True(t, ok)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, m.Keys())
}

func TestDecodeOneNestedMapsAndSequences(t *testing.T) {
	v, err := DecodeOne("<test>", []byte(`
metadata:
  name: web
list:
- a
- b
`))
	require.NoError(t, err)
	m := v.(*resource.Map)
	mdV, ok := m.Get("metadata")
	require.True(t, ok)
	name, _ := mdV.(*resource.Map).Get("name")
	assert.Equal(t, "web", name)

	listV, _ := m.Get("list")
	assert.Equal(t, []interface{}{"a", "b"}, listV)
}

func TestDecodeAllSplitsDocumentsAndSkipsEmpty(t *testing.T) {
	docs, err := DecodeAll("<test>", []byte("a: 1\n---\n---\nb: 2\n"))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	v1, _ := docs[0].(*resource.Map).Get("a")
	require.EqualValues(t, 1, v1)
	v2, _ := docs[1].(*resource.Map).Get("b")
	require.EqualValues(t, 2, v2)
}

func TestDecodeOneInvalidYAMLReturnsParseError(t *testing.T) {
	_, err := DecodeOne("bad.yaml", []byte("key: [unterminated\n"))
	assert.Error(t, err)
}

func TestEncodeStreamRoundTripsKeyOrder(t *testing.T) {
	v, err := DecodeOne("<test>", []byte("zeta: 1\nalpha: 2\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeStream(&buf, []interface{}{v}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var keys []string
	for _, l := range lines {
		if strings.HasPrefix(l, "---") {
			continue
		}
		keys = append(keys, strings.SplitN(l, ":", 2)[0])
	}
	assert.Equal(t, []string{"zeta", "alpha"}, keys)
}

func TestEncodeStreamEmitsMultipleDocumentsSeparated(t *testing.T) {
	v1, err := DecodeOne("<test>", []byte("a: 1\n"))
	require.NoError(t, err)
	v2, err := DecodeOne("<test>", []byte("b: 2\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeStream(&buf, []interface{}{v1, v2}))
	assert.Equal(t, 1, strings.Count(buf.String(), "---"))
}

func TestEncodeStreamUsesLiteralStyleForMultilineStrings(t *testing.T) {
	m := resource.NewMap()
	m.Set("body", "line one\nline two\n")

	var buf bytes.Buffer
	require.NoError(t, EncodeStream(&buf, []interface{}{m}))
	assert.Contains(t, buf.String(), "|")
}
