// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase64EncodeShortStringNoWrap(t *testing.T) {
	got := Base64Encode([]byte("hello"))
	assert.Equal(t, "aGVsbG8=", got)
	assert.NotContains(t, got, "\n")
}

func TestBase64EncodeWrapsAtLineLength(t *testing.T) {
	input := strings.Repeat("x", 100)
	got := Base64Encode([]byte(input))
	lines := strings.Split(got, "\n")
	for i, line := range lines {
		if i < len(lines)-1 {
			assert.Len(t, line, base64LineLen)
		} else {
			assert.LessOrEqual(t, len(line), base64LineLen)
		}
	}
	assert.False(t, strings.HasSuffix(got, "\n"))
}

func TestStripQuotes(t *testing.T) {
	assert.Equal(t, "abc", stripQuotes(`"abc"`))
	assert.Equal(t, "abc", stripQuotes(`'abc'`))
	assert.Equal(t, `"abc`, stripQuotes(`"abc`))
	assert.Equal(t, "abc", stripQuotes("abc"))
}

func TestAssembleLiteralsConfigMap(t *testing.T) {
	data, binaryData, err := Assemble(t.TempDir(), Sources{Literals: []string{"key1=value1", `key2="quoted"`}}, EncodingConfigMap, "ConfigMapGenerator")
	require.NoError(t, err)
	assert.Equal(t, "value1", data["key1"])
	assert.Equal(t, "quoted", data["key2"])
	assert.Empty(t, binaryData)
}

func TestAssembleLiteralsSecretBase64Encodes(t *testing.T) {
	data, _, err := Assemble(t.TempDir(), Sources{Literals: []string{"password=hunter2"}}, EncodingSecret, "SecretGenerator")
	require.NoError(t, err)
	assert.Equal(t, Base64Encode([]byte("hunter2")), data["password"])
}

func TestAssembleDuplicateLiteralKeyFails(t *testing.T) {
	_, _, err := Assemble(t.TempDir(), Sources{Literals: []string{"key=a", "key=b"}}, EncodingConfigMap, "ConfigMapGenerator")
	assert.Error(t, err)
}

func TestAssembleFileDefaultsKeyToBasename(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.properties"), []byte("a=b\n"), 0o644))

	data, _, err := Assemble(dir, Sources{Files: []string{"app.properties"}}, EncodingConfigMap, "ConfigMapGenerator")
	require.NoError(t, err)
	assert.Equal(t, "a=b\n", data["app.properties"])
}

func TestAssembleFileExplicitKey(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.properties"), []byte("a=b\n"), 0o644))

	data, _, err := Assemble(dir, Sources{Files: []string{"config=app.properties"}}, EncodingConfigMap, "ConfigMapGenerator")
	require.NoError(t, err)
	assert.Equal(t, "a=b\n", data["config"])
}

func TestAssembleBinaryFileGoesToBinaryDataForConfigMap(t *testing.T) {
	dir := t.TempDir()
	binary := []byte{0x00, 0xff, 0xfe, 0x00, 0x01}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blob.bin"), binary, 0o644))

	data, binaryData, err := Assemble(dir, Sources{Files: []string{"blob.bin"}}, EncodingConfigMap, "ConfigMapGenerator")
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.Equal(t, Base64Encode(binary), binaryData["blob.bin"])
}

func TestAssembleEnvFileSkipsBlankAndCommentLines(t *testing.T) {
	dir := t.TempDir()
	content := "# a comment\nFOO=bar\n\nBAZ=qux\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o644))

	data, _, err := Assemble(dir, Sources{Envs: []string{".env"}}, EncodingConfigMap, "ConfigMapGenerator")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"FOO": "bar", "BAZ": "qux"}, data)
}
