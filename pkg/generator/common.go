// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kustomizer-sh/kbuild/pkg/kbuilderrors"
	"github.com/kustomizer-sh/kbuild/pkg/resource"
)

// Encoding selects how file/literal/env bytes land in the resource:
// ConfigMap keeps UTF-8 text in `data` and falls back to base64 in
// `binaryData`; Secret always base64-encodes into `data` (spec.md §4.F).
type Encoding int

const (
	EncodingConfigMap Encoding = iota
	EncodingSecret
)

// base64LineLen is the reference implementation's wrap width (spec.md
// §4.F, "Base64 encoding must match the reference exactly").
const base64LineLen = 70

// Base64Encode standard-base64-encodes s with '=' padding and wraps to
// base64LineLen-character lines, matching kustomize's own ConfigMap/
// Secret generator output byte-for-byte (spec.md §4.F).
func Base64Encode(s []byte) string {
	encoded := base64.StdEncoding.EncodeToString(s)
	if len(encoded) <= base64LineLen {
		return encoded
	}
	var b strings.Builder
	for i := 0; i < len(encoded); i += base64LineLen {
		end := i + base64LineLen
		if end > len(encoded) {
			end = len(encoded)
		}
		b.WriteString(encoded[i:end])
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// stripQuotes removes a single matching pair of surrounding ' or "
// quotes from a literal's value (spec.md §4.F, "literals[]").
func stripQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first != last {
		return s
	}
	if first == '\'' || first == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// Sources is the literal/file/env input for one ConfigMap/Secret
// generator entry (spec.md §3 "Manifest", §4.F).
type Sources struct {
	Literals []string
	Files    []string
	Envs     []string
}

// Assemble builds the (data, binaryData) object pair for one generator
// entry, resolving file/env paths relative to workdir. A key repeated
// across any source (or between data/binaryData) is DuplicateKeyError
// (spec.md §4.F).
func Assemble(workdir string, sources Sources, encoding Encoding, generatorKind string) (data, binaryData map[string]string, err error) {
	data = map[string]string{}
	binaryData = map[string]string{}

	put := func(key string, toBinary bool, value string) error {
		target := data
		if toBinary {
			target = binaryData
		}
		other := binaryData
		if toBinary {
			other = data
		}
		if _, exists := target[key]; exists {
			return &kbuilderrors.DuplicateKeyError{Generator: generatorKind, Key: key}
		}
		if _, exists := other[key]; exists {
			return &kbuilderrors.DuplicateKeyError{Generator: generatorKind, Key: key}
		}
		target[key] = value
		return nil
	}

	for _, lit := range sources.Literals {
		key, value, ok := splitKV(lit)
		if !ok {
			return nil, nil, fmt.Errorf("literal %q is not in key=value form", lit)
		}
		value = stripQuotes(value)
		if encoding == EncodingSecret {
			value = Base64Encode([]byte(value))
		}
		if err := put(key, false, value); err != nil {
			return nil, nil, err
		}
	}

	for _, f := range sources.Files {
		key, relPath := f, f
		if idx := strings.Index(f, "="); idx >= 0 {
			key, relPath = f[:idx], f[idx+1:]
		} else {
			key = filepath.Base(f)
		}
		content, readErr := os.ReadFile(filepath.Join(workdir, relPath))
		if readErr != nil {
			return nil, nil, &kbuilderrors.IOError{Path: relPath, Err: readErr}
		}

		switch encoding {
		case EncodingConfigMap:
			if utf8.Valid(content) {
				if err := put(key, false, string(content)); err != nil {
					return nil, nil, err
				}
			} else {
				if err := put(key, true, Base64Encode(content)); err != nil {
					return nil, nil, err
				}
			}
		case EncodingSecret:
			if err := put(key, false, Base64Encode(content)); err != nil {
				return nil, nil, err
			}
		}
	}

	for _, e := range sources.Envs {
		content, readErr := os.ReadFile(filepath.Join(workdir, e))
		if readErr != nil {
			return nil, nil, &kbuilderrors.IOError{Path: e, Err: readErr}
		}
		scanner := bufio.NewScanner(strings.NewReader(string(content)))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			key, value, ok := splitKV(line)
			if !ok {
				key, value = line, ""
			}
			if encoding == EncodingSecret {
				value = Base64Encode([]byte(value))
			}
			if err := put(key, false, value); err != nil {
				return nil, nil, err
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, nil, &kbuilderrors.IOError{Path: e, Err: err}
		}
	}

	return data, binaryData, nil
}

// splitKV splits "k=v" on the first '=', reporting ok=false when there
// is no '=' at all (an envs[] line with no '=' still parses, with an
// empty value; a literal without '=' is a format error -- callers
// distinguish by how they use ok).
func splitKV(s string) (key, value string, ok bool) {
	idx := strings.Index(s, "=")
	if idx < 0 {
		return s, "", false
	}
	return s[:idx], s[idx+1:], true
}

// PutGeneratedData writes data/binaryData onto root, each as a sorted
// *resource.Map (so hashing and emission see a deterministic key order),
// omitting empty maps entirely.
func PutGeneratedData(root *resource.Map, data, binaryData map[string]string) {
	if len(data) > 0 {
		root.Set("data", stringMapToResourceMap(data))
	}
	if len(binaryData) > 0 {
		root.Set("binaryData", stringMapToResourceMap(binaryData))
	}
}

func stringMapToResourceMap(m map[string]string) *resource.Map {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := resource.NewMap()
	for _, k := range keys {
		out.Set(k, m[k])
	}
	return out
}
