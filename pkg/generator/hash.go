// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0
//
// Package generator produces ConfigMap/Secret resources from
// literal/file/env key-value sources (spec.md §4.F), ported from
// original_source/kustomizer/src/generator/{common,configmap,secret}.rs
// and the name-suffix hash in
// original_source/kustomizer/src/resource/shorthash.rs.
package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/kustomizer-sh/kbuild/pkg/resource"
)

// hashEncodeTable is the digit substitution applied to the first 10 hex
// characters of the SHA-256 digest (spec.md §4.F step 3), copied
// verbatim from the upstream Kubernetes hash utility the reference
// implementation itself copies from.
var hashEncodeTable = map[byte]byte{
	'0': 'g',
	'1': 'h',
	'3': 'k',
	'a': 'm',
	'e': 't',
}

// encodeHex substitutes the first 10 hex characters per hashEncodeTable.
func encodeHex(hexStr string) string {
	if len(hexStr) > 10 {
		hexStr = hexStr[:10]
	}
	out := make([]byte, len(hexStr))
	for i := 0; i < len(hexStr); i++ {
		c := hexStr[i]
		if sub, ok := hashEncodeTable[c]; ok {
			c = sub
		}
		out[i] = c
	}
	return string(out)
}

// NameSuffixHash computes the 10-character name-suffix hash for a
// ConfigMap or Secret (spec.md §4.F, "Name-suffix hash"). The hash
// document is a plain map[string]interface{}, marshaled with
// encoding/json the same way the upstream kubectl/kustomize hash
// utilities do: keys land in lexicographic order because that is what
// json.Marshal does for any map[string]... value, data values keep
// their native JSON type (a YAML int stays a JSON number, not a quoted
// string), and binaryData/stringData are only present on the document
// when their source map is non-empty.
func NameSuffixHash(r *resource.Resource) (string, error) {
	switch r.Kind() {
	case "ConfigMap":
		data, err := genericMapField(r.Root, "data")
		if err != nil {
			return "", err
		}
		binaryData, err := genericMapField(r.Root, "binaryData")
		if err != nil {
			return "", err
		}
		doc := map[string]interface{}{
			"kind": "ConfigMap",
			"name": r.ID.Name,
			"data": data,
		}
		if len(binaryData) > 0 {
			doc["binaryData"] = binaryData
		}
		return hashDoc(doc)
	case "Secret":
		data, err := genericMapField(r.Root, "data")
		if err != nil {
			return "", err
		}
		stringData, err := genericMapField(r.Root, "stringData")
		if err != nil {
			return "", err
		}
		typ, _ := r.Root.Get("type")
		typStr, _ := typ.(string)
		doc := map[string]interface{}{
			"kind": "Secret",
			"name": r.ID.Name,
			"type": typStr,
			"data": data,
		}
		if len(stringData) > 0 {
			doc["stringData"] = stringData
		}
		return hashDoc(doc)
	default:
		return "", fmt.Errorf("name-suffix hash is not implemented for kind %s", r.Kind())
	}
}

func hashDoc(doc map[string]interface{}) (string, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return encodeHex(hex.EncodeToString(sum[:])), nil
}

// genericMapField reads a *resource.Map field, returning its entries as
// a plain map[string]interface{} with scalar values left in their
// native type. A field that is entirely absent from the document
// returns a nil map; callers that always include the field (like
// "data") get `null` for free from json.Marshal, and callers that
// conditionally include it (like "binaryData") can test len() == 0.
func genericMapField(root *resource.Map, key string) (map[string]interface{}, error) {
	v, ok := root.Get(key)
	if !ok {
		return nil, nil
	}
	m, ok := v.(*resource.Map)
	if !ok {
		return nil, fmt.Errorf("%s is not an object", key)
	}
	out := make(map[string]interface{}, m.Len())
	for _, k := range m.Keys() {
		val, _ := m.Get(k)
		out[k] = val
	}
	return out, nil
}
