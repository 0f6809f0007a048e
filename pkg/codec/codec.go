// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0
//
// Package codec converts between YAML documents and the order-preserving
// generic value tree (*resource.Map / []interface{} / scalar) used
// everywhere else in the engine (spec.md §9 "YAML/JSON duality"). Parsing
// goes through gopkg.in/yaml.v3, which is the only library in the
// retrieval pack that preserves mapping key order via yaml.Node; strict
// descriptor decoding instead goes through sigs.k8s.io/yaml so unknown
// fields are rejected the same way upstream kustomize rejects them.
package codec

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/kustomizer-sh/kbuild/pkg/kbuilderrors"
	"github.com/kustomizer-sh/kbuild/pkg/resource"
)

// DecodeAll splits a YAML document stream into generic value trees, one
// per `---`-separated document. Empty documents (a bare separator, or
// trailing whitespace) are skipped.
func DecodeAll(path string, data []byte) ([]interface{}, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []interface{}
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &kbuilderrors.ParseError{Path: path, Err: err}
		}
		if len(node.Content) == 0 {
			continue
		}
		v, err := fromNode(node.Content[0])
		if err != nil {
			return nil, &kbuilderrors.ParseError{Path: path, Err: err}
		}
		if v == nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// DecodeOne decodes a single-document YAML byte slice into a generic
// value tree.
func DecodeOne(path string, data []byte) (interface{}, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, &kbuilderrors.ParseError{Path: path, Err: err}
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	v, err := fromNode(node.Content[0])
	if err != nil {
		return nil, &kbuilderrors.ParseError{Path: path, Err: err}
	}
	return v, nil
}

// fromNode walks a parsed yaml.Node tree into the generic value
// representation, preserving mapping key order in a *resource.Map.
func fromNode(n *yaml.Node) (interface{}, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromNode(n.Content[0])
	case yaml.MappingNode:
		m := resource.NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, err := fromNode(n.Content[i])
			if err != nil {
				return nil, err
			}
			ks, ok := key.(string)
			if !ok {
				ks = fmt.Sprintf("%v", key)
			}
			val, err := fromNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(ks, val)
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]interface{}, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		var v interface{}
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	case yaml.AliasNode:
		return fromNode(n.Alias)
	default:
		return nil, fmt.Errorf("unsupported yaml node kind %v", n.Kind)
	}
}

// toNode is the inverse of fromNode, used by the emitter.
func toNode(v interface{}) (*yaml.Node, error) {
	switch t := v.(type) {
	case *resource.Map:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range t.Keys() {
			keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
			val, _ := t.Get(k)
			valNode, err := toNode(val)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, keyNode, valNode)
		}
		return n, nil
	case []interface{}:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range t {
			en, err := toNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, en)
		}
		return n, nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		preferBlockScalar(n)
		return n, nil
	}
}

// preferBlockScalar switches long or multi-line string scalars to
// literal block style, matching the output format spec.md §6 calls for.
func preferBlockScalar(n *yaml.Node) {
	if n.Kind != yaml.ScalarNode || n.Tag != "!!str" {
		return
	}
	if len(n.Value) > 80 || bytes.ContainsRune([]byte(n.Value), '\n') {
		n.Style = yaml.LiteralStyle
	}
}

// EncodeStream renders values as a `---`-separated YAML document stream
// with a 2-space indent step, matching spec.md §6's output format.
func EncodeStream(w io.Writer, values []interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, v := range values {
		n, err := toNode(v)
		if err != nil {
			return err
		}
		doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{n}}
		if err := enc.Encode(doc); err != nil {
			return err
		}
	}
	return enc.Close()
}
