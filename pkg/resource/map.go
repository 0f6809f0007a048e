// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package resource

// Map is an order-preserving string-keyed map, the JSON-like object node
// of a Resource's tree (spec.md §3, §9 "YAML/JSON duality"). Its
// counterparts are []interface{} for arrays and bare Go scalars
// (string, bool, int, int64, float64, nil) for everything else.
//
// No ordered-map library appears anywhere in the retrieval pack, so this
// is a small hand-rolled type rather than an import (see DESIGN.md).
type Map struct {
	keys   []string
	values map[string]interface{}
}

// NewMap returns an empty, ready-to-use Map.
func NewMap() *Map {
	return &Map{values: map[string]interface{}{}}
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order. The returned slice must not
// be mutated by the caller.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Get returns the value for key and whether it was present.
func (m *Map) Get(key string) (interface{}, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set inserts or updates key. New keys are appended to the end,
// preserving the order existing keys were first inserted in.
func (m *Map) Set(key string, value interface{}) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key if present.
func (m *Map) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Clear removes every key, leaving an empty map in place.
func (m *Map) Clear() {
	m.keys = nil
	m.values = map[string]interface{}{}
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	out := NewMap()
	for _, k := range m.keys {
		out.Set(k, CloneValue(m.values[k]))
	}
	return out
}

// CloneValue deep-copies a value from the generic resource tree: a *Map,
// a []interface{}, or a scalar (returned as-is, since Go scalars are
// copied by value).
func CloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case *Map:
		return t.Clone()
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = CloneValue(e)
		}
		return out
	default:
		return v
	}
}

// GetPath walks a dotted sequence of map keys, returning ok=false as soon
// as any segment is missing or not a *Map. It does not cross array
// boundaries; fieldspec.Apply is used for that.
func (m *Map) GetPath(keys ...string) (interface{}, bool) {
	var cur interface{} = m
	for _, k := range keys {
		cm, ok := cur.(*Map)
		if !ok {
			return nil, false
		}
		cur, ok = cm.Get(k)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// EnsureMap returns the *Map at key, creating an empty one (and
// overwriting a non-map value, if any) when absent.
func (m *Map) EnsureMap(key string) *Map {
	if v, ok := m.Get(key); ok {
		if sub, ok := v.(*Map); ok {
			return sub
		}
	}
	sub := NewMap()
	m.Set(key, sub)
	return sub
}

// StringMap extracts a map[string]string from a *Map value, e.g. for
// metadata.labels. A missing or non-map value yields an empty map.
func StringMap(v interface{}) map[string]string {
	out := map[string]string{}
	m, ok := v.(*Map)
	if !ok {
		return out
	}
	for _, k := range m.Keys() {
		val, _ := m.Get(k)
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	return out
}

// MapFromStringMap builds a *Map from in. Keys are inserted in Go map
// iteration order, so the resulting key order is not deterministic.
func MapFromStringMap(in map[string]string) *Map {
	out := NewMap()
	for k, v := range in {
		out.Set(k, v)
	}
	return out
}
