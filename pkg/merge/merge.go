// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0
//
// Package merge implements the strategic-merge patch engine (spec.md
// §4.G), the hardest single algorithm in the build: a schema-directed
// recursive merge of two JSON-like value trees, ported from the
// reference algorithm in original_source/kustomizer/src/patch.rs onto
// this engine's resource.Map/[]interface{}/scalar value representation.
package merge

import (
	"fmt"
	"sort"

	"github.com/kustomizer-sh/kbuild/pkg/kbuilderrors"
	"github.com/kustomizer-sh/kbuild/pkg/merge/openapi"
	"github.com/kustomizer-sh/kbuild/pkg/resource"
)

const (
	directiveKey     = "$patch"
	directiveDelete  = "delete"
	directiveReplace = "replace"
)

// Merge applies patch onto base and returns the merged document. base
// and patch are not mutated; the result is built from fresh clones of
// whatever pieces carry over (spec.md §4.G).
func Merge(base, patch *resource.Map) (*resource.Map, error) {
	merged, retain, err := mergeValue(base, patch, "")
	if err != nil {
		return nil, err
	}
	if !retain {
		return resource.NewMap(), nil
	}
	out, ok := merged.(*resource.Map)
	if !ok {
		return nil, &kbuilderrors.PatchFailedError{Err: fmt.Errorf("merge result is not an object")}
	}
	return out, nil
}

// mergeValue merges patchVal onto baseVal for the array field named
// fieldName (the empty string at the document root). It returns the
// merged value and retain=false when the caller should drop the owning
// key (a null scalar patch, or an object/array cleared by $patch:
// delete).
func mergeValue(baseVal, patchVal interface{}, fieldName string) (interface{}, bool, error) {
	if patchVal == nil {
		return nil, false, nil
	}

	switch p := patchVal.(type) {
	case *resource.Map:
		b, ok := baseVal.(*resource.Map)
		if !ok {
			b = resource.NewMap()
		}
		return mergeObject(b, p)
	case []interface{}:
		b, _ := baseVal.([]interface{})
		return mergeArray(b, p, fieldName)
	default:
		return patchVal, true, nil
	}
}

// mergeObject implements mergeObject(base, patch, schema?) from spec.md
// §4.G: a $patch directive short-circuits the merge; otherwise every
// patch key recurses against the corresponding base key.
func mergeObject(base, patch *resource.Map) (interface{}, bool, error) {
	if directive, ok := patch.Get(directiveKey); ok {
		switch directive {
		case directiveDelete:
			return resource.NewMap(), false, nil
		case directiveReplace:
			out := resource.NewMap()
			for _, k := range patch.Keys() {
				if k == directiveKey {
					continue
				}
				v, _ := patch.Get(k)
				out.Set(k, resource.CloneValue(v))
			}
			return out, true, nil
		default:
			return nil, false, fmt.Errorf("unrecognized %s directive %v", directiveKey, directive)
		}
	}

	out := base.Clone()
	for _, k := range patch.Keys() {
		patchV, _ := patch.Get(k)
		baseV, _ := out.Get(k)

		merged, retain, err := mergeValue(baseV, patchV, k)
		if err != nil {
			return nil, false, err
		}
		if !retain {
			out.Delete(k)
			continue
		}
		out.Set(k, merged)
	}
	return out, true, nil
}

// mergeArray implements mergeArray(bases, patches, schema?) from spec.md
// §4.G, dispatching on the schema-resolved list-merge directive for
// fieldName.
func mergeArray(bases, patches []interface{}, fieldName string) (interface{}, bool, error) {
	if isDeleteAll(patches) {
		return []interface{}{}, false, nil
	}
	if hasReplaceDirective(patches) {
		return cleanedNonDelete(patches), true, nil
	}

	lm, hasSchema := openapi.Lookup(fieldName)
	keys := []string{}
	strategy := ""
	listType := ""
	if hasSchema {
		keys = lm.Keys()
		strategy = lm.Strategy
		listType = lm.ListType
	}

	if len(keys) > 0 {
		return mergeKeyedArray(bases, patches, keys)
	}

	switch strategy {
	case "retainKeys", "merge,retainKeys":
		return nil, false, &kbuilderrors.UnsupportedError{Feature: "patchStrategy " + strategy}
	case "merge":
		switch listType {
		case "set":
			merged := append(append([]interface{}{}, bases...), cleanedNonDeleteSlice(patches)...)
			merged = dedupeAndSort(merged)
			return merged, true, nil
		case "atomic":
			return cleanedNonDelete(patches), true, nil
		default:
			merged := append(append([]interface{}{}, bases...), cleanedNonDeleteSlice(patches)...)
			return merged, true, nil
		}
	default:
		return cleanedNonDelete(patches), true, nil
	}
}

func isDeleteAll(patches []interface{}) bool {
	for _, p := range patches {
		pm, ok := p.(*resource.Map)
		if !ok {
			continue
		}
		if d, ok := pm.Get(directiveKey); ok && d == directiveDelete && isEmptyAfterDirective(pm) {
			return true
		}
	}
	return false
}

func hasReplaceDirective(patches []interface{}) bool {
	for _, p := range patches {
		pm, ok := p.(*resource.Map)
		if !ok {
			continue
		}
		if d, ok := pm.Get(directiveKey); ok && d == directiveReplace {
			return true
		}
	}
	return false
}

func isEmptyAfterDirective(m *resource.Map) bool {
	for _, k := range m.Keys() {
		if k != directiveKey {
			return false
		}
	}
	return true
}

func isElementDelete(v interface{}) bool {
	m, ok := v.(*resource.Map)
	if !ok {
		return false
	}
	d, ok := m.Get(directiveKey)
	return ok && d == directiveDelete
}

func stripDirective(v interface{}) interface{} {
	m, ok := v.(*resource.Map)
	if !ok {
		return resource.CloneValue(v)
	}
	out := resource.NewMap()
	for _, k := range m.Keys() {
		if k == directiveKey {
			continue
		}
		val, _ := m.Get(k)
		out.Set(k, resource.CloneValue(val))
	}
	return out
}

// cleanedNonDelete strips $patch directives from every element and
// drops any element that was a pure delete marker, matching the
// "cleaned(patches)" helper used throughout spec.md §4.G.
func cleanedNonDelete(patches []interface{}) []interface{} {
	return cleanedNonDeleteSlice(patches)
}

func cleanedNonDeleteSlice(patches []interface{}) []interface{} {
	out := make([]interface{}, 0, len(patches))
	for _, p := range patches {
		if isElementDelete(p) {
			continue
		}
		cleaned := stripDirective(p)
		if cm, ok := cleaned.(*resource.Map); ok && cm.Len() == 0 {
			continue
		}
		out = append(out, cleaned)
	}
	return out
}

// mergeKeyedArray implements the keyed-merge branch of mergeArray: every
// patch element is matched against a base element by key-tuple, merged
// recursively if found, appended if not (unless it was a delete marker).
func mergeKeyedArray(bases, patches []interface{}, keys []string) (interface{}, bool, error) {
	out := append([]interface{}{}, bases...)

	for _, p := range patches {
		pm, ok := p.(*resource.Map)
		if !ok {
			// Non-object element under a keyed schema: treat as atomic append.
			out = append(out, resource.CloneValue(p))
			continue
		}

		idx := findMatchingElement(out, pm, keys)
		if idx < 0 {
			if isElementDelete(p) {
				continue
			}
			out = append(out, stripDirective(p))
			continue
		}

		if isElementDelete(p) {
			out = append(out[:idx], out[idx+1:]...)
			continue
		}

		baseM, ok := out[idx].(*resource.Map)
		if !ok {
			baseM = resource.NewMap()
		}
		merged, retain, err := mergeObject(baseM, pm)
		if err != nil {
			return nil, false, err
		}
		if !retain {
			out = append(out[:idx], out[idx+1:]...)
			continue
		}
		out[idx] = merged
	}

	return out, true, nil
}

// findMatchingElement implements the key-tuple match rule from spec.md
// §4.G: at least one key must match exactly between candidate and
// patch, and no key may disagree, except that an empty-string value on
// either side is tolerated as "missing".
func findMatchingElement(bases []interface{}, patch *resource.Map, keys []string) int {
	patchVals := make([]string, len(keys))
	patchHas := make([]bool, len(keys))
	for i, k := range keys {
		v, ok := patch.Get(k)
		if ok {
			if s, ok := v.(string); ok {
				patchVals[i] = s
			} else if v != nil {
				patchVals[i] = fmt.Sprintf("%v", v)
			}
		}
		patchHas[i] = ok
	}

	for i, b := range bases {
		bm, ok := b.(*resource.Map)
		if !ok {
			continue
		}
		matched := false
		disagreed := false
		for k, key := range keys {
			bv, bok := bm.Get(key)
			var bs string
			if bok {
				if s, ok := bv.(string); ok {
					bs = s
				} else if bv != nil {
					bs = fmt.Sprintf("%v", bv)
				}
			}
			pHas, pVal := patchHas[k], patchVals[k]
			if !pHas || !bok || pVal == "" || bs == "" {
				continue
			}
			if pVal == bs {
				matched = true
			} else {
				disagreed = true
			}
		}
		if matched && !disagreed {
			return i
		}
	}
	return -1
}

// dedupeAndSort implements the listType=set branch: de-duplicate by
// value then sort by string form for deterministic output.
func dedupeAndSort(vals []interface{}) []interface{} {
	seen := map[string]bool{}
	out := make([]interface{}, 0, len(vals))
	strs := make([]string, 0, len(vals))
	strOf := map[string]interface{}{}
	for _, v := range vals {
		s := fmt.Sprintf("%v", v)
		if seen[s] {
			continue
		}
		seen[s] = true
		strs = append(strs, s)
		strOf[s] = v
	}
	sort.Strings(strs)
	for _, s := range strs {
		out = append(out, strOf[s])
	}
	return out
}
