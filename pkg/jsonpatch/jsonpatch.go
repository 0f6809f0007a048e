// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0
//
// Package jsonpatch applies RFC 6902 JSON-Patch documents to a
// resource's full serialized tree (spec.md §4.J), using
// github.com/evanphx/json-patch the same way
// internal/pkg/client/patch/patch.go already does for
// StrategicMergePatchType/MergePatchType. Patch operations (`add`,
// `remove`, `replace`, `move`, `copy`, `test`) are the library's own.
package jsonpatch

import (
	evanjsonpatch "github.com/evanphx/json-patch"

	"github.com/kustomizer-sh/kbuild/pkg/codec"
	"github.com/kustomizer-sh/kbuild/pkg/kbuilderrors"
	"github.com/kustomizer-sh/kbuild/pkg/resource"
)

// Apply patches r's full document tree in place with the RFC 6902
// operation list ops. `test` failures and invalid paths surface as
// PatchFailedError (spec.md §7).
func Apply(r *resource.Resource, ops []interface{}) error {
	patchJSON, err := codec.MarshalJSON(ops)
	if err != nil {
		return &kbuilderrors.PatchFailedError{Target: r.ID.String(), Err: err}
	}
	docJSON, err := codec.MarshalJSON(r.Root)
	if err != nil {
		return &kbuilderrors.PatchFailedError{Target: r.ID.String(), Err: err}
	}

	patch, err := evanjsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return &kbuilderrors.PatchFailedError{Target: r.ID.String(), Err: err}
	}
	resultJSON, err := patch.Apply(docJSON)
	if err != nil {
		return &kbuilderrors.PatchFailedError{Target: r.ID.String(), Err: err}
	}

	result, err := codec.UnmarshalJSON(resultJSON)
	if err != nil {
		return &kbuilderrors.PatchFailedError{Target: r.ID.String(), Err: err}
	}
	out, ok := result.(*resource.Map)
	if !ok {
		return &kbuilderrors.PatchFailedError{Target: r.ID.String(), Err: errNotAnObject}
	}

	newID, err := resource.IdentityFromRoot(out)
	if err != nil {
		return &kbuilderrors.PatchFailedError{Target: r.ID.String(), Err: err}
	}
	r.Root = out
	r.ID = newID
	return nil
}

var errNotAnObject = jsonNotObjectError{}

type jsonNotObjectError struct{}

func (jsonNotObjectError) Error() string { return "patched document is not a JSON object" }
