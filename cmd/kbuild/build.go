// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kustomizer-sh/kbuild/pkg/build"
	"github.com/kustomizer-sh/kbuild/pkg/codec"
	"github.com/kustomizer-sh/kbuild/pkg/gvk"
)

// usageError marks a cobra-level argument mistake so run() can map it to
// exit code 2 instead of the generic build-failure code 1 (spec.md §6).
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func isUsageError(err error) bool {
	_, ok := err.(*usageError)
	return ok
}

func newBuildCommand() *cobra.Command {
	var rootOnly bool

	cmd := &cobra.Command{
		Use:   "build <dir>",
		Short: "Build the resource map rooted at <dir> and write it as a YAML document stream",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &usageError{err: fmt.Errorf("build takes exactly one argument, the root kustomization directory")}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args[0], rootOnly)
		},
	}
	cmd.Flags().BoolVar(&rootOnly, "load-restrictor-root-only", false,
		"refuse resources/components/patches that resolve outside the root directory via a symlink")
	return cmd
}

func runBuild(cmd *cobra.Command, dir string, rootOnly bool) error {
	restriction := gvk.LoadRestrictionNone
	if rootOnly {
		restriction = gvk.LoadRestrictionRootOnly
	}

	b := build.New(build.Options{Root: dir, LoadRestriction: restriction})
	rm, err := b.Build(dir)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()

	docs := make([]interface{}, 0, rm.Len())
	for _, r := range rm.Resources() {
		docs = append(docs, r.Root)
	}
	return codec.EncodeStream(out, docs)
}
