// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

// Exit codes (spec.md §6): 0 success, 1 build error, 2 usage error.
const (
	exitSuccess = 0
	exitBuild   = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	klog.InitFlags(nil)
	defer klog.Flush()

	cmd := &cobra.Command{
		Use:           "kbuild",
		Short:         "Build layered Kubernetes resource manifests",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.AddCommand(newBuildCommand())

	if err := cmd.Execute(); err != nil {
		klog.Errorf("%v", err)
		if isUsageError(err) {
			return exitUsage
		}
		return exitBuild
	}
	return exitSuccess
}
