// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package fieldspec

// Built-in field-spec tables (spec.md §6 "embedded data"), ported from
// original_source/kustomizer/src/fieldspec/builtin.rs and extended with
// the images/replicas/namespace/reference tables the prototype does not
// carry (added directly from spec.md §4.E).

// CommonAnnotations is where commonAnnotations are written: every
// resource's own metadata.annotations, plus the pod template's, so
// controllers propagate them to the pods they create.
var CommonAnnotations = []FieldSpec{
	{Path: ParsePath("metadata.annotations"), Create: true},
	{Path: ParsePath("spec.template.metadata.annotations"), Create: true},
}

// MetadataLabels is where the labels transformer writes the resource's
// own labels.
var MetadataLabels = []FieldSpec{
	{Path: ParsePath("metadata.labels"), Create: true},
}

// TemplateLabels is where the labels transformer writes pod-template
// labels (spec.md §4.H "includeTemplates").
var TemplateLabels = []FieldSpec{
	{Path: ParsePath("spec.template.metadata.labels"), Create: true},
}

// SelectorLabels is where the labels transformer writes selector-facing
// labels when a group opts in via includeSelectors (spec.md §4.H,
// explicitly naming spec.selector.matchLabels).
var SelectorLabels = []FieldSpec{
	{Path: ParsePath("spec.selector.matchLabels"), Create: false},
}

// OtherLabels covers non-template selector fields that are a flat label
// map rather than a matchLabels wrapper (Service.spec.selector).
var OtherLabels = []FieldSpec{
	{Kind: "Service", Path: ParsePath("spec.selector"), Create: false},
}

// Images is the path the image transformer scans, one element per
// container entry in every container array the pod template exposes.
var Images = []FieldSpec{
	{Path: ParsePath("spec.template.spec.containers[].image"), Create: false},
	{Path: ParsePath("spec.template.spec.initContainers[].image"), Create: false},
	{Path: ParsePath("spec.containers[].image"), Create: false},
	{Path: ParsePath("spec.initContainers[].image"), Create: false},
}

// Replicas is where the replica transformer writes spec.replicas (or,
// for CronJob, the job template's parallelism).
var Replicas = []FieldSpec{
	{Kind: "Deployment", Path: ParsePath("spec.replicas"), Create: true},
	{Kind: "ReplicaSet", Path: ParsePath("spec.replicas"), Create: true},
	{Kind: "StatefulSet", Path: ParsePath("spec.replicas"), Create: true},
	{Kind: "CronJob", Path: ParsePath("spec.jobTemplate.spec.parallelism"), Create: true},
}

// Namespace is every path the namespace transformer writes, beyond
// metadata.namespace itself (handled separately since it is unconditional).
var Namespace = []FieldSpec{
	{Kind: "RoleBinding", Path: ParsePath("subjects[].namespace"), Create: false},
	{Kind: "ClusterRoleBinding", Path: ParsePath("subjects[].namespace"), Create: false},
}

// References is where the reference-rewrite transformer looks for
// other resources' names, so a rename upstream propagates downstream.
// RefereeKind is the kind of the resource being referred to, not the
// kind of the resource the path is walked on -- these paths are tried
// against every resource in the map.
var References = []ReferenceSpec{
	{RefereeKind: "ConfigMap", Path: ParsePath("spec.template.spec.volumes[].configMap.name")},
	{RefereeKind: "ConfigMap", Path: ParsePath("spec.template.spec.containers[].envFrom[].configMapRef.name")},
	{RefereeKind: "ConfigMap", Path: ParsePath("spec.template.spec.containers[].env[].valueFrom.configMapKeyRef.name")},
	{RefereeKind: "ConfigMap", Path: ParsePath("volumes[].configMap.name")},
	{RefereeKind: "ConfigMap", Path: ParsePath("containers[].envFrom[].configMapRef.name")},
	{RefereeKind: "ConfigMap", Path: ParsePath("containers[].env[].valueFrom.configMapKeyRef.name")},
	{RefereeKind: "Secret", Path: ParsePath("spec.template.spec.volumes[].secret.secretName")},
	{RefereeKind: "Secret", Path: ParsePath("spec.template.spec.containers[].envFrom[].secretRef.name")},
	{RefereeKind: "Secret", Path: ParsePath("spec.template.spec.containers[].env[].valueFrom.secretKeyRef.name")},
	{RefereeKind: "Secret", Path: ParsePath("spec.template.spec.imagePullSecrets[].name")},
	{RefereeKind: "Secret", Path: ParsePath("volumes[].secret.secretName")},
	{RefereeKind: "Secret", Path: ParsePath("containers[].envFrom[].secretRef.name")},
	{RefereeKind: "Secret", Path: ParsePath("containers[].env[].valueFrom.secretKeyRef.name")},
	{RefereeKind: "Secret", Path: ParsePath("imagePullSecrets[].name")},
}
