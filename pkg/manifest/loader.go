// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	sigsyaml "sigs.k8s.io/yaml"

	"github.com/kustomizer-sh/kbuild/pkg/codec"
	"github.com/kustomizer-sh/kbuild/pkg/kbuilderrors"
)

const (
	apiVersionKustomization = "kustomize.config.k8s.io/v1beta1"
	kindKustomization       = "Kustomization"
	apiVersionComponent     = "kustomize.config.k8s.io/v1alpha1"
	kindComponent           = "Component"
)

// descriptorFileNames lists the candidate file names tried, in order,
// when a resources/components entry resolves to a directory (spec.md
// §4.D: "kustomization.yaml, then .yml, then Kustomization -- first
// match wins").
var descriptorFileNames = []string{"kustomization.yaml", "kustomization.yml", "Kustomization"}

// ResolveDescriptorPath finds the kustomization file inside dir, or
// returns dir unchanged if it already names a file.
func ResolveDescriptorPath(dir string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", &kbuilderrors.IOError{Path: dir, Err: err}
	}
	if !info.IsDir() {
		return dir, nil
	}
	for _, name := range descriptorFileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", &kbuilderrors.IOError{Path: dir, Err: fmt.Errorf("no kustomization.yaml, kustomization.yml, or Kustomization found")}
}

// wireManifest is the strict JSON-tagged shape sigs.k8s.io/yaml decodes
// a kustomization.yaml document into. Unknown top-level fields are
// rejected by UnmarshalStrict (spec.md §4.D).
type wireManifest struct {
	APIVersion string `json:"apiVersion"`
	Kind       string `json:"kind"`

	Metadata *wireObjectMeta `json:"metadata,omitempty"`

	Namespace  string   `json:"namespace,omitempty"`
	NamePrefix string   `json:"namePrefix,omitempty"`
	NameSuffix string   `json:"nameSuffix,omitempty"`
	Resources  []string `json:"resources,omitempty"`
	Components []string `json:"components,omitempty"`
	Patches    []wirePatch `json:"patches,omitempty"`

	ConfigMapGenerator []wireGenerator `json:"configMapGenerator,omitempty"`
	SecretGenerator    []wireGenerator `json:"secretGenerator,omitempty"`
	GeneratorOptions   *wireGeneratorOptions `json:"generatorOptions,omitempty"`

	Replicas []wireReplica `json:"replicas,omitempty"`
	Images   []wireImage   `json:"images,omitempty"`
	Labels   []wireLabel   `json:"labels,omitempty"`

	CommonAnnotations map[string]string `json:"commonAnnotations,omitempty"`

	Generators   []string `json:"generators,omitempty"`
	Transformers []string `json:"transformers,omitempty"`
}

type wireObjectMeta struct {
	Name string `json:"name,omitempty"`
}

type wireGeneratorOptions struct {
	Labels                map[string]string `json:"labels,omitempty"`
	Annotations           map[string]string `json:"annotations,omitempty"`
	DisableNameSuffixHash *bool              `json:"disableNameSuffixHash,omitempty"`
	Immutable             bool               `json:"immutable,omitempty"`
}

func (w *wireGeneratorOptions) toDomain() GeneratorOptions {
	if w == nil {
		return GeneratorOptions{}
	}
	return GeneratorOptions{
		Labels:                w.Labels,
		Annotations:           w.Annotations,
		DisableNameSuffixHash: w.DisableNameSuffixHash,
		Immutable:             w.Immutable,
	}
}

type wireGenerator struct {
	Name      string                `json:"name"`
	Namespace string                `json:"namespace,omitempty"`
	Behavior  string                `json:"behavior,omitempty"`
	Type      string                `json:"type,omitempty"`
	Literals  []string              `json:"literals,omitempty"`
	Files     []string              `json:"files,omitempty"`
	Envs      []string              `json:"envs,omitempty"`
	Options   *wireGeneratorOptions `json:"options,omitempty"`
}

type wireReplica struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type wireImage struct {
	Name    string `json:"name"`
	NewName string `json:"newName,omitempty"`
	NewTag  string `json:"newTag,omitempty"`
	Digest  string `json:"digest,omitempty"`
}

type wireFieldSpec struct {
	Kind   string `json:"kind,omitempty"`
	Path   string `json:"path"`
	Create bool   `json:"create,omitempty"`
}

type wireLabel struct {
	Pairs            map[string]string `json:"pairs,omitempty"`
	IncludeSelectors bool               `json:"includeSelectors,omitempty"`
	IncludeTemplates bool               `json:"includeTemplates,omitempty"`
	FieldSpecs       []wireFieldSpec    `json:"fieldSpecs,omitempty"`
}

type wirePatch struct {
	Path   *string `json:"path,omitempty"`
	Patch  *string `json:"patch,omitempty"`
	Target *Target `json:"target,omitempty"`
}

func (w wirePatch) toDomain() (PatchSpec, error) {
	switch {
	case w.Path != nil:
		return PatchSpec{Kind: PatchKindOutOfLine, Path: *w.Path, Target: w.Target}, nil
	case w.Patch != nil:
		v, err := codec.DecodeOne("<inline patch>", []byte(*w.Patch))
		if err != nil {
			return PatchSpec{}, err
		}
		kind := PatchKindStrategicMerge
		if _, isArray := v.([]interface{}); isArray {
			kind = PatchKindJSON
		}
		return PatchSpec{Kind: kind, Inline: v, Target: w.Target}, nil
	default:
		return PatchSpec{}, fmt.Errorf("patch entry must set either path or patch")
	}
}

// Load reads and strict-parses the descriptor at path, validating that
// its apiVersion/kind combination matches want (spec.md §4.D: "an
// out-of-place combination is an error").
func Load(path string, want Flavor) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &kbuilderrors.IOError{Path: path, Err: err}
	}

	var wire wireManifest
	if err := sigsyaml.UnmarshalStrict(data, &wire); err != nil {
		return nil, &kbuilderrors.ParseError{Path: path, Err: err}
	}

	flavor, err := classify(wire.APIVersion, wire.Kind)
	if err != nil {
		return nil, &kbuilderrors.ParseError{Path: path, Err: err}
	}
	if flavor != want {
		return nil, &kbuilderrors.ParseError{Path: path, Err: fmt.Errorf(
			"expected a %s (apiVersion/kind mismatch), found apiVersion %q kind %q", want, wire.APIVersion, wire.Kind)}
	}

	m := &Manifest{
		Flavor:            flavor,
		Namespace:         wire.Namespace,
		NamePrefix:        wire.NamePrefix,
		NameSuffix:        wire.NameSuffix,
		Resources:         wire.Resources,
		Components:        wire.Components,
		GeneratorOptions:  wire.GeneratorOptions.toDomain(),
		CommonAnnotations: wire.CommonAnnotations,
		Generators:        wire.Generators,
		Transformers:      wire.Transformers,
	}

	for _, p := range wire.Patches {
		ps, err := p.toDomain()
		if err != nil {
			return nil, &kbuilderrors.ParseError{Path: path, Err: err}
		}
		m.Patches = append(m.Patches, ps)
	}
	for _, g := range wire.ConfigMapGenerator {
		m.ConfigMapGenerator = append(m.ConfigMapGenerator, g.toDomain())
	}
	for _, g := range wire.SecretGenerator {
		m.SecretGenerator = append(m.SecretGenerator, g.toDomain())
	}
	for _, r := range wire.Replicas {
		m.Replicas = append(m.Replicas, ReplicaSpec{Name: r.Name, Count: r.Count})
	}
	for _, i := range wire.Images {
		m.Images = append(m.Images, ImageSpec{Name: i.Name, NewName: i.NewName, NewTag: i.NewTag, Digest: i.Digest})
	}
	for _, l := range wire.Labels {
		ls := LabelSpec{Pairs: l.Pairs, IncludeSelectors: l.IncludeSelectors, IncludeTemplates: l.IncludeTemplates}
		for _, fs := range l.FieldSpecs {
			ls.FieldSpecs = append(ls.FieldSpecs, FieldSpecEntry{Kind: fs.Kind, Path: fs.Path, Create: fs.Create})
		}
		m.Labels = append(m.Labels, ls)
	}

	return m, nil
}

func (g wireGenerator) toDomain() GeneratorSpec {
	return GeneratorSpec{
		Name:      g.Name,
		Namespace: g.Namespace,
		Behavior:  g.Behavior,
		Type:      g.Type,
		Literals:  g.Literals,
		Files:     g.Files,
		Envs:      g.Envs,
		Options:   g.Options.toDomain(),
	}
}

func classify(apiVersion, kind string) (Flavor, error) {
	switch {
	case apiVersion == apiVersionKustomization && kind == kindKustomization:
		return FlavorKustomization, nil
	case apiVersion == apiVersionComponent && kind == kindComponent:
		return FlavorComponent, nil
	default:
		return 0, fmt.Errorf("unrecognized descriptor apiVersion %q kind %q", apiVersion, kind)
	}
}
