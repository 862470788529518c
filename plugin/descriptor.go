// Package plugin discovers externally contributed implementations and
// loads them into registries. A plugin is described by a Descriptor; the
// implementations it names are resolved through an explicit Catalog rather
// than by importing anything at load time, so a broken plugin can fail
// without taking the host down.
package plugin

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/OmenApps/stratagem/internal/log"
)

// Descriptor names a plugin and the catalog references it contributes to a
// target registry.
type Descriptor struct {
	Name            string   `yaml:"name"`
	Version         string   `yaml:"version"`
	Registry        string   `yaml:"registry"`
	Implementations []string `yaml:"implementations"`
}

// Validate reports whether the descriptor carries the required fields.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("plugin descriptor missing name")
	}
	if d.Registry == "" {
		return fmt.Errorf("plugin %q missing target registry", d.Name)
	}
	if len(d.Implementations) == 0 {
		return fmt.Errorf("plugin %q lists no implementations", d.Name)
	}
	return nil
}

// Source yields plugin descriptors from somewhere: a manifest directory, a
// static list, a remote index.
type Source interface {
	Discover(ctx context.Context) ([]Descriptor, error)
}

// StaticSource serves a fixed descriptor list. Useful for tests and for
// hosts that compile their plugin set in.
type StaticSource []Descriptor

func (s StaticSource) Discover(ctx context.Context) ([]Descriptor, error) {
	return []Descriptor(s), nil
}

// ManifestSource reads one YAML descriptor per file from a directory.
// Files that fail to parse or validate are logged and skipped so one bad
// manifest cannot hide the rest.
type ManifestSource struct {
	FS   fs.FS
	Root string
}

// NewManifestSource watches a directory on the host filesystem.
func NewManifestSource(dir string) *ManifestSource {
	return &ManifestSource{FS: os.DirFS(dir), Root: "."}
}

func (m *ManifestSource) Discover(ctx context.Context) ([]Descriptor, error) {
	root := m.Root
	if root == "" {
		root = "."
	}
	entries, err := fs.ReadDir(m.FS, root)
	if err != nil {
		return nil, fmt.Errorf("reading plugin manifests: %w", err)
	}

	var out []Descriptor
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}

		name := entry.Name()
		if root != "." {
			name = filepath.Join(root, name)
		}
		data, err := fs.ReadFile(m.FS, name)
		if err != nil {
			log.ErrorErr(log.CatPlugin, "reading manifest failed", err, "file", name)
			continue
		}

		var desc Descriptor
		if err := yaml.Unmarshal(data, &desc); err != nil {
			log.ErrorErr(log.CatPlugin, "parsing manifest failed", err, "file", name)
			continue
		}
		if err := desc.Validate(); err != nil {
			log.ErrorErr(log.CatPlugin, "invalid manifest", err, "file", name)
			continue
		}
		out = append(out, desc)
	}
	return out, nil
}
