// Package manifest renders the package.json handed to the installer.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/bianoble/interoper/internal/config"
	"github.com/bianoble/interoper/internal/sandbox"
)

// FileName is the manifest file the installer reads from the work directory.
const FileName = "package.json"

// PackageName is the name field of the generated manifest.
const PackageName = "interoper-workdir"

// PackageJSON is the generated installer manifest.
type PackageJSON struct {
	Name         string            `json:"name"`
	Private      bool              `json:"private"`
	Dependencies map[string]string `json:"dependencies"`
}

// Entry renders the version selector for one dependency as the installer
// expects it in the "dependencies" table.
func Entry(key string, spec config.DependencySpec) string {
	switch spec.Kind {
	case config.KindRegistryVersion:
		return spec.Version
	case config.KindRegistry:
		name := spec.Name
		if name == "" {
			name = key
		}
		registry := spec.Registry
		if registry == "" {
			registry = config.DefaultRegistry
		}
		return fmt.Sprintf("%s@%s:%s@%s", key, registry, name, spec.Version)
	case config.KindURL:
		return spec.URL
	case config.KindGit:
		return withRef(spec.Git, spec.Ref)
	case config.KindGithub:
		return withRef(spec.Github, spec.Ref)
	case config.KindLocalPath:
		return spec.Path
	}
	return ""
}

func withRef(repo string, ref *config.GitVersion) string {
	if ref == nil {
		return repo
	}
	return repo + "#" + ref.String()
}

// Entries renders the full dependency table of cfg.
func Entries(cfg *config.Config) map[string]string {
	deps := make(map[string]string, len(cfg.Dependencies))
	for key, spec := range cfg.Dependencies {
		deps[key] = Entry(key, spec)
	}
	return deps
}

// New builds the manifest document for cfg.
func New(cfg *config.Config) PackageJSON {
	return PackageJSON{
		Name:         PackageName,
		Private:      true,
		Dependencies: Entries(cfg),
	}
}

// Build renders the manifest as indented JSON. Map keys are sorted, so the
// same configuration always yields the same bytes.
func Build(cfg *config.Config) ([]byte, error) {
	data, err := json.MarshalIndent(New(cfg), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", FileName, err)
	}
	return append(data, '\n'), nil
}

// Parse decodes a manifest previously written by Build.
func Parse(data []byte) (*PackageJSON, error) {
	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", FileName, err)
	}
	return &pkg, nil
}

// WriteError reports a failure to write the manifest into the work directory.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing manifest %s: %s", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Write renders the manifest for cfg and atomically replaces
// <workdir>/package.json. It returns the written bytes.
func Write(workdir string, cfg *config.Config) ([]byte, error) {
	data, err := Build(cfg)
	if err != nil {
		return nil, err
	}
	if err := sandbox.SafeWrite(workdir, FileName, data, 0644); err != nil {
		return nil, &WriteError{Path: filepath.Join(workdir, FileName), Err: err}
	}
	return data, nil
}

// InstalledVersion reads the "version" field of the package.json inside an
// installed package directory. A package without one yields "".
func InstalledVersion(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return "", err
	}
	var pkg struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return "", fmt.Errorf("decoding %s in %s: %w", FileName, dir, err)
	}
	return pkg.Version, nil
}
