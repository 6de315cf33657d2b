package config

import (
	"path/filepath"
	"strings"
)

// Config represents the Interoper.toml (or interoper.yaml) configuration file.
type Config struct {
	PackageManager PackageManager
	Dependencies   map[string]DependencySpec
}

// ManagerKind identifies the package manager a build installs with.
type ManagerKind string

const (
	ManagerAuto  ManagerKind = "auto"
	ManagerNpm   ManagerKind = "npm"
	ManagerPnpm  ManagerKind = "pnpm"
	ManagerYarn  ManagerKind = "yarn"
	ManagerBun   ManagerKind = "bun"
	ManagerLocal ManagerKind = "local"
)

// KnownManagers lists the built-in package managers in Auto priority order.
var KnownManagers = []ManagerKind{ManagerBun, ManagerPnpm, ManagerYarn, ManagerNpm}

// PackageManager selects the installer backend.
// Executable is set only when Kind is ManagerLocal.
type PackageManager struct {
	Kind       ManagerKind
	Executable string
}

// ParsePackageManager maps a configured selector string to a PackageManager.
// Known names are matched case-insensitively; any other non-empty value is
// treated as a local executable to invoke instead of a known manager.
func ParsePackageManager(s string) PackageManager {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return PackageManager{Kind: ManagerAuto}
	}
	switch k := ManagerKind(strings.ToLower(trimmed)); k {
	case ManagerAuto, ManagerNpm, ManagerPnpm, ManagerYarn, ManagerBun:
		return PackageManager{Kind: k}
	}
	return PackageManager{Kind: ManagerLocal, Executable: s}
}

func (p PackageManager) String() string {
	if p.Kind == ManagerLocal {
		return p.Executable
	}
	if p.Kind == "" {
		return string(ManagerAuto)
	}
	return string(p.Kind)
}

// WithBaseDir returns p with a relative local executable path joined onto
// dir. Bare command names are left alone so they are looked up on PATH.
func (p PackageManager) WithBaseDir(dir string) PackageManager {
	if p.Kind != ManagerLocal || filepath.IsAbs(p.Executable) {
		return p
	}
	if !strings.ContainsRune(filepath.ToSlash(p.Executable), '/') {
		return p
	}
	p.Executable = filepath.Join(dir, p.Executable)
	return p
}

// SpecKind identifies the source of a dependency.
type SpecKind string

const (
	KindRegistryVersion SpecKind = "registry-version"
	KindRegistry        SpecKind = "registry"
	KindURL             SpecKind = "url"
	KindGit             SpecKind = "git"
	KindGithub          SpecKind = "github"
	KindLocalPath       SpecKind = "path"
)

// DefaultRegistry is used by registry specs that do not name one.
const DefaultRegistry = "npm"

// DependencySpec describes where one dependency comes from.
// Only the fields belonging to Kind are meaningful.
type DependencySpec struct {
	Kind SpecKind

	// Registry fields. Version is also the bare string of a registry-version spec.
	Registry string
	Name     string // empty means the dependency key
	Version  string

	URL    string
	Git    string
	Github string
	Path   string

	// Ref is the optional git version of git and github specs.
	Ref *GitVersion
}

// RefKind tells which configuration field a git version came from.
type RefKind string

const (
	RefTag       RefKind = "tag"
	RefReference RefKind = "ref"
	RefBranch    RefKind = "branch"
)

// GitVersion is a tag, reference or branch. All three render to Value verbatim.
type GitVersion struct {
	Kind  RefKind
	Value string
}

func (v GitVersion) String() string { return v.Value }

// Source returns the primary location string of the spec, for display.
func (s DependencySpec) Source() string {
	switch s.Kind {
	case KindRegistryVersion:
		return s.Version
	case KindRegistry:
		return s.Registry
	case KindURL:
		return s.URL
	case KindGit:
		return s.Git
	case KindGithub:
		return s.Github
	case KindLocalPath:
		return s.Path
	}
	return ""
}
