// Package interoper provides the public Go library API for interoper.
//
// interoper installs JavaScript packages declared in Interoper.toml into
// <OUT_DIR>/interoper using a Node package manager, then reports where each
// package landed so build steps can reference the files.
//
// # Basic Usage
//
//	outDir, err := interoper.OutDirFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	project, err := interoper.Build(ctx, interoper.Options{OutDir: outDir})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Substitute {{ interop:<name> }} placeholders in a template tree.
//	written, err := project.BuildTemplates("web/templates", filepath.Join(outDir, "web"))
package interoper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bianoble/interoper/internal/backend"
	"github.com/bianoble/interoper/internal/config"
	"github.com/bianoble/interoper/internal/engine"
	"github.com/bianoble/interoper/internal/transform"
)

// OutDirEnv is the environment variable naming the build output root.
const OutDirEnv = "OUT_DIR"

// Options configures a build.
type Options struct {
	// ConfigPath is the configuration file. If empty, Interoper.toml or
	// interoper.yaml is discovered in the current directory.
	ConfigPath string

	// OutDir is the build output root. Required.
	OutDir string

	// PackageManager overrides the package-manager setting of the configuration.
	PackageManager string

	// Runner executes installer processes. Nil runs real processes.
	Runner Runner

	// Logger receives progress and warnings. Nil uses the default logger.
	Logger *log.Logger
}

// Project is the result of a build.
type Project struct {
	// Dependencies maps each resolved name to its absolute, symlink-free directory.
	Dependencies map[string]string

	// Missing lists configured names that were not found after install.
	Missing []string

	// Backend is the package manager that performed the install.
	Backend string

	// WorkDir is <OutDir>/interoper.
	WorkDir string
}

// OutDirFromEnv returns the value of OUT_DIR.
func OutDirFromEnv() (string, error) {
	dir := os.Getenv(OutDirEnv)
	if dir == "" {
		return "", ErrOutDirUnset
	}
	return dir, nil
}

// Build loads the configuration named by opts and installs its dependencies.
func Build(ctx context.Context, opts Options) (*Project, error) {
	path := opts.ConfigPath
	if path == "" {
		found, err := config.Discover(".")
		if err != nil {
			return nil, err
		}
		path = found
	}
	return BuildFromConfigFile(ctx, path, opts)
}

// BuildFromConfigFile loads the configuration at path and installs its dependencies.
// Relative local executable paths are taken relative to the file's directory.
func BuildFromConfigFile(ctx context.Context, path string, opts Options) (*Project, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	opts.ConfigPath = path
	return BuildFromConfig(ctx, cfg, opts)
}

// LoadConfig reads and validates a TOML or YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// BuildFromConfig installs the dependencies of an already decoded configuration.
func BuildFromConfig(ctx context.Context, cfg *Config, opts Options) (*Project, error) {
	if opts.OutDir == "" {
		return nil, ErrOutDirUnset
	}

	b, err := newBackend(cfg, opts)
	if err != nil {
		return nil, err
	}

	eng := &engine.BuildEngine{Backend: b, Logger: opts.Logger}
	p, err := eng.Build(ctx, cfg, engine.BuildOptions{OutDir: opts.OutDir})
	if err != nil {
		return nil, err
	}
	return &Project{
		Dependencies: p.Dependencies,
		Missing:      p.Missing,
		Backend:      p.Backend,
		WorkDir:      p.WorkDir,
	}, nil
}

// Status reports the state of an existing work directory without installing.
func Status(cfg *Config, outDir string) (*StatusResult, error) {
	return (&engine.StatusEngine{}).Status(cfg, outDir)
}

// Check reports whether the work directory in outDir matches cfg.
func Check(cfg *Config, outDir string) (*CheckResult, error) {
	return (&engine.StatusEngine{}).Check(cfg, outDir)
}

// Path returns the install directory of a resolved dependency.
func (p *Project) Path(name string) (string, bool) {
	path, ok := p.Dependencies[name]
	return path, ok
}

// BuildTemplates renders every file below src into dst, replacing
// {{ interop:<name> }} placeholders with dependency paths. It returns the
// relative paths written.
func (p *Project) BuildTemplates(src, dst string) ([]string, error) {
	return transform.NewPathTransform(p.Dependencies).RenderDir(src, dst)
}

// BuildTemplate renders a single file.
func (p *Project) BuildTemplate(src, dst string) error {
	return transform.NewPathTransform(p.Dependencies).RenderFile(src, dst)
}

func newBackend(cfg *Config, opts Options) (backend.Backend, error) {
	sel := cfg.PackageManager
	if opts.PackageManager != "" {
		sel = config.ParsePackageManager(opts.PackageManager)
	}
	base, err := filepath.Abs(filepath.Dir(opts.ConfigPath))
	if err != nil {
		return nil, err
	}
	sel = sel.WithBaseDir(base)

	reg := backend.DefaultRegistry(opts.Runner, opts.Logger)
	b, err := reg.FromSelector(sel, opts.Runner)
	if err != nil {
		return nil, fmt.Errorf("selecting package manager: %w", err)
	}
	return b, nil
}
