package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/bianoble/interoper/internal/backend"
	"github.com/bianoble/interoper/internal/config"
	"github.com/bianoble/interoper/internal/lock"
	"github.com/bianoble/interoper/internal/manifest"
	"github.com/bianoble/interoper/internal/resolve"
)

// BuildEngine runs the install pipeline: manifest, install, resolve, record.
type BuildEngine struct {
	Backend backend.Backend
	Logger  *log.Logger
}

// BuildOptions configures a build.
type BuildOptions struct {
	// OutDir is the build output root. The work directory is OutDir/interoper.
	OutDir string
}

// Build installs the dependencies of cfg and resolves their locations.
// The installer runs on every call; nothing is cached between builds.
func (e *BuildEngine) Build(ctx context.Context, cfg *config.Config, opts BuildOptions) (*Project, error) {
	if opts.OutDir == "" {
		return nil, ErrOutDirUnset
	}
	if e.Backend == nil {
		return nil, errors.New("no package manager backend configured")
	}
	logger := loggerOrDefault(e.Logger)

	workdir, err := filepath.Abs(WorkDir(opts.OutDir))
	if err != nil {
		return nil, &StepError{Step: StepWorkDir, Err: err}
	}
	if err := os.MkdirAll(workdir, 0755); err != nil {
		return nil, &StepError{Step: StepWorkDir, Err: fmt.Errorf("creating %s: %w", workdir, err)}
	}

	logger.Debug("writing manifest", "dir", workdir, "dependencies", len(cfg.Dependencies))
	data, err := manifest.Write(workdir, cfg)
	if err != nil {
		return nil, &StepError{Step: StepManifest, Err: err}
	}

	logger.Info("installing dependencies", "backend", e.Backend.Name(), "dir", workdir)
	used, err := install(ctx, e.Backend, workdir)
	if err != nil {
		return nil, &StepError{Step: StepInstall, Err: err}
	}

	installed := filepath.Join(workdir, resolve.InstallDirName)
	res, err := resolve.Resolve(installed, dependencyNames(cfg))
	if err != nil {
		return nil, &StepError{Step: StepResolve, Err: err}
	}
	if res.Complete() {
		logger.Debug("resolved all dependencies", "count", len(res.Paths))
	}
	for _, name := range res.Missing {
		logger.Warn("dependency not found after install", "name", name, "expected", filepath.Join(installed, resolve.RelPath(name)))
	}

	lf := newRecord(cfg, used, data, res)
	if err := lock.Save(workdir, lf); err != nil {
		return nil, &StepError{Step: StepRecord, Err: err}
	}

	return &Project{
		Dependencies: res.Paths,
		Missing:      res.Missing,
		Backend:      used,
		WorkDir:      workdir,
	}, nil
}

// install runs the backend and returns the name of the one that succeeded.
func install(ctx context.Context, b backend.Backend, dir string) (string, error) {
	if sel, ok := b.(backend.Selector); ok {
		chosen, err := sel.Select(ctx, dir)
		if err != nil {
			return "", err
		}
		return chosen.Name(), nil
	}
	if err := b.Install(ctx, dir); err != nil {
		return "", err
	}
	return b.Name(), nil
}

func newRecord(cfg *config.Config, used string, manifestData []byte, res *resolve.Result) *lock.Lockfile {
	lf := &lock.Lockfile{
		Version:        1,
		PackageManager: cfg.PackageManager.String(),
		Backend:        used,
		ManifestSHA256: lock.HashManifest(manifestData),
	}
	for _, name := range dependencyNames(cfg) {
		spec := cfg.Dependencies[name]
		dep := lock.LockedDependency{
			Name:   name,
			Kind:   string(spec.Kind),
			Entry:  manifest.Entry(name, spec),
			Status: lock.StatusMissing,
		}
		if p, ok := res.Paths[name]; ok {
			dep.Path = p
			dep.Status = lock.StatusInstalled
		}
		lf.Dependencies = append(lf.Dependencies, dep)
	}
	return lf
}

func dependencyNames(cfg *config.Config) []string {
	names := make([]string, 0, len(cfg.Dependencies))
	for name := range cfg.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func loggerOrDefault(l *log.Logger) *log.Logger {
	if l == nil {
		return log.Default()
	}
	return l
}
