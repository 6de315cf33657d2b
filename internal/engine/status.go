package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-version"

	"github.com/bianoble/interoper/internal/config"
	"github.com/bianoble/interoper/internal/lock"
	"github.com/bianoble/interoper/internal/manifest"
	"github.com/bianoble/interoper/internal/resolve"
)

// StatusEngine inspects an existing work directory without running an installer.
type StatusEngine struct {
	Logger *log.Logger
}

// Status resolves every configured dependency against the last build in outDir.
func (e *StatusEngine) Status(cfg *config.Config, outDir string) (*StatusResult, error) {
	if outDir == "" {
		return nil, ErrOutDirUnset
	}
	workdir, err := filepath.Abs(WorkDir(outDir))
	if err != nil {
		return nil, err
	}

	lf, err := loadRecord(workdir)
	if err != nil {
		return nil, err
	}

	res, err := resolve.Resolve(filepath.Join(workdir, resolve.InstallDirName), dependencyNames(cfg))
	if err != nil {
		return nil, err
	}

	result := &StatusResult{WorkDir: workdir, Built: lf != nil}
	if lf != nil {
		result.Backend = lf.Backend
	}

	for _, name := range dependencyNames(cfg) {
		spec := cfg.Dependencies[name]
		s := DependencyStatus{
			Name:  name,
			Kind:  string(spec.Kind),
			Entry: manifest.Entry(name, spec),
		}
		s.Path = res.Paths[name]
		s.State = dependencyState(lf, s)

		if s.Path != "" {
			v, err := manifest.InstalledVersion(s.Path)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				loggerOrDefault(e.Logger).Debug("reading installed version", "name", name, "err", err)
			}
			s.Version = v
			if s.State == StateInstalled && pinnedVersionMismatch(spec, v) {
				s.State = StateStale
			}
		}
		result.Dependencies = append(result.Dependencies, s)
	}
	return result, nil
}

// Check reports whether the work directory in outDir matches cfg: the last
// build used the same manifest and every configured key resolves.
func (e *StatusEngine) Check(cfg *config.Config, outDir string) (*CheckResult, error) {
	st, err := e.Status(cfg, outDir)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{Built: st.Built}
	if st.Built {
		diff, err := manifestDiff(cfg, st.WorkDir)
		if err != nil {
			return nil, err
		}
		result.ManifestDrift = diff != ""
		result.ManifestDiff = diff
	}

	for _, d := range st.Dependencies {
		switch d.State {
		case StateMissing:
			result.Missing = append(result.Missing, d.Name)
		case StateStale, StatePending:
			result.Stale = append(result.Stale, d.Name)
		}
	}

	result.Clean = result.Built && !result.ManifestDrift && len(result.Missing) == 0 && len(result.Stale) == 0
	return result, nil
}

// dependencyState classifies one dependency against the build record.
// A missing directory wins over a stale record entry.
func dependencyState(lf *lock.Lockfile, s DependencyStatus) string {
	if lf == nil {
		return StatePending
	}
	if s.Path == "" {
		return StateMissing
	}
	locked, ok := lf.Lookup(s.Name)
	if !ok || locked.Entry != s.Entry {
		return StateStale
	}
	return StateInstalled
}

// pinnedVersionMismatch reports whether an exact configured registry version
// differs from the installed one. Ranges, tags and other sources are not compared.
func pinnedVersionMismatch(spec config.DependencySpec, installed string) bool {
	if installed == "" {
		return false
	}
	if spec.Kind != config.KindRegistryVersion && spec.Kind != config.KindRegistry {
		return false
	}
	want, err := version.NewVersion(spec.Version)
	if err != nil {
		return false
	}
	got, err := version.NewVersion(installed)
	if err != nil {
		return false
	}
	return !want.Equal(got)
}

// manifestDiff compares the manifest cfg would produce with the one on disk.
// It returns "" when they are identical.
func manifestDiff(cfg *config.Config, workdir string) (string, error) {
	want, err := manifest.Build(cfg)
	if err != nil {
		return "", err
	}
	got, err := os.ReadFile(filepath.Join(workdir, manifest.FileName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	if bytes.Equal(want, got) {
		return "", nil
	}
	return lineDiff(string(got), string(want)), nil
}

// loadRecord returns nil without error when the work directory has no build record.
func loadRecord(workdir string) (*lock.Lockfile, error) {
	lf, err := lock.Load(filepath.Join(workdir, lock.FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading build record: %w", err)
	}
	return lf, nil
}
