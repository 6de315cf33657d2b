package engine

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bianoble/interoper/internal/backend"
	"github.com/bianoble/interoper/internal/config"
	"github.com/bianoble/interoper/internal/lock"
)

// BackendInfo describes whether a package manager can be found on PATH.
type BackendInfo struct {
	Name      string
	Path      string
	Available bool
}

// InfoResult holds tool information for the info command.
type InfoResult struct {
	Version        string
	ConfigPath     string
	OutDir         string
	WorkDir        string
	PackageManager string
	Built          bool
	WorkDirSize    int64
	Backends       []BackendInfo
}

// Info gathers tool information. cfg may be nil when no configuration was found.
func Info(version string, cfg *config.Config, configPath, outDir string) (*InfoResult, error) {
	r := &InfoResult{
		Version:        version,
		ConfigPath:     configPath,
		OutDir:         outDir,
		PackageManager: string(config.ManagerAuto),
	}

	var tools []*backend.Tool
	for _, kind := range config.KnownManagers {
		tools = append(tools, backend.NewTool(string(kind), nil))
	}
	if cfg != nil {
		r.PackageManager = cfg.PackageManager.String()
		if cfg.PackageManager.Kind == config.ManagerLocal {
			tools = append(tools, backend.NewLocal(cfg.PackageManager.Executable, nil))
		}
	}
	for _, t := range tools {
		path, ok := t.Locate()
		r.Backends = append(r.Backends, BackendInfo{Name: t.Name(), Path: path, Available: ok})
	}

	if outDir == "" {
		return r, nil
	}
	workdir, err := filepath.Abs(WorkDir(outDir))
	if err != nil {
		return nil, err
	}
	r.WorkDir = workdir

	if _, err := os.Stat(filepath.Join(workdir, lock.FileName)); err == nil {
		r.Built = true
	}
	size, err := dirSize(workdir)
	if err == nil {
		r.WorkDirSize = size
	}
	return r, nil
}

// dirSize sums regular file sizes below root without following symlinks.
func dirSize(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	return total, err
}
