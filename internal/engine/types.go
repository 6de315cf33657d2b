package engine

import (
	"errors"
	"fmt"
	"path/filepath"
)

// WorkDirName is the directory created under the build output root.
const WorkDirName = "interoper"

// ErrOutDirUnset is returned when no build output root was given.
var ErrOutDirUnset = errors.New("output directory is not set (pass --out-dir or set OUT_DIR)")

// Step names a stage of the build pipeline.
type Step string

// Build pipeline stages, in execution order.
const (
	StepWorkDir  Step = "workdir"
	StepManifest Step = "manifest"
	StepInstall  Step = "install"
	StepResolve  Step = "resolve"
	StepRecord   Step = "record"
)

// StepError reports the pipeline stage that failed.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Project is the result of a successful build.
type Project struct {
	// Dependencies maps each resolved key to its absolute, symlink-free path.
	Dependencies map[string]string

	// Missing lists configured keys with no directory under node_modules.
	Missing []string

	// Backend is the package manager that performed the install.
	Backend string

	WorkDir string
}

// WorkDir returns the work directory for a build output root.
func WorkDir(outDir string) string {
	return filepath.Join(outDir, WorkDirName)
}

// Dependency states reported by Status.
const (
	StateInstalled = "installed"
	StateMissing   = "missing"
	StateStale     = "stale"
	StatePending   = "pending"
)

// DependencyStatus describes one configured dependency in an existing work directory.
type DependencyStatus struct {
	Name    string
	Kind    string
	Entry   string
	Path    string
	Version string
	State   string
}

// StatusResult holds the outcome of a status operation.
type StatusResult struct {
	WorkDir      string
	Built        bool
	Backend      string
	Dependencies []DependencyStatus
}

// CheckResult holds the outcome of a check operation.
type CheckResult struct {
	Clean         bool
	Built         bool
	ManifestDrift bool
	ManifestDiff  string
	Missing       []string
	Stale         []string
}
