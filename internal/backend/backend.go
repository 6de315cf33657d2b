// Package backend runs package-manager installers inside the work directory.
package backend

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bianoble/interoper/internal/config"
)

// Backend installs the dependencies declared by the manifest in dir.
type Backend interface {
	Name() string
	Install(ctx context.Context, dir string) error
}

// Selector is implemented by backends that delegate to another backend and
// can report which one performed the install.
type Selector interface {
	Select(ctx context.Context, dir string) (Backend, error)
}

// ErrNoBackendAvailable is matched by NoBackendAvailableError.
var ErrNoBackendAvailable = errors.New("no package manager backend available")

// outputTailLines bounds the installer output kept in an InstallError.
const outputTailLines = 20

// InstallError reports a failed installer run.
// ExitCode is -1 when the process could not be started.
type InstallError struct {
	Backend  string
	Dir      string
	ExitCode int
	Output   string
	Err      error
}

func (e *InstallError) Error() string {
	msg := fmt.Sprintf("%s install in %s failed", e.Backend, e.Dir)
	if e.ExitCode >= 0 {
		msg += fmt.Sprintf(" with exit status %d", e.ExitCode)
	}
	msg += ": " + e.Err.Error()
	if errors.Is(e.Err, exec.ErrNotFound) {
		msg += " — is " + e.Backend + " installed and on PATH?"
	}
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg
}

func (e *InstallError) Unwrap() error {
	return e.Err
}

// NoBackendAvailableError is returned by Auto when every candidate failed.
type NoBackendAvailableError struct {
	Tried  []string
	Errors []error
}

func (e *NoBackendAvailableError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "none of the package managers could install dependencies (tried %s)", strings.Join(e.Tried, ", "))
	for _, err := range e.Errors {
		b.WriteString("\n  - ")
		b.WriteString(firstLine(err))
	}
	return b.String()
}

func (e *NoBackendAvailableError) Is(target error) bool {
	return target == ErrNoBackendAvailable
}

func (e *NoBackendAvailableError) Unwrap() []error {
	return e.Errors
}

// Registry maps package manager names to Backend implementations.
type Registry struct {
	backends map[string]Backend
}

// NewRegistry creates a new empty backend registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

// DefaultRegistry registers the known package managers and Auto.
func DefaultRegistry(runner Runner, logger *log.Logger) *Registry {
	reg := NewRegistry()
	for _, kind := range config.KnownManagers {
		reg.Register(string(kind), NewTool(string(kind), runner))
	}
	reg.Register(string(config.ManagerAuto), NewAuto(runner, logger))
	return reg
}

// Register adds a backend under the given name.
func (r *Registry) Register(name string, b Backend) {
	r.backends[name] = b
}

// Get returns the backend registered under name.
func (r *Registry) Get(name string) (Backend, error) {
	b, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown package manager '%s' — supported: %s", name, r.supported())
	}
	return b, nil
}

func (r *Registry) supported() string {
	names := make([]string, 0, len(r.backends))
	for n := range r.backends {
		names = append(names, n)
	}
	if len(names) == 0 {
		return "(none registered)"
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// FromSelector returns the backend chosen by the configuration.
// Local executables bypass the registry.
func (r *Registry) FromSelector(sel config.PackageManager, runner Runner) (Backend, error) {
	switch sel.Kind {
	case config.ManagerLocal:
		if strings.TrimSpace(sel.Executable) == "" {
			return nil, fmt.Errorf("local package manager has no executable")
		}
		return NewLocal(sel.Executable, runner), nil
	case "":
		return r.Get(string(config.ManagerAuto))
	}
	return r.Get(string(sel.Kind))
}
