package backend

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Runner executes a command in a working directory and returns its combined output.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner runs real processes.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// Tool invokes "<executable> install" for one package manager.
type Tool struct {
	name       string
	executable string
	runner     Runner
}

// NewTool returns a backend for a package manager whose executable has the same name.
func NewTool(name string, runner Runner) *Tool {
	return &Tool{name: name, executable: name, runner: runnerOrDefault(runner)}
}

// NewLocal returns a backend that runs the given executable instead of a known manager.
func NewLocal(executable string, runner Runner) *Tool {
	return &Tool{name: executable, executable: executable, runner: runnerOrDefault(runner)}
}

func (t *Tool) Name() string { return t.name }

// Executable returns the command the backend invokes.
func (t *Tool) Executable() string { return t.executable }

// Locate returns the resolved executable path and whether it was found.
func (t *Tool) Locate() (string, bool) {
	path, err := exec.LookPath(t.executable)
	if err != nil {
		return "", false
	}
	return path, true
}

func (t *Tool) Install(ctx context.Context, dir string) error {
	output, err := t.runner.Run(ctx, dir, t.executable, "install")
	if err == nil {
		return nil
	}

	ie := &InstallError{Backend: t.name, Dir: dir, ExitCode: -1, Output: tail(string(output), outputTailLines), Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		ie.ExitCode = exitErr.ExitCode()
	}
	return ie
}

func runnerOrDefault(r Runner) Runner {
	if r == nil {
		return ExecRunner{}
	}
	return r
}

// tail keeps the last n lines of s.
func tail(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
