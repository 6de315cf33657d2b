package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/bianoble/interoper/internal/config"
)

// fakeRunner records invocations and succeeds only for listed executables.
type fakeRunner struct {
	succeed map[string]bool
	calls   []string
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	if f.succeed[name] {
		return []byte("added 1 package"), nil
	}
	return []byte("line one\nfatal: " + name + " broke\n"), fmt.Errorf("%s: %w", name, exec.ErrNotFound)
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestAutoStopsAtFirstSuccess(t *testing.T) {
	runner := &fakeRunner{succeed: map[string]bool{"yarn": true, "npm": true}}
	auto := NewAuto(runner, quietLogger())

	chosen, err := auto.Select(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if chosen.Name() != "yarn" {
		t.Errorf("chosen = %q, want yarn", chosen.Name())
	}

	want := []string{"bun install", "pnpm install", "yarn install"}
	if strings.Join(runner.calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", runner.calls, want)
	}
}

func TestAutoFirstCandidate(t *testing.T) {
	runner := &fakeRunner{succeed: map[string]bool{"bun": true, "npm": true}}
	if err := NewAuto(runner, quietLogger()).Install(context.Background(), t.TempDir()); err != nil {
		t.Fatalf("Install: %v", err)
	}
	if len(runner.calls) != 1 || runner.calls[0] != "bun install" {
		t.Errorf("calls = %v", runner.calls)
	}
}

func TestAutoNoBackendAvailable(t *testing.T) {
	runner := &fakeRunner{}
	err := NewAuto(runner, quietLogger()).Install(context.Background(), t.TempDir())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrNoBackendAvailable) {
		t.Errorf("error should match ErrNoBackendAvailable: %v", err)
	}

	var nb *NoBackendAvailableError
	if !errors.As(err, &nb) {
		t.Fatalf("expected NoBackendAvailableError, got %T", err)
	}
	if strings.Join(nb.Tried, ",") != "bun,pnpm,yarn,npm" {
		t.Errorf("tried = %v", nb.Tried)
	}
	if len(nb.Errors) != 4 {
		t.Errorf("errors = %d, want 4", len(nb.Errors))
	}
	if !strings.Contains(err.Error(), "tried bun, pnpm, yarn, npm") {
		t.Errorf("message should list tried backends: %v", err)
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Error("underlying not-found errors should be reachable")
	}
}

func TestAutoNilLogger(t *testing.T) {
	runner := &fakeRunner{succeed: map[string]bool{"npm": true}}
	auto := &Auto{Candidates: []Backend{NewTool("npm", runner)}}
	if err := auto.Install(context.Background(), t.TempDir()); err != nil {
		t.Fatalf("Install: %v", err)
	}
}

func TestToolInstallError(t *testing.T) {
	runner := &fakeRunner{}
	err := NewTool("pnpm", runner).Install(context.Background(), "/work")

	var ie *InstallError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InstallError, got %v", err)
	}
	if ie.Backend != "pnpm" || ie.Dir != "/work" || ie.ExitCode != -1 {
		t.Errorf("install error = %+v", ie)
	}
	if !strings.Contains(ie.Output, "fatal: pnpm broke") {
		t.Errorf("output = %q", ie.Output)
	}
	if !strings.Contains(err.Error(), "installed and on PATH") {
		t.Errorf("missing hint: %v", err)
	}
}

func TestRegistryFromSelector(t *testing.T) {
	runner := &fakeRunner{}
	reg := DefaultRegistry(runner, quietLogger())

	tests := []struct {
		sel  config.PackageManager
		want string
	}{
		{config.PackageManager{}, "auto"},
		{config.PackageManager{Kind: config.ManagerAuto}, "auto"},
		{config.PackageManager{Kind: config.ManagerNpm}, "npm"},
		{config.PackageManager{Kind: config.ManagerPnpm}, "pnpm"},
		{config.PackageManager{Kind: config.ManagerYarn}, "yarn"},
		{config.PackageManager{Kind: config.ManagerBun}, "bun"},
		{config.PackageManager{Kind: config.ManagerLocal, Executable: "./bin/pm"}, "./bin/pm"},
	}
	for _, tt := range tests {
		b, err := reg.FromSelector(tt.sel, runner)
		if err != nil {
			t.Errorf("%v: %v", tt.sel, err)
			continue
		}
		if b.Name() != tt.want {
			t.Errorf("%v: name = %q, want %q", tt.sel, b.Name(), tt.want)
		}
	}

	if _, ok := mustGet(t, reg, "auto").(Selector); !ok {
		t.Error("auto backend should implement Selector")
	}
}

func TestRegistryErrors(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Get("deno")
	if err == nil || !strings.Contains(err.Error(), "unknown package manager 'deno'") {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), "(none registered)") {
		t.Errorf("empty registry should say so: %v", err)
	}

	if _, err := reg.FromSelector(config.PackageManager{Kind: config.ManagerLocal}, nil); err == nil {
		t.Error("expected error for empty local executable")
	}
}

func TestLocalExecutableRealProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not available on Windows")
	}

	dir := t.TempDir()
	script := filepath.Join(t.TempDir(), "fake-pm")
	body := "#!/bin/sh\nif [ \"$1\" != install ]; then exit 9; fi\nmkdir -p node_modules/foo\necho installed\n"
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatal(err)
	}

	if err := NewLocal(script, nil).Install(context.Background(), dir); err != nil {
		t.Fatalf("Install: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "node_modules", "foo")); err != nil {
		t.Errorf("script should run inside dir: %v", err)
	}
}

func TestLocalExecutableExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not available on Windows")
	}

	script := filepath.Join(t.TempDir(), "failing-pm")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho 'ERR! network' >&2\nexit 3\n"), 0755); err != nil {
		t.Fatal(err)
	}

	err := NewLocal(script, nil).Install(context.Background(), t.TempDir())
	var ie *InstallError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InstallError, got %v", err)
	}
	if ie.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", ie.ExitCode)
	}
	if !strings.Contains(ie.Output, "ERR! network") {
		t.Errorf("output = %q", ie.Output)
	}
	if !strings.Contains(err.Error(), "exit status 3") {
		t.Errorf("message = %v", err)
	}
}

func TestLocalExecutableNotFound(t *testing.T) {
	err := NewLocal("definitely-not-a-package-manager-xyz", nil).Install(context.Background(), t.TempDir())
	var ie *InstallError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InstallError, got %v", err)
	}
	if ie.ExitCode != -1 {
		t.Errorf("exit code = %d, want -1", ie.ExitCode)
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("expected exec.ErrNotFound, got %v", err)
	}
}

func TestTail(t *testing.T) {
	var lines []string
	for i := 0; i < 30; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}
	got := tail(strings.Join(lines, "\n")+"\n", 20)
	if strings.Count(got, "\n") != 19 || !strings.HasPrefix(got, "line 10") || !strings.HasSuffix(got, "line 29") {
		t.Errorf("tail = %q", got)
	}
	if tail("", 5) != "" {
		t.Error("empty input should stay empty")
	}
}

func mustGet(t *testing.T, reg *Registry, name string) Backend {
	t.Helper()
	b, err := reg.Get(name)
	if err != nil {
		t.Fatal(err)
	}
	return b
}
