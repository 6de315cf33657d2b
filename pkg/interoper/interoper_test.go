package interoper

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
)

// installRunner creates node_modules/<name> for every dependency in the
// package.json of the directory it runs in, except those listed in skip.
type installRunner struct {
	skip  map[string]bool
	calls []string
}

func (r *installRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, name+" "+strings.Join(args, " "))
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return nil, err
	}
	var pkg struct {
		Dependencies map[string]string `json:"dependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}
	for dep := range pkg.Dependencies {
		if r.skip[dep] {
			continue
		}
		if err := os.MkdirAll(filepath.Join(dir, "node_modules", filepath.FromSlash(dep)), 0755); err != nil {
			return nil, err
		}
	}
	return []byte("added packages\n"), nil
}

const testConfig = `package-manager = "npm"

[dependencies]
foo = "1.2.3"
bar = { git = "https://x/y.git", branch = "main" }
"@scope/ui" = { version = "^4.0.0" }
`

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "Interoper.toml")
	if err := os.WriteFile(path, []byte(testConfig), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testOptions(t *testing.T, r *installRunner) Options {
	t.Helper()
	return Options{OutDir: t.TempDir(), Runner: r, Logger: log.New(io.Discard)}
}

func TestBuildFromConfigFile(t *testing.T) {
	runner := &installRunner{}
	opts := testOptions(t, runner)

	project, err := BuildFromConfigFile(context.Background(), writeConfig(t, t.TempDir()), opts)
	if err != nil {
		t.Fatalf("BuildFromConfigFile: %v", err)
	}
	if len(runner.calls) != 1 || runner.calls[0] != "npm install" {
		t.Errorf("calls = %v", runner.calls)
	}
	if project.Backend != "npm" {
		t.Errorf("backend = %q", project.Backend)
	}
	for _, name := range []string{"foo", "bar", "@scope/ui"} {
		p, ok := project.Path(name)
		if !ok {
			t.Errorf("%s not resolved", name)
			continue
		}
		if !filepath.IsAbs(p) {
			t.Errorf("%s path %q is not absolute", name, p)
		}
	}
	if filepath.Base(project.WorkDir) != "interoper" {
		t.Errorf("work dir = %q", project.WorkDir)
	}
}

func TestBuildDiscoversConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	runner := &installRunner{}
	project, err := Build(context.Background(), testOptions(t, runner))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(project.Dependencies) != 3 {
		t.Errorf("dependencies = %v", project.Dependencies)
	}
}

func TestBuildMissingDependency(t *testing.T) {
	runner := &installRunner{skip: map[string]bool{"bar": true}}
	project, err := BuildFromConfigFile(context.Background(), writeConfig(t, t.TempDir()), testOptions(t, runner))
	if err != nil {
		t.Fatalf("missing dependencies must not fail the build: %v", err)
	}
	if _, ok := project.Path("bar"); ok {
		t.Error("bar should be omitted")
	}
	if len(project.Missing) != 1 || project.Missing[0] != "bar" {
		t.Errorf("missing = %v", project.Missing)
	}
}

func TestBuildPackageManagerOverride(t *testing.T) {
	runner := &installRunner{}
	opts := testOptions(t, runner)
	opts.PackageManager = "pnpm"

	project, err := BuildFromConfigFile(context.Background(), writeConfig(t, t.TempDir()), opts)
	if err != nil {
		t.Fatalf("BuildFromConfigFile: %v", err)
	}
	if project.Backend != "pnpm" || runner.calls[0] != "pnpm install" {
		t.Errorf("backend = %q, calls = %v", project.Backend, runner.calls)
	}
}

func TestBuildLocalExecutableRelativeToConfig(t *testing.T) {
	dir := t.TempDir()
	runner := &installRunner{}
	opts := testOptions(t, runner)
	opts.PackageManager = "./bin/installer"

	cfgPath := writeConfig(t, dir)
	if _, err := BuildFromConfigFile(context.Background(), cfgPath, opts); err != nil {
		t.Fatalf("BuildFromConfigFile: %v", err)
	}
	want := filepath.Join(dir, "bin", "installer") + " install"
	if runner.calls[0] != want {
		t.Errorf("call = %q, want %q", runner.calls[0], want)
	}
}

func TestBuildFromConfigOutDirUnset(t *testing.T) {
	_, err := BuildFromConfig(context.Background(), &Config{}, Options{})
	if !errors.Is(err, ErrOutDirUnset) {
		t.Errorf("expected ErrOutDirUnset, got %v", err)
	}
}

func TestOutDirFromEnv(t *testing.T) {
	t.Setenv(OutDirEnv, "")
	if _, err := OutDirFromEnv(); !errors.Is(err, ErrOutDirUnset) {
		t.Errorf("expected ErrOutDirUnset, got %v", err)
	}

	t.Setenv(OutDirEnv, "/tmp/build-out")
	dir, err := OutDirFromEnv()
	if err != nil || dir != "/tmp/build-out" {
		t.Errorf("got %q, %v", dir, err)
	}
}

func TestBuildTemplates(t *testing.T) {
	runner := &installRunner{}
	project, err := BuildFromConfigFile(context.Background(), writeConfig(t, t.TempDir()), testOptions(t, runner))
	if err != nil {
		t.Fatal(err)
	}

	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "index.html"), []byte(`<link href="{{ interop:@scope/ui }}/dist/ui.css">`), 0644); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(t.TempDir(), "site")

	written, err := project.BuildTemplates(src, dst)
	if err != nil {
		t.Fatalf("BuildTemplates: %v", err)
	}
	if len(written) != 1 {
		t.Errorf("written = %v", written)
	}

	data, err := os.ReadFile(filepath.Join(dst, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	ui, _ := project.Path("@scope/ui")
	if string(data) != `<link href="`+ui+`/dist/ui.css">` {
		t.Errorf("rendered = %q", string(data))
	}

	single := filepath.Join(t.TempDir(), "one.txt")
	if err := project.BuildTemplate(filepath.Join(src, "index.html"), single); err != nil {
		t.Fatalf("BuildTemplate: %v", err)
	}
}

func TestStatusAndCheck(t *testing.T) {
	dir := t.TempDir()
	runner := &installRunner{}
	opts := testOptions(t, runner)

	cfgPath := writeConfig(t, dir)
	project, err := BuildFromConfigFile(context.Background(), cfgPath, opts)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		t.Fatal(err)
	}

	st, err := Status(cfg, opts.OutDir)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !st.Built || len(st.Dependencies) != len(project.Dependencies) {
		t.Errorf("status = %+v", st)
	}

	result, err := Check(cfg, opts.OutDir)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !result.Clean {
		t.Errorf("check = %+v", result)
	}
}
