package config

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeDependencyShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want DependencySpec
	}{
		{
			name: "bare string",
			raw:  "1.2.3",
			want: DependencySpec{Kind: KindRegistryVersion, Version: "1.2.3"},
		},
		{
			name: "registry defaults",
			raw:  map[string]any{"version": "^2.0.0"},
			want: DependencySpec{Kind: KindRegistry, Registry: "npm", Version: "^2.0.0"},
		},
		{
			name: "registry with name and registry",
			raw:  map[string]any{"version": "1.0.0", "name": "real-pkg", "registry": "jsr"},
			want: DependencySpec{Kind: KindRegistry, Registry: "jsr", Name: "real-pkg", Version: "1.0.0"},
		},
		{
			name: "url",
			raw:  map[string]any{"url": "https://example.com/pkg.tgz"},
			want: DependencySpec{Kind: KindURL, URL: "https://example.com/pkg.tgz"},
		},
		{
			name: "git without version",
			raw:  map[string]any{"git": "https://x/y.git"},
			want: DependencySpec{Kind: KindGit, Git: "https://x/y.git"},
		},
		{
			name: "git with tag",
			raw:  map[string]any{"git": "https://x/y.git", "tag": "v1.0.0"},
			want: DependencySpec{Kind: KindGit, Git: "https://x/y.git", Ref: &GitVersion{Kind: RefTag, Value: "v1.0.0"}},
		},
		{
			name: "git with ref",
			raw:  map[string]any{"git": "https://x/y.git", "ref": "abc123"},
			want: DependencySpec{Kind: KindGit, Git: "https://x/y.git", Ref: &GitVersion{Kind: RefReference, Value: "abc123"}},
		},
		{
			name: "github with branch",
			raw:  map[string]any{"github": "owner/repo", "branch": "main"},
			want: DependencySpec{Kind: KindGithub, Github: "owner/repo", Ref: &GitVersion{Kind: RefBranch, Value: "main"}},
		},
		{
			name: "path",
			raw:  map[string]any{"path": "../local-lib"},
			want: DependencySpec{Kind: KindLocalPath, Path: "../local-lib"},
		},
		{
			name: "yaml style map",
			raw:  map[any]any{"path": "./vendor/lib"},
			want: DependencySpec{Kind: KindLocalPath, Path: "./vendor/lib"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeDependency("pkg", tt.raw)
			if err != nil {
				t.Fatalf("DecodeDependency: %v", err)
			}
			assertSpecEqual(t, got, tt.want)
		})
	}
}

func TestDecodeDependencyPrecedence(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want SpecKind
	}{
		{"git wins over path", map[string]any{"git": "https://x/y.git", "path": "./y"}, KindGit},
		{"url wins over git", map[string]any{"url": "https://x/y.tgz", "git": "https://x/y.git"}, KindURL},
		{"git wins over github", map[string]any{"github": "o/r", "git": "https://x/y.git"}, KindGit},
		{"github wins over path", map[string]any{"github": "o/r", "path": "./y"}, KindGithub},
		{"path wins over version", map[string]any{"path": "./y", "version": "1.0.0"}, KindLocalPath},
		{"url wins over version", map[string]any{"url": "https://x/y.tgz", "version": "1.0.0"}, KindURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 20; i++ {
				got, err := DecodeDependency("pkg", tt.raw)
				if err != nil {
					t.Fatalf("DecodeDependency: %v", err)
				}
				if got.Kind != tt.want {
					t.Fatalf("kind = %q, want %q", got.Kind, tt.want)
				}
			}
		})
	}
}

func TestDecodeGitVersionPrecedence(t *testing.T) {
	got, err := DecodeDependency("pkg", map[string]any{
		"git":    "https://x/y.git",
		"branch": "main",
		"ref":    "abc",
		"tag":    "v1",
	})
	if err != nil {
		t.Fatalf("DecodeDependency: %v", err)
	}
	if got.Ref == nil || got.Ref.Kind != RefTag || got.Ref.Value != "v1" {
		t.Errorf("ref = %+v, want tag v1", got.Ref)
	}
}

func TestDecodeDependencyInvalid(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		wantMsg string
	}{
		{"no discriminating field", map[string]any{"name": "x"}, "none of 'version'"},
		{"empty table", map[string]any{}, "none of 'version'"},
		{"number", 12, "expected a version string or a table"},
		{"list", []any{"a"}, "expected a version string or a table"},
		{"url not a string", map[string]any{"url": 3}, "field 'url' must be a string"},
		{"tag not a string", map[string]any{"git": "https://x/y.git", "tag": true}, "field 'tag' must be a string"},
		{"name not a string", map[string]any{"version": "1", "name": 1}, "field 'name' must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDependency("broken-dep", tt.raw)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidDependencySpec) {
				t.Errorf("error should match ErrInvalidDependencySpec: %v", err)
			}
			var specErr *InvalidDependencySpecError
			if !errors.As(err, &specErr) || specErr.Key != "broken-dep" {
				t.Errorf("error should name the key: %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestDecodeDependenciesCollectsAllErrors(t *testing.T) {
	_, err := DecodeDependencies(map[string]any{
		"ok":  "1.0.0",
		"zed": map[string]any{},
		"abc": 42,
	})
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if len(de.Errors) != 2 {
		t.Fatalf("errors = %d, want 2", len(de.Errors))
	}
	if !strings.Contains(de.Errors[0].Error(), "'abc'") || !strings.Contains(de.Errors[1].Error(), "'zed'") {
		t.Errorf("errors not ordered by key: %v", de.Errors)
	}
	if !errors.Is(err, ErrInvalidDependencySpec) {
		t.Error("DecodeError should unwrap to ErrInvalidDependencySpec")
	}
}

func assertSpecEqual(t *testing.T, got, want DependencySpec) {
	t.Helper()
	gotRef, wantRef := got.Ref, want.Ref
	got.Ref, want.Ref = nil, nil
	if got != want {
		t.Errorf("spec = %+v, want %+v", got, want)
	}
	switch {
	case gotRef == nil && wantRef == nil:
	case gotRef == nil || wantRef == nil:
		t.Errorf("ref = %v, want %v", gotRef, wantRef)
	case *gotRef != *wantRef:
		t.Errorf("ref = %+v, want %+v", *gotRef, *wantRef)
	}
}
