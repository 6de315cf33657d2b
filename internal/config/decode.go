package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidDependencySpec is matched by every InvalidDependencySpecError.
var ErrInvalidDependencySpec = errors.New("invalid dependency spec")

// InvalidDependencySpecError reports a dependency value that matches no known shape.
type InvalidDependencySpecError struct {
	Key    string
	Reason string
}

func (e *InvalidDependencySpecError) Error() string {
	return fmt.Sprintf("dependency '%s': %s", e.Key, e.Reason)
}

func (e *InvalidDependencySpecError) Is(target error) bool {
	return target == ErrInvalidDependencySpec
}

// DecodeError collects every dependency that failed to decode.
type DecodeError struct {
	Path   string
	Errors []error
}

func (e *DecodeError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	prefix := "decoding config"
	if e.Path != "" {
		prefix = fmt.Sprintf("decoding config %s", e.Path)
	}
	return fmt.Sprintf("%s:\n  - %s", prefix, strings.Join(msgs, "\n  - "))
}

func (e *DecodeError) Unwrap() []error {
	return e.Errors
}

// DecodeDependency turns one raw configuration value into a DependencySpec.
//
// Several shapes overlap, so fields are probed in a fixed order and the
// first match wins: bare string, url, git, github, path, version.
func DecodeDependency(key string, raw any) (DependencySpec, error) {
	invalid := func(format string, args ...any) (DependencySpec, error) {
		return DependencySpec{}, &InvalidDependencySpecError{Key: key, Reason: fmt.Sprintf(format, args...)}
	}

	if s, ok := raw.(string); ok {
		return DependencySpec{Kind: KindRegistryVersion, Version: s}, nil
	}

	m, ok := asMap(raw)
	if !ok {
		return invalid("expected a version string or a table, got %T", raw)
	}

	if _, has := m["url"]; has {
		url, err := stringField(m, "url")
		if err != nil {
			return invalid("%v", err)
		}
		return DependencySpec{Kind: KindURL, URL: url}, nil
	}

	if _, has := m["git"]; has {
		repo, err := stringField(m, "git")
		if err != nil {
			return invalid("%v", err)
		}
		ref, err := decodeGitVersion(m)
		if err != nil {
			return invalid("%v", err)
		}
		return DependencySpec{Kind: KindGit, Git: repo, Ref: ref}, nil
	}

	if _, has := m["github"]; has {
		repo, err := stringField(m, "github")
		if err != nil {
			return invalid("%v", err)
		}
		ref, err := decodeGitVersion(m)
		if err != nil {
			return invalid("%v", err)
		}
		return DependencySpec{Kind: KindGithub, Github: repo, Ref: ref}, nil
	}

	if _, has := m["path"]; has {
		p, err := stringField(m, "path")
		if err != nil {
			return invalid("%v", err)
		}
		return DependencySpec{Kind: KindLocalPath, Path: p}, nil
	}

	if _, has := m["version"]; has {
		version, err := stringField(m, "version")
		if err != nil {
			return invalid("%v", err)
		}
		spec := DependencySpec{Kind: KindRegistry, Registry: DefaultRegistry, Version: version}
		if _, has := m["registry"]; has {
			if spec.Registry, err = stringField(m, "registry"); err != nil {
				return invalid("%v", err)
			}
		}
		if _, has := m["name"]; has {
			if spec.Name, err = stringField(m, "name"); err != nil {
				return invalid("%v", err)
			}
		}
		return spec, nil
	}

	return invalid("none of 'version', 'url', 'git', 'github' or 'path' is set (found keys: %s)", strings.Join(sortedKeys(m), ", "))
}

// DecodeDependencies decodes every entry of a raw dependency table.
// All failures are reported together, ordered by key.
func DecodeDependencies(raw map[string]any) (map[string]DependencySpec, error) {
	deps := make(map[string]DependencySpec, len(raw))
	var errs []error
	for _, key := range sortedKeys(raw) {
		spec, err := DecodeDependency(key, raw[key])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		deps[key] = spec
	}
	if len(errs) > 0 {
		return nil, &DecodeError{Errors: errs}
	}
	return deps, nil
}

func decodeGitVersion(m map[string]any) (*GitVersion, error) {
	for _, kind := range []RefKind{RefTag, RefReference, RefBranch} {
		if _, has := m[string(kind)]; !has {
			continue
		}
		v, err := stringField(m, string(kind))
		if err != nil {
			return nil, err
		}
		return &GitVersion{Kind: kind, Value: v}, nil
	}
	return nil, nil
}

func stringField(m map[string]any, field string) (string, error) {
	s, ok := m[field].(string)
	if !ok {
		return "", fmt.Errorf("field '%s' must be a string, got %T", field, m[field])
	}
	return s, nil
}

// asMap normalizes the table types produced by the TOML and YAML decoders.
func asMap(raw any) (map[string]any, bool) {
	switch v := raw.(type) {
	case map[string]any:
		return v, true
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			m[ks] = val
		}
		return m, true
	}
	return nil, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
