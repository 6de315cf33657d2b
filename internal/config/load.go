package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is the serialization format of a configuration file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the configuration format from a file extension.
// JSON is a subset of YAML and is read with the YAML decoder.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported config format '%s' — use .toml, .yaml or .yml", filepath.Ext(path))
}

// rawConfig is the document shape before dependency discrimination.
type rawConfig struct {
	PackageManager string         `toml:"package-manager" yaml:"package-manager"`
	Dependencies   map[string]any `toml:"dependencies" yaml:"dependencies"`
}

// Parse decodes configuration data in the given format.
func Parse(data []byte, format Format) (*Config, error) {
	var raw rawConfig
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format '%s'", format)
	}

	deps, err := DecodeDependencies(raw.Dependencies)
	if err != nil {
		return nil, err
	}

	return &Config{
		PackageManager: ParsePackageManager(raw.PackageManager),
		Dependencies:   deps,
	}, nil
}

// Load reads, decodes and validates a configuration file.
func Load(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg, err := Parse(data, format)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Path = path
			return nil, de
		}
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if errs := Validate(cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return cfg, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.PackageManager.Kind == ManagerLocal && strings.TrimSpace(cfg.PackageManager.Executable) == "" {
		errs = append(errs, "package-manager: local executable path is empty")
	}

	if len(cfg.Dependencies) == 0 {
		errs = append(errs, "at least one dependency is required")
	}

	for _, key := range sortedKeys(cfg.Dependencies) {
		spec := cfg.Dependencies[key]
		prefix := fmt.Sprintf("dependency '%s'", key)

		if key == "" {
			errs = append(errs, "dependency with empty name")
			continue
		}
		if strings.TrimSpace(key) != key {
			errs = append(errs, fmt.Sprintf("%s: name has leading or trailing whitespace", prefix))
		}

		errs = append(errs, validateSpec(spec, prefix)...)
	}

	return errs
}

func validateSpec(spec DependencySpec, prefix string) []string {
	var errs []string

	switch spec.Kind {
	case KindRegistryVersion:
		if spec.Version == "" {
			errs = append(errs, fmt.Sprintf("%s: version string is empty — use \"*\" or \"latest\" for any version", prefix))
		}
	case KindRegistry:
		if spec.Version == "" {
			errs = append(errs, fmt.Sprintf("%s: 'version' is empty", prefix))
		}
		if spec.Registry == "" {
			errs = append(errs, fmt.Sprintf("%s: 'registry' is empty — omit it to use %q", prefix, DefaultRegistry))
		}
	case KindURL:
		if spec.URL == "" {
			errs = append(errs, fmt.Sprintf("%s: 'url' is empty", prefix))
		}
	case KindGit:
		if spec.Git == "" {
			errs = append(errs, fmt.Sprintf("%s: 'git' is empty — add 'git = \"https://...\"'", prefix))
		}
		errs = append(errs, validateRef(spec.Ref, prefix)...)
	case KindGithub:
		if spec.Github == "" {
			errs = append(errs, fmt.Sprintf("%s: 'github' is empty — add 'github = \"owner/repo\"'", prefix))
		} else if !strings.Contains(spec.Github, "/") {
			errs = append(errs, fmt.Sprintf("%s: 'github' must be in owner/repo form, got '%s'", prefix, spec.Github))
		}
		errs = append(errs, validateRef(spec.Ref, prefix)...)
	case KindLocalPath:
		if spec.Path == "" {
			errs = append(errs, fmt.Sprintf("%s: 'path' is empty", prefix))
		}
	default:
		errs = append(errs, fmt.Sprintf("%s: unknown kind '%s'", prefix, spec.Kind))
	}

	return errs
}

func validateRef(ref *GitVersion, prefix string) []string {
	if ref != nil && ref.Value == "" {
		return []string{fmt.Sprintf("%s: '%s' is empty", prefix, ref.Kind)}
	}
	return nil
}
