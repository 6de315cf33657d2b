package lock

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bianoble/interoper/internal/sandbox"
)

// Load reads and validates a build record.
func Load(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lockfile %s: %w", path, err)
	}

	var lf Lockfile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parsing lockfile %s: %w", path, err)
	}

	if errs := Validate(&lf); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return &lf, nil
}

// Save writes the build record atomically into workdir.
// Dependencies are sorted by name.
func Save(workdir string, lf *Lockfile) error {
	sort.Slice(lf.Dependencies, func(i, j int) bool {
		return lf.Dependencies[i].Name < lf.Dependencies[j].Name
	})

	data, err := yaml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("marshaling lockfile: %w", err)
	}

	if err := sandbox.SafeWrite(workdir, FileName, data, 0644); err != nil {
		return fmt.Errorf("writing lockfile: %w", err)
	}
	return nil
}

// HashManifest returns the hex SHA256 of manifest content.
func HashManifest(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("lockfile validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Lockfile for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(lf *Lockfile) []string {
	var errs []string

	if lf.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d — only version 1 is supported", lf.Version))
	}
	if lf.Backend == "" {
		errs = append(errs, "'backend' is required")
	}

	names := make(map[string]bool)
	for i, dep := range lf.Dependencies {
		prefix := fmt.Sprintf("dependency[%d]", i)
		if dep.Name != "" {
			prefix = fmt.Sprintf("dependency '%s'", dep.Name)
		}

		if dep.Name == "" {
			errs = append(errs, fmt.Sprintf("%s: 'name' is required", prefix))
		} else if names[dep.Name] {
			errs = append(errs, fmt.Sprintf("%s: duplicate dependency name '%s'", prefix, dep.Name))
		} else {
			names[dep.Name] = true
		}

		switch dep.Status {
		case StatusInstalled:
			if dep.Path == "" {
				errs = append(errs, fmt.Sprintf("%s: installed dependency requires 'path'", prefix))
			}
		case StatusMissing:
		case "":
			errs = append(errs, fmt.Sprintf("%s: 'status' is required", prefix))
		default:
			errs = append(errs, fmt.Sprintf("%s: invalid status '%s' — must be one of: installed, missing", prefix, dep.Status))
		}
	}

	return errs
}
