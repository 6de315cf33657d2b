// Package resolve maps configured dependency names to their install directories.
package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bianoble/interoper/internal/sandbox"
)

// InstallDirName is the directory package managers install into.
const InstallDirName = "node_modules"

// Result holds the outcome of resolving dependency names.
type Result struct {
	// Paths maps dependency name to its absolute, symlink-free directory.
	Paths map[string]string

	// Missing lists names whose expected directory does not exist. This is
	// not an error: installers may hoist or dedupe packages elsewhere.
	Missing []string
}

// IsScoped reports whether name has the form @scope/package.
func IsScoped(name string) bool {
	return strings.HasPrefix(name, "@") && strings.Count(name, "/") == 1
}

// RelPath returns the path of name relative to the installed root.
func RelPath(name string) string {
	if IsScoped(name) {
		scope, pkg, _ := strings.Cut(name, "/")
		return filepath.Join(scope, pkg)
	}
	return name
}

// Resolve looks up each name under installedRoot. Names are processed in
// sorted order so Missing is deterministic.
func Resolve(installedRoot string, names []string) (*Result, error) {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	res := &Result{Paths: make(map[string]string, len(sorted))}
	for _, name := range sorted {
		candidate, err := sandbox.JoinWithin(installedRoot, RelPath(name))
		if err != nil {
			res.Missing = append(res.Missing, name)
			continue
		}

		if _, err := os.Stat(candidate); err != nil {
			if os.IsNotExist(err) {
				res.Missing = append(res.Missing, name)
				continue
			}
			return nil, fmt.Errorf("checking %s: %w", name, err)
		}

		canonical, err := Canonicalize(candidate)
		if err != nil {
			return nil, fmt.Errorf("canonicalizing %s: %w", name, err)
		}
		res.Paths[name] = canonical
	}
	return res, nil
}

// Canonicalize returns the absolute path of p with all symlinks resolved.
func Canonicalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// Complete reports whether every name in names was resolved.
func (r *Result) Complete() bool {
	return len(r.Missing) == 0
}
