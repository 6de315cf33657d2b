package transform

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bianoble/interoper/internal/sandbox"
)

// Placeholder prefixes recognized inside "{{ <prefix>:<name> }}".
// "interoper" is the spelling used by older configurations.
var PlaceholderPrefixes = []string{"interop", "interoper"}

// Placeholder returns the canonical placeholder token for a dependency.
func Placeholder(name string) string {
	return "{{ " + PlaceholderPrefixes[0] + ":" + name + " }}"
}

// PathTransform replaces dependency placeholders with resolved install paths.
type PathTransform struct {
	replacer *strings.Replacer
}

// NewPathTransform builds a transform for the given name to path mapping.
func NewPathTransform(paths map[string]string) *PathTransform {
	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	var pairs []string
	for _, name := range names {
		for _, prefix := range PlaceholderPrefixes {
			pairs = append(pairs, "{{ "+prefix+":"+name+" }}", paths[name])
		}
	}
	return &PathTransform{replacer: strings.NewReplacer(pairs...)}
}

// Apply processes a single file's content. Unknown placeholders are kept as is.
func (t *PathTransform) Apply(content []byte) []byte {
	// Skip binary files.
	if !utf8.Valid(content) || containsNullByte(content) {
		return content
	}
	return []byte(t.replacer.Replace(string(content)))
}

// RenderFile renders src into dst.
func (t *PathTransform) RenderFile(src, dst string) error {
	content, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading template %s: %w", src, err)
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	dir, base := filepath.Split(dst)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := sandbox.SafeWrite(dir, base, t.Apply(content), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}

// RenderDir renders every file below src into dst, keeping relative paths.
// It returns the relative paths written, in walk order.
func (t *PathTransform) RenderDir(src, dst string) ([]string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("template source %s: %w", src, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template source %s is not a directory", src)
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return nil, fmt.Errorf("creating destination %s: %w", dst, err)
	}

	var written []string
	err = filepath.WalkDir(src, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			return sandbox.SafeMkdirAll(dst, rel, 0755)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", rel, err)
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		if err := sandbox.SafeWrite(dst, rel, t.Apply(content), fi.Mode().Perm()); err != nil {
			return fmt.Errorf("file '%s': %w", rel, err)
		}
		written = append(written, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return written, nil
}

func containsNullByte(data []byte) bool {
	return bytes.ContainsRune(data, 0)
}
