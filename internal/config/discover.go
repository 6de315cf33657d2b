package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileName is the configuration file created by 'interoper init'.
const DefaultFileName = "Interoper.toml"

// CandidateFileNames are checked in order by Discover.
var CandidateFileNames = []string{
	DefaultFileName,
	"interoper.toml",
	"interoper.yaml",
	"interoper.yml",
}

// Discover returns the path of the first configuration file found in dir.
func Discover(dir string) (string, error) {
	for _, name := range CandidateFileNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		return path, nil
	}
	return "", fmt.Errorf("no configuration file found in %s — expected one of %v", dir, CandidateFileNames)
}

// DiscoverOrDefault returns path when it is set, otherwise the discovered
// file in dir, falling back to DefaultFileName in dir.
func DiscoverOrDefault(path, dir string) string {
	if path != "" {
		return path
	}
	found, err := Discover(dir)
	if err != nil {
		return filepath.Join(dir, DefaultFileName)
	}
	return found
}
