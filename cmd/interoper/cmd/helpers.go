package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bianoble/interoper/internal/backend"
	"github.com/bianoble/interoper/internal/config"
	"github.com/bianoble/interoper/internal/engine"
)

// resolveConfigPath returns --config or the discovered config file.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.Discover(".")
}

// loadConfig reads and validates the config file.
func loadConfig() (*config.Config, string, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, path, nil
}

// requireOutDir returns --out-dir, which defaults to $OUT_DIR.
func requireOutDir() (string, error) {
	if outDir == "" {
		return "", engine.ErrOutDirUnset
	}
	return outDir, nil
}

// newBackend selects the installer for cfg, honoring --package-manager.
// Relative executable paths are taken relative to the config file.
func newBackend(cfg *config.Config, cfgPath string, logger *log.Logger) (backend.Backend, error) {
	sel := cfg.PackageManager
	if packageManager != "" {
		sel = config.ParsePackageManager(packageManager)
	}
	base, err := filepath.Abs(filepath.Dir(cfgPath))
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	return backend.DefaultRegistry(nil, logger).FromSelector(sel.WithBaseDir(base), nil)
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Printf("  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, paint(styleError, "error:")+" "+format+"\n", args...)
}
