package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/bianoble/interoper/internal/config"
	"github.com/bianoble/interoper/internal/engine"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show information about interoper configuration and package managers",
	Long: `Displays the interoper version, configuration path, package manager selection,
work directory and its size, and which package managers are found on PATH.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// A missing or invalid config still leaves useful information to show.
		var cfg *config.Config
		path, _ := resolveConfigPath()
		if path != "" {
			if loaded, err := config.Load(path); err == nil {
				cfg = loaded
			} else {
				detail("config not loaded: %s", err)
			}
		}
		if cfg != nil && packageManager != "" {
			cfg.PackageManager = config.ParsePackageManager(packageManager)
		}

		result, err := engine.Info(version, cfg, path, outDir)
		if err != nil {
			return err
		}

		configLabel := result.ConfigPath
		if configLabel == "" {
			configLabel = "(not found)"
		}

		fmt.Printf("interoper %s\n", result.Version)
		fmt.Printf("  config:          %s\n", configLabel)
		fmt.Printf("  package manager: %s\n", result.PackageManager)
		if result.WorkDir == "" {
			fmt.Printf("  work dir:        (OUT_DIR not set)\n")
		} else {
			built := "not built"
			if result.Built {
				built = "built"
			}
			fmt.Printf("  work dir:        %s (%s)\n", result.WorkDir, built)
			fmt.Printf("  work dir size:   %s\n", humanize.IBytes(uint64(result.WorkDirSize)))
		}

		fmt.Println("\nPackage managers:")
		for _, b := range result.Backends {
			if b.Available {
				fmt.Printf("  %s %-10s %s %s\n", paint(styleSuccess, iconSuccess), b.Name, iconArrow, b.Path)
			} else {
				fmt.Printf("  %s %-10s %s\n", paint(styleError, iconError), b.Name, paint(styleDim, "not found"))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
