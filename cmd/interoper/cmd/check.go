package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bianoble/interoper/internal/engine"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the work directory matches the configuration",
	Long: `Compares the configuration with the last build in <out-dir>/interoper.
Reports dependencies that are missing from node_modules or whose manifest
entry changed since the build. Exit 0 if everything matches; exit non-zero
otherwise. Suitable for CI pipelines.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		out, err := requireOutDir()
		if err != nil {
			return err
		}

		eng := &engine.StatusEngine{Logger: loggerFromContext(cmd.Context())}
		result, err := eng.Check(cfg, out)
		if err != nil {
			return err
		}

		if result.Clean {
			info("%s All dependencies match the last build.", paint(styleSuccess, iconSuccess))
			return nil
		}
		if !result.Built {
			return fmt.Errorf("check failed: no build found in %s", engine.WorkDir(out))
		}

		if result.ManifestDrift {
			info("  %s package.json differs from the configuration", paint(styleWarning, "changed"))
			for _, line := range strings.Split(strings.TrimSuffix(result.ManifestDiff, "\n"), "\n") {
				detail("  %s", line)
			}
		}
		for _, name := range result.Stale {
			info("  %s   %s", paint(styleWarning, "stale"), name)
		}
		for _, name := range result.Missing {
			info("  %s %s", paint(styleError, "missing"), name)
		}

		total := len(result.Stale) + len(result.Missing)
		return fmt.Errorf("check failed: %d dependency(ies) out of date", total)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
