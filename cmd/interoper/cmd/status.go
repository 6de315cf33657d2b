package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/interoper/internal/engine"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of every dependency in the work directory",
	Long: `Resolves every configured dependency against the last build in
<out-dir>/interoper without running an installer, and shows its manifest
entry, installed version and state (installed, missing, stale, pending).`,
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
		st, err := eng.Status(cfg, out)
		if err != nil {
			return err
		}

		if !st.Built {
			info("No build found in %s. Run 'interoper build' first.", st.WorkDir)
		} else {
			info("%s %s (installed with %s)", paint(styleTitle, "Work directory:"), st.WorkDir, st.Backend)
		}

		fmt.Printf("%-24s %-16s %-32s %-10s %s\n", "NAME", "KIND", "ENTRY", "VERSION", "STATE")
		for _, d := range st.Dependencies {
			entry := d.Entry
			if len(entry) > 32 {
				entry = entry[:29] + "..."
			}
			version := d.Version
			if version == "" {
				version = "-"
			}
			fmt.Printf("%-24s %-16s %-32s %-10s %s\n", d.Name, d.Kind, entry, version, stateLabel(d.State))
			if d.Path != "" {
				detail("%s %s", iconArrow, d.Path)
			}
		}
		return nil
	},
}

func stateLabel(state string) string {
	switch state {
	case engine.StateInstalled:
		return paint(styleSuccess, state)
	case engine.StateMissing:
		return paint(styleError, state)
	case engine.StateStale:
		return paint(styleWarning, state)
	}
	return paint(styleDim, state)
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
