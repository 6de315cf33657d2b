package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	configPath     string
	outDir         string
	packageManager string
	verbose        bool
	quiet          bool
	noColor        bool
)

var rootCmd = &cobra.Command{
	Use:   "interoper",
	Short: "Install JavaScript packages for a build and report where they landed",
	Long: `interoper reads Interoper.toml (or interoper.yaml), writes a package.json
into <OUT_DIR>/interoper, runs a Node package manager there, and resolves the
installed location of every declared dependency so build steps can reference
the files through {{ interop:<name> }} placeholders.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := log.InfoLevel
		switch {
		case verbose:
			level = log.DebugLevel
		case quiet:
			level = log.ErrorLevel
		}
		cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("interoper %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: Interoper.toml or interoper.yaml in the current directory)")
	rootCmd.PersistentFlags().StringVar(&outDir, "out-dir", os.Getenv("OUT_DIR"), "build output root (default: $OUT_DIR)")
	rootCmd.PersistentFlags().StringVar(&packageManager, "package-manager", "", "override the configured package manager (auto, npm, pnpm, yarn, bun or an executable path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "detailed output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimal output (errors only)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable colored output")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		errorf("%s", err)
		return err
	}
	return nil
}
