package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bianoble/interoper/internal/config"
)

var initForce bool

// initTemplate is the default Interoper.toml scaffold.
// It includes a working registry dependency and commented-out alternatives.
const initTemplate = `# interoper configuration
# Docs: https://github.com/bianoble/interoper

# auto tries bun, pnpm, yarn, then npm. Any other value is run as an
# executable with the single argument "install".
package-manager = "auto"

[dependencies]
# Registry version (most common)
"htmx.org" = "2.0.4"

# Registry package under another name
# ui = { version = "^4.0.0", name = "@acme/ui" }

# Tarball URL
# charts = { url = "https://example.com/charts-1.0.0.tgz" }

# Git repository, pinned by tag, ref or branch
# widgets = { git = "https://github.com/your-org/widgets.git", tag = "v1.2.0" }

# GitHub shorthand
# icons = { github = "your-org/icons", branch = "main" }

# Local directory
# shared = { path = "../shared-js" }
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter Interoper.toml configuration",
	Long: `Creates an Interoper.toml file in the current directory (or at --config) with
a well-commented template including a registry dependency and documented
alternatives for URL, git, GitHub and local path sources.

Use --force to overwrite an existing configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath := config.DiscoverOrDefault(configPath, ".")
		if !filepath.IsAbs(outPath) {
			abs, err := filepath.Abs(outPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			outPath = abs
		}

		if !initForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
			}
		}

		if err := os.WriteFile(outPath, []byte(initTemplate), 0644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		info("Created %s", outPath)
		info("")
		info("Next steps:")
		info("  1. Edit the file to declare your dependencies")
		info("  2. Run 'interoper manifest' to preview the generated package.json")
		info("  3. Run 'interoper build --out-dir <dir>' to install and resolve them")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	rootCmd.AddCommand(initCmd)
}
