package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/bianoble/interoper/internal/engine"
	"github.com/bianoble/interoper/internal/sandbox"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the work directory",
	Long:  `Removes <out-dir>/interoper, including package.json, node_modules and the build record.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := requireOutDir()
		if err != nil {
			return err
		}

		workdir := engine.WorkDir(out)
		if _, err := os.Lstat(workdir); errors.Is(err, fs.ErrNotExist) {
			info("Nothing to clean in %s.", out)
			return nil
		}
		if err := sandbox.SafeRemoveAll(out, engine.WorkDirName); err != nil {
			return err
		}
		info("Removed %s", workdir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
