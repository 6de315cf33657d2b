package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild whenever the configuration file changes",
	Long: `Runs a build, then watches the configuration file and rebuilds each time it
is written. Build failures are reported and watching continues. Stop with Ctrl-C.
Accepts the same --templates and --output flags as build.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		if _, err := requireOutDir(); err != nil {
			return err
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolving config path: %w", err)
		}

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt)
		defer stop()
		logger := loggerFromContext(ctx)

		w, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		defer w.Close()

		// Editors often replace the file instead of writing it, so watch the directory.
		if err := w.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
		}

		rebuild := func() {
			if err := runBuild(ctx); err != nil {
				errorf("%s", err)
			}
		}

		rebuild()
		logger.Info("watching for changes", "file", abs)
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if isConfigEvent(ev, abs) {
					logger.Info("configuration changed", "op", ev.Op.String())
					rebuild()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				logger.Warn("watcher error", "err", err)
			}
		}
	},
}

// isConfigEvent reports whether ev wrote or recreated the file at path.
func isConfigEvent(ev fsnotify.Event, path string) bool {
	if filepath.Clean(ev.Name) != path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

func init() {
	watchCmd.Flags().StringVar(&buildTemplates, "templates", "", "directory of template files to render after each install")
	watchCmd.Flags().StringVar(&buildOutput, "output", "", "destination for rendered templates")
	rootCmd.AddCommand(watchCmd)
}
