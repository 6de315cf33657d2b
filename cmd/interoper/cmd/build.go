package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/bianoble/interoper/internal/engine"
	"github.com/bianoble/interoper/internal/transform"
)

var (
	buildTemplates string
	buildOutput    string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Install dependencies and resolve their locations",
	Long: `Writes package.json into <out-dir>/interoper, runs the package manager there,
and reports the installed directory of every dependency. The installer runs
on every build.

With --templates, every file below the given directory is copied to --output
(default <out-dir>/<templates dir name>) with {{ interop:<name> }} placeholders
replaced by dependency paths.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd.Context())
	},
}

// runBuild loads the configuration, installs, and renders templates if requested.
func runBuild(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, cfgPath, err := loadConfig()
	if err != nil {
		return err
	}
	out, err := requireOutDir()
	if err != nil {
		return err
	}

	logger := loggerFromContext(ctx)
	b, err := newBackend(cfg, cfgPath, logger)
	if err != nil {
		return err
	}

	p := newProgress(logger)
	eng := &engine.BuildEngine{Backend: b, Logger: logger}
	project, err := eng.Build(ctx, cfg, engine.BuildOptions{OutDir: out})
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Installed with %s", project.Backend))

	names := make([]string, 0, len(project.Dependencies))
	for name := range project.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		detail("%s %s %s", name, iconArrow, project.Dependencies[name])
	}
	for _, name := range project.Missing {
		info("  %s %s not found in node_modules", paint(styleWarning, iconWarning), name)
	}

	info("%s Resolved %d of %d dependencies in %s",
		paint(styleSuccess, iconSuccess), len(project.Dependencies), len(cfg.Dependencies), project.WorkDir)

	if buildTemplates == "" {
		return nil
	}
	dst := buildOutput
	if dst == "" {
		dst = filepath.Join(out, filepath.Base(filepath.Clean(buildTemplates)))
	}
	written, err := transform.NewPathTransform(project.Dependencies).RenderDir(buildTemplates, dst)
	if err != nil {
		return fmt.Errorf("rendering templates: %w", err)
	}
	for _, rel := range written {
		detail("rendered %s", rel)
	}
	info("%s Rendered %d template file(s) into %s", paint(styleSuccess, iconSuccess), len(written), dst)
	return nil
}

func init() {
	buildCmd.Flags().StringVar(&buildTemplates, "templates", "", "directory of template files to render after install")
	buildCmd.Flags().StringVar(&buildOutput, "output", "", "destination for rendered templates")
	rootCmd.AddCommand(buildCmd)
}
