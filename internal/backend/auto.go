package backend

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bianoble/interoper/internal/config"
)

// Auto tries each candidate in order and stops at the first successful install.
type Auto struct {
	Candidates []Backend
	Logger     *log.Logger
}

// NewAuto returns an Auto backend over the known managers in priority order:
// bun, pnpm, yarn, npm.
func NewAuto(runner Runner, logger *log.Logger) *Auto {
	candidates := make([]Backend, 0, len(config.KnownManagers))
	for _, kind := range config.KnownManagers {
		candidates = append(candidates, NewTool(string(kind), runner))
	}
	return &Auto{Candidates: candidates, Logger: logger}
}

func (a *Auto) Name() string { return string(config.ManagerAuto) }

func (a *Auto) Install(ctx context.Context, dir string) error {
	_, err := a.Select(ctx, dir)
	return err
}

// Select runs the candidates in order and returns the one that succeeded.
// A failed attempt may leave the work directory partially populated.
func (a *Auto) Select(ctx context.Context, dir string) (Backend, error) {
	logger := a.Logger
	if logger == nil {
		logger = log.Default()
	}

	nb := &NoBackendAvailableError{}
	for _, b := range a.Candidates {
		logger.Debug("trying package manager", "backend", b.Name(), "dir", dir)
		err := b.Install(ctx, dir)
		if err == nil {
			logger.Info("install succeeded", "backend", b.Name())
			return b, nil
		}
		logger.Warn("package manager failed", "backend", b.Name(), "err", firstLine(err))
		nb.Tried = append(nb.Tried, b.Name())
		nb.Errors = append(nb.Errors, err)
	}
	return nil, nb
}

func firstLine(err error) string {
	line, _, _ := strings.Cut(err.Error(), "\n")
	return line
}
