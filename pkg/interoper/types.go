package interoper

import (
	"github.com/bianoble/interoper/internal/backend"
	"github.com/bianoble/interoper/internal/config"
	"github.com/bianoble/interoper/internal/engine"
)

// Type aliases re-export internal types as the public API.

type Config = config.Config
type DependencySpec = config.DependencySpec
type PackageManager = config.PackageManager
type Runner = backend.Runner
type StepError = engine.StepError
type StatusResult = engine.StatusResult
type DependencyStatus = engine.DependencyStatus
type CheckResult = engine.CheckResult

// ErrOutDirUnset is returned when no build output root is available.
var ErrOutDirUnset = engine.ErrOutDirUnset

// ErrNoBackendAvailable matches the error returned when automatic selection
// found no working package manager.
var ErrNoBackendAvailable = backend.ErrNoBackendAvailable
