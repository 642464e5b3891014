package workflow

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/cepformacion/cepfix/internal/audit"
	"github.com/cepformacion/cepfix/internal/inspect"
	"github.com/cepformacion/cepfix/internal/rewrite"
	"github.com/cepformacion/cepfix/internal/sitefs"
)

// Operation runs a single workflow step.
type Operation interface {
	Name() string
	Execute(executionContext context.Context, environment *Environment) error
}

// Environment exposes shared dependencies and the command configurations that steps refine.
type Environment struct {
	Rewrite    rewrite.Configuration
	Inspect    inspect.Configuration
	Audit      audit.CommandConfiguration
	FileSystem sitefs.FileSystem
	Launcher   audit.BrowserLauncher
	Clock      audit.Clock
	Output     io.Writer
	Logger     *zap.Logger
	DryRun     bool
}

func stepName(step StepConfiguration, target string) string {
	if len(step.Name) > 0 {
		return step.Name
	}
	if len(target) == 0 {
		return string(step.Operation)
	}
	return string(step.Operation) + " " + target
}
