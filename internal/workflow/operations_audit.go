package workflow

import (
	"context"
	"fmt"

	"github.com/cepformacion/cepfix/internal/audit"
	"github.com/cepformacion/cepfix/internal/utils"
)

const auditFailuresTemplateConstant = "audit %s reported %d failed check(s)"

// AuditOperation runs one browser audit.
type AuditOperation struct {
	StepName   string
	Definition audit.Definition
	Options    AuditStepOptions
}

// Name identifies the step.
func (operation *AuditOperation) Name() string {
	return operation.StepName
}

// Execute refines the audit configuration with the step options and runs the audit.
func (operation *AuditOperation) Execute(executionContext context.Context, environment *Environment) error {
	configuration := operation.configuration(environment.Audit)

	service := audit.NewService(environment.Launcher, environment.FileSystem, utils.NewWriterReporter(environment.Output), environment.Logger, environment.Clock)
	result, runError := service.Run(executionContext, operation.Definition, configuration.Sanitize().Options())
	if runError != nil {
		return runError
	}
	if operation.Options.FailOnFailures && result.Failed > 0 {
		return fmt.Errorf(auditFailuresTemplateConstant, operation.Definition.Name, result.Failed)
	}
	return nil
}

func (operation *AuditOperation) configuration(base audit.CommandConfiguration) audit.CommandConfiguration {
	configuration := base
	options := operation.Options
	if len(options.BaseURL) > 0 {
		configuration.BaseURL = options.BaseURL
	}
	if len(options.DashboardURL) > 0 {
		configuration.DashboardURL = options.DashboardURL
	}
	if options.Headless != nil {
		configuration.Headless = *options.Headless
	}
	if len(options.ChromePath) > 0 {
		configuration.ChromePath = options.ChromePath
	}
	if len(options.ScreenshotDirectory) > 0 {
		configuration.ScreenshotDirectory = options.ScreenshotDirectory
	}
	if len(options.Report) > 0 {
		configuration.Report = options.Report
	}
	if options.NavigationTimeout > 0 {
		configuration.NavigationTimeout = options.NavigationTimeout
	}
	if options.SettleDelay > 0 {
		configuration.SettleDelay = options.SettleDelay
	}
	if options.Hold > 0 {
		configuration.Hold = options.Hold
	}
	return configuration
}
