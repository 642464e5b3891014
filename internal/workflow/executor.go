package workflow

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/cepformacion/cepfix/internal/audit"
	"github.com/cepformacion/cepfix/internal/inspect"
	"github.com/cepformacion/cepfix/internal/rewrite"
	"github.com/cepformacion/cepfix/internal/sitefs"
	"github.com/cepformacion/cepfix/internal/utils"
)

const (
	workflowExecutionErrorTemplateConstant   = "workflow operation %s failed: %w"
	workflowInterruptedErrorTemplateConstant = "workflow interrupted before %s: %w"
	stepHeaderTemplateConstant               = "\n▶ Step %d/%d: %s\n"
	workflowCompleteTemplateConstant         = "\nWorkflow complete: %d steps\n"
	logMessageStepStartedConstant            = "workflow step started"
	logMessageStepFailedConstant             = "workflow step failed"
	logFieldStepConstant                     = "step"
	logFieldIndexConstant                    = "index"
)

// Dependencies configures shared collaborators for workflow execution.
type Dependencies struct {
	Logger     *zap.Logger
	FileSystem sitefs.FileSystem
	Launcher   audit.BrowserLauncher
	Clock      audit.Clock
	Output     io.Writer
	Rewrite    rewrite.Configuration
	Inspect    inspect.Configuration
	Audit      audit.CommandConfiguration
}

// RuntimeOptions captures user-provided execution modifiers.
type RuntimeOptions struct {
	DryRun bool
}

// Executor runs workflow operations in order.
type Executor struct {
	operations   []Operation
	dependencies Dependencies
}

// NewExecutor constructs an Executor instance.
func NewExecutor(operations []Operation, dependencies Dependencies) *Executor {
	return &Executor{operations: append([]Operation{}, operations...), dependencies: dependencies}
}

// Execute runs every operation sequentially and stops at the first failure.
func (executor *Executor) Execute(executionContext context.Context, runtimeOptions RuntimeOptions) error {
	logger := executor.dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	environment := &Environment{
		Rewrite:    executor.dependencies.Rewrite,
		Inspect:    executor.dependencies.Inspect,
		Audit:      executor.dependencies.Audit,
		FileSystem: sitefs.ResolveFileSystem(executor.dependencies.FileSystem),
		Launcher:   executor.dependencies.Launcher,
		Clock:      executor.dependencies.Clock,
		Output:     executor.dependencies.Output,
		Logger:     logger,
		DryRun:     runtimeOptions.DryRun,
	}
	if environment.Output == nil {
		environment.Output = io.Discard
	}
	reporter := utils.NewWriterReporter(environment.Output)

	for operationIndex, operation := range executor.operations {
		if operation == nil {
			continue
		}
		if executionContext != nil {
			if contextError := executionContext.Err(); contextError != nil {
				return fmt.Errorf(workflowInterruptedErrorTemplateConstant, operation.Name(), contextError)
			}
		}

		reporter.Printf(stepHeaderTemplateConstant, operationIndex+1, len(executor.operations), operation.Name())
		logger.Info(logMessageStepStartedConstant, zap.String(logFieldStepConstant, operation.Name()), zap.Int(logFieldIndexConstant, operationIndex+1))
		if executeError := operation.Execute(executionContext, environment); executeError != nil {
			logger.Warn(logMessageStepFailedConstant, zap.String(logFieldStepConstant, operation.Name()), zap.Error(executeError))
			return fmt.Errorf(workflowExecutionErrorTemplateConstant, operation.Name(), executeError)
		}
	}

	reporter.Printf(workflowCompleteTemplateConstant, len(executor.operations))
	return nil
}
