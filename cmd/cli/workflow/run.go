package workflow

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cepformacion/cepfix/internal/audit"
	"github.com/cepformacion/cepfix/internal/inspect"
	"github.com/cepformacion/cepfix/internal/rewrite"
	"github.com/cepformacion/cepfix/internal/sitefs"
	"github.com/cepformacion/cepfix/internal/utils"
	"github.com/cepformacion/cepfix/internal/utils/flags"
	"github.com/cepformacion/cepfix/internal/workflow"
)

const (
	commandUseConstant                       = "workflow [workflow]"
	commandShortDescriptionConstant          = "Run a workflow configuration file"
	commandLongDescriptionConstant           = "workflow executes the rewrite, inspect, and audit steps listed in a YAML or JSON file, in order, stopping at the first failing step."
	configurationPathRequiredMessageConstant = "workflow configuration path required; provide a positional argument or --config flag"
	loadConfigurationErrorTemplateConstant   = "unable to load workflow configuration: %w"
	buildOperationsErrorTemplateConstant     = "unable to build workflow operations: %w"
)

// CommandBuilder assembles the workflow command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	RewriteConfigurationProvider rewrite.ConfigurationProvider
	InspectConfigurationProvider inspect.ConfigurationProvider
	AuditConfigurationProvider   audit.ConfigurationProvider
	FileSystem                   sitefs.FileSystem
	Launcher                     audit.BrowserLauncher
	Clock                        audit.Clock
}

// Build constructs the workflow command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	flags.BindExecutionFlags(command, flags.ExecutionDefaults{}, flags.DefaultExecutionFlagDefinitions())

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configurationPath := ResolveConfigurationPath(command, arguments)
	if len(configurationPath) == 0 {
		if helpError := displayCommandHelp(command); helpError != nil {
			return helpError
		}
		return errors.New(configurationPathRequiredMessageConstant)
	}

	fileSystem := sitefs.ResolveFileSystem(builder.FileSystem)
	workflowConfiguration, configurationError := workflow.LoadConfiguration(fileSystem, configurationPath)
	if configurationError != nil {
		return fmt.Errorf(loadConfigurationErrorTemplateConstant, configurationError)
	}

	operations, operationsError := workflow.BuildOperations(workflowConfiguration)
	if operationsError != nil {
		return fmt.Errorf(buildOperationsErrorTemplateConstant, operationsError)
	}

	commandConfiguration := builder.resolveConfiguration()

	executor := workflow.NewExecutor(operations, workflow.Dependencies{
		Logger:     resolveLogger(builder.LoggerProvider),
		FileSystem: fileSystem,
		Launcher:   builder.Launcher,
		Clock:      builder.Clock,
		Output:     utils.NewFlushingWriter(command.OutOrStdout()),
		Rewrite:    builder.rewriteConfiguration(),
		Inspect:    builder.inspectConfiguration(),
		Audit:      builder.auditConfiguration(),
	})

	runtimeOptions := workflow.RuntimeOptions{
		DryRun: flags.ResolveBool(command, flags.DryRunFlagName, commandConfiguration.DryRun),
	}
	return executor.Execute(command.Context(), runtimeOptions)
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) rewriteConfiguration() rewrite.Configuration {
	if builder.RewriteConfigurationProvider == nil {
		return rewrite.DefaultConfiguration()
	}
	return builder.RewriteConfigurationProvider()
}

func (builder *CommandBuilder) inspectConfiguration() inspect.Configuration {
	if builder.InspectConfigurationProvider == nil {
		return inspect.DefaultConfiguration()
	}
	return builder.InspectConfigurationProvider()
}

func (builder *CommandBuilder) auditConfiguration() audit.CommandConfiguration {
	if builder.AuditConfigurationProvider == nil {
		return audit.DefaultCommandConfiguration()
	}
	return builder.AuditConfigurationProvider()
}
