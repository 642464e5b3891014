package inspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cepformacion/cepfix/internal/sitefs"
	"github.com/cepformacion/cepfix/internal/utils"
	"github.com/cepformacion/cepfix/internal/utils/flags"
)

const (
	groupUseConstant                 = "inspect"
	groupShortDescriptionConstant    = "Run static checks over the site HTML files"
	groupLongDescriptionConstant     = "inspect reads the site pages from disk and reports problems without modifying them or starting a browser."
	contrastUseConstant              = "contrast"
	contrastShortDescriptionConstant = "List white text on white or light gray backgrounds"
	menuUseConstant                  = "menu"
	menuShortDescriptionConstant     = "Count tracked header and footer links and flag duplicates"
	fileFlagNameConstant             = "file"
	fileFlagUsageConstant            = "Restrict the inspection to these pages (repeatable, globs allowed)"
	labelFlagNameConstant            = "label"
	labelFlagUsageConstant           = "Link text to track (repeatable)"
	runErrorTemplateConstant         = "inspect %s failed: %w"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current inspect configuration.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the inspect command group.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	FileSystem            sitefs.FileSystem
	Discoverer            sitefs.PageDiscoverer
}

// Build constructs the inspect command with its contrast and menu subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   groupUseConstant,
		Short: groupShortDescriptionConstant,
		Long:  groupLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	contrastCommand := &cobra.Command{
		Use:   contrastUseConstant,
		Short: contrastShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, contrastCheckNameConstant, func(executionContext context.Context, service *Service, options Options) error {
				_, contrastError := service.Contrast(executionContext, options)
				return contrastError
			})
		},
	}
	bindPageFlags(contrastCommand)
	command.AddCommand(contrastCommand)

	menuCommand := &cobra.Command{
		Use:   menuUseConstant,
		Short: menuShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, menuCheckNameConstant, func(executionContext context.Context, service *Service, options Options) error {
				_, menuError := service.Menu(executionContext, options)
				return menuError
			})
		},
	}
	bindPageFlags(menuCommand)
	menuCommand.Flags().StringSlice(labelFlagNameConstant, nil, labelFlagUsageConstant)
	command.AddCommand(menuCommand)

	return command, nil
}

func bindPageFlags(command *cobra.Command) {
	command.Flags().String(flags.SiteRootFlagName, "", flags.SiteRootFlagUsage)
	command.Flags().StringSlice(fileFlagNameConstant, nil, fileFlagUsageConstant)
}

func (builder *CommandBuilder) run(command *cobra.Command, check string, inspect func(context.Context, *Service, Options) error) error {
	configuration := builder.resolveConfiguration()
	if command.Flags().Changed(flags.SiteRootFlagName) {
		rootValue, _ := command.Flags().GetString(flags.SiteRootFlagName)
		configuration.Root = strings.TrimSpace(rootValue)
	}
	if command.Flags().Changed(fileFlagNameConstant) {
		configuration.Files, _ = command.Flags().GetStringSlice(fileFlagNameConstant)
	}
	if command.Flags().Changed(labelFlagNameConstant) {
		configuration.MenuLabels, _ = command.Flags().GetStringSlice(labelFlagNameConstant)
	}

	service := NewService(
		builder.FileSystem,
		builder.Discoverer,
		utils.NewWriterReporter(command.OutOrStdout()),
		builder.resolveLogger(),
	)
	if inspectError := inspect(command.Context(), service, configuration.Sanitize().Options()); inspectError != nil {
		return fmt.Errorf(runErrorTemplateConstant, check, inspectError)
	}
	return nil
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	return configuration.Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
