package audit

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cepformacion/cepfix/internal/sitefs"
	"github.com/cepformacion/cepfix/internal/utils"
	"github.com/cepformacion/cepfix/internal/utils/flags"
)

const (
	commandUseConstant              = "audit [name]"
	commandShortDescriptionConstant = "Run a browser audit against the running site or dashboard"
	commandLongDescriptionConstant  = "audit drives a Chrome instance through the named audit, prints one line per check, saves screenshots, and can write a Markdown report."
	listFlagNameConstant            = "list"
	listFlagUsageConstant           = "List the available audits and exit"
	dashboardURLFlagNameConstant    = "dashboard-url"
	dashboardURLFlagUsageConstant   = "Base URL of the admin dashboard under test"
	chromePathFlagNameConstant      = "chrome-path"
	chromePathFlagUsageConstant     = "Chrome executable to launch instead of the detected one"
	holdFlagNameConstant            = "hold"
	holdFlagUsageConstant           = "Keep the hero page open for this long before closing"
	timeoutFlagNameConstant         = "timeout"
	timeoutFlagUsageConstant        = "Navigation and readiness timeout"
	missingAuditErrorConstant       = "audit requires an audit name; use --list to see the available audits"
	auditListLineTemplateConstant   = "%-12s %s\n"
	auditRunErrorTemplateConstant   = "audit %s failed: %w"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current audit configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the audit cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Launcher              BrowserLauncher
	FileSystem            sitefs.FileSystem
	Clock                 Clock
}

// Build constructs the cobra command for browser audits.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	var headless bool
	command.Flags().Bool(listFlagNameConstant, false, listFlagUsageConstant)
	command.Flags().String(flags.BaseURLFlagName, "", flags.BaseURLFlagUsage)
	command.Flags().String(dashboardURLFlagNameConstant, "", dashboardURLFlagUsageConstant)
	command.Flags().String(flags.ScreenshotDirectoryFlagName, "", flags.ScreenshotDirectoryFlagUsage)
	command.Flags().String(flags.ReportFlagName, "", flags.ReportFlagUsage)
	command.Flags().String(chromePathFlagNameConstant, "", chromePathFlagUsageConstant)
	command.Flags().Duration(holdFlagNameConstant, 0, holdFlagUsageConstant)
	command.Flags().Duration(timeoutFlagNameConstant, 0, timeoutFlagUsageConstant)
	flags.AddToggleFlag(command.Flags(), &headless, flags.HeadlessFlagName, "", true, flags.HeadlessFlagUsage)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	listRequested, _ := command.Flags().GetBool(listFlagNameConstant)
	if listRequested {
		for _, definition := range Definitions() {
			fmt.Fprintf(command.OutOrStdout(), auditListLineTemplateConstant, definition.Name, definition.Description)
		}
		return nil
	}

	if len(arguments) == 0 {
		if helpError := command.Help(); helpError != nil {
			return helpError
		}
		return errors.New(missingAuditErrorConstant)
	}

	definition, lookupError := Lookup(arguments[0])
	if lookupError != nil {
		return lookupError
	}

	configuration := builder.applyFlagOverrides(command, builder.resolveConfiguration()).Sanitize()

	service := NewService(
		builder.Launcher,
		builder.FileSystem,
		utils.NewWriterReporter(command.OutOrStdout()),
		builder.resolveLogger(),
		builder.Clock,
	)
	if _, runError := service.Run(command.Context(), definition, configuration.Options()); runError != nil {
		return fmt.Errorf(auditRunErrorTemplateConstant, definition.Name, runError)
	}
	return nil
}

func (builder *CommandBuilder) applyFlagOverrides(command *cobra.Command, configuration CommandConfiguration) CommandConfiguration {
	overridden := configuration
	stringOverrides := map[string]*string{
		flags.BaseURLFlagName:             &overridden.BaseURL,
		dashboardURLFlagNameConstant:      &overridden.DashboardURL,
		flags.ScreenshotDirectoryFlagName: &overridden.ScreenshotDirectory,
		flags.ReportFlagName:              &overridden.Report,
		chromePathFlagNameConstant:        &overridden.ChromePath,
	}
	for flagName, target := range stringOverrides {
		if !command.Flags().Changed(flagName) {
			continue
		}
		value, _ := command.Flags().GetString(flagName)
		*target = strings.TrimSpace(value)
	}

	durationOverrides := map[string]*time.Duration{
		holdFlagNameConstant:    &overridden.Hold,
		timeoutFlagNameConstant: &overridden.NavigationTimeout,
	}
	for flagName, target := range durationOverrides {
		if !command.Flags().Changed(flagName) {
			continue
		}
		value, _ := command.Flags().GetDuration(flagName)
		*target = value
	}

	overridden.Headless = flags.ResolveBool(command, flags.HeadlessFlagName, configuration.Headless)
	return overridden
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
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
