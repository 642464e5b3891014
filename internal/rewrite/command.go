package rewrite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cepformacion/cepfix/internal/sitefs"
	"github.com/cepformacion/cepfix/internal/utils"
	"github.com/cepformacion/cepfix/internal/utils/flags"
	pathutils "github.com/cepformacion/cepfix/internal/utils/path"
)

const (
	commandUseConstant              = "rewrite [recipe]"
	commandShortDescriptionConstant = "Apply a named rewrite recipe to the site HTML files"
	commandLongDescriptionConstant  = "rewrite reads each page targeted by the recipe, applies its ordered substitutions, and writes the page back only when it changed."
	listFlagNameConstant            = "list"
	listFlagUsageConstant           = "List the available recipes and exit"
	fileFlagNameConstant            = "file"
	fileFlagUsageConstant           = "Restrict the run to these pages (repeatable, globs allowed)"
	missingRecipeErrorConstant      = "rewrite requires a recipe name; use --list to see the available recipes"
	recipeListLineTemplateConstant  = "%-20s %s\n"
	catalogErrorTemplateConstant    = "invalid rewrite recipes in configuration: %w"
	runErrorTemplateConstant        = "rewrite %s failed: %w"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current rewrite configuration.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the rewrite cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	FileSystem            sitefs.FileSystem
	Discoverer            sitefs.PageDiscoverer
}

// Build constructs the rewrite command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().String(flags.SiteRootFlagName, "", flags.SiteRootFlagUsage)
	command.Flags().Bool(listFlagNameConstant, false, listFlagUsageConstant)
	command.Flags().StringSlice(fileFlagNameConstant, nil, fileFlagUsageConstant)
	flags.BindExecutionFlags(command, flags.ExecutionDefaults{}, flags.DefaultExecutionFlagDefinitions())

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	catalog := NewBuiltinCatalog()
	if definitionsError := catalog.ApplyDefinitions(configuration.Recipes); definitionsError != nil {
		return fmt.Errorf(catalogErrorTemplateConstant, definitionsError)
	}

	listRequested, _ := command.Flags().GetBool(listFlagNameConstant)
	if listRequested {
		for _, recipe := range catalog.Recipes() {
			fmt.Fprintf(command.OutOrStdout(), recipeListLineTemplateConstant, recipe.Name, recipe.Description)
		}
		return nil
	}

	if len(arguments) == 0 {
		if helpError := command.Help(); helpError != nil {
			return helpError
		}
		return errors.New(missingRecipeErrorConstant)
	}

	recipe, recipeError := catalog.Resolve(arguments[0])
	if recipeError != nil {
		return recipeError
	}

	options := Options{
		SiteRoot: configuration.Root,
		DryRun:   flags.ResolveBool(command, flags.DryRunFlagName, configuration.DryRun),
	}
	if command.Flags().Changed(flags.SiteRootFlagName) {
		rootValue, _ := command.Flags().GetString(flags.SiteRootFlagName)
		options.SiteRoot = strings.TrimSpace(rootValue)
	}
	if command.Flags().Changed(fileFlagNameConstant) {
		fileValues, _ := command.Flags().GetStringSlice(fileFlagNameConstant)
		options.Files = trimEntries(fileValues)
	}

	service := NewService(
		builder.FileSystem,
		builder.Discoverer,
		pathutils.NewSitePathResolver(nil),
		utils.NewWriterReporter(command.OutOrStdout()),
		builder.resolveLogger(),
	)
	if _, runError := service.Run(command.Context(), recipe, options); runError != nil {
		return fmt.Errorf(runErrorTemplateConstant, recipe.Name, runError)
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
