// Package flags provides helpers for binding standardized flags to Cobra commands.
package flags

import (
	"github.com/spf13/cobra"
)

// ExecutionDefaults describes default flag values shared across mutating commands.
type ExecutionDefaults struct {
	DryRun bool
}

// ExecutionFlagDefinition captures a single flag's configuration.
type ExecutionFlagDefinition struct {
	Name      string
	Usage     string
	Shorthand string
	Enabled   bool
}

// ExecutionFlagDefinitions groups execution flag definitions.
type ExecutionFlagDefinitions struct {
	DryRun ExecutionFlagDefinition
}

// DefaultExecutionFlagDefinitions enables the standard dry-run flag.
func DefaultExecutionFlagDefinitions() ExecutionFlagDefinitions {
	return ExecutionFlagDefinitions{
		DryRun: ExecutionFlagDefinition{Name: DryRunFlagName, Usage: DryRunFlagUsage, Enabled: true},
	}
}

// BindExecutionFlags attaches standardized execution flags to the provided command using persistent scope.
func BindExecutionFlags(command *cobra.Command, defaults ExecutionDefaults, definitions ExecutionFlagDefinitions) {
	if command == nil {
		return
	}

	definition := definitions.DryRun
	if !definition.Enabled || len(definition.Name) == 0 {
		return
	}

	persistentFlagSet := command.PersistentFlags()
	if persistentFlagSet.Lookup(definition.Name) != nil {
		return
	}
	if len(definition.Shorthand) > 0 {
		persistentFlagSet.BoolP(definition.Name, definition.Shorthand, defaults.DryRun, definition.Usage)
		return
	}
	persistentFlagSet.Bool(definition.Name, defaults.DryRun, definition.Usage)
}

// ResolveBool returns the flag value when it was set explicitly and the configured fallback otherwise.
func ResolveBool(command *cobra.Command, flagName string, configured bool) bool {
	if command == nil {
		return configured
	}
	flag := command.Flags().Lookup(flagName)
	if flag == nil || !flag.Changed {
		return configured
	}
	value, parseError := command.Flags().GetBool(flagName)
	if parseError != nil {
		return configured
	}
	return value
}
