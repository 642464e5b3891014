package workflow

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cepformacion/cepfix/internal/utils"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ResolveConfigurationPath selects the workflow file from the positional argument or the --config flag.
func ResolveConfigurationPath(command *cobra.Command, arguments []string) string {
	if len(arguments) > 0 {
		return strings.TrimSpace(arguments[0])
	}
	if command == nil {
		return ""
	}
	configurationPath, available := utils.NewCommandContextAccessor().ConfigurationFilePath(command.Context())
	if !available {
		return ""
	}
	return strings.TrimSpace(configurationPath)
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func displayCommandHelp(command *cobra.Command) error {
	if command == nil {
		return nil
	}
	return command.Help()
}
