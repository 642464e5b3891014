package workflow_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	workflowcmd "github.com/cepformacion/cepfix/cmd/cli/workflow"
	"github.com/cepformacion/cepfix/internal/inspect"
	"github.com/cepformacion/cepfix/internal/rewrite"
)

const (
	workflowFileNameConstant     = "workflow.yaml"
	workflowContentConstant      = "steps:\n  - operation: rewrite\n    with:\n      recipe: typos\n  - operation: inspect-contrast\n"
	workflowPageNameConstant     = "sedes.html"
	workflowPageContentConstant  = "<h2>NUETRAS SEDES</h2>"
	workflowFixedContentConstant = "<h2>NUESTRAS SEDES</h2>"
	workflowDryRunFlagConstant   = "--dry-run"
	workflowUsageSnippet         = "Usage:"
)

func TestWorkflowCommandConfigurationPrecedence(testInstance *testing.T) {
	testCases := []struct {
		name            string
		configuration   workflowcmd.CommandConfiguration
		additionalArgs  []string
		expectedContent string
	}{
		{
			name:            "applies_rewrites_by_default",
			configuration:   workflowcmd.DefaultCommandConfiguration(),
			expectedContent: workflowFixedContentConstant,
		},
		{
			name:            "configuration_enables_dry_run",
			configuration:   workflowcmd.CommandConfiguration{DryRun: true},
			expectedContent: workflowPageContentConstant,
		},
		{
			name:            "flag_enables_dry_run",
			configuration:   workflowcmd.CommandConfiguration{DryRun: false},
			additionalArgs:  []string{workflowDryRunFlagConstant},
			expectedContent: workflowPageContentConstant,
		},
		{
			name:            "flag_disables_configured_dry_run",
			configuration:   workflowcmd.CommandConfiguration{DryRun: true},
			additionalArgs:  []string{workflowDryRunFlagConstant + "=false"},
			expectedContent: workflowFixedContentConstant,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtest *testing.T) {
			siteRoot := subtest.TempDir()
			pagePath := filepath.Join(siteRoot, workflowPageNameConstant)
			require.NoError(subtest, os.WriteFile(pagePath, []byte(workflowPageContentConstant), 0o644))
			workflowPath := filepath.Join(subtest.TempDir(), workflowFileNameConstant)
			require.NoError(subtest, os.WriteFile(workflowPath, []byte(workflowContentConstant), 0o644))

			builder := newBuilder(siteRoot, testCase.configuration)
			command, buildError := builder.Build()
			require.NoError(subtest, buildError)

			output := &bytes.Buffer{}
			command.SetOut(output)
			command.SetErr(output)
			command.SetArgs(append([]string{workflowPath}, testCase.additionalArgs...))

			require.NoError(subtest, command.Execute())
			require.Contains(subtest, output.String(), "Step 1/2: rewrite typos")
			require.Contains(subtest, output.String(), "Workflow complete: 2 steps")

			content, readError := os.ReadFile(pagePath)
			require.NoError(subtest, readError)
			require.Equal(subtest, testCase.expectedContent, string(content))
		})
	}
}

func TestWorkflowCommandRejectsMissingOrInvalidFiles(testInstance *testing.T) {
	invalidPath := filepath.Join(testInstance.TempDir(), workflowFileNameConstant)
	require.NoError(testInstance, os.WriteFile(invalidPath, []byte("steps: []\n"), 0o644))

	testCases := []struct {
		name          string
		arguments     []string
		expectedError string
		expectUsage   bool
	}{
		{
			name:          "missing_path",
			arguments:     []string{},
			expectedError: "workflow configuration path required; provide a positional argument or --config flag",
			expectUsage:   true,
		},
		{
			name:          "unreadable_file",
			arguments:     []string{filepath.Join(testInstance.TempDir(), "absent.yaml")},
			expectedError: "unable to load workflow configuration",
		},
		{
			name:          "empty_workflow",
			arguments:     []string{invalidPath},
			expectedError: "unable to load workflow configuration: workflow configuration must define at least one step",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtest *testing.T) {
			builder := newBuilder(subtest.TempDir(), workflowcmd.DefaultCommandConfiguration())
			command, buildError := builder.Build()
			require.NoError(subtest, buildError)

			output := &bytes.Buffer{}
			command.SetOut(output)
			command.SetErr(output)
			command.SetArgs(testCase.arguments)

			executeError := command.Execute()
			require.ErrorContains(subtest, executeError, testCase.expectedError)
			if testCase.expectUsage {
				require.Contains(subtest, output.String(), workflowUsageSnippet)
			}
		})
	}
}

func newBuilder(siteRoot string, configuration workflowcmd.CommandConfiguration) workflowcmd.CommandBuilder {
	return workflowcmd.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() workflowcmd.CommandConfiguration { return configuration },
		RewriteConfigurationProvider: func() rewrite.Configuration {
			return rewrite.Configuration{
				Root: siteRoot,
				Recipes: []rewrite.RecipeDefinition{{
					Name:  "typos",
					Files: []string{workflowPageNameConstant},
					Rules: []rewrite.RuleDefinition{{Name: "typo", Literal: "NUETRAS", Replacement: "NUESTRAS"}},
				}},
			}
		},
		InspectConfigurationProvider: func() inspect.Configuration {
			return inspect.Configuration{Root: siteRoot}
		},
	}
}
