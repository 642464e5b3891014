package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(t *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "DefaultFirstChoice",
			defaultChoice:  "structured",
			choices:        []string{"structured", "console"},
			description:    "Log encoding.",
			expectedOutput: "`<STRUCTURED|console>` Log encoding.",
		},
		{
			name:           "DefaultSecondChoice",
			defaultChoice:  "networkidle",
			choices:        []string{"domcontentloaded", "networkidle"},
			description:    "Readiness wait.",
			expectedOutput: "`<domcontentloaded|NETWORKIDLE>` Readiness wait.",
		},
		{
			name:           "EmptyDescription",
			defaultChoice:  "hero",
			choices:        []string{"hero", "visual"},
			expectedOutput: "`<HERO|visual>`",
		},
		{
			name:           "DuplicatesAndWhitespaceIgnored",
			defaultChoice:  "fluid",
			choices:        []string{" fluid ", "fluid", "", "layout"},
			description:    "Audit to run.",
			expectedOutput: "`<FLUID|layout>` Audit to run.",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expectedOutput, FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description))
		})
	}
}
