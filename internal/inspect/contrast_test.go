package inspect_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cepformacion/cepfix/internal/inspect"
)

func TestFindContrastIssues(testInstance *testing.T) {
	testCases := []struct {
		name           string
		content        string
		expectedLabels []string
	}{
		{
			name:           "white_background_first",
			content:        `<div class="bg-white p-4 text-white">x</div>`,
			expectedLabels: []string{"bg-white + text-white"},
		},
		{
			name:           "white_text_first",
			content:        `<p class="text-white font-bold bg-white">x</p>`,
			expectedLabels: []string{"text-white + bg-white"},
		},
		{
			name:           "light_gray_background",
			content:        `<section class="bg-gray-100 text-white">x</section><div class="bg-gray-50 py-2 text-white"></div>`,
			expectedLabels: []string{"bg-gray-light + text-white", "bg-gray-light + text-white"},
		},
		{
			name:           "readable_combinations",
			content:        `<div class="bg-white text-gray-900"></div><div class="bg-pink-600 text-white"></div>`,
			expectedLabels: nil,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtest *testing.T) {
			issues := inspect.FindContrastIssues(testCase.content)

			var labels []string
			for _, issue := range issues {
				labels = append(labels, issue.Label)
				require.Equal(subtest, issue.Match, testCase.content[issue.Offset:issue.Offset+len(issue.Match)])
			}
			require.Equal(subtest, testCase.expectedLabels, labels)
		})
	}
}

func TestContrastIssueExcerpt(testInstance *testing.T) {
	shortIssue := inspect.ContrastIssue{Match: `class="bg-white text-white"`}
	require.Equal(testInstance, `class="bg-white text-white"...`, shortIssue.Excerpt())

	longMatch := `class="bg-white ` + strings.Repeat("á", 100) + ` text-white"`
	excerpt := inspect.ContrastIssue{Match: longMatch}.Excerpt()
	require.Equal(testInstance, 83, len([]rune(excerpt)))
	require.True(testInstance, strings.HasPrefix(longMatch, strings.TrimSuffix(excerpt, "...")))
}
