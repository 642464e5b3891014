package rewrite_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cepformacion/cepfix/internal/rewrite"
)

func TestConfigurationSanitize(testInstance *testing.T) {
	testInstance.Parallel()

	configuration := rewrite.Configuration{
		Root: "   ",
		Recipes: []rewrite.RecipeDefinition{
			{Name: "  banner  ", Description: " Banner text ", Files: []string{" index.html ", "", "  "}},
		},
	}

	sanitized := configuration.Sanitize()
	require.Equal(testInstance, ".", sanitized.Root)
	require.Equal(testInstance, []rewrite.RecipeDefinition{
		{Name: "banner", Description: "Banner text", Files: []string{"index.html"}},
	}, sanitized.Recipes)
	require.Equal(testInstance, ".", rewrite.DefaultConfiguration().Root)
}

func TestRuleDefinitionBuild(testInstance *testing.T) {
	testInstance.Parallel()

	testCases := []struct {
		name            string
		definition      rewrite.RuleDefinition
		content         string
		expectedContent string
		expectedName    string
		expectedError   string
	}{
		{
			name:            "literal_with_count",
			definition:      rewrite.RuleDefinition{Name: "phone", Literal: "922 000 000", Replacement: "922 330 123", Count: 1},
			content:         "922 000 000 / 922 000 000",
			expectedContent: "922 330 123 / 922 000 000",
			expectedName:    "phone",
		},
		{
			name:            "pattern_with_groups",
			definition:      rewrite.RuleDefinition{Pattern: `(<h1[^>]*>)Hola(</h1>)`, Replacement: "${1}Bienvenido${2}"},
			content:         `<h1 class="x">Hola</h1>`,
			expectedContent: `<h1 class="x">Bienvenido</h1>`,
			expectedName:    "rule 3",
		},
		{
			name:            "ignore_case_and_dot_all",
			definition:      rewrite.RuleDefinition{Name: "banner", Pattern: `<aside>.*</aside>`, IgnoreCase: true, DotAll: true},
			content:         "<ASIDE>\npromo\n</ASIDE>rest",
			expectedContent: "rest",
			expectedName:    "banner",
		},
		{
			name:            "skip_guard",
			definition:      rewrite.RuleDefinition{Name: "guarded", Literal: "a", Replacement: "b", SkipIfContains: []string{" done "}},
			content:         "a done",
			expectedContent: "a done",
			expectedName:    "guarded",
		},
		{
			name:          "both_sources",
			definition:    rewrite.RuleDefinition{Pattern: "a", Literal: "a"},
			expectedError: "needs exactly one of pattern or literal",
		},
		{
			name:          "no_source",
			definition:    rewrite.RuleDefinition{Replacement: "b"},
			expectedError: "needs exactly one of pattern or literal",
		},
		{
			name:          "invalid_pattern",
			definition:    rewrite.RuleDefinition{Pattern: "(unclosed"},
			expectedError: "invalid pattern",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtest *testing.T) {
			subtest.Parallel()

			rule, buildError := testCase.definition.Build("custom", 2)
			if len(testCase.expectedError) > 0 {
				require.ErrorContains(subtest, buildError, testCase.expectedError)
				require.ErrorContains(subtest, buildError, "recipe custom: rule 3")
				return
			}
			require.NoError(subtest, buildError)
			require.Equal(subtest, testCase.expectedName, rule.Name())

			updated, _ := rule.Apply(testCase.content)
			require.Equal(subtest, testCase.expectedContent, updated)
		})
	}
}

func TestCatalogApplyDefinitions(testInstance *testing.T) {
	testInstance.Parallel()

	customRule := rewrite.RuleDefinition{Literal: "Nuetras", Replacement: "Nuestras"}

	testCases := []struct {
		name          string
		definitions   []rewrite.RecipeDefinition
		expectedError string
		verify        func(*testing.T, *rewrite.Catalog)
	}{
		{
			name:        "registers_new_recipe",
			definitions: []rewrite.RecipeDefinition{{Name: "typos", Files: []string{"sedes.html"}, Rules: []rewrite.RuleDefinition{customRule}}},
			verify: func(subtest *testing.T, catalog *rewrite.Catalog) {
				recipe, found := catalog.Lookup("typos")
				require.True(subtest, found)
				require.Equal(subtest, "Configured recipe", recipe.Description)
				require.Equal(subtest, []string{"sedes.html"}, recipe.Files)
				require.Len(subtest, recipe.Rules, 1)
			},
		},
		{
			name:        "overrides_builtin_files",
			definitions: []rewrite.RecipeDefinition{{Name: "contrast", Files: []string{"index.html"}}},
			verify: func(subtest *testing.T, catalog *rewrite.Catalog) {
				recipe, found := catalog.Lookup("contrast")
				require.True(subtest, found)
				require.Equal(subtest, []string{"index.html"}, recipe.Files)
				require.Len(subtest, recipe.Rules, 3)
			},
		},
		{
			name:          "rejects_builtin_rules",
			definitions:   []rewrite.RecipeDefinition{{Name: "contrast", Files: []string{"index.html"}, Rules: []rewrite.RuleDefinition{customRule}}},
			expectedError: "recipe contrast is built in",
		},
		{
			name:          "requires_name",
			definitions:   []rewrite.RecipeDefinition{{Files: []string{"index.html"}, Rules: []rewrite.RuleDefinition{customRule}}},
			expectedError: "recipe definition 1 has no name",
		},
		{
			name:          "requires_files",
			definitions:   []rewrite.RecipeDefinition{{Name: "typos", Rules: []rewrite.RuleDefinition{customRule}}},
			expectedError: "recipe typos lists no files",
		},
		{
			name:          "requires_rules",
			definitions:   []rewrite.RecipeDefinition{{Name: "typos", Files: []string{"index.html"}}},
			expectedError: "recipe typos defines no rules",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtest *testing.T) {
			subtest.Parallel()

			catalog := rewrite.NewBuiltinCatalog()
			applyError := catalog.ApplyDefinitions(testCase.definitions)
			if len(testCase.expectedError) > 0 {
				require.ErrorContains(subtest, applyError, testCase.expectedError)
				return
			}
			require.NoError(subtest, applyError)
			testCase.verify(subtest, catalog)
		})
	}
}
