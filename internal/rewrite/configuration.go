package rewrite

import (
	"fmt"
	"regexp"
	"strings"

	pathutils "github.com/cepformacion/cepfix/internal/utils/path"
)

const (
	defaultSiteRootConstant = "."

	recipeNameMissingTemplateConstant   = "recipe definition %d has no name"
	recipeRulesMissingTemplateConstant  = "recipe %s defines no rules"
	recipeFilesMissingTemplateConstant  = "recipe %s lists no files"
	builtinOverrideTemplateConstant     = "recipe %s is built in; only its files may be overridden"
	ruleSourceAmbiguousTemplateConstant = "recipe %s: rule %d needs exactly one of pattern or literal"
	rulePatternInvalidTemplateConstant  = "recipe %s: rule %d has an invalid pattern: %w"
	ruleDefaultLabelTemplateConstant    = "rule %d"
	ignoreCaseFlagConstant              = "i"
	dotAllFlagConstant                  = "s"
	inlineFlagsTemplateConstant         = "(?%s)%s"
	configuredRecipeDescriptionConstant = "Configured recipe"
)

var rewriteConfigurationHomeExpander = pathutils.NewHomeExpander()

// Configuration captures the rewrite command settings.
type Configuration struct {
	Root    string             `mapstructure:"root"`
	DryRun  bool               `mapstructure:"dry_run"`
	Recipes []RecipeDefinition `mapstructure:"recipes"`
}

// RecipeDefinition describes a recipe declared in configuration.
type RecipeDefinition struct {
	Name        string           `mapstructure:"name"`
	Description string           `mapstructure:"description"`
	Files       []string         `mapstructure:"files"`
	Rules       []RuleDefinition `mapstructure:"rules"`
}

// RuleDefinition describes one configured substitution. Exactly one of Pattern or Literal must be set.
type RuleDefinition struct {
	Name            string   `mapstructure:"name"`
	Pattern         string   `mapstructure:"pattern"`
	Literal         string   `mapstructure:"literal"`
	Replacement     string   `mapstructure:"replacement"`
	Count           int      `mapstructure:"count"`
	SkipIfContains  []string `mapstructure:"skip_if_contains"`
	RequireContains []string `mapstructure:"require_contains"`
	IgnoreCase      bool     `mapstructure:"ignore_case"`
	DotAll          bool     `mapstructure:"dot_all"`
}

// DefaultConfiguration supplies baseline rewrite settings.
func DefaultConfiguration() Configuration {
	return Configuration{Root: defaultSiteRootConstant}
}

// Sanitize trims configured values and expands the home directory in the site root.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.Root = strings.TrimSpace(configuration.Root)
	if len(sanitized.Root) == 0 {
		sanitized.Root = defaultSiteRootConstant
	}
	sanitized.Root = rewriteConfigurationHomeExpander.Expand(sanitized.Root)

	sanitized.Recipes = make([]RecipeDefinition, 0, len(configuration.Recipes))
	for _, definition := range configuration.Recipes {
		definition.Name = strings.TrimSpace(definition.Name)
		definition.Description = strings.TrimSpace(definition.Description)
		definition.Files = trimEntries(definition.Files)
		sanitized.Recipes = append(sanitized.Recipes, definition)
	}
	return sanitized
}

// Build compiles the rule definition into a Rule.
func (definition RuleDefinition) Build(recipeName string, index int) (Rule, error) {
	hasPattern := len(definition.Pattern) > 0
	hasLiteral := len(definition.Literal) > 0
	if hasPattern == hasLiteral {
		return nil, fmt.Errorf(ruleSourceAmbiguousTemplateConstant, recipeName, index+1)
	}

	label := strings.TrimSpace(definition.Name)
	if len(label) == 0 {
		label = fmt.Sprintf(ruleDefaultLabelTemplateConstant, index+1)
	}
	guard := Guard{
		SkipIfContains:  trimEntries(definition.SkipIfContains),
		RequireContains: trimEntries(definition.RequireContains),
	}

	if hasLiteral {
		return LiteralRule{Label: label, Old: definition.Literal, New: definition.Replacement, Count: definition.Count, Guard: guard}, nil
	}

	expression := definition.Pattern
	inlineFlags := ""
	if definition.IgnoreCase {
		inlineFlags += ignoreCaseFlagConstant
	}
	if definition.DotAll {
		inlineFlags += dotAllFlagConstant
	}
	if len(inlineFlags) > 0 {
		expression = fmt.Sprintf(inlineFlagsTemplateConstant, inlineFlags, expression)
	}

	pattern, compileError := regexp.Compile(expression)
	if compileError != nil {
		return nil, fmt.Errorf(rulePatternInvalidTemplateConstant, recipeName, index+1, compileError)
	}
	return RegexRule{Label: label, Pattern: pattern, Replacement: definition.Replacement, Count: definition.Count, Guard: guard}, nil
}

// Build compiles the recipe definition into a Recipe.
func (definition RecipeDefinition) Build() (Recipe, error) {
	if len(definition.Rules) == 0 {
		return Recipe{}, fmt.Errorf(recipeRulesMissingTemplateConstant, definition.Name)
	}
	if len(definition.Files) == 0 {
		return Recipe{}, fmt.Errorf(recipeFilesMissingTemplateConstant, definition.Name)
	}

	rules := make([]Rule, 0, len(definition.Rules))
	for index, ruleDefinition := range definition.Rules {
		rule, ruleError := ruleDefinition.Build(definition.Name, index)
		if ruleError != nil {
			return Recipe{}, ruleError
		}
		rules = append(rules, rule)
	}

	description := definition.Description
	if len(description) == 0 {
		description = configuredRecipeDescriptionConstant
	}
	return Recipe{
		Name:        definition.Name,
		Description: description,
		Files:       append([]string{}, definition.Files...),
		Rules:       rules,
	}, nil
}

// ApplyDefinitions registers configured recipes. A definition named after an existing recipe
// may only replace that recipe's file list.
func (catalog *Catalog) ApplyDefinitions(definitions []RecipeDefinition) error {
	for index, definition := range definitions {
		if len(definition.Name) == 0 {
			return fmt.Errorf(recipeNameMissingTemplateConstant, index+1)
		}

		if existing, found := catalog.Lookup(definition.Name); found {
			if len(definition.Rules) > 0 {
				return fmt.Errorf(builtinOverrideTemplateConstant, definition.Name)
			}
			if len(definition.Files) > 0 {
				catalog.Register(existing.WithFiles(definition.Files))
			}
			continue
		}

		recipe, buildError := definition.Build()
		if buildError != nil {
			return buildError
		}
		catalog.Register(recipe)
	}
	return nil
}

func trimEntries(entries []string) []string {
	trimmed := make([]string, 0, len(entries))
	for _, entry := range entries {
		trimmedEntry := strings.TrimSpace(entry)
		if len(trimmedEntry) == 0 {
			continue
		}
		trimmed = append(trimmed, trimmedEntry)
	}
	if len(trimmed) == 0 {
		return nil
	}
	return trimmed
}
