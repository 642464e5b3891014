package workflow

import (
	"context"
	"fmt"

	"github.com/cepformacion/cepfix/internal/rewrite"
	"github.com/cepformacion/cepfix/internal/utils"
)

const (
	rewriteCatalogErrorTemplateConstant = "invalid rewrite recipes in configuration: %w"
	rewriteFailuresTemplateConstant     = "recipe %s failed on %d page(s)"
)

// RewriteOperation applies one rewrite recipe.
type RewriteOperation struct {
	StepName string
	Options  RewriteStepOptions
}

// Name identifies the step.
func (operation *RewriteOperation) Name() string {
	return operation.StepName
}

// Execute resolves the recipe against the built-in and configured catalog and runs it.
// Any failed or missing page fails the step.
func (operation *RewriteOperation) Execute(executionContext context.Context, environment *Environment) error {
	configuration := environment.Rewrite.Sanitize()

	catalog := rewrite.NewBuiltinCatalog()
	if definitionsError := catalog.ApplyDefinitions(configuration.Recipes); definitionsError != nil {
		return fmt.Errorf(rewriteCatalogErrorTemplateConstant, definitionsError)
	}
	recipe, recipeError := catalog.Resolve(operation.Options.Recipe)
	if recipeError != nil {
		return recipeError
	}

	options := rewrite.Options{
		SiteRoot: configuration.Root,
		DryRun:   configuration.DryRun || environment.DryRun,
		Files:    operation.Options.Files,
	}
	if len(operation.Options.Root) > 0 {
		options.SiteRoot = operation.Options.Root
	}
	if operation.Options.DryRun != nil {
		options.DryRun = *operation.Options.DryRun || environment.DryRun
	}

	service := rewrite.NewService(environment.FileSystem, nil, nil, utils.NewWriterReporter(environment.Output), environment.Logger)
	summary, runError := service.Run(executionContext, recipe, options)
	if runError != nil {
		return runError
	}
	if summary.Failed > 0 {
		return fmt.Errorf(rewriteFailuresTemplateConstant, recipe.Name, summary.Failed)
	}
	return nil
}
