package workflow

import (
	"context"
	"fmt"

	"github.com/cepformacion/cepfix/internal/inspect"
	"github.com/cepformacion/cepfix/internal/utils"
)

const (
	contrastFindingsTemplateConstant = "found %d contrast issue(s) in %d page(s)"
	menuFindingsTemplateConstant     = "found %d duplicated menu link(s) in %d page(s)"
)

// InspectOperation runs a static inspection.
type InspectOperation struct {
	StepName string
	Check    OperationType
	Options  InspectStepOptions
}

// Name identifies the step.
func (operation *InspectOperation) Name() string {
	return operation.StepName
}

// Execute runs the inspection; findings only fail the step when FailOnFindings is set.
func (operation *InspectOperation) Execute(executionContext context.Context, environment *Environment) error {
	configuration := environment.Inspect
	if len(operation.Options.Root) > 0 {
		configuration.Root = operation.Options.Root
	}
	if len(operation.Options.Files) > 0 {
		configuration.Files = operation.Options.Files
	}
	if len(operation.Options.Labels) > 0 {
		configuration.MenuLabels = operation.Options.Labels
	}
	options := configuration.Sanitize().Options()

	service := inspect.NewService(environment.FileSystem, nil, utils.NewWriterReporter(environment.Output), environment.Logger)
	if operation.Check == OperationTypeInspectMenu {
		report, menuError := service.Menu(executionContext, options)
		if menuError != nil {
			return menuError
		}
		if operation.Options.FailOnFindings && report.Duplicates > 0 {
			return fmt.Errorf(menuFindingsTemplateConstant, report.Duplicates, report.PagesWithDuplicates)
		}
		return nil
	}

	report, contrastError := service.Contrast(executionContext, options)
	if contrastError != nil {
		return contrastError
	}
	if operation.Options.FailOnFindings && report.Issues > 0 {
		return fmt.Errorf(contrastFindingsTemplateConstant, report.Issues, len(report.Pages))
	}
	return nil
}
