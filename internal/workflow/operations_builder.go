package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cepformacion/cepfix/internal/audit"
)

const (
	rewriteRecipeRequiredMessageConstant = "rewrite step requires a recipe"
	auditNameRequiredMessageConstant     = "audit step requires an audit name"
	unsupportedOperationTemplateConstant = "unsupported workflow operation: %s"
	stepBuildErrorTemplateConstant       = "step %d: %w"
)

// BuildOperations converts the declarative configuration into executable operations.
func BuildOperations(configuration Configuration) ([]Operation, error) {
	if validationError := configuration.Validate(); validationError != nil {
		return nil, validationError
	}

	operations := make([]Operation, 0, len(configuration.Steps))
	for stepIndex, step := range configuration.Steps {
		operation, buildError := buildOperationFromStep(step)
		if buildError != nil {
			return nil, fmt.Errorf(stepBuildErrorTemplateConstant, stepIndex+1, buildError)
		}
		operations = append(operations, operation)
	}
	return operations, nil
}

func buildOperationFromStep(step StepConfiguration) (Operation, error) {
	switch step.Operation {
	case OperationTypeRewrite:
		return buildRewriteOperation(step)
	case OperationTypeInspectContrast, OperationTypeInspectMenu:
		return buildInspectOperation(step)
	case OperationTypeAudit:
		return buildAuditOperation(step)
	default:
		return nil, fmt.Errorf(unsupportedOperationTemplateConstant, step.Operation)
	}
}

func buildRewriteOperation(step StepConfiguration) (Operation, error) {
	var options RewriteStepOptions
	if decodeError := decodeStepOptions(step.Operation, step.Options, &options); decodeError != nil {
		return nil, decodeError
	}
	options.Recipe = strings.TrimSpace(options.Recipe)
	if len(options.Recipe) == 0 {
		return nil, errors.New(rewriteRecipeRequiredMessageConstant)
	}
	return &RewriteOperation{StepName: stepName(step, options.Recipe), Options: options}, nil
}

func buildInspectOperation(step StepConfiguration) (Operation, error) {
	var options InspectStepOptions
	if decodeError := decodeStepOptions(step.Operation, step.Options, &options); decodeError != nil {
		return nil, decodeError
	}
	return &InspectOperation{StepName: stepName(step, ""), Check: step.Operation, Options: options}, nil
}

func buildAuditOperation(step StepConfiguration) (Operation, error) {
	var options AuditStepOptions
	if decodeError := decodeStepOptions(step.Operation, step.Options, &options); decodeError != nil {
		return nil, decodeError
	}
	options.Audit = strings.TrimSpace(options.Audit)
	if len(options.Audit) == 0 {
		return nil, errors.New(auditNameRequiredMessageConstant)
	}
	definition, lookupError := audit.Lookup(options.Audit)
	if lookupError != nil {
		return nil, lookupError
	}
	return &AuditOperation{StepName: stepName(step, definition.Name), Definition: definition, Options: options}, nil
}
