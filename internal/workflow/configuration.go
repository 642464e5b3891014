package workflow

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cepformacion/cepfix/internal/sitefs"
)

const (
	configurationLoadErrorTemplateConstant        = "failed to load workflow configuration: %w"
	configurationParseErrorTemplateConstant       = "failed to parse workflow configuration: %w"
	configurationPathRequiredMessageConstant      = "workflow configuration path must be provided"
	configurationEmptyStepsMessageConstant        = "workflow configuration must define at least one step"
	configurationMixedLayoutMessageConstant       = "workflow configuration must use either steps or workflow, not both"
	configurationOperationMissingTemplateConstant = "workflow step %d missing operation name"
)

// OperationType identifies supported workflow operations.
type OperationType string

// Supported workflow operations.
const (
	OperationTypeRewrite         OperationType = OperationType("rewrite")
	OperationTypeInspectContrast OperationType = OperationType("inspect-contrast")
	OperationTypeInspectMenu     OperationType = OperationType("inspect-menu")
	OperationTypeAudit           OperationType = OperationType("audit")
)

// Configuration describes the ordered workflow steps loaded from YAML or JSON.
type Configuration struct {
	Steps []StepConfiguration `yaml:"steps" json:"steps"`
}

// StepConfiguration associates an operation type with declarative options.
type StepConfiguration struct {
	Name      string         `yaml:"name" json:"name"`
	Operation OperationType  `yaml:"operation" json:"operation"`
	Options   map[string]any `yaml:"with" json:"with"`
}

type workflowEntry struct {
	Step              *StepConfiguration `yaml:"step"`
	StepConfiguration `yaml:",inline"`
}

type configurationDocument struct {
	Steps    []StepConfiguration `yaml:"steps"`
	Workflow []workflowEntry     `yaml:"workflow"`
}

// LoadConfiguration reads the workflow definition from disk and performs basic validation.
// Steps are listed under "steps", or under "workflow" either inline or wrapped in "step".
func LoadConfiguration(fileSystem sitefs.FileSystem, filePath string) (Configuration, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return Configuration{}, errors.New(configurationPathRequiredMessageConstant)
	}

	contentBytes, readError := sitefs.ResolveFileSystem(fileSystem).ReadFile(trimmedPath)
	if readError != nil {
		return Configuration{}, fmt.Errorf(configurationLoadErrorTemplateConstant, readError)
	}

	var document configurationDocument
	if unmarshalError := yaml.Unmarshal(contentBytes, &document); unmarshalError != nil {
		return Configuration{}, fmt.Errorf(configurationParseErrorTemplateConstant, unmarshalError)
	}
	if len(document.Steps) > 0 && len(document.Workflow) > 0 {
		return Configuration{}, errors.New(configurationMixedLayoutMessageConstant)
	}

	configuration := Configuration{Steps: document.Steps}
	for _, entry := range document.Workflow {
		if entry.Step != nil {
			configuration.Steps = append(configuration.Steps, *entry.Step)
			continue
		}
		configuration.Steps = append(configuration.Steps, entry.StepConfiguration)
	}

	if validationError := configuration.Validate(); validationError != nil {
		return Configuration{}, validationError
	}
	return configuration, nil
}

// Validate trims step names and operations and rejects empty workflows or steps without an operation.
func (configuration *Configuration) Validate() error {
	if len(configuration.Steps) == 0 {
		return errors.New(configurationEmptyStepsMessageConstant)
	}
	for stepIndex := range configuration.Steps {
		step := &configuration.Steps[stepIndex]
		step.Name = strings.TrimSpace(step.Name)
		step.Operation = OperationType(strings.TrimSpace(string(step.Operation)))
		if len(step.Operation) == 0 {
			return fmt.Errorf(configurationOperationMissingTemplateConstant, stepIndex+1)
		}
	}
	return nil
}
