package workflow

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

const (
	stepOptionsDecoderErrorTemplateConstant = "unable to prepare options for %s: %w"
	stepOptionsDecodeErrorTemplateConstant  = "invalid options for %s: %w"
	stepOptionsListSeparatorConstant        = ","
)

// RewriteStepOptions configures a rewrite step.
type RewriteStepOptions struct {
	Recipe string   `mapstructure:"recipe"`
	Root   string   `mapstructure:"root"`
	Files  []string `mapstructure:"files"`
	DryRun *bool    `mapstructure:"dry_run"`
}

// InspectStepOptions configures an inspect-contrast or inspect-menu step.
type InspectStepOptions struct {
	Root           string   `mapstructure:"root"`
	Files          []string `mapstructure:"files"`
	Labels         []string `mapstructure:"labels"`
	FailOnFindings bool     `mapstructure:"fail_on_findings"`
}

// AuditStepOptions configures an audit step. Unset values fall back to the audit configuration.
type AuditStepOptions struct {
	Audit               string        `mapstructure:"audit"`
	BaseURL             string        `mapstructure:"base_url"`
	DashboardURL        string        `mapstructure:"dashboard_url"`
	Headless            *bool         `mapstructure:"headless"`
	ChromePath          string        `mapstructure:"chrome_path"`
	ScreenshotDirectory string        `mapstructure:"screenshot_dir"`
	Report              string        `mapstructure:"report"`
	NavigationTimeout   time.Duration `mapstructure:"timeout"`
	SettleDelay         time.Duration `mapstructure:"settle_delay"`
	Hold                time.Duration `mapstructure:"hold"`
	FailOnFailures      bool          `mapstructure:"fail_on_failures"`
}

// decodeStepOptions maps the raw "with" block onto target. Durations accept Go duration strings,
// lists accept comma-separated strings, and unknown keys are rejected.
func decodeStepOptions(operation OperationType, options map[string]any, target any) error {
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(stepOptionsListSeparatorConstant),
		),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           target,
	})
	if decoderError != nil {
		return fmt.Errorf(stepOptionsDecoderErrorTemplateConstant, operation, decoderError)
	}
	if decodeError := decoder.Decode(options); decodeError != nil {
		return fmt.Errorf(stepOptionsDecodeErrorTemplateConstant, operation, decodeError)
	}
	return nil
}
