package audit

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	pathutils "github.com/cepformacion/cepfix/internal/utils/path"
)

const (
	// DefaultBaseURLConstant addresses the local site development server.
	DefaultBaseURLConstant = "http://localhost:3001"
	// DefaultDashboardURLConstant addresses the local admin dashboard.
	DefaultDashboardURLConstant = "http://localhost:3000"

	screenshotDirectoryNameConstant = "cepfix-screenshots"
	defaultNavigationTimeout        = 30 * time.Second
)

var auditConfigurationHomeExpander = pathutils.NewHomeExpander()

// CommandConfiguration captures persistent settings for the audit command.
type CommandConfiguration struct {
	BaseURL             string        `mapstructure:"base_url"`
	DashboardURL        string        `mapstructure:"dashboard_url"`
	Headless            bool          `mapstructure:"headless"`
	ChromePath          string        `mapstructure:"chrome_path"`
	ScreenshotDirectory string        `mapstructure:"screenshot_dir"`
	Report              string        `mapstructure:"report"`
	NavigationTimeout   time.Duration `mapstructure:"navigation_timeout"`
	SettleDelay         time.Duration `mapstructure:"settle_delay"`
	Hold                time.Duration `mapstructure:"hold"`
}

// DefaultCommandConfiguration returns baseline configuration values for the audit command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		BaseURL:             DefaultBaseURLConstant,
		DashboardURL:        DefaultDashboardURLConstant,
		Headless:            true,
		ScreenshotDirectory: DefaultScreenshotDirectory(),
		NavigationTimeout:   defaultNavigationTimeout,
	}
}

// DefaultScreenshotDirectory places screenshots under the OS temporary directory.
func DefaultScreenshotDirectory() string {
	return filepath.Join(os.TempDir(), screenshotDirectoryNameConstant)
}

// Sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.BaseURL = strings.TrimSpace(configuration.BaseURL)
	if len(sanitized.BaseURL) == 0 {
		sanitized.BaseURL = DefaultBaseURLConstant
	}
	sanitized.DashboardURL = strings.TrimSpace(configuration.DashboardURL)
	if len(sanitized.DashboardURL) == 0 {
		sanitized.DashboardURL = DefaultDashboardURLConstant
	}

	sanitized.ChromePath = auditConfigurationHomeExpander.Expand(strings.TrimSpace(configuration.ChromePath))
	sanitized.Report = auditConfigurationHomeExpander.Expand(strings.TrimSpace(configuration.Report))
	sanitized.ScreenshotDirectory = strings.TrimSpace(configuration.ScreenshotDirectory)
	if len(sanitized.ScreenshotDirectory) == 0 {
		sanitized.ScreenshotDirectory = DefaultScreenshotDirectory()
	}
	sanitized.ScreenshotDirectory = auditConfigurationHomeExpander.Expand(sanitized.ScreenshotDirectory)

	if sanitized.NavigationTimeout <= 0 {
		sanitized.NavigationTimeout = defaultNavigationTimeout
	}
	if sanitized.SettleDelay < 0 {
		sanitized.SettleDelay = 0
	}
	if sanitized.Hold < 0 {
		sanitized.Hold = 0
	}
	return sanitized
}

// Options converts the configuration into service options.
func (configuration CommandConfiguration) Options() Options {
	return Options{
		BaseURL:             configuration.BaseURL,
		DashboardURL:        configuration.DashboardURL,
		ScreenshotDirectory: configuration.ScreenshotDirectory,
		ReportPath:          configuration.Report,
		SettleDelay:         configuration.SettleDelay,
		Hold:                configuration.Hold,
		Launch: LaunchOptions{
			Headless:          configuration.Headless,
			ExecutablePath:    configuration.ChromePath,
			NavigationTimeout: configuration.NavigationTimeout,
		},
	}
}
