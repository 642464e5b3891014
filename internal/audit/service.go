package audit

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cepformacion/cepfix/internal/sitefs"
	"github.com/cepformacion/cepfix/internal/utils"
)

const (
	auditHeaderTemplateConstant         = "🔍 %s: %s\n"
	auditTargetTemplateConstant         = "   Target: %s\n"
	auditSummaryTemplateConstant        = "\n%s audit complete: %d passed, %d failed, %d warnings\n"
	screenshotLocationTemplate          = "📁 Screenshots: %s\n"
	reportLocationTemplateConstant      = "📝 Report: %s\n"
	launchFailureTemplateConstant       = "audit %s could not start the browser: %w"
	reportFailureTemplateConstant       = "unable to write audit report %s: %w"
	auditStartedLogMessageConstant      = "audit started"
	auditFinishedLogMessageConstant     = "audit finished"
	reportDirectoryPermissions          = 0o755
	reportFilePermissions               = 0o644
	reportAuditNameLogFieldConstant     = "audit"
	reportRunIDLogFieldConstant         = "run_id"
	reportBaseURLLogFieldConstant       = "base_url"
	reportFailedLogFieldConstant        = "failed"
	reportWarningsLogFieldConstant      = "warnings"
	reportPassedLogFieldConstant        = "passed"
	reportDurationLogFieldConstant      = "duration"
	screenshotDirectoryLogFieldConstant = "screenshot_dir"
)

// Options configure a single audit run.
type Options struct {
	BaseURL             string
	DashboardURL        string
	ScreenshotDirectory string
	ReportPath          string
	SettleDelay         time.Duration
	Hold                time.Duration
	Launch              LaunchOptions
}

// Service runs browser audits.
type Service struct {
	launcher   BrowserLauncher
	fileSystem sitefs.FileSystem
	reporter   utils.Reporter
	logger     *zap.Logger
	clock      Clock
	accessor   utils.CommandContextAccessor
}

// NewService constructs a Service. Nil collaborators fall back to chromedp, the OS file system, a discarding reporter, a no-op logger, and the system clock.
func NewService(launcher BrowserLauncher, fileSystem sitefs.FileSystem, reporter utils.Reporter, logger *zap.Logger, clock Clock) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if launcher == nil {
		launcher = NewChromeLauncher(logger)
	}
	if reporter == nil {
		reporter = utils.NewWriterReporter(nil)
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{
		launcher:   launcher,
		fileSystem: sitefs.ResolveFileSystem(fileSystem),
		reporter:   reporter,
		logger:     logger,
		clock:      clock,
		accessor:   utils.NewCommandContextAccessor(),
	}
}

// Run launches the browser, executes the audit, and optionally writes a Markdown report.
// Check failures are counted in the result; only launch and report failures are returned as errors.
func (service *Service) Run(executionContext context.Context, definition Definition, options Options) (Result, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}

	baseURL := options.BaseURL
	if definition.Target == TargetDashboard {
		baseURL = options.DashboardURL
	}
	if len(strings.TrimSpace(options.ScreenshotDirectory)) == 0 {
		options.ScreenshotDirectory = DefaultScreenshotDirectory()
	}

	result := Result{
		Audit:     definition.Name,
		RunID:     service.resolveRunIdentifier(executionContext),
		BaseURL:   baseURL,
		StartedAt: service.clock.Now(),
	}
	logger := service.logger.With(
		zap.String(reportAuditNameLogFieldConstant, definition.Name),
		zap.String(reportRunIDLogFieldConstant, result.RunID),
	)
	logger.Info(auditStartedLogMessageConstant, zap.String(reportBaseURLLogFieldConstant, baseURL), zap.String(screenshotDirectoryLogFieldConstant, options.ScreenshotDirectory))

	browser, launchError := service.launcher.Launch(executionContext, options.Launch)
	if launchError != nil {
		return result, fmt.Errorf(launchFailureTemplateConstant, definition.Name, launchError)
	}
	defer func() {
		_ = browser.Close()
	}()

	settleDelay := definition.SettleDelay
	if options.SettleDelay > 0 {
		settleDelay = options.SettleDelay
	}

	service.reporter.Printf(auditHeaderTemplateConstant, definition.Name, definition.Description)
	service.reporter.Printf(auditTargetTemplateConstant, baseURL)
	service.reporter.Printf("%s\n", strings.Repeat(titleRuleCharacterConstant, sectionRuleWidthConstant))

	auditSession := &session{
		executionContext: executionContext,
		browser:          browser,
		baseURL:          baseURL,
		options:          options,
		settleDelay:      settleDelay,
		fileSystem:       service.fileSystem,
		reporter:         service.reporter,
		logger:           logger,
		result:           &result,
	}
	if definition.run != nil {
		definition.run(auditSession)
	}
	result.FinishedAt = service.clock.Now()

	service.reporter.Printf(auditSummaryTemplateConstant, definition.Name, result.Passed, result.Failed, result.Warnings)
	if len(result.Artifacts) > 0 {
		service.reporter.Printf(screenshotLocationTemplate, options.ScreenshotDirectory)
	}
	logger.Info(auditFinishedLogMessageConstant,
		zap.Int(reportPassedLogFieldConstant, result.Passed),
		zap.Int(reportFailedLogFieldConstant, result.Failed),
		zap.Int(reportWarningsLogFieldConstant, result.Warnings),
		zap.Duration(reportDurationLogFieldConstant, result.FinishedAt.Sub(result.StartedAt)),
	)

	if contextError := executionContext.Err(); contextError != nil {
		return result, contextError
	}

	if len(options.ReportPath) > 0 {
		if reportError := service.writeReport(options.ReportPath, result); reportError != nil {
			return result, reportError
		}
		service.reporter.Printf(reportLocationTemplateConstant, options.ReportPath)
	}
	return result, nil
}

func (service *Service) resolveRunIdentifier(executionContext context.Context) string {
	if runIdentifier, available := service.accessor.RunIdentifier(executionContext); available && len(runIdentifier) > 0 {
		return runIdentifier
	}
	return uuid.NewString()
}

func (service *Service) writeReport(reportPath string, result Result) error {
	buffer := &bytes.Buffer{}
	if renderError := NewMarkdownReportWriter(buffer).Write(result); renderError != nil {
		return fmt.Errorf(reportFailureTemplateConstant, reportPath, renderError)
	}
	if directory := filepath.Dir(reportPath); len(directory) > 0 {
		if mkdirError := service.fileSystem.MkdirAll(directory, reportDirectoryPermissions); mkdirError != nil {
			return fmt.Errorf(reportFailureTemplateConstant, reportPath, mkdirError)
		}
	}
	if writeError := service.fileSystem.WriteFile(reportPath, buffer.Bytes(), reportFilePermissions); writeError != nil {
		return fmt.Errorf(reportFailureTemplateConstant, reportPath, writeError)
	}
	return nil
}
