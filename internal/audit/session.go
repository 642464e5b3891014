package audit

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cepformacion/cepfix/internal/sitefs"
	"github.com/cepformacion/cepfix/internal/utils"
)

const (
	sectionRuleWidthConstant           = 60
	sectionRuleCharacterConstant       = "─"
	titleRuleCharacterConstant         = "═"
	checkLineTemplateConstant          = "  %s\n"
	sectionHeaderTemplateConstant      = "\n📐 %s\n"
	categoryLineTemplateConstant       = "   %s\n"
	screenshotMessageTemplateConstant  = "📸 Screenshot: %s"
	artifactMessageTemplateConstant    = "💾 Saved: %s"
	navigationTimeoutTemplateConstant  = "Navigation to %s timed out; retrying without waiting"
	navigationFailedTemplateConstant   = "Unable to load %s: %v"
	pageOpenFailedTemplateConstant     = "Unable to open a page at %s: %v"
	probeFailedTemplateConstant        = "Probe of %s failed: %v"
	elementMissingTemplateConstant     = "%s not found"
	stepFailedTemplateConstant         = "%s failed: %v"
	screenshotFailedTemplateConstant   = "Screenshot %s failed: %v"
	artifactWriteFailedTemplate        = "unable to write %s: %w"
	artifactDirectoryFailedTemplate    = "unable to create %s: %w"
	artifactDirectoryPermissions       = 0o755
	artifactFilePermissions            = 0o644
	pathSeparatorConstant              = "/"
	auditNavigationLogMessageConstant  = "audit navigation"
	auditStepFailureLogMessageConstant = "audit step failed"
)

// session carries the state of one audit run: browser, output, and collected result.
type session struct {
	executionContext context.Context
	browser          Browser
	baseURL          string
	options          Options
	settleDelay      time.Duration
	fileSystem       sitefs.FileSystem
	reporter         utils.Reporter
	logger           *zap.Logger
	result           *Result
	current          *Section
}

// pageVisit is one page opened at one viewport.
type pageVisit struct {
	session  *session
	page     Page
	viewport Viewport
}

func (auditSession *session) cancelled() bool {
	return auditSession.executionContext.Err() != nil
}

func (auditSession *session) startSection(title string, viewport Viewport) {
	auditSession.result.Sections = append(auditSession.result.Sections, Section{Title: title, Viewport: viewport})
	auditSession.current = &auditSession.result.Sections[len(auditSession.result.Sections)-1]

	auditSession.reporter.Printf(sectionHeaderTemplateConstant, title)
	if len(viewport.Category) > 0 {
		auditSession.reporter.Printf(categoryLineTemplateConstant, viewport.Category)
	}
	auditSession.reporter.Printf("%s\n", strings.Repeat(sectionRuleCharacterConstant, sectionRuleWidthConstant))
}

func (auditSession *session) record(status CheckStatus, format string, arguments ...any) {
	check := Check{Status: status, Message: fmt.Sprintf(format, arguments...)}
	if auditSession.current == nil {
		auditSession.startSection(auditSession.result.Audit, Viewport{})
	}
	auditSession.current.Checks = append(auditSession.current.Checks, check)

	switch status {
	case CheckStatusPass:
		auditSession.result.Passed++
	case CheckStatusFail:
		auditSession.result.Failed++
	case CheckStatusWarn:
		auditSession.result.Warnings++
	}
	auditSession.reporter.Printf(checkLineTemplateConstant, check.String())
}

func (auditSession *session) expect(condition bool, passMessage string, failMessage string) {
	if condition {
		auditSession.record(CheckStatusPass, "%s", passMessage)
		return
	}
	auditSession.record(CheckStatusFail, "%s", failMessage)
}

func (auditSession *session) resolveURL(pagePath string) string {
	if strings.HasPrefix(pagePath, "http://") || strings.HasPrefix(pagePath, "https://") {
		return pagePath
	}
	return strings.TrimRight(auditSession.baseURL, pathSeparatorConstant) + pathSeparatorConstant + strings.TrimLeft(pagePath, pathSeparatorConstant)
}

func (auditSession *session) openPage(viewport Viewport) (*pageVisit, bool) {
	page, pageError := auditSession.browser.NewPage(viewport)
	if pageError != nil {
		auditSession.record(CheckStatusFail, pageOpenFailedTemplateConstant, viewport.Label(), pageError)
		return nil, false
	}
	return &pageVisit{session: auditSession, page: page, viewport: viewport}, true
}

// writeArtifact stores data in the screenshot directory and returns the written path.
func (auditSession *session) writeArtifact(name string, data []byte) (string, error) {
	directory := auditSession.options.ScreenshotDirectory
	if mkdirError := auditSession.fileSystem.MkdirAll(directory, artifactDirectoryPermissions); mkdirError != nil {
		return "", fmt.Errorf(artifactDirectoryFailedTemplate, directory, mkdirError)
	}
	artifactPath := filepath.Join(directory, name)
	if writeError := auditSession.fileSystem.WriteFile(artifactPath, data, artifactFilePermissions); writeError != nil {
		return "", fmt.Errorf(artifactWriteFailedTemplate, artifactPath, writeError)
	}
	auditSession.result.Artifacts = append(auditSession.result.Artifacts, artifactPath)
	return artifactPath, nil
}

func (visit *pageVisit) close() {
	_ = visit.page.Close()
}

// open navigates to the page path and waits for the audit settle delay.
// A readiness timeout falls back to a direct navigation without waiting.
func (visit *pageVisit) open(pagePath string, mode WaitMode) bool {
	auditSession := visit.session
	targetURL := auditSession.resolveURL(pagePath)
	auditSession.logger.Debug(auditNavigationLogMessageConstant, zap.String("url", targetURL), zap.String("viewport", visit.viewport.Label()))

	navigationError := visit.page.Navigate(targetURL, mode)
	if navigationError != nil && errors.Is(navigationError, context.DeadlineExceeded) && mode != WaitModeNone {
		auditSession.record(CheckStatusWarn, navigationTimeoutTemplateConstant, targetURL)
		navigationError = visit.page.Navigate(targetURL, WaitModeNone)
	}
	if navigationError != nil {
		auditSession.record(CheckStatusFail, navigationFailedTemplateConstant, targetURL, navigationError)
		return false
	}

	if auditSession.settleDelay > 0 {
		if waitError := visit.page.Wait(auditSession.settleDelay); waitError != nil {
			auditSession.record(CheckStatusWarn, stepFailedTemplateConstant, "Settle wait", waitError)
		}
	}
	return true
}

func (visit *pageVisit) stepFailed(step string, stepError error) {
	visit.session.logger.Debug(auditStepFailureLogMessageConstant, zap.String("step", step), zap.Error(stepError))
	visit.session.record(CheckStatusWarn, stepFailedTemplateConstant, step, stepError)
}

// probe evaluates computed styles. A failing script is a warning; a missing element is only noted.
func (visit *pageVisit) probe(selector string, properties ...string) (ProbeResult, bool) {
	var result ProbeResult
	if evaluateError := visit.page.Evaluate(probeScript(Probe{Selector: selector, Properties: properties}), &result); evaluateError != nil {
		visit.session.record(CheckStatusWarn, probeFailedTemplateConstant, selector, evaluateError)
		return ProbeResult{}, false
	}
	if !result.Found {
		visit.session.record(CheckStatusInfo, elementMissingTemplateConstant, selector)
		return result, false
	}
	return result, true
}

func (visit *pageVisit) visible(selector string) (bool, bool) {
	var isVisible bool
	if evaluateError := visit.page.Evaluate(visibleScript(selector), &isVisible); evaluateError != nil {
		visit.stepFailed("Visibility of "+selector, evaluateError)
		return false, false
	}
	return isVisible, true
}

func (visit *pageVisit) count(selector string) (int, bool) {
	var total int
	if evaluateError := visit.page.Evaluate(countScript(selector), &total); evaluateError != nil {
		visit.stepFailed("Count of "+selector, evaluateError)
		return 0, false
	}
	return total, true
}

func (visit *pageVisit) textPresent(text string) (bool, bool) {
	var present bool
	if evaluateError := visit.page.Evaluate(textPresentScript(text), &present); evaluateError != nil {
		visit.stepFailed(fmt.Sprintf("Text search for %q", text), evaluateError)
		return false, false
	}
	return present, true
}

func (visit *pageVisit) linkTarget(text string) (LinkTarget, bool) {
	var target LinkTarget
	if evaluateError := visit.page.Evaluate(linkTargetScript(text), &target); evaluateError != nil {
		visit.stepFailed(fmt.Sprintf("Link search for %q", text), evaluateError)
		return LinkTarget{}, false
	}
	return target, true
}

// click clicks selector and waits for the page to react; a failed click is a warning.
func (visit *pageVisit) click(step string, selector string, delay time.Duration) bool {
	if clickError := visit.page.Click(selector); clickError != nil {
		visit.stepFailed(step, clickError)
		return false
	}
	if waitError := visit.page.Wait(delay); waitError != nil {
		visit.stepFailed(step, waitError)
	}
	return true
}

// fill types value into selector and waits for the page to react; a failed fill is a warning.
func (visit *pageVisit) fill(step string, selector string, value string, delay time.Duration) bool {
	if fillError := visit.page.Fill(selector, value); fillError != nil {
		visit.stepFailed(step, fillError)
		return false
	}
	if waitError := visit.page.Wait(delay); waitError != nil {
		visit.stepFailed(step, waitError)
	}
	return true
}

func (visit *pageVisit) evaluate(step string, script string, result any) bool {
	if evaluateError := visit.page.Evaluate(script, result); evaluateError != nil {
		visit.stepFailed(step, evaluateError)
		return false
	}
	return true
}

func (visit *pageVisit) screenshot(name string, fullPage bool) {
	capture, captureError := visit.page.Screenshot(fullPage)
	visit.storeScreenshot(name, capture, captureError)
}

func (visit *pageVisit) elementScreenshot(name string, selector string) {
	capture, captureError := visit.page.ElementScreenshot(selector)
	visit.storeScreenshot(name, capture, captureError)
}

func (visit *pageVisit) storeScreenshot(name string, capture []byte, captureError error) {
	auditSession := visit.session
	if captureError != nil {
		auditSession.record(CheckStatusWarn, screenshotFailedTemplateConstant, name, captureError)
		return
	}
	screenshotPath, writeError := auditSession.writeArtifact(name, capture)
	if writeError != nil {
		auditSession.record(CheckStatusWarn, screenshotFailedTemplateConstant, name, writeError)
		return
	}
	if auditSession.current != nil {
		auditSession.current.Screenshots = append(auditSession.current.Screenshots, screenshotPath)
	}
	auditSession.record(CheckStatusInfo, screenshotMessageTemplateConstant, screenshotPath)
}
