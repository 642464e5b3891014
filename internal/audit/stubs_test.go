package audit_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cepformacion/cepfix/internal/audit"
)

const (
	probeScriptMarker      = "getPropertyValue"
	visibleScriptMarker    = "visibility !== 'hidden'"
	countScriptMarker      = "querySelectorAll("
	textScriptMarker       = "innerText.includes"
	scrollWidthMarker      = "document.body.scrollWidth"
	wideElementsMarker     = "window.innerWidth"
	styleAuditMarker       = "--color-primary"
	stylesheetsMarker      = "document.styleSheets"
	linkTargetMarker       = "anchor.innerText.includes"
	stubScreenshotContents = "png-bytes"
)

type scriptResponse struct {
	fragments []string
	response  string
	err       error
}

type navigation struct {
	url  string
	mode audit.WaitMode
}

type stubBrowser struct {
	mutex           sync.Mutex
	responses       []scriptResponse
	navigateErrors  map[string][]error
	newPageError    error
	consoleErrors   []string
	viewports       []audit.Viewport
	navigations     []navigation
	waits           []time.Duration
	styles          []string
	clicks          []string
	clickErrors     map[string]error
	fills           []string
	fillErrors      map[string]error
	fullScreenshots int
	elementShots    []string
	closedPages     int
	closed          bool
}

type stubLauncher struct {
	browser     *stubBrowser
	launchError error
	launched    []audit.LaunchOptions
}

func (launcher *stubLauncher) Launch(_ context.Context, options audit.LaunchOptions) (audit.Browser, error) {
	launcher.launched = append(launcher.launched, options)
	if launcher.launchError != nil {
		return nil, launcher.launchError
	}
	if launcher.browser == nil {
		launcher.browser = &stubBrowser{}
	}
	return launcher.browser, nil
}

func (browser *stubBrowser) NewPage(viewport audit.Viewport) (audit.Page, error) {
	browser.mutex.Lock()
	defer browser.mutex.Unlock()
	if browser.newPageError != nil {
		return nil, browser.newPageError
	}
	browser.viewports = append(browser.viewports, viewport)
	return &stubPage{browser: browser, viewport: viewport}, nil
}

func (browser *stubBrowser) Close() error {
	browser.closed = true
	return nil
}

func (browser *stubBrowser) respond(script string) (string, error) {
	for _, candidate := range browser.responses {
		matched := true
		for _, fragment := range candidate.fragments {
			if !strings.Contains(script, fragment) {
				matched = false
				break
			}
		}
		if matched {
			return candidate.response, candidate.err
		}
	}
	return "null", nil
}

type stubPage struct {
	browser  *stubBrowser
	viewport audit.Viewport
}

func (page *stubPage) Navigate(targetURL string, mode audit.WaitMode) error {
	browser := page.browser
	browser.mutex.Lock()
	defer browser.mutex.Unlock()
	browser.navigations = append(browser.navigations, navigation{url: targetURL, mode: mode})
	pending := browser.navigateErrors[targetURL]
	if len(pending) == 0 {
		return nil
	}
	browser.navigateErrors[targetURL] = pending[1:]
	return pending[0]
}

func (page *stubPage) Wait(duration time.Duration) error {
	page.browser.mutex.Lock()
	defer page.browser.mutex.Unlock()
	page.browser.waits = append(page.browser.waits, duration)
	return nil
}

func (page *stubPage) Evaluate(script string, result any) error {
	response, responseError := page.browser.respond(script)
	if responseError != nil {
		return responseError
	}
	if result == nil {
		return nil
	}
	return json.Unmarshal([]byte(response), result)
}

func (page *stubPage) Screenshot(fullPage bool) ([]byte, error) {
	if fullPage {
		page.browser.mutex.Lock()
		page.browser.fullScreenshots++
		page.browser.mutex.Unlock()
	}
	return []byte(stubScreenshotContents), nil
}

func (page *stubPage) ElementScreenshot(selector string) ([]byte, error) {
	page.browser.mutex.Lock()
	defer page.browser.mutex.Unlock()
	page.browser.elementShots = append(page.browser.elementShots, selector)
	return []byte(stubScreenshotContents), nil
}

func (page *stubPage) AddStyle(css string) error {
	page.browser.mutex.Lock()
	defer page.browser.mutex.Unlock()
	page.browser.styles = append(page.browser.styles, css)
	return nil
}

func (page *stubPage) Click(selector string) error {
	page.browser.mutex.Lock()
	defer page.browser.mutex.Unlock()
	page.browser.clicks = append(page.browser.clicks, selector)
	return page.browser.clickErrors[selector]
}

func (page *stubPage) Fill(selector string, value string) error {
	page.browser.mutex.Lock()
	defer page.browser.mutex.Unlock()
	page.browser.fills = append(page.browser.fills, value)
	return page.browser.fillErrors[value]
}

func (page *stubPage) ConsoleErrors() []string {
	return append([]string(nil), page.browser.consoleErrors...)
}

func (page *stubPage) Close() error {
	page.browser.mutex.Lock()
	defer page.browser.mutex.Unlock()
	page.browser.closedPages++
	return nil
}

type fixedClock struct {
	now time.Time
}

func (clock fixedClock) Now() time.Time {
	return clock.now
}

// scriptLiteral encodes a selector or text the way audit scripts embed it.
func scriptLiteral(testInstance *testing.T, value string) string {
	testInstance.Helper()
	buffer := &bytes.Buffer{}
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	require.NoError(testInstance, encoder.Encode(value))
	return strings.TrimSpace(buffer.String())
}

func probeResponse(testInstance *testing.T, selector string, values map[string]string) scriptResponse {
	testInstance.Helper()
	encoded, encodeError := json.Marshal(audit.ProbeResult{Found: true, Values: values})
	require.NoError(testInstance, encodeError)
	return scriptResponse{fragments: []string{probeScriptMarker, scriptLiteral(testInstance, selector)}, response: string(encoded)}
}

func countResponse(testInstance *testing.T, selector string, total string) scriptResponse {
	testInstance.Helper()
	return scriptResponse{fragments: []string{countScriptMarker, scriptLiteral(testInstance, selector)}, response: total}
}

func linkResponse(testInstance *testing.T, label string, target audit.LinkTarget) scriptResponse {
	testInstance.Helper()
	encoded, encodeError := json.Marshal(target)
	require.NoError(testInstance, encodeError)
	return scriptResponse{fragments: []string{linkTargetMarker, scriptLiteral(testInstance, label)}, response: string(encoded)}
}

func textResponse(testInstance *testing.T, text string, present bool) scriptResponse {
	testInstance.Helper()
	response := "false"
	if present {
		response = "true"
	}
	return scriptResponse{fragments: []string{textScriptMarker, scriptLiteral(testInstance, text)}, response: response}
}
