package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	headlessFlagConstant              = "headless"
	disableGPUFlagConstant            = "disable-gpu"
	noSandboxFlagConstant             = "no-sandbox"
	disableDevShmFlagConstant         = "disable-dev-shm-usage"
	hideScrollbarsFlagConstant        = "hide-scrollbars"
	networkIdleEventNameConstant      = "networkIdle"
	lifecycleInitEventNameConstant    = "init"
	bodySelectorConstant              = "body"
	screenshotQualityConstant         = 90
	defaultNavigationTimeoutConstant  = 30 * time.Second
	launchErrorTemplateConstant       = "unable to launch browser: %w"
	newPageErrorTemplateConstant      = "unable to open page %s: %w"
	navigateErrorTemplateConstant     = "navigation to %s failed: %w"
	evaluateErrorTemplateConstant     = "script evaluation failed: %w"
	screenshotErrorTemplateConstant   = "screenshot failed: %w"
	elementScreenshotTemplateConstant = "screenshot of %s failed: %w"
	addStyleErrorTemplateConstant     = "unable to inject style: %w"
	clickErrorTemplateConstant        = "click on %s failed: %w"
	fillErrorTemplateConstant         = "typing into %s failed: %w"
	directNavigationScriptTemplate    = "window.location.assign(%s)"
	addStyleScriptTemplate            = "(() => { const style = document.createElement('style'); style.textContent = %s; document.head.appendChild(style); return true; })()"
	consoleErrorLogMessageConstant    = "browser console error"
)

// ChromeLauncher starts Chrome through chromedp.
type ChromeLauncher struct {
	Logger *zap.Logger
}

// NewChromeLauncher constructs a ChromeLauncher; a nil logger discards browser logs.
func NewChromeLauncher(logger *zap.Logger) ChromeLauncher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return ChromeLauncher{Logger: logger}
}

// Launch starts the browser process and opens its first target.
func (launcher ChromeLauncher) Launch(executionContext context.Context, options LaunchOptions) (Browser, error) {
	logger := launcher.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	allocatorOptions := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag(headlessFlagConstant, options.Headless),
		chromedp.Flag(disableGPUFlagConstant, true),
		chromedp.Flag(noSandboxFlagConstant, true),
		chromedp.Flag(disableDevShmFlagConstant, true),
		chromedp.Flag(hideScrollbarsFlagConstant, options.Headless),
	)
	if len(strings.TrimSpace(options.ExecutablePath)) > 0 {
		allocatorOptions = append(allocatorOptions, chromedp.ExecPath(options.ExecutablePath))
	}

	allocatorContext, allocatorCancel := chromedp.NewExecAllocator(executionContext, allocatorOptions...)
	browserContext, browserCancel := chromedp.NewContext(allocatorContext, chromedp.WithLogf(logger.Sugar().Debugf))
	if runError := chromedp.Run(browserContext); runError != nil {
		browserCancel()
		allocatorCancel()
		return nil, fmt.Errorf(launchErrorTemplateConstant, runError)
	}

	timeout := options.NavigationTimeout
	if timeout <= 0 {
		timeout = defaultNavigationTimeoutConstant
	}

	return &chromeBrowser{
		browserContext:  browserContext,
		browserCancel:   browserCancel,
		allocatorCancel: allocatorCancel,
		timeout:         timeout,
		logger:          logger,
	}, nil
}

type chromeBrowser struct {
	browserContext  context.Context
	browserCancel   context.CancelFunc
	allocatorCancel context.CancelFunc
	timeout         time.Duration
	logger          *zap.Logger
}

func (browser *chromeBrowser) NewPage(viewport Viewport) (Page, error) {
	tabContext, tabCancel := chromedp.NewContext(browser.browserContext)

	chromePage := &chromePage{
		tabContext: tabContext,
		tabCancel:  tabCancel,
		timeout:    browser.timeout,
		logger:     browser.logger,
	}
	chromedp.ListenTarget(tabContext, chromePage.recordConsoleEvent)

	emulation := chromedp.EmulateViewport(int64(viewport.Width), int64(viewport.Height))
	if runError := chromedp.Run(tabContext, emulation); runError != nil {
		tabCancel()
		return nil, fmt.Errorf(newPageErrorTemplateConstant, viewport.Label(), runError)
	}
	return chromePage, nil
}

func (browser *chromeBrowser) Close() error {
	browser.browserCancel()
	browser.allocatorCancel()
	return nil
}

type chromePage struct {
	tabContext context.Context
	tabCancel  context.CancelFunc
	timeout    time.Duration
	logger     *zap.Logger

	consoleMutex  sync.Mutex
	consoleErrors []string
}

func (chromePage *chromePage) Navigate(targetURL string, mode WaitMode) error {
	timeoutContext, cancel := context.WithTimeout(chromePage.tabContext, chromePage.timeout)
	defer cancel()

	var navigationError error
	switch mode {
	case WaitModeNetworkIdle:
		navigationError = chromePage.navigateUntilNetworkIdle(timeoutContext, targetURL)
	case WaitModeNone:
		navigationError = chromedp.Run(timeoutContext, chromedp.Evaluate(fmt.Sprintf(directNavigationScriptTemplate, quoteScriptValue(targetURL)), nil))
	default:
		navigationError = chromedp.Run(timeoutContext,
			chromedp.Navigate(targetURL),
			chromedp.WaitReady(bodySelectorConstant, chromedp.ByQuery),
		)
	}
	if navigationError != nil {
		return fmt.Errorf(navigateErrorTemplateConstant, targetURL, navigationError)
	}
	return nil
}

func (chromePage *chromePage) navigateUntilNetworkIdle(timeoutContext context.Context, targetURL string) error {
	idleSignal := make(chan struct{}, 1)
	listenerContext, cancelListener := context.WithCancel(timeoutContext)
	defer cancelListener()

	chromedp.ListenTarget(listenerContext, func(event any) {
		lifecycleEvent, isLifecycle := event.(*page.EventLifecycleEvent)
		if !isLifecycle {
			return
		}
		switch lifecycleEvent.Name {
		case lifecycleInitEventNameConstant:
			select {
			case <-idleSignal:
			default:
			}
		case networkIdleEventNameConstant:
			select {
			case idleSignal <- struct{}{}:
			default:
			}
		}
	})

	if runError := chromedp.Run(timeoutContext,
		page.SetLifecycleEventsEnabled(true),
		chromedp.Navigate(targetURL),
	); runError != nil {
		return runError
	}

	select {
	case <-idleSignal:
		return nil
	case <-timeoutContext.Done():
		return timeoutContext.Err()
	}
}

func (chromePage *chromePage) Wait(duration time.Duration) error {
	if duration <= 0 {
		return nil
	}
	return chromedp.Run(chromePage.tabContext, chromedp.Sleep(duration))
}

func (chromePage *chromePage) Evaluate(script string, result any) error {
	timeoutContext, cancel := context.WithTimeout(chromePage.tabContext, chromePage.timeout)
	defer cancel()

	if runError := chromedp.Run(timeoutContext, chromedp.Evaluate(script, result)); runError != nil {
		return fmt.Errorf(evaluateErrorTemplateConstant, runError)
	}
	return nil
}

func (chromePage *chromePage) Screenshot(fullPage bool) ([]byte, error) {
	timeoutContext, cancel := context.WithTimeout(chromePage.tabContext, chromePage.timeout)
	defer cancel()

	var capture []byte
	var action chromedp.Action = chromedp.CaptureScreenshot(&capture)
	if fullPage {
		action = chromedp.FullScreenshot(&capture, screenshotQualityConstant)
	}
	if runError := chromedp.Run(timeoutContext, action); runError != nil {
		return nil, fmt.Errorf(screenshotErrorTemplateConstant, runError)
	}
	return capture, nil
}

func (chromePage *chromePage) ElementScreenshot(selector string) ([]byte, error) {
	timeoutContext, cancel := context.WithTimeout(chromePage.tabContext, chromePage.timeout)
	defer cancel()

	var capture []byte
	if runError := chromedp.Run(timeoutContext, chromedp.Screenshot(selector, &capture, chromedp.ByQuery, chromedp.NodeVisible)); runError != nil {
		return nil, fmt.Errorf(elementScreenshotTemplateConstant, selector, runError)
	}
	return capture, nil
}

func (chromePage *chromePage) AddStyle(css string) error {
	if evaluateError := chromePage.Evaluate(fmt.Sprintf(addStyleScriptTemplate, quoteScriptValue(css)), nil); evaluateError != nil {
		return fmt.Errorf(addStyleErrorTemplateConstant, evaluateError)
	}
	return nil
}

func (chromePage *chromePage) Click(selector string) error {
	timeoutContext, cancel := context.WithTimeout(chromePage.tabContext, chromePage.timeout)
	defer cancel()

	if runError := chromedp.Run(timeoutContext, chromedp.Click(selector, chromedp.BySearch, chromedp.NodeVisible)); runError != nil {
		return fmt.Errorf(clickErrorTemplateConstant, selector, runError)
	}
	return nil
}

func (chromePage *chromePage) Fill(selector string, value string) error {
	timeoutContext, cancel := context.WithTimeout(chromePage.tabContext, chromePage.timeout)
	defer cancel()

	actions := []chromedp.Action{
		chromedp.WaitVisible(selector, chromedp.BySearch),
		chromedp.SetValue(selector, "", chromedp.BySearch),
	}
	if len(value) > 0 {
		actions = append(actions, chromedp.SendKeys(selector, value, chromedp.BySearch))
	}
	if runError := chromedp.Run(timeoutContext, actions...); runError != nil {
		return fmt.Errorf(fillErrorTemplateConstant, selector, runError)
	}
	return nil
}

func (chromePage *chromePage) ConsoleErrors() []string {
	chromePage.consoleMutex.Lock()
	defer chromePage.consoleMutex.Unlock()
	return append([]string(nil), chromePage.consoleErrors...)
}

func (chromePage *chromePage) Close() error {
	chromePage.tabCancel()
	return nil
}

func (chromePage *chromePage) recordConsoleEvent(event any) {
	switch typedEvent := event.(type) {
	case *runtime.EventConsoleAPICalled:
		if typedEvent.Type != runtime.APITypeError {
			return
		}
		chromePage.appendConsoleError(describeConsoleArguments(typedEvent.Args))
	case *runtime.EventExceptionThrown:
		if typedEvent.ExceptionDetails == nil {
			return
		}
		message := typedEvent.ExceptionDetails.Text
		if typedEvent.ExceptionDetails.Exception != nil && len(typedEvent.ExceptionDetails.Exception.Description) > 0 {
			message = typedEvent.ExceptionDetails.Exception.Description
		}
		chromePage.appendConsoleError(message)
	}
}

func (chromePage *chromePage) appendConsoleError(message string) {
	chromePage.logger.Debug(consoleErrorLogMessageConstant, zap.String("message", message))
	chromePage.consoleMutex.Lock()
	defer chromePage.consoleMutex.Unlock()
	chromePage.consoleErrors = append(chromePage.consoleErrors, message)
}

func describeConsoleArguments(arguments []*runtime.RemoteObject) string {
	parts := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		if argument == nil {
			continue
		}
		var decoded any
		if len(argument.Value) > 0 && json.Unmarshal(argument.Value, &decoded) == nil {
			parts = append(parts, fmt.Sprintf("%v", decoded))
			continue
		}
		parts = append(parts, argument.Description)
	}
	return strings.Join(parts, " ")
}
