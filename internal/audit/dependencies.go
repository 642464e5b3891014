package audit

import (
	"context"
	"time"
)

// Page is a live browser tab sized to one viewport.
type Page interface {
	Navigate(targetURL string, mode WaitMode) error
	Wait(duration time.Duration) error
	Evaluate(script string, result any) error
	Screenshot(fullPage bool) ([]byte, error)
	ElementScreenshot(selector string) ([]byte, error)
	AddStyle(css string) error
	// Click clicks the first element matching selector, a CSS selector or an XPath expression.
	Click(selector string) error
	// Fill replaces the value of the first input matching selector by typing value into it.
	Fill(selector string, value string) error
	ConsoleErrors() []string
	Close() error
}

// Browser opens pages; closing it releases every page it opened.
type Browser interface {
	NewPage(viewport Viewport) (Page, error)
	Close() error
}

// LaunchOptions configures the browser process.
type LaunchOptions struct {
	Headless          bool
	ExecutablePath    string
	NavigationTimeout time.Duration
}

// BrowserLauncher starts a browser bound to the provided context.
type BrowserLauncher interface {
	Launch(executionContext context.Context, options LaunchOptions) (Browser, error)
}
