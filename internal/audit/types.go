package audit

import (
	"fmt"
	"time"
)

// WaitMode selects the readiness signal awaited after navigation.
type WaitMode string

const (
	// WaitModeDOMContentLoaded waits until the document body is ready.
	WaitModeDOMContentLoaded WaitMode = "domcontentloaded"
	// WaitModeNetworkIdle waits for the lifecycle networkIdle event.
	WaitModeNetworkIdle WaitMode = "networkidle"
	// WaitModeNone issues the navigation and returns immediately.
	WaitModeNone WaitMode = "none"
)

// Viewport describes the browser window emulated for a page.
type Viewport struct {
	Name     string
	Width    int
	Height   int
	Category string
}

// Label renders the viewport as "Name (WxH)".
func (viewport Viewport) Label() string {
	if len(viewport.Name) == 0 {
		return fmt.Sprintf("%dx%d", viewport.Width, viewport.Height)
	}
	return fmt.Sprintf("%s (%dx%d)", viewport.Name, viewport.Width, viewport.Height)
}

// CheckStatus classifies an audit line.
type CheckStatus string

const (
	CheckStatusPass CheckStatus = "pass"
	CheckStatusFail CheckStatus = "fail"
	CheckStatusWarn CheckStatus = "warn"
	CheckStatusInfo CheckStatus = "info"
)

// Symbol returns the emoji printed in front of a check.
func (status CheckStatus) Symbol() string {
	switch status {
	case CheckStatusPass:
		return "✅"
	case CheckStatusFail:
		return "❌"
	case CheckStatusWarn:
		return "⚠️"
	default:
		return ""
	}
}

// Check is a single observation emitted by an audit.
type Check struct {
	Status  CheckStatus
	Message string
}

// String formats the check the way it is printed.
func (check Check) String() string {
	symbol := check.Status.Symbol()
	if len(symbol) == 0 {
		return check.Message
	}
	return symbol + " " + check.Message
}

// Probe queries computed style properties of the first element matching Selector.
type Probe struct {
	Selector   string
	Properties []string
}

// ProbeResult reports whether the probed element exists and its property values.
type ProbeResult struct {
	Found  bool              `json:"found"`
	Values map[string]string `json:"values"`
}

// Value returns the named property or an empty string.
func (result ProbeResult) Value(property string) string {
	if result.Values == nil {
		return ""
	}
	return result.Values[property]
}

// Section groups the checks and screenshots recorded for one page visit.
type Section struct {
	Title       string
	Viewport    Viewport
	Checks      []Check
	Screenshots []string
}

// Result summarizes an audit run.
type Result struct {
	Audit      string
	RunID      string
	BaseURL    string
	StartedAt  time.Time
	FinishedAt time.Time
	Sections   []Section
	Artifacts  []string
	Passed     int
	Failed     int
	Warnings   int
}

// Clock abstracts time for deterministic reports.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
