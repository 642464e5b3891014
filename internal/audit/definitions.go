package audit

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	unknownAuditTemplateConstant = "unknown audit %q (available: %s)"
	auditNameSeparatorConstant   = ", "
)

// Target selects which base URL an audit addresses.
type Target string

const (
	// TargetSite addresses the public site.
	TargetSite Target = "site"
	// TargetDashboard addresses the admin dashboard.
	TargetDashboard Target = "dashboard"
)

// Definition describes a named browser audit.
type Definition struct {
	Name        string
	Description string
	Target      Target
	SettleDelay time.Duration
	run         func(auditSession *session)
}

var builtinDefinitions = []Definition{
	{
		Name:        "breakpoints",
		Description: "Check navigation, typography, and grids across nine standard viewports",
		Target:      TargetSite,
		SettleDelay: 1500 * time.Millisecond,
		run:         runBreakpointsAudit,
	},
	{
		Name:        "fluid",
		Description: "Check fluid typography, fluid grids, and horizontal scroll at intermediate widths",
		Target:      TargetSite,
		SettleDelay: 1500 * time.Millisecond,
		run:         runFluidAudit,
	},
	{
		Name:        "layout",
		Description: "Inspect container box models, overflow, and elements wider than the viewport",
		Target:      TargetSite,
		SettleDelay: 2 * time.Second,
		run:         runLayoutAudit,
	},
	{
		Name:        "hero",
		Description: "Verify home hero alignment and call-to-action colours",
		Target:      TargetSite,
		SettleDelay: 2 * time.Second,
		run:         runHeroAudit,
	},
	{
		Name:        "visual",
		Description: "Capture full-page screenshots and write the computed style audit",
		Target:      TargetSite,
		run:         runVisualAudit,
	},
	{
		Name:        "dashboard",
		Description: "Audit the admin dashboard pages, theme variables, and console errors",
		Target:      TargetDashboard,
		SettleDelay: 2 * time.Second,
		run:         runDashboardAudit,
	},
}

// Definitions returns the built-in audits sorted by name.
func Definitions() []Definition {
	definitions := append([]Definition(nil), builtinDefinitions...)
	sort.Slice(definitions, func(leftIndex int, rightIndex int) bool {
		return definitions[leftIndex].Name < definitions[rightIndex].Name
	})
	return definitions
}

// Lookup resolves a built-in audit by name.
func Lookup(name string) (Definition, error) {
	trimmed := strings.TrimSpace(name)
	for _, definition := range builtinDefinitions {
		if definition.Name == trimmed {
			return definition, nil
		}
	}

	names := make([]string, 0, len(builtinDefinitions))
	for _, definition := range Definitions() {
		names = append(names, definition.Name)
	}
	return Definition{}, fmt.Errorf(unknownAuditTemplateConstant, trimmed, strings.Join(names, auditNameSeparatorConstant))
}
