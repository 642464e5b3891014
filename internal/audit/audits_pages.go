package audit

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	textAlignPropertyConstant       = "text-align"
	justifyContentPropertyConstant  = "justify-content"
	colorPropertyConstant           = "color"
	backgroundColorPropertyConstant = "background-color"
	borderColorPropertyConstant     = "border-color"
	borderWidthPropertyConstant     = "border-width"
	borderRadiusPropertyConstant    = "border-radius"
	paddingPropertyConstant         = "padding"
	boxShadowPropertyConstant       = "box-shadow"
	fontFamilyPropertyConstant      = "font-family"
	fontWeightPropertyConstant      = "font-weight"
	centerValueConstant             = "center"

	heroButtonsSelectorConstant   = "section.hero div.flex"
	heroCoursesButtonSelector     = `section.hero a[href="/cursos"]`
	heroContactButtonSelector     = `section.hero a[href="/contacto"]`
	heroScreenshotNameConstant    = "hero-centered.png"
	styleAuditArtifactConstant    = "style-audit.json"
	styleAuditIndentConstant      = "  "
	missingStyleValueConstant     = "(not set)"
	rootSelectorConstant          = ":root"
	sidebarSelectorConstant       = `[data-sidebar="sidebar"], aside`
	kpiCardSelectorConstant       = ".rounded-xl"
	dashboardCardSelectorConstant = `[class*="rounded-xl"]`
	ciclosCardSelectorConstant    = `[class*="rounded-xl"][class*="bg-card"]`
	searchInputSelectorConstant   = `input[placeholder*="Buscar"]`
	tabsSelectorConstant          = `[role="tablist"], button[role="tab"]`
	buttonSelectorConstant        = "button"
	dashboardTitleConstant        = "Dashboard CEP Admin"
	ciclosTitleConstant           = "Ciclos Formativos"
	newCicloButtonConstant        = "NUEVO CICLO"
	ciclosStatsConstant           = "Total Ciclos"
	backLinkConstant              = "Volver"
	gradeBadgeConstant            = "Grado Superior"
	cicloTitleConstant            = "TÉCNICO SUPERIOR EN PRODUCCIÓN DE AUDIOVISUALES"
	searchTermConstant            = "audiovisual"
	expectedSearchMatchesConstant = 1
	coursesTabConstant            = "Cursos del Ciclo"
	courseCardSelectorConstant    = `[class*="rounded-lg"]`
	ciclosMenuLabelConstant       = "Ciclos"
	cicloMedioMenuLabelConstant   = "Ciclo Medio"
	buttonTagConstant             = "button"
	anchorTagConstant             = "a"
	ciclosPagePathConstant        = "/ciclos"
	cicloDetailPagePathConstant   = "/ciclos/ciclo-1"
	coursesPagePathConstant       = "/cursos"
	minimumKPICardsConstant       = 5
	minimumCicloCardsConstant     = 3
	consoleErrorLimitConstant     = 5
	consoleErrorLengthConstant    = 100
	interactionDelayConstant      = 500 * time.Millisecond
	submenuDelayConstant          = 2 * time.Second
)

// HeroViewport is the desktop viewport used by the hero audit.
var HeroViewport = Viewport{Name: "Large desktop", Width: 1366, Height: 768}

// DesktopViewport is the full HD viewport used by the visual and dashboard audits.
var DesktopViewport = Viewport{Name: "Desktop", Width: 1920, Height: 1080}

// DashboardThemeVariables are the CSS custom properties read from the dashboard root.
var DashboardThemeVariables = []string{"--background", "--foreground", "--primary", "--card", "--border", "--radius"}

// DashboardTabs are the tab labels expected on a ciclo detail page.
var DashboardTabs = []string{"Información", "Cursos del Ciclo", "Convocatorias", "Salidas Profesionales"}

type pageCapture struct {
	Title      string
	Path       string
	Screenshot string
}

var visualCaptures = []pageCapture{
	{Title: "Home page", Path: homePagePathConstant, Screenshot: "visual-homepage.png"},
	{Title: "Courses page", Path: coursesPagePathConstant, Screenshot: "visual-cursos.png"},
	{Title: "Design hub", Path: designHubPagePathConstant, Screenshot: "visual-design-hub.png"},
}

type sidebarLink struct {
	Label string
	Href  string
}

var dashboardSidebarLinks = []sidebarLink{
	{Label: "Dashboard", Href: "/"},
	{Label: "Ciclos", Href: "/ciclos"},
}

type gradeCapture struct {
	Path       string
	Grade      string
	Screenshot string
}

var dashboardGradeCaptures = []gradeCapture{
	{Path: "/ciclos/ciclo-2", Grade: "Grado Medio", Screenshot: "audit-08-ciclo-medio.png"},
	{Path: "/ciclos/ciclo-3", Grade: "Grado Superior", Screenshot: "audit-09-ciclo-superior.png"},
}

type responsiveCapture struct {
	Viewport   Viewport
	Path       string
	Screenshot string
}

var dashboardResponsiveCaptures = []responsiveCapture{
	{Viewport: Viewport{Name: "Mobile", Width: 375, Height: 812}, Path: homePagePathConstant, Screenshot: "audit-04-mobile-dashboard.png"},
	{Viewport: Viewport{Name: "Tablet", Width: 768, Height: 1024}, Path: homePagePathConstant, Screenshot: "audit-05-tablet-dashboard.png"},
	{Viewport: Viewport{Name: "Desktop", Width: 1920, Height: 1080}, Path: ciclosPagePathConstant, Screenshot: "audit-06-desktop-ciclos.png"},
}

func runHeroAudit(auditSession *session) {
	auditSession.startSection("Hero alignment", HeroViewport)
	visit, opened := auditSession.openPage(HeroViewport)
	if !opened {
		return
	}
	defer visit.close()

	if !visit.open(homePagePathConstant, WaitModeDOMContentLoaded) {
		return
	}

	if content, found := visit.probe(heroContentSelectorConstant, textAlignPropertyConstant, marginLeftPropertyConstant, marginRightPropertyConstant, maxWidthPropertyConstant); found {
		expectCentered(auditSession, "Hero container text-align", content.Value(textAlignPropertyConstant))
		auditSession.record(CheckStatusInfo, "Hero container margin: %s / %s", content.Value(marginLeftPropertyConstant), content.Value(marginRightPropertyConstant))
		auditSession.record(CheckStatusInfo, "Hero container max-width: %s", content.Value(maxWidthPropertyConstant))
	}
	if heading, found := visit.probe(heroHeadingSelectorConstant, textAlignPropertyConstant); found {
		expectCentered(auditSession, "H1 text-align", heading.Value(textAlignPropertyConstant))
	}
	if paragraph, found := visit.probe(heroParagraphSelectorConstant, textAlignPropertyConstant); found {
		expectCentered(auditSession, "P text-align", paragraph.Value(textAlignPropertyConstant))
	}
	if buttons, found := visit.probe(heroButtonsSelectorConstant, justifyContentPropertyConstant); found {
		expectCentered(auditSession, "Buttons justify-content", buttons.Value(justifyContentPropertyConstant))
	}

	auditSession.startSection("Button colours", HeroViewport)
	if coursesButton, found := visit.probe(heroCoursesButtonSelector, colorPropertyConstant, backgroundColorPropertyConstant, borderColorPropertyConstant); found {
		auditSession.record(CheckStatusInfo, "Courses button color: %s, background: %s", coursesButton.Value(colorPropertyConstant), coursesButton.Value(backgroundColorPropertyConstant))
	}
	if contactButton, found := visit.probe(heroContactButtonSelector, colorPropertyConstant, backgroundColorPropertyConstant, borderColorPropertyConstant, borderWidthPropertyConstant); found {
		auditSession.record(CheckStatusInfo, "Contact button color: %s, background: %s", contactButton.Value(colorPropertyConstant), contactButton.Value(backgroundColorPropertyConstant))
		auditSession.record(CheckStatusInfo, "Contact button border: %s %s", contactButton.Value(borderWidthPropertyConstant), contactButton.Value(borderColorPropertyConstant))
	}

	visit.elementScreenshot(heroScreenshotNameConstant, heroSectionSelectorConstant)

	if hold := auditSession.options.Hold; hold > 0 {
		auditSession.record(CheckStatusInfo, "Holding the page open for %s", hold)
		if waitError := visit.page.Wait(hold); waitError != nil {
			visit.stepFailed("Hold", waitError)
		}
	}
}

func expectCentered(auditSession *session, label string, value string) {
	auditSession.expect(
		value == centerValueConstant,
		fmt.Sprintf("%s: %s", label, value),
		fmt.Sprintf("%s: %s (expected %s)", label, value, centerValueConstant),
	)
}

func runVisualAudit(auditSession *session) {
	auditSession.startSection("Full-page captures", DesktopViewport)
	visit, opened := auditSession.openPage(DesktopViewport)
	if !opened {
		return
	}
	defer visit.close()

	for _, capture := range visualCaptures {
		if auditSession.cancelled() {
			return
		}
		auditSession.record(CheckStatusInfo, "📍 %s", capture.Title)
		if visit.open(capture.Path, WaitModeNetworkIdle) {
			visit.screenshot(capture.Screenshot, true)
		}
	}

	auditSession.startSection("Computed styles", DesktopViewport)
	var styleAudit StyleAudit
	if !visit.evaluate("Style audit", styleAuditScriptConstant, &styleAudit) {
		return
	}

	encoded, encodeError := json.MarshalIndent(styleAudit, "", styleAuditIndentConstant)
	if encodeError != nil {
		visit.stepFailed("Style audit encoding", encodeError)
		return
	}
	artifactPath, writeError := auditSession.writeArtifact(styleAuditArtifactConstant, encoded)
	if writeError != nil {
		visit.stepFailed("Style audit export", writeError)
		return
	}
	auditSession.record(CheckStatusInfo, artifactMessageTemplateConstant, artifactPath)

	auditSession.record(CheckStatusInfo, "Header background: %s", styleValue(styleAudit.Header[backgroundColorPropertyConstant]))
	auditSession.record(CheckStatusInfo, "Footer background: %s", styleValue(styleAudit.Footer[backgroundColorPropertyConstant]))
	auditSession.record(CheckStatusInfo, "Font family: %s", styleValue(styleAudit.Body[fontFamilyPropertyConstant]))
	auditSession.record(CheckStatusInfo, "Primary color: %s", styleValue(styleAudit.PrimaryColor))
	auditSession.record(CheckStatusInfo, "Secondary color: %s", styleValue(styleAudit.SecondaryColor))
}

func styleValue(value string) string {
	if len(strings.TrimSpace(value)) == 0 {
		return missingStyleValueConstant
	}
	return value
}

func runDashboardAudit(auditSession *session) {
	auditSession.startSection("Dashboard home", DesktopViewport)
	visit, opened := auditSession.openPage(DesktopViewport)
	if opened {
		checkDashboardHome(visit)
		if !auditSession.cancelled() {
			auditSession.startSection("Ciclos submenu", DesktopViewport)
			checkCiclosSubmenu(visit)
		}
		if !auditSession.cancelled() {
			auditSession.startSection("Ciclos list", DesktopViewport)
			checkCiclosList(visit)
		}
		if !auditSession.cancelled() {
			auditSession.startSection("Ciclo detail", DesktopViewport)
			checkCicloDetail(visit)
		}
		if !auditSession.cancelled() {
			auditSession.startSection("Ciclo grades", DesktopViewport)
			checkCicloGrades(visit)
		}
		auditSession.startSection("Console", DesktopViewport)
		reportConsoleErrors(visit)
		visit.close()
	}

	for _, capture := range dashboardResponsiveCaptures {
		if auditSession.cancelled() {
			return
		}
		auditSession.startSection("Responsive "+capture.Viewport.Label(), capture.Viewport)
		responsiveVisit, responsiveOpened := auditSession.openPage(capture.Viewport)
		if !responsiveOpened {
			continue
		}
		if responsiveVisit.open(capture.Path, WaitModeNetworkIdle) {
			responsiveVisit.screenshot(capture.Screenshot, true)
		}
		responsiveVisit.close()
	}
}

func checkDashboardHome(visit *pageVisit) {
	auditSession := visit.session
	if !visit.open(homePagePathConstant, WaitModeNetworkIdle) {
		return
	}
	visit.screenshot("audit-01-dashboard.png", true)

	expectText(visit, dashboardTitleConstant, "Dashboard title")
	if sidebars, counted := visit.count(sidebarSelectorConstant); counted {
		auditSession.expect(sidebars > 0, "Sidebar present", "Sidebar missing")
	}
	for _, link := range dashboardSidebarLinks {
		checkSidebarLink(visit, link)
	}
	if cards, counted := visit.count(kpiCardSelectorConstant); counted {
		auditSession.expect(
			cards >= minimumKPICardsConstant,
			fmt.Sprintf("KPI cards: %d", cards),
			fmt.Sprintf("KPI cards: %d (expected at least %d)", cards, minimumKPICardsConstant),
		)
	}

	if root, found := visit.probe(rootSelectorConstant, DashboardThemeVariables...); found {
		defined := 0
		for _, variable := range DashboardThemeVariables {
			value := root.Value(variable)
			if len(value) > 0 {
				defined++
			}
			auditSession.record(CheckStatusInfo, "%s: %s", variable, styleValue(value))
		}
		if defined == 0 {
			auditSession.record(CheckStatusWarn, "No theme variables defined on :root")
		}
	}

	if body, found := visit.probe("body", backgroundColorPropertyConstant, colorPropertyConstant, fontFamilyPropertyConstant, fontSizePropertyConstant); found {
		auditSession.record(CheckStatusInfo, "Body background: %s, color: %s", body.Value(backgroundColorPropertyConstant), body.Value(colorPropertyConstant))
		auditSession.record(CheckStatusInfo, "Body font: %s %s", body.Value(fontSizePropertyConstant), body.Value(fontFamilyPropertyConstant))
	}

	cardProperties := []string{backgroundColorPropertyConstant, borderRadiusPropertyConstant, borderColorPropertyConstant, borderWidthPropertyConstant, paddingPropertyConstant, boxShadowPropertyConstant}
	if card, found := visit.probe(dashboardCardSelectorConstant, cardProperties...); found {
		auditSession.record(CheckStatusInfo, "Card: %s", describeProperties(card, cardProperties))
	}
	buttonProperties := []string{backgroundColorPropertyConstant, colorPropertyConstant, borderRadiusPropertyConstant, paddingPropertyConstant, fontSizePropertyConstant, fontWeightPropertyConstant}
	if button, found := visit.probe(buttonSelectorConstant, buttonProperties...); found {
		auditSession.record(CheckStatusInfo, "Button: %s", describeProperties(button, buttonProperties))
	}

	var stylesheets []string
	if visit.evaluate("Stylesheet listing", stylesheetsScriptConstant, &stylesheets) {
		auditSession.record(CheckStatusInfo, "Stylesheets: %d", len(stylesheets))
		for _, stylesheet := range stylesheets {
			auditSession.record(CheckStatusInfo, "  %s", stylesheet)
		}
	}
}

func checkCiclosList(visit *pageVisit) {
	auditSession := visit.session
	if !visit.open(ciclosPagePathConstant, WaitModeNetworkIdle) {
		return
	}
	visit.screenshot("audit-02-ciclos-list.png", true)

	expectText(visit, ciclosTitleConstant, "Page title")
	expectText(visit, newCicloButtonConstant, "New ciclo button")
	expectText(visit, ciclosStatsConstant, "Statistics")
	if cards, counted := visit.count(ciclosCardSelectorConstant); counted {
		if cards >= minimumCicloCardsConstant {
			auditSession.record(CheckStatusPass, "Ciclo cards: %d", cards)
		} else {
			auditSession.record(CheckStatusWarn, "Ciclo cards: %d (expected at least %d)", cards, minimumCicloCardsConstant)
		}
	}
	inputs, counted := visit.count(searchInputSelectorConstant)
	if !counted {
		return
	}
	auditSession.record(CheckStatusInfo, "Search inputs: %d", inputs)
	if inputs > 0 {
		checkCicloSearch(visit)
	}
}

// checkCicloSearch filters the ciclo list and clears the search box afterwards.
func checkCicloSearch(visit *pageVisit) {
	step := fmt.Sprintf("Search for %q", searchTermConstant)
	if !visit.fill(step, searchInputSelectorConstant, searchTermConstant, interactionDelayConstant) {
		return
	}
	if matches, counted := visit.count(ciclosCardSelectorConstant); counted {
		visit.session.expect(
			matches == expectedSearchMatchesConstant,
			fmt.Sprintf("Search %q: %d card(s)", searchTermConstant, matches),
			fmt.Sprintf("Search %q: %d card(s) (expected %d)", searchTermConstant, matches, expectedSearchMatchesConstant),
		)
	}
	visit.fill("Clearing search", searchInputSelectorConstant, "", interactionDelayConstant)
}

func checkSidebarLink(visit *pageVisit, link sidebarLink) {
	auditSession := visit.session
	target, evaluated := visit.linkTarget(link.Label)
	if !evaluated {
		return
	}
	switch {
	case !target.Visible:
		auditSession.record(CheckStatusFail, "Sidebar link %q not visible", link.Label)
	case strings.Contains(target.Href, link.Href):
		auditSession.record(CheckStatusPass, "Sidebar link %q -> %s", link.Label, target.Href)
	default:
		auditSession.record(CheckStatusWarn, "Sidebar link %q -> %s (expected %s)", link.Label, target.Href, link.Href)
	}
}

// checkCiclosSubmenu expands the Ciclos entry of the sidebar and follows its Ciclo Medio link.
func checkCiclosSubmenu(visit *pageVisit) {
	auditSession := visit.session
	if !visit.click("Opening Ciclos menu", TextXPath(buttonTagConstant, ciclosMenuLabelConstant), submenuDelayConstant) {
		return
	}
	present, evaluated := visit.textPresent(cicloMedioMenuLabelConstant)
	if !evaluated {
		return
	}
	if !present {
		auditSession.record(CheckStatusWarn, "Ciclos submenu not found")
		return
	}
	auditSession.record(CheckStatusPass, "Ciclos submenu: %q", cicloMedioMenuLabelConstant)
	if visit.click("Following "+cicloMedioMenuLabelConstant, TextXPath(anchorTagConstant, cicloMedioMenuLabelConstant), submenuDelayConstant) {
		visit.screenshot("audit-07-ciclos-submenu.png", true)
	}
}

func checkCicloDetail(visit *pageVisit) {
	auditSession := visit.session
	if !visit.open(cicloDetailPagePathConstant, WaitModeNetworkIdle) {
		return
	}
	visit.screenshot("audit-03-ciclo-detail.png", true)

	expectText(visit, backLinkConstant, "Back link")
	expectText(visit, cicloTitleConstant, "Ciclo title")
	expectText(visit, gradeBadgeConstant, "Grade badge")
	if tabs, counted := visit.count(tabsSelectorConstant); counted {
		auditSession.record(CheckStatusInfo, "Tab elements: %d", tabs)
	}
	for _, tab := range DashboardTabs {
		expectText(visit, tab, "Tab")
	}

	if !visit.click("Opening "+coursesTabConstant, TextXPath(buttonTagConstant, coursesTabConstant), interactionDelayConstant) {
		return
	}
	if courses, counted := visit.count(courseCardSelectorConstant); counted {
		auditSession.record(CheckStatusInfo, "%s: %d card(s)", coursesTabConstant, courses)
	}
}

func checkCicloGrades(visit *pageVisit) {
	for _, capture := range dashboardGradeCaptures {
		if visit.session.cancelled() {
			return
		}
		if !visit.open(capture.Path, WaitModeNetworkIdle) {
			continue
		}
		visit.screenshot(capture.Screenshot, true)
		expectText(visit, capture.Grade, "Grade badge")
	}
}

func reportConsoleErrors(visit *pageVisit) {
	auditSession := visit.session
	consoleErrors := visit.page.ConsoleErrors()
	if len(consoleErrors) == 0 {
		auditSession.record(CheckStatusPass, "No console errors")
		return
	}
	auditSession.record(CheckStatusFail, "Console errors: %d", len(consoleErrors))
	for index, consoleError := range consoleErrors {
		if index >= consoleErrorLimitConstant {
			break
		}
		auditSession.record(CheckStatusInfo, "  %s", truncateRunes(consoleError, consoleErrorLengthConstant))
	}
}

func expectText(visit *pageVisit, text string, label string) {
	present, evaluated := visit.textPresent(text)
	if !evaluated {
		return
	}
	visit.session.expect(
		present,
		fmt.Sprintf("%s: %q", label, text),
		fmt.Sprintf("%s missing: %q", label, text),
	)
}

func describeProperties(result ProbeResult, properties []string) string {
	parts := make([]string, 0, len(properties))
	for _, property := range properties {
		parts = append(parts, fmt.Sprintf("%s=%s", property, styleValue(result.Value(property))))
	}
	return strings.Join(parts, ", ")
}
