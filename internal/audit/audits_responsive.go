package audit

import "fmt"

const (
	homePagePathConstant      = "/"
	designHubPagePathConstant = "/design-hub"

	hamburgerSelectorConstant     = `button[aria-label="Toggle menu"]`
	desktopNavSelectorConstant    = `nav a[href="/cursos"]`
	heroSectionSelectorConstant   = "section.hero"
	heroHeadingSelectorConstant   = "section.hero h1"
	heroParagraphSelectorConstant = "section.hero p"
	heroContentSelectorConstant   = "section.hero > div > div"
	gridSelectorConstant          = ".grid"
	footerGridSelectorConstant    = "footer .grid"
	designHubGridSelectorConstant = ".design-hub > div > div.grid"
	containerSelectorConstant     = ".container"
	fluidCardsSelectorConstant    = ".grid-fluid-cards"
	fluidCardSelectorConstant     = ".grid-fluid-cards > *"
	fluidFeaturesSelectorConstant = ".grid-fluid-features"
	fluidFooterSelectorConstant   = ".grid-fluid-footer"

	fontSizePropertyConstant      = "font-size"
	gridColumnsPropertyConstant   = "grid-template-columns"
	gapPropertyConstant           = "gap"
	widthPropertyConstant         = "width"
	maxWidthPropertyConstant      = "max-width"
	paddingLeftPropertyConstant   = "padding-left"
	paddingRightPropertyConstant  = "padding-right"
	paddingTopPropertyConstant    = "padding-top"
	paddingBottomPropertyConstant = "padding-bottom"
	marginLeftPropertyConstant    = "margin-left"
	marginRightPropertyConstant   = "margin-right"

	layoutOutlineStyleConstant = `.container { outline: 2px solid red !important; }
.grid { outline: 2px solid blue !important; }
section { outline: 1px solid green !important; }`

	breakpointHomeScreenshotTemplate      = "breakpoint-%dpx-homepage.png"
	breakpointDesignHubScreenshotTemplate = "breakpoint-%dpx-designhub.png"
	fluidScreenshotTemplate               = "fluid-%dpx.png"
	layoutScreenshotTemplate              = "layout-debug-%dpx.png"

	visibleStateConstant = "visible"
	hiddenStateConstant  = "hidden"
)

// BreakpointViewports are the nine standard widths checked by the breakpoints audit.
var BreakpointViewports = []Viewport{
	{Name: "Small mobile (portrait)", Width: 375, Height: 667, Category: "320-480px"},
	{Name: "Large mobile (landscape)", Width: 540, Height: 720, Category: "481-575px"},
	{Name: "Tablet (portrait)", Width: 640, Height: 960, Category: "576-767px"},
	{Name: "Tablet (landscape)", Width: 900, Height: 1200, Category: "768-991px"},
	{Name: "Standard desktop", Width: 1100, Height: 800, Category: "992-1199px"},
	{Name: "Large desktop", Width: 1366, Height: 768, Category: "1200-1439px"},
	{Name: "XL screen / TV", Width: 1600, Height: 900, Category: "1440-1919px"},
	{Name: "4K screen", Width: 1920, Height: 1080, Category: "1920px+"},
	{Name: "Ultra wide", Width: 2560, Height: 1440, Category: "Ultra Wide"},
}

// FluidViewports are the intermediate widths checked by the fluid audit.
var FluidViewports = []Viewport{
	{Name: "iPhone SE", Width: 375, Height: 667},
	{Name: "Between mobile and tablet", Width: 500, Height: 800},
	{Name: "iPad Mini", Width: 768, Height: 1024},
	{Name: "Between tablet and desktop", Width: 950, Height: 800},
	{Name: "MacBook Air", Width: 1280, Height: 800},
	{Name: "Common desktop", Width: 1440, Height: 900},
	{Name: `iMac 27"`, Width: 2560, Height: 1440},
}

// LayoutViewports are the widths inspected by the layout audit.
var LayoutViewports = []Viewport{
	{Name: "Small mobile", Width: 375, Height: 667},
	{Name: "Large mobile", Width: 540, Height: 720},
	{Name: "Tablet", Width: 768, Height: 1024},
	{Name: "Standard desktop", Width: 1100, Height: 800},
}

func visibilityState(isVisible bool) string {
	if isVisible {
		return visibleStateConstant
	}
	return hiddenStateConstant
}

func runBreakpointsAudit(auditSession *session) {
	for _, viewport := range BreakpointViewports {
		if auditSession.cancelled() {
			return
		}
		auditSession.startSection(viewport.Label(), viewport)
		visit, opened := auditSession.openPage(viewport)
		if !opened {
			continue
		}
		checkBreakpointHome(visit)
		checkBreakpointDesignHub(visit)
		visit.close()
	}
}

func checkBreakpointHome(visit *pageVisit) {
	auditSession := visit.session
	auditSession.record(CheckStatusInfo, "📍 Home page")
	if !visit.open(homePagePathConstant, WaitModeDOMContentLoaded) {
		return
	}

	if hamburgerVisible, evaluated := visit.visible(hamburgerSelectorConstant); evaluated {
		auditSession.record(CheckStatusInfo, "Hamburger menu: %s", visibilityState(hamburgerVisible))
	}
	if navigationVisible, evaluated := visit.visible(desktopNavSelectorConstant); evaluated {
		auditSession.record(CheckStatusInfo, "Desktop navigation: %s", visibilityState(navigationVisible))
	}

	if heading, found := visit.probe(heroHeadingSelectorConstant, fontSizePropertyConstant); found {
		auditSession.record(CheckStatusInfo, "Hero h1 font-size: %s", heading.Value(fontSizePropertyConstant))
		if paragraph, paragraphFound := visit.probe(heroParagraphSelectorConstant, fontSizePropertyConstant); paragraphFound {
			auditSession.record(CheckStatusInfo, "Hero p font-size: %s", paragraph.Value(fontSizePropertyConstant))
		}
	}
	if grid, found := visit.probe(gridSelectorConstant, gridColumnsPropertyConstant); found {
		auditSession.record(CheckStatusInfo, "Course grid columns: %d", ColumnCount(grid.Value(gridColumnsPropertyConstant)))
	}
	if footerGrid, found := visit.probe(footerGridSelectorConstant, gridColumnsPropertyConstant); found {
		auditSession.record(CheckStatusInfo, "Footer grid columns: %d", ColumnCount(footerGrid.Value(gridColumnsPropertyConstant)))
	}

	visit.screenshot(fmt.Sprintf(breakpointHomeScreenshotTemplate, visit.viewport.Width), false)
}

func checkBreakpointDesignHub(visit *pageVisit) {
	auditSession := visit.session
	auditSession.record(CheckStatusInfo, "📍 Design hub")
	if !visit.open(designHubPagePathConstant, WaitModeDOMContentLoaded) {
		return
	}
	if hubGrid, found := visit.probe(designHubGridSelectorConstant, gridColumnsPropertyConstant); found {
		auditSession.record(CheckStatusInfo, "Design hub columns: %d", ColumnCount(hubGrid.Value(gridColumnsPropertyConstant)))
	}
	visit.screenshot(fmt.Sprintf(breakpointDesignHubScreenshotTemplate, visit.viewport.Width), false)
}

func runFluidAudit(auditSession *session) {
	for _, viewport := range FluidViewports {
		if auditSession.cancelled() {
			return
		}
		auditSession.startSection(viewport.Label(), viewport)
		visit, opened := auditSession.openPage(viewport)
		if !opened {
			continue
		}
		checkFluidHome(visit)
		visit.close()
	}
}

func checkFluidHome(visit *pageVisit) {
	auditSession := visit.session
	if !visit.open(homePagePathConstant, WaitModeDOMContentLoaded) {
		return
	}

	if heading, found := visit.probe(heroHeadingSelectorConstant, fontSizePropertyConstant); found {
		auditSession.record(CheckStatusInfo, "Hero h1 font-size: %s", heading.Value(fontSizePropertyConstant))
	}
	if paragraph, found := visit.probe(heroParagraphSelectorConstant, fontSizePropertyConstant); found {
		auditSession.record(CheckStatusInfo, "Hero p font-size: %s", paragraph.Value(fontSizePropertyConstant))
	}

	if cards, found := visit.probe(fluidCardsSelectorConstant, gridColumnsPropertyConstant, gapPropertyConstant); found {
		auditSession.record(CheckStatusInfo, "Course cards columns: %d", ColumnCount(cards.Value(gridColumnsPropertyConstant)))
		auditSession.record(CheckStatusInfo, "Course cards gap: %s", cards.Value(gapPropertyConstant))
		var cardWidth int
		if visit.evaluate("Card width", elementWidthScript(fluidCardSelectorConstant), &cardWidth) && cardWidth >= 0 {
			auditSession.record(CheckStatusInfo, "Width per card: %dpx", cardWidth)
		}
	}
	if features, found := visit.probe(fluidFeaturesSelectorConstant, gridColumnsPropertyConstant); found {
		auditSession.record(CheckStatusInfo, "Features columns: %d", ColumnCount(features.Value(gridColumnsPropertyConstant)))
	}
	if footer, found := visit.probe(fluidFooterSelectorConstant, gridColumnsPropertyConstant); found {
		auditSession.record(CheckStatusInfo, "Footer columns: %d", ColumnCount(footer.Value(gridColumnsPropertyConstant)))
	}

	checkHorizontalScroll(visit)
	visit.screenshot(fmt.Sprintf(fluidScreenshotTemplate, visit.viewport.Width), false)
}

func checkHorizontalScroll(visit *pageVisit) {
	var bodyWidth int
	if !visit.evaluate("Body width", bodyScrollWidthScriptConstant, &bodyWidth) {
		return
	}
	visit.session.expect(
		bodyWidth <= visit.viewport.Width,
		fmt.Sprintf("No horizontal scroll (body %dpx, viewport %dpx)", bodyWidth, visit.viewport.Width),
		fmt.Sprintf("Horizontal scroll (body %dpx, viewport %dpx)", bodyWidth, visit.viewport.Width),
	)
}

func runLayoutAudit(auditSession *session) {
	for _, viewport := range LayoutViewports {
		if auditSession.cancelled() {
			return
		}
		auditSession.startSection(viewport.Label(), viewport)
		visit, opened := auditSession.openPage(viewport)
		if !opened {
			continue
		}
		inspectLayout(visit)
		visit.close()
	}
}

func inspectLayout(visit *pageVisit) {
	auditSession := visit.session
	if !visit.open(homePagePathConstant, WaitModeDOMContentLoaded) {
		return
	}

	if container, found := visit.probe(containerSelectorConstant, widthPropertyConstant, maxWidthPropertyConstant, paddingLeftPropertyConstant, paddingRightPropertyConstant, marginLeftPropertyConstant, marginRightPropertyConstant); found {
		auditSession.record(CheckStatusInfo, ".container width: %s, max-width: %s", container.Value(widthPropertyConstant), container.Value(maxWidthPropertyConstant))
		auditSession.record(CheckStatusInfo, ".container padding: %s / %s", container.Value(paddingLeftPropertyConstant), container.Value(paddingRightPropertyConstant))
		auditSession.record(CheckStatusInfo, ".container margin: %s / %s", container.Value(marginLeftPropertyConstant), container.Value(marginRightPropertyConstant))
	}

	checkHorizontalScroll(visit)

	if hero, found := visit.probe(heroSectionSelectorConstant, paddingTopPropertyConstant, paddingBottomPropertyConstant, paddingLeftPropertyConstant, paddingRightPropertyConstant); found {
		auditSession.record(CheckStatusInfo, "Hero padding-y: %s / %s", hero.Value(paddingTopPropertyConstant), hero.Value(paddingBottomPropertyConstant))
		auditSession.record(CheckStatusInfo, "Hero padding-x: %s / %s", hero.Value(paddingLeftPropertyConstant), hero.Value(paddingRightPropertyConstant))
		if content, contentFound := visit.probe(heroContentSelectorConstant, maxWidthPropertyConstant, widthPropertyConstant); contentFound {
			auditSession.record(CheckStatusInfo, "Hero content max-width: %s, width: %s", content.Value(maxWidthPropertyConstant), content.Value(widthPropertyConstant))
		}
	}

	if grid, found := visit.probe(gridSelectorConstant, gapPropertyConstant, gridColumnsPropertyConstant, paddingLeftPropertyConstant, paddingRightPropertyConstant); found {
		auditSession.record(CheckStatusInfo, ".grid gap: %s", grid.Value(gapPropertyConstant))
		auditSession.record(CheckStatusInfo, ".grid columns: %s", grid.Value(gridColumnsPropertyConstant))
		auditSession.record(CheckStatusInfo, ".grid padding: %s / %s", grid.Value(paddingLeftPropertyConstant), grid.Value(paddingRightPropertyConstant))
	}

	var wideElements []WideElement
	if visit.evaluate("Wide element scan", wideElementsScript(), &wideElements) {
		if len(wideElements) == 0 {
			auditSession.record(CheckStatusPass, "No elements wider than the viewport")
		}
		for _, element := range wideElements {
			auditSession.record(CheckStatusFail, "%s.%s: %dpx", element.Tag, truncateRunes(element.ClassName, wideElementClassLimitConstant), element.Width)
		}
	}

	if styleError := visit.page.AddStyle(layoutOutlineStyleConstant); styleError != nil {
		visit.stepFailed("Outline injection", styleError)
	}
	visit.screenshot(fmt.Sprintf(layoutScreenshotTemplate, visit.viewport.Width), false)
	auditSession.record(CheckStatusInfo, "Outlines: red = .container, blue = .grid, green = section")
}
