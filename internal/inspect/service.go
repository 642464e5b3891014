package inspect

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"go.uber.org/zap"

	"github.com/cepformacion/cepfix/internal/rewrite"
	"github.com/cepformacion/cepfix/internal/sitefs"
	"github.com/cepformacion/cepfix/internal/utils"
	pathutils "github.com/cepformacion/cepfix/internal/utils/path"
)

const (
	globMetacharactersConstant = "*?["
	titleRuleWidthConstant     = 75
	titleTemplateConstant      = "%s\n%s\n"

	contrastTitleConstant           = "Contrast inspection: white text on white or light backgrounds"
	contrastPageTemplateConstant    = "\n❌ %s\n"
	contrastIssueTemplateConstant   = "   • %s\n     %s\n"
	contrastSummaryTemplateConstant = "\nTotal issues found: %d in %d files\n"

	menuTitleTemplateConstant         = "Menu inspection: %s"
	menuDuplicatePageTemplateConstant = "❌ %s\n"
	menuCleanPageTemplateConstant     = "✓ %s\n"
	menuLinkTemplateConstant          = "   • %s: %s ×%d\n"
	menuUntrackedPageTemplateConstant = "  - %s: no tracked links\n"
	menuSummaryTemplateConstant       = "\nTotal duplicates: %d in %d files\n"
	pageMissingTemplateConstant       = "  ⚠ file not found: %s\n"
	pageFailedTemplateConstant        = "  ✗ %s: %v\n"
	menuLabelSeparatorConstant        = ", "
	rootResolutionTemplateConstant    = "unable to resolve site root: %w"
	pageResolutionTemplateConstant    = "unable to resolve pages: %w"
	interruptedTemplateConstant       = "inspection interrupted: %w"
	directoryPageTemplateConstant     = "%s is a directory"
	readPageErrorTemplateConstant     = "unable to read %s: %w"
	logMessagePageInspectedConstant   = "page inspected"
	logMessagePageFailedConstant      = "page inspection failed"
	logFieldCheckConstant             = "check"
	logFieldPageConstant              = "page"
	contrastCheckNameConstant         = "contrast"
	menuCheckNameConstant             = "menu"
)

// Options configures an inspection run.
type Options struct {
	SiteRoot   string
	Files      []string
	MenuLabels []string
}

// PageFailure records a page that could not be inspected.
type PageFailure struct {
	Path  string
	Error error
}

// ContrastPage lists the contrast issues of one page.
type ContrastPage struct {
	Path   string
	Issues []ContrastIssue
}

// ContrastReport summarizes a contrast inspection. Pages only holds pages with issues.
type ContrastReport struct {
	Scanned  int
	Issues   int
	Pages    []ContrastPage
	Missing  []string
	Failures []PageFailure
}

// MenuPage lists the tracked links of one page.
type MenuPage struct {
	Path  string
	Links []MenuLinkCount
}

// Duplicates counts the links appearing more than once in their region.
func (page MenuPage) Duplicates() int {
	duplicates := 0
	for _, link := range page.Links {
		if link.Duplicated() {
			duplicates++
		}
	}
	return duplicates
}

// MenuReport summarizes a menu inspection.
type MenuReport struct {
	Scanned             int
	Duplicates          int
	PagesWithDuplicates int
	Pages               []MenuPage
	Missing             []string
	Failures            []PageFailure
}

// Service inspects pages on disk.
type Service struct {
	fileSystem   sitefs.FileSystem
	discoverer   sitefs.PageDiscoverer
	pathResolver *pathutils.SitePathResolver
	reporter     utils.Reporter
	logger       *zap.Logger
}

// NewService constructs a Service; nil collaborators fall back to operating system implementations.
func NewService(fileSystem sitefs.FileSystem, discoverer sitefs.PageDiscoverer, reporter utils.Reporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if discoverer == nil {
		discoverer = sitefs.NewFilesystemPageDiscoverer(logger)
	}
	if reporter == nil {
		reporter = utils.NewWriterReporter(nil)
	}
	return &Service{
		fileSystem:   sitefs.ResolveFileSystem(fileSystem),
		discoverer:   discoverer,
		pathResolver: pathutils.NewSitePathResolver(nil),
		reporter:     reporter,
		logger:       logger,
	}
}

// Contrast lists white-on-white class combinations per page and prints them with an excerpt.
func (service *Service) Contrast(executionContext context.Context, options Options) (ContrastReport, error) {
	report := ContrastReport{}
	service.printTitle(contrastTitleConstant)

	visitError := service.visitPages(executionContext, contrastCheckNameConstant, options, func(page string, content string) {
		report.Scanned++
		issues := FindContrastIssues(content)
		if len(issues) == 0 {
			return
		}
		report.Issues += len(issues)
		report.Pages = append(report.Pages, ContrastPage{Path: page, Issues: issues})
		service.reporter.Printf(contrastPageTemplateConstant, page)
		for _, issue := range issues {
			service.reporter.Printf(contrastIssueTemplateConstant, issue.Label, issue.Excerpt())
		}
	}, func(page string) {
		report.Missing = append(report.Missing, page)
	}, func(failure PageFailure) {
		report.Failures = append(report.Failures, failure)
	})
	if visitError != nil {
		return report, visitError
	}

	service.reporter.Printf(contrastSummaryTemplateConstant, report.Issues, len(report.Pages))
	return report, nil
}

// Menu counts the tracked header and footer links per page and flags duplicates.
func (service *Service) Menu(executionContext context.Context, options Options) (MenuReport, error) {
	report := MenuReport{}
	labels := options.MenuLabels
	if len(labels) == 0 {
		labels = DefaultMenuLabels()
	}
	service.printTitle(fmt.Sprintf(menuTitleTemplateConstant, strings.Join(labels, menuLabelSeparatorConstant)))

	visitError := service.visitPages(executionContext, menuCheckNameConstant, options, func(page string, content string) {
		report.Scanned++
		links, countError := CountMenuLinks(content, labels)
		if countError != nil {
			failure := PageFailure{Path: page, Error: countError}
			report.Failures = append(report.Failures, failure)
			service.reportFailure(menuCheckNameConstant, failure)
			return
		}

		menuPage := MenuPage{Path: page, Links: links}
		report.Pages = append(report.Pages, menuPage)
		if len(links) == 0 {
			service.reporter.Printf(menuUntrackedPageTemplateConstant, page)
			return
		}

		duplicates := menuPage.Duplicates()
		if duplicates > 0 {
			report.Duplicates += duplicates
			report.PagesWithDuplicates++
			service.reporter.Printf(menuDuplicatePageTemplateConstant, page)
		} else {
			service.reporter.Printf(menuCleanPageTemplateConstant, page)
		}
		for _, link := range links {
			service.reporter.Printf(menuLinkTemplateConstant, link.Region, link.Text, link.Count)
		}
	}, func(page string) {
		report.Missing = append(report.Missing, page)
	}, func(failure PageFailure) {
		report.Failures = append(report.Failures, failure)
	})
	if visitError != nil {
		return report, visitError
	}

	service.reporter.Printf(menuSummaryTemplateConstant, report.Duplicates, report.PagesWithDuplicates)
	return report, nil
}

func (service *Service) printTitle(title string) {
	service.reporter.Printf(titleTemplateConstant, title, strings.Repeat("=", titleRuleWidthConstant))
}

func (service *Service) visitPages(
	executionContext context.Context,
	check string,
	options Options,
	inspect func(page string, content string),
	missing func(page string),
	failed func(failure PageFailure),
) error {
	siteRoot, rootError := service.pathResolver.ResolveRoot(options.SiteRoot)
	if rootError != nil {
		return fmt.Errorf(rootResolutionTemplateConstant, rootError)
	}

	files := options.Files
	if len(files) == 0 {
		files = rewrite.ContrastPages()
	}
	pages, pagesError := service.expandPages(siteRoot, files)
	if pagesError != nil {
		return fmt.Errorf(pageResolutionTemplateConstant, pagesError)
	}

	for _, page := range pages {
		if executionContext != nil {
			if contextError := executionContext.Err(); contextError != nil {
				return fmt.Errorf(interruptedTemplateConstant, contextError)
			}
		}

		content, readError := service.readPage(siteRoot, page)
		if readError != nil {
			if errors.Is(readError, fs.ErrNotExist) {
				service.reporter.Printf(pageMissingTemplateConstant, page)
				missing(page)
				continue
			}
			failure := PageFailure{Path: page, Error: readError}
			service.reportFailure(check, failure)
			failed(failure)
			continue
		}

		inspect(page, content)
		service.logger.Debug(logMessagePageInspectedConstant,
			zap.String(logFieldCheckConstant, check),
			zap.String(logFieldPageConstant, page),
		)
	}
	return nil
}

func (service *Service) reportFailure(check string, failure PageFailure) {
	service.reporter.Printf(pageFailedTemplateConstant, failure.Path, failure.Error)
	service.logger.Warn(logMessagePageFailedConstant,
		zap.String(logFieldCheckConstant, check),
		zap.String(logFieldPageConstant, failure.Path),
		zap.Error(failure.Error),
	)
}

func (service *Service) readPage(siteRoot string, page string) (string, error) {
	pagePath, resolveError := service.pathResolver.ResolvePage(siteRoot, page)
	if resolveError != nil {
		return "", resolveError
	}
	pageInfo, statError := service.fileSystem.Stat(pagePath)
	if statError != nil {
		return "", statError
	}
	if pageInfo.IsDir() {
		return "", fmt.Errorf(directoryPageTemplateConstant, page)
	}
	data, readError := service.fileSystem.ReadFile(pagePath)
	if readError != nil {
		return "", fmt.Errorf(readPageErrorTemplateConstant, page, readError)
	}
	return string(data), nil
}

func (service *Service) expandPages(siteRoot string, files []string) ([]string, error) {
	pages := make([]string, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for _, entry := range trimEntries(files) {
		candidates := []string{entry}
		if strings.ContainsAny(entry, globMetacharactersConstant) {
			matchedPages, discoveryError := service.discoverer.DiscoverPages(siteRoot, []string{entry})
			if discoveryError != nil {
				return nil, discoveryError
			}
			candidates = matchedPages
		}
		for _, candidate := range candidates {
			if _, duplicate := seen[candidate]; duplicate {
				continue
			}
			seen[candidate] = struct{}{}
			pages = append(pages, candidate)
		}
	}
	return pages, nil
}
