package rewrite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"go.uber.org/zap"

	"github.com/cepformacion/cepfix/internal/sitefs"
	"github.com/cepformacion/cepfix/internal/utils"
	pathutils "github.com/cepformacion/cepfix/internal/utils/path"
)

const (
	globMetacharactersConstant = "*?["

	recipeHeaderTemplateConstant       = "Recipe %s: %s\n"
	recipeDryRunHeaderTemplateConstant = "Recipe %s: %s (dry run)\n"
	noPagesTemplateConstant            = "No pages matched recipe %s\n"
	pageUpdatedTemplateConstant        = "  ✓ %s (Δ %+d bytes)\n"
	pageWouldUpdateTemplateConstant    = "  ✓ %s would change (Δ %+d bytes)\n"
	pageUnchangedTemplateConstant      = "  - %s unchanged\n"
	pageMissingTemplateConstant        = "  ⚠ file not found: %s\n"
	pageFailedTemplateConstant         = "  ✗ %s: %v\n"
	ruleAppliedTemplateConstant        = "      • %s: %d replacement(s)\n"
	ruleNotFoundTemplateConstant       = "      • %s: pattern not found\n"
	ruleSkippedTemplateConstant        = "      • %s: already applied\n"
	summaryTemplateConstant            = "SUMMARY: %d succeeded, %d failed\n"

	rootResolutionErrorTemplateConstant = "unable to resolve site root: %w"
	pageResolutionErrorTemplateConstant = "unable to resolve pages for recipe %s: %w"
	runInterruptedErrorTemplateConstant = "recipe %s interrupted: %w"
	directoryPageErrorTemplateConstant  = "%s is a directory"
	readPageErrorTemplateConstant       = "unable to read %s: %w"
	writePageErrorTemplateConstant      = "unable to write %s: %w"
	pageRulesErrorTemplateConstant      = "unable to prepare rules: %w"

	logMessagePageRewrittenConstant = "page rewritten"
	logMessagePageFailedConstant    = "page rewrite failed"
	logFieldRecipeConstant          = "recipe"
	logFieldPageConstant            = "page"
	logFieldDeltaConstant           = "delta_bytes"
	logFieldDryRunConstant          = "dry_run"
)

// FileStatus describes the outcome of a recipe on one page.
type FileStatus string

// Supported file statuses.
const (
	FileStatusUpdated   FileStatus = "updated"
	FileStatusUnchanged FileStatus = "unchanged"
	FileStatusMissing   FileStatus = "missing"
	FileStatusFailed    FileStatus = "failed"
)

// FileOutcome captures what happened to one page.
type FileOutcome struct {
	Path      string
	Status    FileStatus
	Rules     []RuleResult
	ByteDelta int
	Error     error
}

// Succeeded reports whether the outcome counts towards the success total.
func (outcome FileOutcome) Succeeded() bool {
	return outcome.Status == FileStatusUpdated || outcome.Status == FileStatusUnchanged
}

// Summary aggregates the outcomes of a recipe run.
type Summary struct {
	Recipe    string
	DryRun    bool
	Outcomes  []FileOutcome
	Succeeded int
	Failed    int
}

// Options configures a recipe run.
type Options struct {
	SiteRoot string
	DryRun   bool
	Files    []string
}

// Service runs recipes against pages on disk.
type Service struct {
	fileSystem   sitefs.FileSystem
	discoverer   sitefs.PageDiscoverer
	pathResolver *pathutils.SitePathResolver
	reporter     utils.Reporter
	logger       *zap.Logger
}

// NewService constructs a Service; nil collaborators fall back to operating system implementations.
func NewService(fileSystem sitefs.FileSystem, discoverer sitefs.PageDiscoverer, pathResolver *pathutils.SitePathResolver, reporter utils.Reporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if discoverer == nil {
		discoverer = sitefs.NewFilesystemPageDiscoverer(logger)
	}
	if pathResolver == nil {
		pathResolver = pathutils.NewSitePathResolver(nil)
	}
	if reporter == nil {
		reporter = utils.NewWriterReporter(nil)
	}
	return &Service{
		fileSystem:   sitefs.ResolveFileSystem(fileSystem),
		discoverer:   discoverer,
		pathResolver: pathResolver,
		reporter:     reporter,
		logger:       logger,
	}
}

// Run applies the recipe to each of its pages in order. Per-page failures are reported and
// counted; only root resolution, page expansion, and cancellation abort the run.
func (service *Service) Run(executionContext context.Context, recipe Recipe, options Options) (Summary, error) {
	summary := Summary{Recipe: recipe.Name, DryRun: options.DryRun}

	siteRoot, rootError := service.pathResolver.ResolveRoot(options.SiteRoot)
	if rootError != nil {
		return summary, fmt.Errorf(rootResolutionErrorTemplateConstant, rootError)
	}

	files := recipe.Files
	if len(options.Files) > 0 {
		files = options.Files
	}
	pages, pagesError := service.expandPages(siteRoot, files)
	if pagesError != nil {
		return summary, fmt.Errorf(pageResolutionErrorTemplateConstant, recipe.Name, pagesError)
	}

	if options.DryRun {
		service.reporter.Printf(recipeDryRunHeaderTemplateConstant, recipe.Name, recipe.Description)
	} else {
		service.reporter.Printf(recipeHeaderTemplateConstant, recipe.Name, recipe.Description)
	}
	if len(pages) == 0 {
		service.reporter.Printf(noPagesTemplateConstant, recipe.Name)
	}

	reader := siteReader{root: siteRoot, fileSystem: service.fileSystem, pathResolver: service.pathResolver}
	for _, page := range pages {
		if executionContext != nil {
			if contextError := executionContext.Err(); contextError != nil {
				return summary, fmt.Errorf(runInterruptedErrorTemplateConstant, recipe.Name, contextError)
			}
		}

		outcome := service.rewritePage(recipe, siteRoot, page, reader, options.DryRun)
		service.report(outcome, options.DryRun)
		summary.Outcomes = append(summary.Outcomes, outcome)
		if outcome.Succeeded() {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	service.reporter.Printf(summaryTemplateConstant, summary.Succeeded, summary.Failed)
	return summary, nil
}

func (service *Service) rewritePage(recipe Recipe, siteRoot string, page string, reader SiteReader, dryRun bool) FileOutcome {
	outcome := FileOutcome{Path: page}

	pagePath, resolveError := service.pathResolver.ResolvePage(siteRoot, page)
	if resolveError != nil {
		return service.failed(recipe, outcome, resolveError)
	}

	pageInfo, statError := service.fileSystem.Stat(pagePath)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			outcome.Status = FileStatusMissing
			return outcome
		}
		return service.failed(recipe, outcome, statError)
	}
	if pageInfo.IsDir() {
		return service.failed(recipe, outcome, fmt.Errorf(directoryPageErrorTemplateConstant, page))
	}

	originalData, readError := service.fileSystem.ReadFile(pagePath)
	if readError != nil {
		return service.failed(recipe, outcome, fmt.Errorf(readPageErrorTemplateConstant, page, readError))
	}

	rules, rulesError := recipe.RulesFor(PageContext{Path: page, Site: reader})
	if rulesError != nil {
		return service.failed(recipe, outcome, fmt.Errorf(pageRulesErrorTemplateConstant, rulesError))
	}

	originalContent := string(originalData)
	updatedContent, ruleResults := Apply(originalContent, rules)
	outcome.Rules = ruleResults
	outcome.ByteDelta = len(updatedContent) - len(originalContent)

	if updatedContent == originalContent {
		outcome.Status = FileStatusUnchanged
		return outcome
	}

	if !dryRun {
		if writeError := service.fileSystem.WriteFile(pagePath, []byte(updatedContent), pageInfo.Mode().Perm()); writeError != nil {
			return service.failed(recipe, outcome, fmt.Errorf(writePageErrorTemplateConstant, page, writeError))
		}
	}

	outcome.Status = FileStatusUpdated
	service.logger.Debug(logMessagePageRewrittenConstant,
		zap.String(logFieldRecipeConstant, recipe.Name),
		zap.String(logFieldPageConstant, page),
		zap.Int(logFieldDeltaConstant, outcome.ByteDelta),
		zap.Bool(logFieldDryRunConstant, dryRun),
	)
	return outcome
}

func (service *Service) failed(recipe Recipe, outcome FileOutcome, failure error) FileOutcome {
	outcome.Status = FileStatusFailed
	outcome.Error = failure
	service.logger.Warn(logMessagePageFailedConstant,
		zap.String(logFieldRecipeConstant, recipe.Name),
		zap.String(logFieldPageConstant, outcome.Path),
		zap.Error(failure),
	)
	return outcome
}

func (service *Service) report(outcome FileOutcome, dryRun bool) {
	switch outcome.Status {
	case FileStatusMissing:
		service.reporter.Printf(pageMissingTemplateConstant, outcome.Path)
		return
	case FileStatusFailed:
		service.reporter.Printf(pageFailedTemplateConstant, outcome.Path, outcome.Error)
		return
	case FileStatusUnchanged:
		service.reporter.Printf(pageUnchangedTemplateConstant, outcome.Path)
	case FileStatusUpdated:
		if dryRun {
			service.reporter.Printf(pageWouldUpdateTemplateConstant, outcome.Path, outcome.ByteDelta)
		} else {
			service.reporter.Printf(pageUpdatedTemplateConstant, outcome.Path, outcome.ByteDelta)
		}
	}

	for _, result := range outcome.Rules {
		switch result.Status {
		case RuleStatusApplied:
			service.reporter.Printf(ruleAppliedTemplateConstant, result.Name, result.Matches)
		case RuleStatusSkipped:
			service.reporter.Printf(ruleSkippedTemplateConstant, result.Name)
		default:
			service.reporter.Printf(ruleNotFoundTemplateConstant, result.Name)
		}
	}
}

func (service *Service) expandPages(siteRoot string, files []string) ([]string, error) {
	pages := make([]string, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	appendPage := func(page string) {
		if _, duplicate := seen[page]; duplicate {
			return
		}
		seen[page] = struct{}{}
		pages = append(pages, page)
	}

	for _, entry := range files {
		trimmedEntry := strings.TrimSpace(entry)
		if len(trimmedEntry) == 0 {
			continue
		}
		if !strings.ContainsAny(trimmedEntry, globMetacharactersConstant) {
			appendPage(trimmedEntry)
			continue
		}
		matchedPages, discoveryError := service.discoverer.DiscoverPages(siteRoot, []string{trimmedEntry})
		if discoveryError != nil {
			return nil, discoveryError
		}
		for _, matchedPage := range matchedPages {
			appendPage(matchedPage)
		}
	}
	return pages, nil
}

type siteReader struct {
	root         string
	fileSystem   sitefs.FileSystem
	pathResolver *pathutils.SitePathResolver
}

func (reader siteReader) ReadPage(relativePath string) (string, error) {
	pagePath, resolveError := reader.pathResolver.ResolvePage(reader.root, relativePath)
	if resolveError != nil {
		return "", resolveError
	}
	data, readError := reader.fileSystem.ReadFile(pagePath)
	if readError != nil {
		return "", fmt.Errorf(readPageErrorTemplateConstant, relativePath, readError)
	}
	return string(data), nil
}
