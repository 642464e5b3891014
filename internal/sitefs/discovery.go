package sitefs

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const (
	htmlExtensionConstant              = ".html"
	patternInvalidTemplateConstant     = "invalid page pattern %q: %w"
	discoveryWalkErrorTemplateConstant = "unable to scan %s: %w"
	discoverySkipLogMessageConstant    = "page discovery skipped unreadable path"
)

var skippedDirectoryNames = map[string]struct{}{
	".git":         {},
	".next":        {},
	"node_modules": {},
	"dist":         {},
}

// PageDiscoverer locates HTML pages beneath a site root.
type PageDiscoverer interface {
	DiscoverPages(siteRoot string, patterns []string) ([]string, error)
}

// FilesystemPageDiscoverer walks the site root with filepath.WalkDir.
type FilesystemPageDiscoverer struct {
	logger *zap.Logger
}

// NewFilesystemPageDiscoverer constructs a page discoverer backed by filepath.WalkDir; a nil logger discards skip notices.
func NewFilesystemPageDiscoverer(logger *zap.Logger) *FilesystemPageDiscoverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilesystemPageDiscoverer{logger: logger}
}

// DiscoverPages returns slash-separated paths, relative to siteRoot, of HTML files matching any pattern.
// An empty pattern list matches every HTML file. An unreadable root is an error; unreadable entries below it are skipped.
func (discoverer *FilesystemPageDiscoverer) DiscoverPages(siteRoot string, patterns []string) ([]string, error) {
	for _, pattern := range patterns {
		if _, matchError := path.Match(pattern, ""); matchError != nil {
			return nil, fmt.Errorf(patternInvalidTemplateConstant, pattern, matchError)
		}
	}

	var pages []string
	walkError := filepath.WalkDir(siteRoot, func(currentPath string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			if currentPath == siteRoot {
				return walkError
			}
			discoverer.logger.Debug(discoverySkipLogMessageConstant, zap.String("path", currentPath), zap.Error(walkError))
			if directoryEntry != nil && directoryEntry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if directoryEntry.IsDir() {
			if _, skipped := skippedDirectoryNames[directoryEntry.Name()]; skipped && currentPath != siteRoot {
				return fs.SkipDir
			}
			return nil
		}

		if !strings.EqualFold(filepath.Ext(currentPath), htmlExtensionConstant) {
			return nil
		}

		relativePath, relativeError := filepath.Rel(siteRoot, currentPath)
		if relativeError != nil {
			return nil
		}
		slashPath := filepath.ToSlash(relativePath)
		if MatchesAny(slashPath, patterns) {
			pages = append(pages, slashPath)
		}
		return nil
	})
	if walkError != nil {
		return nil, fmt.Errorf(discoveryWalkErrorTemplateConstant, siteRoot, walkError)
	}

	sort.Strings(pages)
	return pages, nil
}

// MatchesAny reports whether the slash-separated page path matches one of the glob patterns.
func MatchesAny(pagePath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if matched, _ := path.Match(pattern, pagePath); matched {
			return true
		}
	}
	return false
}
