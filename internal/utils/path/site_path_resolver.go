package pathutils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	defaultSiteRootConstant           = "."
	absolutePathErrorTemplateConstant = "unable to resolve %s: %w"
	pathEscapesRootTemplateConstant   = "%s is outside the site root %s"
)

// SitePathResolver normalizes site roots and keeps page paths confined to them.
type SitePathResolver struct {
	homeExpander *HomeExpander
}

// NewSitePathResolver constructs a SitePathResolver; a nil expander uses the operating system home directory.
func NewSitePathResolver(homeExpander *HomeExpander) *SitePathResolver {
	if homeExpander == nil {
		homeExpander = NewHomeExpander()
	}
	return &SitePathResolver{homeExpander: homeExpander}
}

// ResolveRoot trims, expands, and absolutizes a site root; blank input means the working directory.
func (resolver *SitePathResolver) ResolveRoot(root string) (string, error) {
	trimmedRoot := strings.TrimSpace(root)
	if len(trimmedRoot) == 0 {
		trimmedRoot = defaultSiteRootConstant
	}
	return resolver.ResolveOutput(trimmedRoot)
}

// ResolveOutput trims, expands, and absolutizes an output location such as a screenshot directory or report path.
func (resolver *SitePathResolver) ResolveOutput(candidate string) (string, error) {
	expandedPath := resolver.homeExpander.Expand(strings.TrimSpace(candidate))
	absolutePath, absoluteError := filepath.Abs(expandedPath)
	if absoluteError != nil {
		return "", fmt.Errorf(absolutePathErrorTemplateConstant, candidate, absoluteError)
	}
	return filepath.Clean(absolutePath), nil
}

// ResolvePage joins a slash-separated page path onto the site root and rejects results escaping the root.
func (resolver *SitePathResolver) ResolvePage(siteRoot string, pagePath string) (string, error) {
	resolvedRoot, rootError := resolver.ResolveRoot(siteRoot)
	if rootError != nil {
		return "", rootError
	}

	candidatePath := filepath.FromSlash(strings.TrimSpace(pagePath))
	if !filepath.IsAbs(candidatePath) {
		candidatePath = filepath.Join(resolvedRoot, candidatePath)
	}
	candidatePath = filepath.Clean(candidatePath)

	if !IsNestedPath(resolvedRoot, candidatePath) {
		return "", fmt.Errorf(pathEscapesRootTemplateConstant, pagePath, resolvedRoot)
	}
	return candidatePath, nil
}

// RelativePage renders an absolute page path relative to the site root using forward slashes.
func (resolver *SitePathResolver) RelativePage(siteRoot string, pagePath string) string {
	resolvedRoot, rootError := resolver.ResolveRoot(siteRoot)
	if rootError != nil {
		return filepath.ToSlash(pagePath)
	}
	relativePath, relativeError := filepath.Rel(resolvedRoot, pagePath)
	if relativeError != nil {
		return filepath.ToSlash(pagePath)
	}
	return filepath.ToSlash(relativePath)
}

// IsNestedPath reports whether candidate equals parent or lies beneath it once symbolic links are resolved.
func IsNestedPath(parent string, candidate string) bool {
	parentClean := comparisonPath(parent)
	candidateClean := comparisonPath(candidate)

	if candidateClean == parentClean {
		return true
	}
	if !strings.HasPrefix(candidateClean, parentClean) {
		return false
	}
	if strings.HasSuffix(parentClean, string(os.PathSeparator)) {
		return true
	}
	return candidateClean[len(parentClean)] == os.PathSeparator
}

func comparisonPath(path string) string {
	comparison := resolveSymlinks(filepath.Clean(path))
	if runtime.GOOS == "windows" {
		comparison = strings.ToLower(comparison)
	}
	return comparison
}

// resolveSymlinks evaluates links along the longest existing prefix of path and keeps the missing tail as is.
func resolveSymlinks(path string) string {
	existingPrefix := path
	missingTail := ""
	for {
		resolvedPrefix, resolveError := filepath.EvalSymlinks(existingPrefix)
		if resolveError == nil {
			return filepath.Join(resolvedPrefix, missingTail)
		}
		parent := filepath.Dir(existingPrefix)
		if parent == existingPrefix {
			return path
		}
		missingTail = filepath.Join(filepath.Base(existingPrefix), missingTail)
		existingPrefix = parent
	}
}
