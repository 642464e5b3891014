package inspect

import (
	"strings"

	pathutils "github.com/cepformacion/cepfix/internal/utils/path"
)

const defaultSiteRootConstant = "."

var inspectConfigurationHomeExpander = pathutils.NewHomeExpander()

// Configuration captures the inspect command settings.
type Configuration struct {
	Root       string   `mapstructure:"root"`
	Files      []string `mapstructure:"files"`
	MenuLabels []string `mapstructure:"menu_labels"`
}

// DefaultConfiguration supplies baseline inspect settings.
func DefaultConfiguration() Configuration {
	return Configuration{Root: defaultSiteRootConstant, MenuLabels: DefaultMenuLabels()}
}

// Sanitize trims configured values, drops duplicate labels, and restores defaults for empty settings.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.Root = strings.TrimSpace(configuration.Root)
	if len(sanitized.Root) == 0 {
		sanitized.Root = defaultSiteRootConstant
	}
	sanitized.Root = inspectConfigurationHomeExpander.Expand(sanitized.Root)
	sanitized.Files = trimEntries(configuration.Files)

	sanitized.MenuLabels = uniqueEntries(trimEntries(configuration.MenuLabels))
	if len(sanitized.MenuLabels) == 0 {
		sanitized.MenuLabels = DefaultMenuLabels()
	}
	return sanitized
}

// Options converts the configuration into service options.
func (configuration Configuration) Options() Options {
	return Options{
		SiteRoot:   configuration.Root,
		Files:      append([]string{}, configuration.Files...),
		MenuLabels: append([]string{}, configuration.MenuLabels...),
	}
}

func trimEntries(entries []string) []string {
	trimmed := make([]string, 0, len(entries))
	for _, entry := range entries {
		trimmedEntry := strings.TrimSpace(entry)
		if len(trimmedEntry) > 0 {
			trimmed = append(trimmed, trimmedEntry)
		}
	}
	if len(trimmed) == 0 {
		return nil
	}
	return trimmed
}

func uniqueEntries(entries []string) []string {
	seen := make(map[string]struct{}, len(entries))
	unique := make([]string, 0, len(entries))
	for _, entry := range entries {
		if _, duplicate := seen[entry]; duplicate {
			continue
		}
		seen[entry] = struct{}{}
		unique = append(unique, entry)
	}
	if len(unique) == 0 {
		return nil
	}
	return unique
}
