package rewrite

// SiteReader reads other pages of the site being rewritten.
type SiteReader interface {
	ReadPage(relativePath string) (string, error)
}

// PageContext identifies the page a recipe is about to rewrite.
type PageContext struct {
	Path string
	Site SiteReader
}

// PageRuleProvider builds rules that depend on the page being rewritten or on other pages of the site.
type PageRuleProvider func(page PageContext) ([]Rule, error)

// Recipe names an ordered rule list and the pages it applies to.
// Files holds slash-separated paths relative to the site root; entries containing glob
// metacharacters are expanded against the pages present on disk.
type Recipe struct {
	Name        string
	Description string
	Files       []string
	Rules       []Rule
	FileRules   map[string][]Rule
	PageRules   PageRuleProvider
}

// RulesFor returns the rules to run against the page: the per-file override when present,
// the shared rules otherwise, followed by any page-derived rules.
func (recipe Recipe) RulesFor(page PageContext) ([]Rule, error) {
	baseRules := recipe.Rules
	if overrideRules, overridden := recipe.FileRules[page.Path]; overridden {
		baseRules = overrideRules
	}

	rules := append([]Rule{}, baseRules...)
	if recipe.PageRules == nil {
		return rules, nil
	}

	pageRules, pageRulesError := recipe.PageRules(page)
	if pageRulesError != nil {
		return nil, pageRulesError
	}
	return append(rules, pageRules...), nil
}

// WithFiles returns a copy of the recipe targeting files instead of its declared list.
func (recipe Recipe) WithFiles(files []string) Recipe {
	updated := recipe
	updated.Files = append([]string{}, files...)
	return updated
}
