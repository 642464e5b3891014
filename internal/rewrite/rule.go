package rewrite

import (
	"regexp"
	"strings"
)

// RuleStatus describes what a rule did to the buffer.
type RuleStatus string

// Supported rule statuses.
const (
	RuleStatusApplied  RuleStatus = "applied"
	RuleStatusNotFound RuleStatus = "not_found"
	RuleStatusSkipped  RuleStatus = "skipped"
)

// RuleResult records the effect of one rule on one buffer.
type RuleResult struct {
	Name    string
	Status  RuleStatus
	Matches int
}

// Rule is one ordered substitution step over a whole page buffer.
type Rule interface {
	Name() string
	Apply(content string) (string, RuleResult)
}

// Guard short-circuits a rule before it runs.
// SkipIfContains and SkipIfMatches mark the change as already applied; RequireContains lists
// markers that must be present for the rule to be attempted at all.
type Guard struct {
	SkipIfContains  []string
	SkipIfMatches   *regexp.Regexp
	RequireContains []string
}

func (guard Guard) evaluate(content string) (RuleStatus, bool) {
	for _, marker := range guard.SkipIfContains {
		if len(marker) > 0 && strings.Contains(content, marker) {
			return RuleStatusSkipped, true
		}
	}
	if guard.SkipIfMatches != nil && guard.SkipIfMatches.MatchString(content) {
		return RuleStatusSkipped, true
	}
	for _, marker := range guard.RequireContains {
		if len(marker) > 0 && !strings.Contains(content, marker) {
			return RuleStatusNotFound, true
		}
	}
	return "", false
}

// RegexRule replaces pattern matches with an expansion template using ${n} group references.
// Count limits the number of replaced matches; zero replaces every match.
type RegexRule struct {
	Label       string
	Pattern     *regexp.Regexp
	Replacement string
	Count       int
	Guard       Guard
}

// Name returns the rule label.
func (rule RegexRule) Name() string {
	return rule.Label
}

// Apply expands the replacement template for every selected match.
func (rule RegexRule) Apply(content string) (string, RuleResult) {
	if status, blocked := rule.Guard.evaluate(content); blocked {
		return content, RuleResult{Name: rule.Label, Status: status}
	}
	updated, matches := replaceMatches(rule.Pattern, content, rule.Count, func(submatches []int) string {
		return string(rule.Pattern.ExpandString(nil, rule.Replacement, content, submatches))
	})
	return updated, newRuleResult(rule.Label, matches)
}

// RegexFuncRule replaces pattern matches with the output of Replace, which receives the match
// followed by its capture groups. Replacement text is inserted verbatim.
type RegexFuncRule struct {
	Label   string
	Pattern *regexp.Regexp
	Replace func(groups []string) string
	Count   int
	Guard   Guard
}

// Name returns the rule label.
func (rule RegexFuncRule) Name() string {
	return rule.Label
}

// Apply computes the replacement for every selected match.
func (rule RegexFuncRule) Apply(content string) (string, RuleResult) {
	if status, blocked := rule.Guard.evaluate(content); blocked {
		return content, RuleResult{Name: rule.Label, Status: status}
	}
	updated, matches := replaceMatches(rule.Pattern, content, rule.Count, func(submatches []int) string {
		return rule.Replace(submatchGroups(content, submatches))
	})
	return updated, newRuleResult(rule.Label, matches)
}

// LiteralRule replaces exact occurrences of Old with New.
type LiteralRule struct {
	Label string
	Old   string
	New   string
	Count int
	Guard Guard
}

// Name returns the rule label.
func (rule LiteralRule) Name() string {
	return rule.Label
}

// Apply replaces the selected occurrences.
func (rule LiteralRule) Apply(content string) (string, RuleResult) {
	if status, blocked := rule.Guard.evaluate(content); blocked {
		return content, RuleResult{Name: rule.Label, Status: status}
	}
	if len(rule.Old) == 0 {
		return content, newRuleResult(rule.Label, 0)
	}
	occurrences := strings.Count(content, rule.Old)
	limit := -1
	if rule.Count > 0 {
		limit = rule.Count
		if occurrences > rule.Count {
			occurrences = rule.Count
		}
	}
	return strings.Replace(content, rule.Old, rule.New, limit), newRuleResult(rule.Label, occurrences)
}

// FuncRule delegates to Transform, which returns the new buffer and the number of changes it made.
type FuncRule struct {
	Label     string
	Transform func(content string) (string, int)
	Guard     Guard
}

// Name returns the rule label.
func (rule FuncRule) Name() string {
	return rule.Label
}

// Apply runs the transform.
func (rule FuncRule) Apply(content string) (string, RuleResult) {
	if status, blocked := rule.Guard.evaluate(content); blocked {
		return content, RuleResult{Name: rule.Label, Status: status}
	}
	if rule.Transform == nil {
		return content, newRuleResult(rule.Label, 0)
	}
	updated, changes := rule.Transform(content)
	return updated, newRuleResult(rule.Label, changes)
}

// FirstMatchRule tries Alternatives in order and applies only the first one that matches.
type FirstMatchRule struct {
	Label        string
	Alternatives []Rule
	Guard        Guard
}

// Name returns the rule label.
func (rule FirstMatchRule) Name() string {
	return rule.Label
}

// Apply runs the first matching alternative.
func (rule FirstMatchRule) Apply(content string) (string, RuleResult) {
	if status, blocked := rule.Guard.evaluate(content); blocked {
		return content, RuleResult{Name: rule.Label, Status: status}
	}
	status := RuleStatusNotFound
	for _, alternative := range rule.Alternatives {
		updated, result := alternative.Apply(content)
		switch result.Status {
		case RuleStatusApplied:
			return updated, RuleResult{Name: rule.Label, Status: RuleStatusApplied, Matches: result.Matches}
		case RuleStatusSkipped:
			status = RuleStatusSkipped
		}
	}
	return content, RuleResult{Name: rule.Label, Status: status}
}

// Apply runs rules in order, each on the output of the previous one.
func Apply(content string, rules []Rule) (string, []RuleResult) {
	results := make([]RuleResult, 0, len(rules))
	current := content
	for _, rule := range rules {
		updated, result := rule.Apply(current)
		if len(result.Name) == 0 {
			result.Name = rule.Name()
		}
		results = append(results, result)
		current = updated
	}
	return current, results
}

func newRuleResult(name string, matches int) RuleResult {
	if matches == 0 {
		return RuleResult{Name: name, Status: RuleStatusNotFound}
	}
	return RuleResult{Name: name, Status: RuleStatusApplied, Matches: matches}
}

func replaceMatches(pattern *regexp.Regexp, content string, count int, expand func(submatches []int) string) (string, int) {
	if pattern == nil {
		return content, 0
	}
	limit := -1
	if count > 0 {
		limit = count
	}
	matches := pattern.FindAllStringSubmatchIndex(content, limit)
	if len(matches) == 0 {
		return content, 0
	}

	var builder strings.Builder
	builder.Grow(len(content))
	lastIndex := 0
	for _, submatches := range matches {
		builder.WriteString(content[lastIndex:submatches[0]])
		builder.WriteString(expand(submatches))
		lastIndex = submatches[1]
	}
	builder.WriteString(content[lastIndex:])
	return builder.String(), len(matches)
}

func submatchGroups(content string, submatches []int) []string {
	groups := make([]string, len(submatches)/2)
	for index := range groups {
		start, end := submatches[2*index], submatches[2*index+1]
		if start < 0 || end < 0 {
			continue
		}
		groups[index] = content[start:end]
	}
	return groups
}
