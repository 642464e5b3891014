package inspect

import (
	"github.com/cepformacion/cepfix/internal/rewrite"
)

const contrastExcerptLengthConstant = 80

// ContrastIssue is one class attribute combining white text with a white or light background.
type ContrastIssue struct {
	Label  string
	Match  string
	Offset int
}

// Excerpt returns the first characters of the matched attribute followed by an ellipsis.
func (issue ContrastIssue) Excerpt() string {
	runes := []rune(issue.Match)
	if len(runes) > contrastExcerptLengthConstant {
		runes = runes[:contrastExcerptLengthConstant]
	}
	return string(runes) + "..."
}

// FindContrastIssues lists every contrast issue in content, grouped by pattern in inspection order.
func FindContrastIssues(content string) []ContrastIssue {
	var issues []ContrastIssue
	for _, contrastPattern := range rewrite.ContrastPatterns {
		for _, bounds := range contrastPattern.Pattern.FindAllStringIndex(content, -1) {
			issues = append(issues, ContrastIssue{
				Label:  contrastPattern.Label,
				Match:  content[bounds[0]:bounds[1]],
				Offset: bounds[0],
			})
		}
	}
	return issues
}
