package inspect

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MenuRegion names the part of the page a link belongs to.
type MenuRegion string

// Supported menu regions.
const (
	MenuRegionHeader MenuRegion = "header"
	MenuRegionFooter MenuRegion = "footer"
)

var menuRegionOrder = []MenuRegion{MenuRegionHeader, MenuRegionFooter}

// DefaultMenuLabels lists the link texts tracked by the menu inspection.
func DefaultMenuLabels() []string {
	return []string{"EMPLEO", "Agencia de Empleo", "Empleo"}
}

// MenuLinkCount counts the links with one text inside one region.
type MenuLinkCount struct {
	Region MenuRegion
	Text   string
	Count  int
}

// Duplicated reports whether the link appears more than once in its region.
func (count MenuLinkCount) Duplicated() bool {
	return count.Count > 1
}

type menuLinkKey struct {
	region MenuRegion
	text   string
}

// CountMenuLinks tokenizes content and counts anchors whose text equals one of labels.
// Anchors inside <footer> belong to the footer; anchors inside <header> or <nav> belong to
// the header; anything else is ignored. Text is compared after collapsing whitespace.
func CountMenuLinks(content string, labels []string) ([]MenuLinkCount, error) {
	tracked := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		tracked[label] = struct{}{}
	}

	counts := make(map[menuLinkKey]int)
	tokenizer := html.NewTokenizer(strings.NewReader(content))
	headerDepth := 0
	footerDepth := 0
	insideAnchor := false
	var anchorText strings.Builder

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if errors.Is(tokenizer.Err(), io.EOF) {
				return collectMenuLinks(counts, labels), nil
			}
			return nil, tokenizer.Err()
		case html.StartTagToken:
			tagName, _ := tokenizer.TagName()
			switch atom.Lookup(tagName) {
			case atom.Header, atom.Nav:
				headerDepth++
			case atom.Footer:
				footerDepth++
			case atom.A:
				insideAnchor = true
				anchorText.Reset()
			}
		case html.EndTagToken:
			tagName, _ := tokenizer.TagName()
			switch atom.Lookup(tagName) {
			case atom.Header, atom.Nav:
				if headerDepth > 0 {
					headerDepth--
				}
			case atom.Footer:
				if footerDepth > 0 {
					footerDepth--
				}
			case atom.A:
				if !insideAnchor {
					continue
				}
				insideAnchor = false
				text := strings.Join(strings.Fields(anchorText.String()), " ")
				if _, isTracked := tracked[text]; !isTracked {
					continue
				}
				switch {
				case footerDepth > 0:
					counts[menuLinkKey{region: MenuRegionFooter, text: text}]++
				case headerDepth > 0:
					counts[menuLinkKey{region: MenuRegionHeader, text: text}]++
				}
			}
		case html.TextToken:
			if insideAnchor {
				anchorText.Write(tokenizer.Text())
			}
		}
	}
}

func collectMenuLinks(counts map[menuLinkKey]int, labels []string) []MenuLinkCount {
	var links []MenuLinkCount
	for _, region := range menuRegionOrder {
		for _, label := range labels {
			count := counts[menuLinkKey{region: region, text: label}]
			if count == 0 {
				continue
			}
			links = append(links, MenuLinkCount{Region: region, Text: label, Count: count})
		}
	}
	return links
}
