package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	probeScriptTemplate = `(() => {
  const element = document.querySelector(%s);
  if (!element) { return { found: false, values: {} }; }
  const computed = window.getComputedStyle(element);
  const values = {};
  for (const property of %s) { values[property] = computed.getPropertyValue(property).trim(); }
  return { found: true, values: values };
})()`

	visibleScriptTemplate = `(() => {
  const element = document.querySelector(%s);
  if (!element) { return false; }
  const bounds = element.getBoundingClientRect();
  const computed = window.getComputedStyle(element);
  return bounds.width > 0 && bounds.height > 0 && computed.visibility !== 'hidden' && computed.display !== 'none';
})()`

	countScriptTemplate = `document.querySelectorAll(%s).length`

	textPresentScriptTemplate = `(() => !!document.body && document.body.innerText.includes(%s))()`

	elementWidthScriptTemplate = `(() => {
  const element = document.querySelector(%s);
  return element ? Math.round(element.getBoundingClientRect().width) : -1;
})()`

	bodyScrollWidthScriptConstant = `document.body ? document.body.scrollWidth : 0`

	wideElementsScriptTemplate = `(() => {
  const limit = window.innerWidth;
  const wide = [];
  for (const element of document.querySelectorAll('*')) {
    const width = element.getBoundingClientRect().width;
    if (width > limit) {
      const className = typeof element.className === 'string' ? element.className : '';
      wide.push({ tag: element.tagName, className: className.substring(0, %d), width: Math.round(width) });
    }
    if (wide.length >= %d) { break; }
  }
  return wide;
})()`

	linkTargetScriptTemplate = `(() => {
  const link = Array.from(document.querySelectorAll('a')).find((anchor) => anchor.innerText.includes(%s));
  if (!link) { return null; }
  const bounds = link.getBoundingClientRect();
  return { visible: bounds.width > 0 && bounds.height > 0, href: link.getAttribute('href') || '' };
})()`

	textXPathTemplate = `//%s[contains(normalize-space(.), "%s")]`

	stylesheetsScriptConstant = `Array.from(document.styleSheets).map((sheet) => sheet.href || 'inline')`

	styleAuditScriptConstant = `(() => {
  const read = (selector, properties) => {
    const element = document.querySelector(selector);
    const values = {};
    if (!element) { return values; }
    const computed = window.getComputedStyle(element);
    for (const property of properties) { values[property] = computed.getPropertyValue(property).trim(); }
    return values;
  };
  const root = window.getComputedStyle(document.documentElement);
  return {
    header: read('header', ['background-color', 'box-shadow', 'height', 'position']),
    footer: read('footer', ['background-color', 'color', 'padding']),
    body: read('body', ['font-family', 'font-size', 'line-height', 'background-color']),
    primaryColor: root.getPropertyValue('--color-primary').trim(),
    secondaryColor: root.getPropertyValue('--color-secondary').trim()
  };
})()`

	wideElementClassLimitConstant = 30
	wideElementCountLimitConstant = 5
	noneGridValueConstant         = "none"
)

// WideElement is an element whose rendered width exceeds the viewport.
type WideElement struct {
	Tag       string `json:"tag"`
	ClassName string `json:"className"`
	Width     int    `json:"width"`
}

// LinkTarget describes the first anchor whose text contains a label.
type LinkTarget struct {
	Visible bool   `json:"visible"`
	Href    string `json:"href"`
}

// StyleAudit captures the computed site chrome styles written by the visual audit.
type StyleAudit struct {
	Header         map[string]string `json:"header"`
	Footer         map[string]string `json:"footer"`
	Body           map[string]string `json:"body"`
	PrimaryColor   string            `json:"primaryColor"`
	SecondaryColor string            `json:"secondaryColor"`
}

// quoteScriptValue renders value as a JavaScript literal without HTML escaping so selectors stay readable.
func quoteScriptValue(value any) string {
	buffer := &bytes.Buffer{}
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	if encodeError := encoder.Encode(value); encodeError != nil {
		return strconv.Quote(fmt.Sprint(value))
	}
	return strings.TrimSpace(buffer.String())
}

func probeScript(probe Probe) string {
	properties := probe.Properties
	if properties == nil {
		properties = []string{}
	}
	return fmt.Sprintf(probeScriptTemplate, quoteScriptValue(probe.Selector), quoteScriptValue(properties))
}

func visibleScript(selector string) string {
	return fmt.Sprintf(visibleScriptTemplate, quoteScriptValue(selector))
}

func countScript(selector string) string {
	return fmt.Sprintf(countScriptTemplate, quoteScriptValue(selector))
}

func textPresentScript(text string) string {
	return fmt.Sprintf(textPresentScriptTemplate, quoteScriptValue(text))
}

func linkTargetScript(text string) string {
	return fmt.Sprintf(linkTargetScriptTemplate, quoteScriptValue(text))
}

// TextXPath selects elements with the given tag whose normalized text contains text.
func TextXPath(tag string, text string) string {
	return fmt.Sprintf(textXPathTemplate, tag, text)
}

func elementWidthScript(selector string) string {
	return fmt.Sprintf(elementWidthScriptTemplate, quoteScriptValue(selector))
}

func wideElementsScript() string {
	return fmt.Sprintf(wideElementsScriptTemplate, wideElementClassLimitConstant, wideElementCountLimitConstant)
}

// ColumnCount returns the number of tracks in a computed grid-template-columns value.
// A value of "none" or an empty value counts as a single column.
func ColumnCount(gridTemplateColumns string) int {
	trimmed := strings.TrimSpace(gridTemplateColumns)
	if len(trimmed) == 0 || trimmed == noneGridValueConstant {
		return 1
	}
	return len(strings.Fields(trimmed))
}

func truncateRunes(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}
